package functions

import (
	"github.com/ArquintL/silicon/internal/ast"
	"github.com/ArquintL/silicon/internal/terms"
	"github.com/ArquintL/silicon/internal/types"
)

// ExprTranslator converts assertion expressions to prover terms against an
// axiomatizer's merged state. Heap reads resolve through the recorded
// location values; nested applications resolve through the recorded
// application values, falling back to the callee's limited symbol so the
// produced axiom never embeds a full application that could feed its own
// instantiation. Permission assertions (acc, predicate instances) are
// permission-only at this level and translate to true. old expressions are
// outside the fragment.
type ExprTranslator struct{}

func (ExprTranslator) Translate(prog *ast.Program, e ast.ExprID, ax *Axiomatizer) (terms.Term, bool) {
	return translate(prog, e, ax)
}

func translate(prog *ast.Program, id ast.ExprID, ax *Axiomatizer) (terms.Term, bool) {
	e := prog.Expr(id)
	switch e.Kind {
	case ast.ExprIntLit:
		return terms.IntLit{Val: e.IntVal}, true

	case ast.ExprBoolLit:
		return terms.BoolLit{Val: e.BoolVal}, true

	case ast.ExprNullLit:
		return terms.NullRef(), true

	case ast.ExprVar:
		v, ok := ax.FormalByName(prog.Strings.MustLookup(e.Name))
		if !ok {
			return nil, false
		}
		return v, true

	case ast.ExprResult:
		return ax.ResultVar(), true

	case ast.ExprUnary:
		return translateUnary(prog, e, ax)

	case ast.ExprBinary:
		return translateBinary(prog, e, ax)

	case ast.ExprTernary:
		return translateTernary(prog, e, ax)

	case ast.ExprFieldAccess:
		if !prog.Types.Concrete(e.Type) {
			return nil, false
		}
		return ax.MustLocationValue(id, terms.SortFromType(prog.Types, e.Type)), true

	case ast.ExprAcc, ast.ExprPredApp:
		return terms.BoolLit{Val: true}, true

	case ast.ExprFuncApp:
		return translateApp(prog, id, e, ax)

	case ast.ExprUnfolding:
		// the permission exchange is execution's business; the value of an
		// unfolding is the value of its inner expression
		return translate(prog, e.Z, ax)

	case ast.ExprSeqEmpty:
		elem, ok := seqElemSort(prog, e.Type)
		if !ok {
			return nil, false
		}
		return terms.App{Fun: terms.SeqEmpty(elem)}, true

	case ast.ExprOld:
		return nil, false

	default:
		return nil, false
	}
}

func translateUnary(prog *ast.Program, e *ast.Expr, ax *Axiomatizer) (terms.Term, bool) {
	x, ok := translate(prog, e.X, ax)
	if !ok {
		return nil, false
	}
	switch e.Op {
	case ast.OpNot:
		return terms.Not{X: x}, true
	case ast.OpNeg:
		return terms.Bin{Op: terms.OpMinus, X: terms.IntLit{Val: 0}, Y: x}, true
	case ast.OpSeqLen:
		elem, ok := seqElemSort(prog, prog.Expr(e.X).Type)
		if !ok {
			return nil, false
		}
		return terms.App{Fun: terms.SeqLength(elem), Args: []terms.Term{x}}, true
	case ast.OpSeqSingleton:
		elem, ok := seqElemSort(prog, e.Type)
		if !ok {
			return nil, false
		}
		return terms.App{Fun: terms.SeqSingleton(elem), Args: []terms.Term{x}}, true
	default:
		return nil, false
	}
}

func translateBinary(prog *ast.Program, e *ast.Expr, ax *Axiomatizer) (terms.Term, bool) {
	x, ok := translate(prog, e.X, ax)
	if !ok {
		return nil, false
	}
	y, ok := translate(prog, e.Y, ax)
	if !ok {
		return nil, false
	}
	switch e.Op {
	case ast.OpAdd:
		return terms.Bin{Op: terms.OpPlus, X: x, Y: y}, true
	case ast.OpSub:
		return terms.Bin{Op: terms.OpMinus, X: x, Y: y}, true
	case ast.OpMul:
		return terms.Bin{Op: terms.OpTimes, X: x, Y: y}, true
	case ast.OpDiv:
		return terms.Bin{Op: terms.OpDiv, X: x, Y: y}, true
	case ast.OpMod:
		return terms.Bin{Op: terms.OpMod, X: x, Y: y}, true
	case ast.OpAnd:
		return terms.And{Xs: []terms.Term{x, y}}, true
	case ast.OpOr:
		return terms.Or{Xs: []terms.Term{x, y}}, true
	case ast.OpImplies:
		return terms.Implies{X: x, Y: y}, true
	case ast.OpEq, ast.OpNe:
		var eq terms.Term
		if elem, isSeq := seqElemSort(prog, prog.Expr(e.X).Type); isSeq {
			// extensional equality on sequences goes through Seq_equal so
			// the element-wise axiom can fire
			eq = terms.App{Fun: terms.SeqEqual(elem), Args: []terms.Term{x, y}}
		} else {
			eq = terms.Eq{X: x, Y: y}
		}
		if e.Op == ast.OpNe {
			return terms.Not{X: eq}, true
		}
		return eq, true
	case ast.OpLt:
		return terms.Bin{Op: terms.OpLess, X: x, Y: y}, true
	case ast.OpLe:
		return terms.Bin{Op: terms.OpAtMost, X: x, Y: y}, true
	case ast.OpGt:
		return terms.Bin{Op: terms.OpGreater, X: x, Y: y}, true
	case ast.OpGe:
		return terms.Bin{Op: terms.OpAtLeast, X: x, Y: y}, true
	case ast.OpSeqAppend:
		elem, ok := seqElemSort(prog, e.Type)
		if !ok {
			return nil, false
		}
		return terms.App{Fun: terms.SeqAppend(elem), Args: []terms.Term{x, y}}, true
	case ast.OpSeqIndex:
		elem, ok := seqElemSort(prog, prog.Expr(e.X).Type)
		if !ok {
			return nil, false
		}
		return terms.App{Fun: terms.SeqIndex(elem), Args: []terms.Term{x, y}}, true
	case ast.OpSeqTake:
		elem, ok := seqElemSort(prog, e.Type)
		if !ok {
			return nil, false
		}
		return terms.App{Fun: terms.SeqTake(elem), Args: []terms.Term{x, y}}, true
	case ast.OpSeqDrop:
		elem, ok := seqElemSort(prog, e.Type)
		if !ok {
			return nil, false
		}
		return terms.App{Fun: terms.SeqDrop(elem), Args: []terms.Term{x, y}}, true
	case ast.OpSeqContains:
		// operands are (sequence, element)
		elem, ok := seqElemSort(prog, prog.Expr(e.X).Type)
		if !ok {
			return nil, false
		}
		return terms.App{Fun: terms.SeqContains(elem), Args: []terms.Term{x, y}}, true
	default:
		return nil, false
	}
}

func translateTernary(prog *ast.Program, e *ast.Expr, ax *Axiomatizer) (terms.Term, bool) {
	x, ok := translate(prog, e.X, ax)
	if !ok {
		return nil, false
	}
	y, ok := translate(prog, e.Y, ax)
	if !ok {
		return nil, false
	}
	z, ok := translate(prog, e.Z, ax)
	if !ok {
		return nil, false
	}
	switch e.Op {
	case ast.OpCond:
		return terms.Ite{C: x, X: y, Y: z}, true
	case ast.OpSeqUpdate:
		elem, ok := seqElemSort(prog, e.Type)
		if !ok {
			return nil, false
		}
		return terms.App{Fun: terms.SeqUpdate(elem), Args: []terms.Term{x, y, z}}, true
	default:
		return nil, false
	}
}

// translateApp prefers the value execution recorded for this application
// site; absent one, it applies the callee's limited symbol over the current
// snapshot and the translated arguments.
func translateApp(prog *ast.Program, id ast.ExprID, e *ast.Expr, ax *Axiomatizer) (terms.Term, bool) {
	if v, ok := ax.ApplicationValue(id); ok {
		return v, true
	}
	args := []terms.Term{ax.Snapshot()}
	for _, arg := range e.Args {
		t, ok := translate(prog, arg, ax)
		if !ok {
			return nil, false
		}
		args = append(args, t)
	}
	callee := FunctionSymbols(prog, ast.FuncID(e.Ref))
	return terms.App{Fun: callee.Limited, Args: args}, true
}

func seqElemSort(prog *ast.Program, id types.TypeID) (terms.Sort, bool) {
	if !prog.Types.Concrete(id) {
		return terms.Sort{}, false
	}
	t := prog.Types.MustLookup(id)
	if t.Kind != types.KindSeq {
		return terms.Sort{}, false
	}
	return terms.SortFromType(prog.Types, t.Elem), true
}
