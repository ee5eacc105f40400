package driver

import (
	"github.com/ArquintL/silicon/internal/ast"
	"github.com/ArquintL/silicon/internal/functions"
	"github.com/ArquintL/silicon/internal/identifier"
	"github.com/ArquintL/silicon/internal/terms"
)

// recorderPass plays the execution engine's part of the contract: it walks
// the expressions of one phase and produces branch recorders holding the
// symbolic values the translator will look up — a value for every heap read
// and the context of every recursive call under an unfolding. Field reads
// become fresh opaque variables; a real executor would bind them to snapshot
// projections instead, the downstream machinery is identical.
type recorderPass struct {
	prog *ast.Program
	fn   ast.FuncID
	ax   *functions.Axiomatizer
	ids  *identifier.Factory
}

// specRecorders records the well-definedness phase: preconditions and
// postconditions as one branch.
func (rp *recorderPass) specRecorders() []*functions.Recorder {
	r := functions.NewRecorder()
	fn := &rp.prog.Functions[rp.fn]
	for _, pre := range fn.Pres {
		rp.walk(pre, r, unfoldScope{})
	}
	for _, post := range fn.Posts {
		rp.walk(post, r, unfoldScope{})
	}
	return []*functions.Recorder{r}
}

// bodyRecorders records the verification phase. A conditional body splits
// into one branch per arm, sharing the condition's recordings.
func (rp *recorderPass) bodyRecorders() []*functions.Recorder {
	fn := &rp.prog.Functions[rp.fn]
	if fn.Body == ast.NoExprID {
		return nil
	}
	root := rp.prog.Expr(fn.Body)
	if root.Kind == ast.ExprTernary && root.Op == ast.OpCond {
		thenR := functions.NewRecorder()
		rp.walk(root.X, thenR, unfoldScope{})
		rp.walk(root.Y, thenR, unfoldScope{})
		elseR := functions.NewRecorder()
		rp.walk(root.X, elseR, unfoldScope{})
		rp.walk(root.Z, elseR, unfoldScope{})
		return []*functions.Recorder{thenR, elseR}
	}
	r := functions.NewRecorder()
	rp.walk(fn.Body, r, unfoldScope{})
	return []*functions.Recorder{r}
}

// unfoldScope is the innermost enclosing unfolding, if any.
type unfoldScope struct {
	active   bool
	pred     ast.PredID
	snapshot terms.Term
	args     []terms.Term
}

func (rp *recorderPass) walk(id ast.ExprID, r *functions.Recorder, scope unfoldScope) {
	if id == ast.NoExprID {
		return
	}
	e := rp.prog.Expr(id)
	switch e.Kind {
	case ast.ExprAcc:
		// разрешение, не чтение — значение не нужно
		return

	case ast.ExprFieldAccess:
		if _, ok := r.LocationValue(id); !ok {
			field := ast.FieldID(e.Ref)
			sort := terms.SortFromType(rp.prog.Types, rp.prog.Fields[field].Type)
			v := terms.Var{
				Name: rp.ids.Fresh(rp.prog.FieldName(field)),
				S:    sort,
			}
			r.RecordLocation(id, v)
			// значение свободно в аксиомах, его нужно объявить
			r.AddRepresentative(functions.Representative{V: v})
		}
		rp.walk(e.X, r, scope)
		return

	case ast.ExprUnfolding:
		pred := rp.prog.Expr(e.X)
		snap := terms.Var{Name: rp.ids.Fresh("s"), S: terms.SnapSort}
		r.AddRepresentative(functions.Representative{V: snap})
		inner := unfoldScope{
			active:   true,
			pred:     ast.PredID(pred.Ref),
			snapshot: snap,
			args:     rp.symbolicArgs(pred.Args, r),
		}
		for _, arg := range pred.Args {
			rp.walk(arg, r, scope)
		}
		rp.walk(e.Z, r, inner)
		return

	case ast.ExprFuncApp:
		if scope.active && ast.FuncID(e.Ref) == rp.fn {
			r.RecordRecursiveCall(functions.RecursiveCall{
				App:       id,
				Predicate: scope.pred,
				Snapshot:  scope.snapshot,
				Args:      scope.args,
			})
		}
		for _, arg := range e.Args {
			rp.walk(arg, r, scope)
		}
		return
	}

	rp.walk(e.X, r, scope)
	rp.walk(e.Y, r, scope)
	rp.walk(e.Z, r, scope)
	for _, arg := range e.Args {
		rp.walk(arg, r, scope)
	}
}

// symbolicArgs produces prover terms for predicate arguments: formals map to
// their fresh variables, literals to literals, anything else to an opaque
// fresh variable of the right sort (registered for declaration).
func (rp *recorderPass) symbolicArgs(args []ast.ExprID, r *functions.Recorder) []terms.Term {
	out := make([]terms.Term, 0, len(args))
	for _, id := range args {
		e := rp.prog.Expr(id)
		switch e.Kind {
		case ast.ExprVar:
			if v, ok := rp.ax.FormalByName(rp.prog.Strings.MustLookup(e.Name)); ok {
				out = append(out, v)
				continue
			}
		case ast.ExprIntLit:
			out = append(out, terms.IntLit{Val: e.IntVal})
			continue
		case ast.ExprBoolLit:
			out = append(out, terms.BoolLit{Val: e.BoolVal})
			continue
		case ast.ExprNullLit:
			out = append(out, terms.NullRef())
			continue
		}
		v := terms.Var{
			Name: rp.ids.Fresh("arg"),
			S:    terms.SortFromType(rp.prog.Types, e.Type),
		}
		r.AddRepresentative(functions.Representative{V: v})
		out = append(out, v)
	}
	return out
}
