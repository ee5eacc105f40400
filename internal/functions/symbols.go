package functions

import (
	"github.com/ArquintL/silicon/internal/ast"
	"github.com/ArquintL/silicon/internal/terms"
)

// SymbolSet is the three-symbol encoding of one heap-dependent function.
//
// Full takes the heap snapshot plus the arguments; its axiom carries the
// function's actual meaning. Limited shares the signature and is provably
// equal to Full but is never itself unfolded further, so callers can reason
// about the value without re-expanding a recursive body on every match.
// Stateless drops the snapshot and serves purely as a trigger anchor tied
// to the logical arguments.
type SymbolSet struct {
	Full      terms.FunctionSymbol
	Limited   terms.FunctionSymbol
	Stateless terms.FunctionSymbol
}

// FunctionSymbols derives the symbol triple for a program function.
func FunctionSymbols(prog *ast.Program, id ast.FuncID) SymbolSet {
	fn := &prog.Functions[id]
	name := prog.FunctionName(id)
	result := terms.SortFromType(prog.Types, fn.Result)

	argSorts := make([]terms.Sort, 0, len(fn.Params))
	for _, p := range fn.Params {
		argSorts = append(argSorts, terms.SortFromType(prog.Types, p.Type))
	}
	heapArgs := append([]terms.Sort{terms.SnapSort}, argSorts...)

	return SymbolSet{
		Full:      terms.FunctionSymbol{Name: name, Args: heapArgs, Result: result},
		Limited:   terms.FunctionSymbol{Name: name + "%limited", Args: heapArgs, Result: result},
		Stateless: terms.FunctionSymbol{Name: name + "%stateless", Args: argSorts, Result: terms.BoolSort},
	}
}

// PredicateTriggerSymbol is the dedicated trigger function of a predicate,
// applied to the predicate's snapshot and arguments at unfold sites.
func PredicateTriggerSymbol(prog *ast.Program, id ast.PredID) terms.FunctionSymbol {
	pred := &prog.Predicates[id]
	args := make([]terms.Sort, 0, len(pred.Params)+1)
	args = append(args, terms.SnapSort)
	for _, p := range pred.Params {
		args = append(args, terms.SortFromType(prog.Types, p.Type))
	}
	return terms.FunctionSymbol{
		Name:   prog.PredicateName(id) + "%trigger",
		Args:   args,
		Result: terms.BoolSort,
	}
}
