package ast

import (
	"testing"

	"github.com/ArquintL/silicon/internal/types"
)

// buildListProgram constructs
//
//	field next: Ref
//	field val: Int
//	function sum(x: Ref): Int = unfolding list(x) in x.val + sum(x.next)
//	predicate list(x: Ref)
func buildListProgram(t *testing.T) (*Program, FuncID) {
	t.Helper()
	p := NewProgram()
	bi := p.Types.Builtins()

	next := p.AddField(Field{Name: p.Strings.Intern("next"), Type: bi.Ref})
	val := p.AddField(Field{Name: p.Strings.Intern("val"), Type: bi.Int})

	x := p.Strings.Intern("x")
	pred := p.AddPredicate(Predicate{
		Name:   p.Strings.Intern("list"),
		Params: []Param{{Name: x, Type: bi.Ref}},
	})

	fnID := FuncID(len(p.Functions)) // id подбирается до добавления: тело ссылается на себя
	xRef := p.NewExpr(Expr{Kind: ExprVar, Name: x, Type: bi.Ref})
	xVal := p.NewExpr(Expr{Kind: ExprFieldAccess, X: xRef, Ref: uint32(val), Type: bi.Int})
	xNext := p.NewExpr(Expr{Kind: ExprFieldAccess, X: xRef, Ref: uint32(next), Type: bi.Ref})
	rec := p.NewExpr(Expr{Kind: ExprFuncApp, Ref: uint32(fnID), Args: []ExprID{xNext}, Type: bi.Int})
	sum := p.NewExpr(Expr{Kind: ExprBinary, Op: OpAdd, X: xVal, Y: rec, Type: bi.Int})
	inst := p.NewExpr(Expr{Kind: ExprPredApp, Ref: uint32(pred), Args: []ExprID{xRef}, Type: bi.Bool})
	body := p.NewExpr(Expr{Kind: ExprUnfolding, X: inst, Z: sum, Type: bi.Int})
	preInst := p.NewExpr(Expr{Kind: ExprPredApp, Ref: uint32(pred), Args: []ExprID{xRef}, Type: bi.Bool})

	got := p.AddFunction(Function{
		Name:   p.Strings.Intern("sum"),
		Params: []Param{{Name: x, Type: bi.Ref}},
		Result: bi.Int,
		Pres:   []ExprID{preInst},
		Body:   body,
	})
	if got != fnID {
		t.Fatalf("function id drift: got %d, want %d", got, fnID)
	}
	return p, fnID
}

func TestWalkTypesVisitsDeclsAndExprs(t *testing.T) {
	p, _ := buildListProgram(t)
	bi := p.Types.Builtins()
	counts := make(map[types.TypeID]int)
	p.WalkTypes(func(id types.TypeID) { counts[id]++ })
	if counts[bi.Int] == 0 || counts[bi.Ref] == 0 || counts[bi.Bool] == 0 {
		t.Fatalf("expected Int, Ref and Bool occurrences, got %v", counts)
	}
}

func TestCallGraphHeights(t *testing.T) {
	p, sumID := buildListProgram(t)
	bi := p.Types.Builtins()

	// g() = sum(null): высота на 1 больше
	null := p.NewExpr(Expr{Kind: ExprNullLit, Type: bi.Ref})
	call := p.NewExpr(Expr{Kind: ExprFuncApp, Ref: uint32(sumID), Args: []ExprID{null}, Type: bi.Int})
	gID := p.AddFunction(Function{
		Name:   p.Strings.Intern("g"),
		Result: bi.Int,
		Body:   call,
	})

	heights := p.CallGraphHeights()
	if heights[sumID] != 0 {
		t.Fatalf("self-recursive leaf must have height 0, got %d", heights[sumID])
	}
	if heights[gID] != 1 {
		t.Fatalf("caller height: got %d, want 1", heights[gID])
	}
}

// buildMutualPair constructs `a(n) = b(n)` and `b(n) = a(n)` in the given
// order, returning the two ids in declaration order.
func buildMutualPair(p *Program, first, second string) (FuncID, FuncID) {
	bi := p.Types.Builtins()
	n := p.Strings.Intern("n")
	firstID := FuncID(len(p.Functions))
	secondID := firstID + 1

	add := func(name string, callee FuncID) {
		arg := p.NewExpr(Expr{Kind: ExprVar, Name: n, Type: bi.Int})
		call := p.NewExpr(Expr{Kind: ExprFuncApp, Ref: uint32(callee), Args: []ExprID{arg}, Type: bi.Int})
		p.AddFunction(Function{
			Name:   p.Strings.Intern(name),
			Params: []Param{{Name: n, Type: bi.Int}},
			Result: bi.Int,
			Body:   call,
		})
	}
	add(first, secondID)
	add(second, firstID)
	return firstID, secondID
}

func TestMutualRecursionSharesHeight(t *testing.T) {
	// обе ориентации: высота не должна зависеть от порядка объявления
	for _, names := range [][2]string{{"even", "odd"}, {"odd", "even"}} {
		p := NewProgram()
		bi := p.Types.Builtins()
		a, b := buildMutualPair(p, names[0], names[1])

		arg := p.NewExpr(Expr{Kind: ExprIntLit, IntVal: 2, Type: bi.Int})
		call := p.NewExpr(Expr{Kind: ExprFuncApp, Ref: uint32(a), Args: []ExprID{arg}, Type: bi.Int})
		caller := p.AddFunction(Function{
			Name:   p.Strings.Intern("check"),
			Result: bi.Int,
			Body:   call,
		})

		heights := p.CallGraphHeights()
		if heights[a] != heights[b] {
			t.Fatalf("%s/%s: cycle members must share one height, got %d and %d",
				names[0], names[1], heights[a], heights[b])
		}
		if heights[a] != 0 {
			t.Fatalf("leaf cycle must have height 0, got %d", heights[a])
		}
		if heights[caller] != 1 {
			t.Fatalf("caller of the cycle: got %d, want 1", heights[caller])
		}
	}
}

func TestIsRecursive(t *testing.T) {
	p, sumID := buildListProgram(t)
	if !p.IsRecursive(sumID) {
		t.Fatalf("sum is recursive")
	}
}

func TestWalkExprPrune(t *testing.T) {
	p, sumID := buildListProgram(t)
	body := p.Functions[sumID].Body
	var n int
	p.WalkExpr(body, func(_ ExprID, e *Expr) bool {
		n++
		return e.Kind != ExprUnfolding // не заходить внутрь unfolding
	})
	if n != 1 {
		t.Fatalf("prune failed, visited %d nodes", n)
	}
}
