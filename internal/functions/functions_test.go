package functions

import (
	"strings"
	"testing"

	"github.com/ArquintL/silicon/internal/ast"
	"github.com/ArquintL/silicon/internal/diag"
	"github.com/ArquintL/silicon/internal/identifier"
	"github.com/ArquintL/silicon/internal/terms"
)

// absProgram builds: function abs(x: Int): Int
//
//	requires true
//	ensures  result >= 0
//	{ x < 0 ? 0 - x : x }
func absProgram() (*ast.Program, ast.FuncID) {
	p := ast.NewProgram()
	intT := p.Types.Builtins().Int
	x := func() ast.ExprID {
		return p.NewExpr(ast.Expr{Kind: ast.ExprVar, Name: p.Strings.Intern("x"), Type: intT})
	}
	zero := func() ast.ExprID {
		return p.NewExpr(ast.Expr{Kind: ast.ExprIntLit, IntVal: 0, Type: intT})
	}
	pre := p.NewExpr(ast.Expr{Kind: ast.ExprBoolLit, BoolVal: true, Type: p.Types.Builtins().Bool})
	post := p.NewExpr(ast.Expr{
		Kind: ast.ExprBinary, Op: ast.OpGe, Type: p.Types.Builtins().Bool,
		X: p.NewExpr(ast.Expr{Kind: ast.ExprResult, Type: intT}),
		Y: zero(),
	})
	body := p.NewExpr(ast.Expr{
		Kind: ast.ExprTernary, Op: ast.OpCond, Type: intT,
		X: p.NewExpr(ast.Expr{Kind: ast.ExprBinary, Op: ast.OpLt, Type: p.Types.Builtins().Bool, X: x(), Y: zero()}),
		Y: p.NewExpr(ast.Expr{Kind: ast.ExprBinary, Op: ast.OpSub, Type: intT, X: zero(), Y: x()}),
		Z: x(),
	})
	id := p.AddFunction(ast.Function{
		Name:   p.Strings.Intern("abs"),
		Params: []ast.Param{{Name: p.Strings.Intern("x"), Type: intT}},
		Result: intT,
		Pres:   []ast.ExprID{pre},
		Posts:  []ast.ExprID{post},
		Body:   body,
	})
	return p, id
}

// listProgram builds a linked list with a recursive length function:
//
//	field next: Ref
//	predicate list(xs: Ref)
//	function length(xs: Ref): Int
//	  requires list(xs)
//	  ensures  result >= 0
//	  { xs == null ? 0 : unfolding list(xs) in 1 + length(xs.next) }
func listProgram() (*ast.Program, ast.FuncID, ast.PredID, ast.ExprID) {
	p := ast.NewProgram()
	intT := p.Types.Builtins().Int
	boolT := p.Types.Builtins().Bool
	refT := p.Types.Builtins().Ref

	next := p.AddField(ast.Field{Name: p.Strings.Intern("next"), Type: refT})
	list := p.AddPredicate(ast.Predicate{
		Name:   p.Strings.Intern("list"),
		Params: []ast.Param{{Name: p.Strings.Intern("xs"), Type: refT}},
	})

	xs := func() ast.ExprID {
		return p.NewExpr(ast.Expr{Kind: ast.ExprVar, Name: p.Strings.Intern("xs"), Type: refT})
	}
	pre := p.NewExpr(ast.Expr{Kind: ast.ExprPredApp, Ref: uint32(list), Type: boolT, Args: []ast.ExprID{xs()}})
	post := p.NewExpr(ast.Expr{
		Kind: ast.ExprBinary, Op: ast.OpGe, Type: boolT,
		X: p.NewExpr(ast.Expr{Kind: ast.ExprResult, Type: intT}),
		Y: p.NewExpr(ast.Expr{Kind: ast.ExprIntLit, IntVal: 0, Type: intT}),
	})

	nextAccess := p.NewExpr(ast.Expr{Kind: ast.ExprFieldAccess, Ref: uint32(next), Type: refT, X: xs()})
	// Ref 0 is the function being declared below; the arena does not care
	// that the declaration comes after its uses.
	recCall := p.NewExpr(ast.Expr{Kind: ast.ExprFuncApp, Ref: 0, Type: intT, Args: []ast.ExprID{nextAccess}})
	unfolding := p.NewExpr(ast.Expr{
		Kind: ast.ExprUnfolding, Type: intT,
		X: p.NewExpr(ast.Expr{Kind: ast.ExprPredApp, Ref: uint32(list), Type: boolT, Args: []ast.ExprID{xs()}}),
		Z: p.NewExpr(ast.Expr{
			Kind: ast.ExprBinary, Op: ast.OpAdd, Type: intT,
			X: p.NewExpr(ast.Expr{Kind: ast.ExprIntLit, IntVal: 1, Type: intT}),
			Y: recCall,
		}),
	})
	body := p.NewExpr(ast.Expr{
		Kind: ast.ExprTernary, Op: ast.OpCond, Type: intT,
		X: p.NewExpr(ast.Expr{
			Kind: ast.ExprBinary, Op: ast.OpEq, Type: boolT,
			X: xs(),
			Y: p.NewExpr(ast.Expr{Kind: ast.ExprNullLit, Type: refT}),
		}),
		Y: p.NewExpr(ast.Expr{Kind: ast.ExprIntLit, IntVal: 0, Type: intT}),
		Z: unfolding,
	})

	fn := p.AddFunction(ast.Function{
		Name:   p.Strings.Intern("length"),
		Params: []ast.Param{{Name: p.Strings.Intern("xs"), Type: refT}},
		Result: intT,
		Pres:   []ast.ExprID{pre},
		Posts:  []ast.ExprID{post},
		Body:   body,
	})
	return p, fn, list, nextAccess
}

func newAx(p *ast.Program, fn ast.FuncID) *Axiomatizer {
	return NewAxiomatizer(p, fn, 0, nil, identifier.NewFactory(), ExprTranslator{}, 16)
}

func mustForall(t *testing.T, term terms.Term) terms.Forall {
	t.Helper()
	fa, ok := term.(terms.Forall)
	if !ok {
		t.Fatalf("expected a quantified axiom, got %T", term)
	}
	return fa
}

func appName(t *testing.T, term terms.Term) string {
	t.Helper()
	app, ok := term.(terms.App)
	if !ok {
		t.Fatalf("expected an application, got %T", term)
	}
	return app.Fun.Name
}

func TestMergeKeepsFirstSeenLocationValue(t *testing.T) {
	a, b := NewRecorder(), NewRecorder()
	a.RecordLocation(7, terms.IntLit{Val: 1})
	b.RecordLocation(7, terms.IntLit{Val: 2})
	b.RecordLocation(9, terms.IntLit{Val: 3})

	m := Merge(a, b)
	if v, _ := m.LocationValue(7); v.(terms.IntLit).Val != 1 {
		t.Fatalf("a-then-b order must keep a's value, got %v", v)
	}
	if v, _ := m.LocationValue(9); v.(terms.IntLit).Val != 3 {
		t.Fatalf("b-only entry lost: %v", v)
	}
}

func TestMergeDeduplicatesFreshSymbolsByName(t *testing.T) {
	a, b := NewRecorder(), NewRecorder()
	sum := SummaryFunction{Fun: terms.FunctionSymbol{Name: "$FVF.next@0", Result: terms.RefSort}}
	a.AddFieldSummary(sum)
	b.AddFieldSummary(sum)
	b.AddFieldSummary(SummaryFunction{Fun: terms.FunctionSymbol{Name: "$FVF.next@1", Result: terms.RefSort}})

	m := Merge(a, b)
	if len(m.fieldSummaries) != 2 {
		t.Fatalf("expected 2 distinct summaries, got %d", len(m.fieldSummaries))
	}
	if m.fieldSummaries[0].Fun.Name != "$FVF.next@0" || m.fieldSummaries[1].Fun.Name != "$FVF.next@1" {
		t.Fatalf("dedup must preserve first-seen order: %v", m.fieldSummaries)
	}
}

func TestMergeAllOfNothingIsNeutral(t *testing.T) {
	m := MergeAll(nil)
	if m.locations.Len() != 0 || len(m.failures) != 0 {
		t.Fatalf("empty fold must yield the neutral recorder")
	}

	r := NewRecorder()
	r.RecordApplication(3, terms.BoolLit{Val: true})
	left := Merge(m, r)
	if v, ok := left.ApplicationValue(3); !ok || !v.(terms.BoolLit).Val {
		t.Fatalf("neutral element changed the recorder: %v ok=%v", v, ok)
	}
}

func TestMergeIsAssociativeOnMaps(t *testing.T) {
	mk := func(at ast.ExprID, v int64) *Recorder {
		r := NewRecorder()
		r.RecordLocation(at, terms.IntLit{Val: v})
		return r
	}
	a, b, c := mk(1, 10), mk(1, 20), mk(2, 30)

	left := Merge(Merge(a, b), c)
	right := Merge(a, Merge(b, c))
	for _, at := range []ast.ExprID{1, 2} {
		lv, _ := left.LocationValue(at)
		rv, _ := right.LocationValue(at)
		if lv.(terms.IntLit).Val != rv.(terms.IntLit).Val {
			t.Fatalf("associativity broken at %d: %v vs %v", at, lv, rv)
		}
	}
}

func TestLimitedAxiomTriggersOnFullApplicationOnly(t *testing.T) {
	p, fn := absProgram()
	ax := newAx(p, fn)

	fa := mustForall(t, ax.LimitedAxiom())
	if len(fa.Triggers) != 1 || len(fa.Triggers[0].Terms) != 1 {
		t.Fatalf("limited axiom must carry exactly one single-term trigger, got %v", fa.Triggers)
	}
	if got := appName(t, fa.Triggers[0].Terms[0]); got != "abs" {
		t.Fatalf("trigger must be the full application, got %q", got)
	}
	eq, ok := fa.Body.(terms.Eq)
	if !ok {
		t.Fatalf("limited axiom body must be an equality, got %T", fa.Body)
	}
	if appName(t, eq.X) != "abs%limited" || appName(t, eq.Y) != "abs" {
		t.Fatalf("body must equate limited and full, got %s == %s", appName(t, eq.X), appName(t, eq.Y))
	}
}

func TestTriggerAxiomAnchorsStatelessOnFull(t *testing.T) {
	p, fn := absProgram()
	ax := newAx(p, fn)

	fa := mustForall(t, ax.TriggerAxiom())
	if got := appName(t, fa.Body); got != "abs%stateless" {
		t.Fatalf("trigger axiom body: got %q", got)
	}
	if got := appName(t, fa.Triggers[0].Terms[0]); got != "abs" {
		t.Fatalf("trigger axiom must fire on the full application, got %q", got)
	}
}

func TestAdvancePastVerificationPhasePanics(t *testing.T) {
	p, fn := absProgram()
	ax := newAx(p, fn)
	ax.AdvancePhase(nil)
	ax.AdvancePhase(nil)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic advancing past the verification phase")
		}
	}()
	ax.AdvancePhase(nil)
}

func TestPhaseGuardedAccessorsPanicEarly(t *testing.T) {
	for name, read := range map[string]func(*Axiomatizer){
		"TranslatedPres":    func(ax *Axiomatizer) { ax.TranslatedPres() },
		"PostAxiom":         func(ax *Axiomatizer) { ax.PostAxiom() },
		"DefinitionalAxiom": func(ax *Axiomatizer) { ax.DefinitionalAxiom() },
		"PredicateTriggers": func(ax *Axiomatizer) { ax.PredicateTriggers() },
	} {
		p, fn := absProgram()
		ax := newAx(p, fn)
		if name == "DefinitionalAxiom" || name == "PredicateTriggers" {
			ax.AdvancePhase(nil) // phase 1 is still too early for these
		}
		func() {
			defer func() {
				if recover() == nil {
					t.Fatalf("%s must panic before its phase", name)
				}
			}()
			read(ax)
		}()
	}
}

func TestPostAxiomBindsResultToLimitedApplication(t *testing.T) {
	p, fn := absProgram()
	ax := newAx(p, fn)
	ax.AdvancePhase(nil)

	axm, ok := ax.PostAxiom()
	if !ok {
		t.Fatalf("function with a postcondition must yield a post axiom")
	}
	fa := mustForall(t, axm)
	let, ok := fa.Body.(terms.Let)
	if !ok {
		t.Fatalf("post axiom body must be a let binding, got %T", fa.Body)
	}
	if !strings.HasPrefix(let.Var.Name, "result") {
		t.Fatalf("let must bind the result variable, got %q", let.Var.Name)
	}
	if got := appName(t, let.Val); got != "abs%limited" {
		t.Fatalf("result must be bound to the limited application, got %q", got)
	}
	if got := appName(t, fa.Triggers[0].Terms[0]); got != "abs%limited" {
		t.Fatalf("post axiom trigger must be the limited application, got %q", got)
	}
}

func TestNoPostconditionsMeansNoPostAxiom(t *testing.T) {
	p, fn := absProgram()
	p.Functions[fn].Posts = nil
	ax := newAx(p, fn)
	ax.AdvancePhase(nil)
	if _, ok := ax.PostAxiom(); ok {
		t.Fatalf("no postconditions must yield no post axiom")
	}
}

func TestDefinitionalAxiomOfNonRecursiveFunction(t *testing.T) {
	p, fn := absProgram()
	ax := newAx(p, fn)
	ax.AdvancePhase(nil)
	ax.AdvancePhase(nil)

	axm, ok := ax.DefinitionalAxiom()
	if !ok {
		t.Fatalf("translatable body must yield a definitional axiom: %v", ax.Diagnostics().Items())
	}
	fa := mustForall(t, axm)
	if len(fa.Triggers) != 1 {
		t.Fatalf("no recursive calls: expected the single full-application trigger, got %d", len(fa.Triggers))
	}
	if got := appName(t, fa.Triggers[0].Terms[0]); got != "abs" {
		t.Fatalf("definitional trigger must be the full application, got %q", got)
	}
	imp, ok := fa.Body.(terms.Implies)
	if !ok {
		t.Fatalf("definitional body must be pres ==> meaning, got %T", fa.Body)
	}
	eq, ok := imp.Y.(terms.Eq)
	if !ok {
		t.Fatalf("definitional conclusion must be an equality, got %T", imp.Y)
	}
	if got := appName(t, eq.X); got != "abs" {
		t.Fatalf("equality left side must be the full application, got %q", got)
	}
}

func TestRecursiveBodyTranslatesThroughRecordedState(t *testing.T) {
	p, fn, list, nextAccess := listProgram()
	ax := newAx(p, fn)
	ax.AdvancePhase(nil)

	r := NewRecorder()
	nextVal := terms.Var{Name: "next@rec", S: terms.RefSort}
	r.RecordLocation(nextAccess, nextVal)
	r.RecordRecursiveCall(RecursiveCall{
		Predicate: list,
		Snapshot:  terms.Var{Name: "s@pred", S: terms.SnapSort},
		Args:      []terms.Term{nextVal},
	})
	ax.AdvancePhase([]*Recorder{r})

	axm, ok := ax.DefinitionalAxiom()
	if !ok {
		t.Fatalf("body must translate: %v", ax.Diagnostics().Items())
	}
	fa := mustForall(t, axm)

	// full trigger plus one (stateless, predicate-trigger) alternative
	if len(fa.Triggers) != 2 {
		t.Fatalf("expected 2 trigger alternatives, got %d", len(fa.Triggers))
	}
	if got := appName(t, fa.Triggers[0].Terms[0]); got != "length" {
		t.Fatalf("first trigger must be the full application, got %q", got)
	}
	alt := fa.Triggers[1].Terms
	if len(alt) != 2 {
		t.Fatalf("alternative trigger must pair stateless with the predicate trigger, got %d terms", len(alt))
	}
	if appName(t, alt[0]) != "length%stateless" || appName(t, alt[1]) != "list%trigger" {
		t.Fatalf("alternative trigger symbols: %q, %q", appName(t, alt[0]), appName(t, alt[1]))
	}

	// the recursive call inside the body must go through the limited symbol
	var sawLimited, sawFullInBody bool
	var scan func(terms.Term)
	scan = func(tm terms.Term) {
		switch x := tm.(type) {
		case terms.App:
			if x.Fun.Name == "length%limited" {
				sawLimited = true
			}
			for _, a := range x.Args {
				scan(a)
			}
		case terms.Eq:
			// right side only: the left is the full application by design
			scan(x.Y)
			if app, ok := x.Y.(terms.App); ok && app.Fun.Name == "length" {
				sawFullInBody = true
			}
		case terms.Implies:
			scan(x.Y)
		case terms.Ite:
			scan(x.C)
			scan(x.X)
			scan(x.Y)
		case terms.Bin:
			scan(x.X)
			scan(x.Y)
		case terms.And:
			for _, c := range x.Xs {
				scan(c)
			}
		}
	}
	scan(fa.Body)
	if !sawLimited {
		t.Fatalf("recursive application must translate to the limited symbol")
	}
	if sawFullInBody {
		t.Fatalf("full symbol must not appear inside the translated body")
	}
}

func TestPredicateTriggersDeduplicateByPredicate(t *testing.T) {
	p, fn, list, _ := listProgram()
	ax := newAx(p, fn)
	ax.AdvancePhase(nil)

	r := NewRecorder()
	snap := terms.Var{Name: "s@pred", S: terms.SnapSort}
	arg := terms.Var{Name: "n", S: terms.RefSort}
	r.RecordRecursiveCall(RecursiveCall{App: 1, Predicate: list, Snapshot: snap, Args: []terms.Term{arg}})
	r.RecordRecursiveCall(RecursiveCall{App: 2, Predicate: list, Snapshot: snap, Args: []terms.Term{arg}})
	ax.AdvancePhase([]*Recorder{r})

	pts := ax.PredicateTriggers()
	if len(pts) != 1 {
		t.Fatalf("two calls under one predicate must yield one trigger, got %d", len(pts))
	}
	if got := appName(t, pts[0]); got != "list%trigger" {
		t.Fatalf("trigger symbol: got %q", got)
	}
}

func TestUntranslatableBodySkipsDefinitionalAxiomOnly(t *testing.T) {
	p, fn := absProgram()
	old := p.NewExpr(ast.Expr{Kind: ast.ExprOld, Type: p.Types.Builtins().Int,
		X: p.NewExpr(ast.Expr{Kind: ast.ExprVar, Name: p.Strings.Intern("x"), Type: p.Types.Builtins().Int})})
	p.Functions[fn].Body = old

	ax := newAx(p, fn)
	ax.AdvancePhase(nil)
	ax.AdvancePhase(nil)

	if _, ok := ax.DefinitionalAxiom(); ok {
		t.Fatalf("old expressions are outside the fragment, no definitional axiom expected")
	}
	found := false
	for _, d := range ax.Diagnostics().Items() {
		if d.Code == diag.VerUntranslatableBody {
			found = true
		}
	}
	if !found {
		t.Fatalf("missing diagnostic for the untranslatable body")
	}
	if _, ok := ax.PostAxiom(); !ok {
		t.Fatalf("post axiom must survive an untranslatable body")
	}
}

func TestAbstractFunctionYieldsNoDefinitionalAxiomAndNoDiagnostic(t *testing.T) {
	p, fn := absProgram()
	p.Functions[fn].Body = ast.NoExprID
	ax := newAx(p, fn)
	ax.AdvancePhase(nil)
	ax.AdvancePhase(nil)
	if _, ok := ax.DefinitionalAxiom(); ok {
		t.Fatalf("abstract function must yield no definitional axiom")
	}
	if ax.Diagnostics().Len() != 0 {
		t.Fatalf("missing body is not an error: %v", ax.Diagnostics().Items())
	}
}

func TestMustLocationValuePanicsOnUnrecordedAccess(t *testing.T) {
	p, fn, _, nextAccess := listProgram()
	ax := newAx(p, fn)
	ax.AdvancePhase(nil)
	defer func() {
		if recover() == nil {
			t.Fatalf("unrecorded location access must panic")
		}
	}()
	ax.MustLocationValue(nextAccess, terms.RefSort)
}

func TestFailuresFlowIntoTheAxiomatizerBag(t *testing.T) {
	p, fn := absProgram()
	ax := newAx(p, fn)
	r := NewRecorder()
	r.Fail(diag.Diagnostic{Severity: diag.SevError, Code: diag.VerFailedObligation, Message: "branch failed"})
	ax.AdvancePhase([]*Recorder{r})
	if !ax.Diagnostics().HasErrors() {
		t.Fatalf("branch failures must surface in the diagnostics bag")
	}
}

func TestFreshSymbolsAccumulateAcrossPhases(t *testing.T) {
	p, fn := absProgram()
	ax := newAx(p, fn)

	r1 := NewRecorder()
	c1 := terms.Var{Name: "w@0", S: terms.IntSort}
	r1.AddRepresentative(Representative{V: c1, Constraint: terms.Bin{Op: terms.OpAtLeast, X: c1, Y: terms.IntLit{Val: 0}}})
	ax.AdvancePhase([]*Recorder{r1})
	ax.AdvancePhase(nil)

	axm, ok := ax.DefinitionalAxiom()
	if !ok {
		t.Fatalf("expected a definitional axiom")
	}
	fa := mustForall(t, axm)
	and, ok := fa.Body.(terms.And)
	if !ok {
		t.Fatalf("phase-1 witness constraint must be conjoined into the phase-2 axiom, got %T", fa.Body)
	}
	if len(and.Xs) != 2 {
		t.Fatalf("expected constraint + meaning, got %d conjuncts", len(and.Xs))
	}
}
