// Package functions axiomatizes heap-dependent program functions: it
// accumulates symbolic-execution results across branches, merges them, and
// assembles the limited-unfolding, postcondition and definitional axioms
// delivered to the prover once per function.
package functions

import (
	"fmt"

	"github.com/ArquintL/silicon/internal/ast"
	"github.com/ArquintL/silicon/internal/diag"
	"github.com/ArquintL/silicon/internal/identifier"
	"github.com/ArquintL/silicon/internal/terms"
)

// Translator converts assertion expressions to prover terms against the
// state of one axiomatizer. A false result means the expression is outside
// the translatable fragment — a per-function failure, never a panic.
type Translator interface {
	Translate(prog *ast.Program, e ast.ExprID, ax *Axiomatizer) (terms.Term, bool)
}

// Phases of one function's translation. Phase data must not be read before
// the phase is reached; violations are caller defects and panic.
const (
	phaseUnanalyzed      = 0
	phaseWellDefinedness = 1
	phaseVerification    = 2
)

// Axiomatizer drives the per-function encoding through its phases. One
// instance is owned by the translation driver for the lifetime of one
// function; the only shared state it references is read-only (program,
// identifier factory).
type Axiomatizer struct {
	prog       *ast.Program
	fnID       ast.FuncID
	fn         *ast.Function
	height     int
	qpFields   map[ast.FieldID]bool
	ids        *identifier.Factory
	translator Translator

	phase int

	syms      SymbolSet
	formals   []terms.Var
	byName    map[string]terms.Var // source arg name -> fresh formal
	snapshot  terms.Var
	resultVar terms.Var

	limitedAxiom terms.Term
	triggerAxiom terms.Term

	// merged maps are replaced each phase; fresh-symbol sets accumulate
	// across phases, later axioms may reference phase-1 symbols.
	merged          *Recorder
	fieldSummaries  []SummaryFunction
	predSummaries   []SummaryFunction
	inverses        []InverseFunction
	representatives []Representative
	recCalls        []RecursiveCall

	pres     []terms.Term
	presDone bool

	bag *diag.Bag
}

// NewAxiomatizer derives the phase-0 state: the symbol triple, fresh formal
// parameters and snapshot variable, and the limited/trigger axiom pair.
// height is the function's call-graph height; qpFields are the heap fields
// with quantified-permission reasoning enabled for this function.
func NewAxiomatizer(prog *ast.Program, fnID ast.FuncID, height int, qpFields []ast.FieldID, ids *identifier.Factory, tr Translator, maxDiagnostics int) *Axiomatizer {
	fn := &prog.Functions[fnID]
	ax := &Axiomatizer{
		prog:       prog,
		fnID:       fnID,
		fn:         fn,
		height:     height,
		qpFields:   make(map[ast.FieldID]bool, len(qpFields)),
		ids:        ids,
		translator: tr,
		syms:       FunctionSymbols(prog, fnID),
		byName:     make(map[string]terms.Var, len(fn.Params)),
		merged:     NewRecorder(),
		bag:        diag.NewBag(maxDiagnostics),
	}
	for _, f := range qpFields {
		ax.qpFields[f] = true
	}

	for _, p := range fn.Params {
		name := prog.Strings.MustLookup(p.Name)
		v := terms.Var{Name: ids.Fresh(name), S: terms.SortFromType(prog.Types, p.Type)}
		ax.formals = append(ax.formals, v)
		ax.byName[name] = v
	}
	ax.snapshot = terms.Var{Name: ids.Fresh("s"), S: terms.SnapSort}
	ax.resultVar = terms.Var{Name: ids.Fresh("result"), S: terms.SortFromType(prog.Types, fn.Result)}

	full := ax.FullApplication()
	limited := ax.LimitedApplication()
	quantified := ax.quantifiedVars()

	// limited(s, args) == full(s, args), triggered on the full application
	// only: instantiation must be driven by real unfolded occurrences.
	ax.limitedAxiom = terms.Forall{
		Vars:     quantified,
		Body:     terms.Eq{X: limited, Y: full},
		Triggers: []terms.Trigger{{Terms: []terms.Term{full}}},
	}
	ax.triggerAxiom = terms.Forall{
		Vars:     quantified,
		Body:     ax.StatelessApplication(),
		Triggers: []terms.Trigger{{Terms: []terms.Term{full}}},
	}
	return ax
}

// Phase returns the current phase (0, 1 or 2).
func (ax *Axiomatizer) Phase() int { return ax.phase }

// Height returns the function's call-graph height, used by callers to order
// cross-function axiom emission.
func (ax *Axiomatizer) Height() int { return ax.height }

// Symbols returns the function's prover symbol triple.
func (ax *Axiomatizer) Symbols() SymbolSet { return ax.syms }

// Snapshot returns the fresh heap-snapshot formal.
func (ax *Axiomatizer) Snapshot() terms.Var { return ax.snapshot }

// ResultVar returns the formal result variable bound inside the
// postcondition axiom.
func (ax *Axiomatizer) ResultVar() terms.Var { return ax.resultVar }

// FormalByName resolves a source parameter name to its fresh formal.
func (ax *Axiomatizer) FormalByName(name string) (terms.Var, bool) {
	v, ok := ax.byName[name]
	return v, ok
}

// QuantifiedPermissionField reports whether quantified-permission reasoning
// is enabled for the field.
func (ax *Axiomatizer) QuantifiedPermissionField(f ast.FieldID) bool {
	return ax.qpFields[f]
}

// FreshFieldSummary mints a heap-summary function symbol for a
// quantified-permission field; ok is false when the field is not
// QP-enabled for this function.
func (ax *Axiomatizer) FreshFieldSummary(f ast.FieldID) (terms.FunctionSymbol, bool) {
	if !ax.qpFields[f] {
		return terms.FunctionSymbol{}, false
	}
	fieldSort := terms.SortFromType(ax.prog.Types, ax.prog.Fields[f].Type)
	return terms.FunctionSymbol{
		Name:   ax.ids.Fresh("$FVF." + ax.prog.FieldName(f)),
		Args:   []terms.Sort{terms.RefSort},
		Result: fieldSort,
	}, true
}

// FullApplication returns full(s, args) over the fresh formals.
func (ax *Axiomatizer) FullApplication() terms.Term {
	return terms.App{Fun: ax.syms.Full, Args: ax.snapArgs()}
}

// LimitedApplication returns limited(s, args) over the fresh formals.
func (ax *Axiomatizer) LimitedApplication() terms.Term {
	return terms.App{Fun: ax.syms.Limited, Args: ax.snapArgs()}
}

// StatelessApplication returns stateless(args) over the fresh formals.
func (ax *Axiomatizer) StatelessApplication() terms.Term {
	args := make([]terms.Term, 0, len(ax.formals))
	for _, v := range ax.formals {
		args = append(args, v)
	}
	return terms.App{Fun: ax.syms.Stateless, Args: args}
}

func (ax *Axiomatizer) snapArgs() []terms.Term {
	args := make([]terms.Term, 0, len(ax.formals)+1)
	args = append(args, ax.snapshot)
	for _, v := range ax.formals {
		args = append(args, v)
	}
	return args
}

func (ax *Axiomatizer) quantifiedVars() []terms.Var {
	return append([]terms.Var{ax.snapshot}, ax.formals...)
}

// LimitedAxiom returns the limited-unfolding axiom (phase-free).
func (ax *Axiomatizer) LimitedAxiom() terms.Term { return ax.limitedAxiom }

// TriggerAxiom returns the stateless trigger-anchor axiom (phase-free).
func (ax *Axiomatizer) TriggerAxiom() terms.Term { return ax.triggerAxiom }

// Diagnostics returns the accumulated per-function failures. Whether to
// continue after failures is the driving caller's decision.
func (ax *Axiomatizer) Diagnostics() *diag.Bag { return ax.bag }

// AdvancePhase merges the branch recorders of the next phase. An empty
// recorder list is permitted and acts as the neutral recorder. The merged
// location/application maps replace the previous phase's; fresh-symbol sets
// accumulate, since phase-2 axioms may reference phase-1 symbols.
func (ax *Axiomatizer) AdvancePhase(recorders []*Recorder) {
	if ax.phase >= phaseVerification {
		panic(fmt.Sprintf("functions: AdvancePhase past verification phase for %s", ax.Name()))
	}
	merged := MergeAll(recorders)
	ax.merged = merged
	ax.fieldSummaries = unionSummaries(ax.fieldSummaries, merged.fieldSummaries)
	ax.predSummaries = unionSummaries(ax.predSummaries, merged.predSummaries)
	ax.inverses = unionInverses(ax.inverses, merged.inverses)
	ax.representatives = unionReps(ax.representatives, merged.representatives)
	ax.recCalls = append(ax.recCalls, merged.recursiveCalls...)
	for _, d := range merged.failures {
		ax.bag.Add(d)
	}
	ax.phase++
}

// Name returns the source name of the function.
func (ax *Axiomatizer) Name() string { return ax.prog.FunctionName(ax.fnID) }

func (ax *Axiomatizer) requirePhase(min int) {
	if ax.phase < min {
		panic(fmt.Sprintf("functions: phase %d data of %s read at phase %d", min, ax.Name(), ax.phase))
	}
}

// LocationValue returns the merged symbolic value of a heap access.
func (ax *Axiomatizer) LocationValue(at ast.ExprID) (terms.Term, bool) {
	return ax.merged.LocationValue(at)
}

// ApplicationValue returns the merged symbolic value of an application.
func (ax *Axiomatizer) ApplicationValue(at ast.ExprID) (terms.Term, bool) {
	return ax.merged.ApplicationValue(at)
}

// MustLocationValue is the lookup-or-fail helper: every location access
// reachable in a translated body must already have been recorded by
// execution, so a miss is an internal-consistency defect, not a program
// error.
func (ax *Axiomatizer) MustLocationValue(at ast.ExprID, want terms.Sort) terms.Term {
	v, ok := ax.merged.LocationValue(at)
	if !ok {
		panic(fmt.Sprintf("functions: no recorded value for location %d in %s", at, ax.Name()))
	}
	if !v.Sort().Equal(want) {
		panic(fmt.Sprintf("functions: recorded value for location %d in %s has sort %s, want %s",
			at, ax.Name(), v.Sort().ID(), want.ID()))
	}
	return v
}

// TranslatedPres returns the conjunction-ready translated preconditions.
// Requires phase >= 1; computed lazily and cached — preconditions do not
// change between the phases. Untranslatable preconditions are recorded as
// failures and omitted.
func (ax *Axiomatizer) TranslatedPres() []terms.Term {
	ax.requirePhase(phaseWellDefinedness)
	if ax.presDone {
		return ax.pres
	}
	ax.presDone = true
	for _, pre := range ax.fn.Pres {
		t, ok := ax.translator.Translate(ax.prog, pre, ax)
		if !ok {
			ax.bag.Add(diag.Diagnostic{
				Severity: diag.SevError,
				Code:     diag.VerUntranslatablePre,
				Message:  "precondition of " + ax.Name() + " is outside the translatable fragment",
				Primary:  ax.prog.Expr(pre).Span,
			})
			continue
		}
		ax.pres = append(ax.pres, t)
	}
	return ax.pres
}

// FreshFunctions returns the fresh helper function symbols accumulated so
// far, in discovery order. Callers declare these before asserting any axiom
// of this function.
func (ax *Axiomatizer) FreshFunctions() []terms.FunctionSymbol {
	var out []terms.FunctionSymbol
	for _, s := range ax.fieldSummaries {
		out = append(out, s.Fun)
	}
	for _, s := range ax.predSummaries {
		out = append(out, s.Fun)
	}
	for _, inv := range ax.inverses {
		out = append(out, inv.Fun)
	}
	return out
}

// FreshConstants returns the fresh witness constants accumulated so far.
func (ax *Axiomatizer) FreshConstants() []terms.Var {
	var out []terms.Var
	for _, rep := range ax.representatives {
		out = append(out, rep.V)
	}
	return out
}

// freshDefs conjoins the definitional axioms of every fresh symbol
// accumulated so far: summary functions, inverse functions and witness
// constants, in discovery order.
func (ax *Axiomatizer) freshDefs() []terms.Term {
	var defs []terms.Term
	for _, s := range ax.fieldSummaries {
		defs = append(defs, s.Axioms...)
	}
	for _, s := range ax.predSummaries {
		defs = append(defs, s.Axioms...)
	}
	for _, inv := range ax.inverses {
		defs = append(defs, inv.Axioms...)
	}
	for _, rep := range ax.representatives {
		if rep.Constraint != nil {
			defs = append(defs, rep.Constraint)
		}
	}
	return defs
}

// PostAxiom builds the postcondition axiom from phase-1 data:
//
//	forall args, s . freshDefs && (pres ==> posts)  { limited(s, args) }
//
// with the result variable let-bound to the limited application, so
// postconditions may refer to it. The trigger is deliberately the limited
// application: triggering on the full one would make this axiom itself a
// source of runaway unfolding. Functions without postconditions yield none.
func (ax *Axiomatizer) PostAxiom() (terms.Term, bool) {
	ax.requirePhase(phaseWellDefinedness)
	if len(ax.fn.Posts) == 0 {
		return nil, false
	}
	var posts []terms.Term
	for _, post := range ax.fn.Posts {
		t, ok := ax.translator.Translate(ax.prog, post, ax)
		if !ok {
			ax.bag.Add(diag.Diagnostic{
				Severity: diag.SevError,
				Code:     diag.VerUntranslatablePost,
				Message:  "postcondition of " + ax.Name() + " is outside the translatable fragment",
				Primary:  ax.prog.Expr(post).Span,
			})
			continue
		}
		posts = append(posts, t)
	}
	if len(posts) == 0 {
		return nil, false
	}

	limited := ax.LimitedApplication()
	inner := terms.Implies{
		X: terms.BigAnd(ax.TranslatedPres()),
		Y: terms.BigAnd(posts),
	}
	body := terms.BigAnd(append(ax.freshDefs(), terms.Term(inner)))
	return terms.Forall{
		Vars:     ax.quantifiedVars(),
		Body:     terms.Let{Var: ax.resultVar, Val: limited, Body: body},
		Triggers: []terms.Trigger{{Terms: []terms.Term{limited}}},
	}, true
}

// PredicateTriggers returns one trigger application per distinct predicate
// enclosing a recursive self-call, in first-seen order: a syntactic hook
// anchored at unfold sites for re-deriving the definitional axiom exactly
// where a recursive unfolding makes it relevant. Empty for functions
// without recursive calls.
func (ax *Axiomatizer) PredicateTriggers() []terms.Term {
	ax.requirePhase(phaseVerification)
	seen := make(map[ast.PredID]bool)
	var out []terms.Term
	for _, rc := range ax.recCalls {
		if seen[rc.Predicate] {
			continue
		}
		seen[rc.Predicate] = true
		args := append([]terms.Term{rc.Snapshot}, rc.Args...)
		out = append(out, terms.App{
			Fun:  PredicateTriggerSymbol(ax.prog, rc.Predicate),
			Args: args,
		})
	}
	return out
}

// DefinitionalAxiom builds the phase-2 meaning axiom:
//
//	forall args, s . freshDefs && (pres ==> full(s, args) == body)
//	  { full(s, args) } { stateless(args), predicateTrigger }...
//
// Triggers are alternative firing patterns. Functions whose body does not
// translate (abstract functions included) yield none — that is not an
// error by itself.
func (ax *Axiomatizer) DefinitionalAxiom() (terms.Term, bool) {
	ax.requirePhase(phaseVerification)
	if ax.fn.Body == ast.NoExprID {
		return nil, false
	}
	bodyTerm, ok := ax.translator.Translate(ax.prog, ax.fn.Body, ax)
	if !ok {
		ax.bag.Add(diag.Diagnostic{
			Severity: diag.SevError,
			Code:     diag.VerUntranslatableBody,
			Message:  "body of " + ax.Name() + " is outside the translatable fragment",
			Primary:  ax.prog.Expr(ax.fn.Body).Span,
		})
		return nil, false
	}

	full := ax.FullApplication()
	inner := terms.Implies{
		X: terms.BigAnd(ax.TranslatedPres()),
		Y: terms.Eq{X: full, Y: bodyTerm},
	}
	body := terms.BigAnd(append(ax.freshDefs(), terms.Term(inner)))

	triggers := []terms.Trigger{{Terms: []terms.Term{full}}}
	stateless := ax.StatelessApplication()
	for _, pt := range ax.PredicateTriggers() {
		triggers = append(triggers, terms.Trigger{Terms: []terms.Term{stateless, pt}})
	}
	return terms.Forall{
		Vars:     ax.quantifiedVars(),
		Body:     body,
		Triggers: triggers,
	}, true
}
