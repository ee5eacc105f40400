package functions

import (
	"github.com/ArquintL/silicon/internal/ast"
	"github.com/ArquintL/silicon/internal/diag"
	"github.com/ArquintL/silicon/internal/terms"
)

// SummaryFunction is a freshly introduced heap-summary function — the value
// of one field (or predicate) across a quantified region — together with
// its domain-membership axioms.
type SummaryFunction struct {
	Fun    terms.FunctionSymbol
	Axioms []terms.Term
}

// InverseFunction inverts a quantifier's index expression back to the
// quantified variable, so permission amounts over a quantified region can
// be axiomatized without a second-order quantifier.
type InverseFunction struct {
	Fun    terms.FunctionSymbol
	Axioms []terms.Term
}

// Representative is a fresh arbitrary-witness constant with its defining
// constraint, introduced where execution needed a value but determined no
// concrete one.
type Representative struct {
	V          terms.Var
	Constraint terms.Term
}

// RecursiveCall records one recursive self-application found nested inside
// a predicate-unfold scope, with the innermost enclosing unfold's target
// predicate, the snapshot recorded for that predicate instance, and the
// translated predicate arguments.
type RecursiveCall struct {
	App       ast.ExprID
	Predicate ast.PredID
	Snapshot  terms.Term
	Args      []terms.Term
}

// Recorder is the per-execution-branch log delivered by the execution
// engine: heap-location values, recursive-application values, and the fresh
// helper symbols the branch introduced. Treated as immutable once produced;
// branches combine through Merge.
type Recorder struct {
	locations       *OrderedMap[ast.ExprID, terms.Term]
	applications    *OrderedMap[ast.ExprID, terms.Term]
	fieldSummaries  []SummaryFunction
	predSummaries   []SummaryFunction
	inverses        []InverseFunction
	representatives []Representative
	recursiveCalls  []RecursiveCall
	failures        []diag.Diagnostic
}

// NewRecorder returns an empty recorder — the identity of Merge.
func NewRecorder() *Recorder {
	return &Recorder{
		locations:    NewOrderedMap[ast.ExprID, terms.Term](),
		applications: NewOrderedMap[ast.ExprID, terms.Term](),
	}
}

// RecordLocation logs the symbolic value of one heap-location access.
func (r *Recorder) RecordLocation(at ast.ExprID, val terms.Term) {
	r.locations.Put(at, val)
}

// RecordApplication logs the symbolic value of one function application.
func (r *Recorder) RecordApplication(at ast.ExprID, val terms.Term) {
	r.applications.Put(at, val)
}

// RecordRecursiveCall logs a self-application inside an unfold scope.
func (r *Recorder) RecordRecursiveCall(rc RecursiveCall) {
	r.recursiveCalls = append(r.recursiveCalls, rc)
}

// AddFieldSummary attaches a fresh field-summary function.
func (r *Recorder) AddFieldSummary(sf SummaryFunction) {
	r.fieldSummaries = append(r.fieldSummaries, sf)
}

// AddPredicateSummary attaches a fresh predicate-summary function.
func (r *Recorder) AddPredicateSummary(sf SummaryFunction) {
	r.predSummaries = append(r.predSummaries, sf)
}

// AddInverse attaches a fresh inverse function.
func (r *Recorder) AddInverse(inv InverseFunction) {
	r.inverses = append(r.inverses, inv)
}

// AddRepresentative attaches a fresh witness constant.
func (r *Recorder) AddRepresentative(rep Representative) {
	r.representatives = append(r.representatives, rep)
}

// Fail logs a failed proof obligation for this branch.
func (r *Recorder) Fail(d diag.Diagnostic) {
	r.failures = append(r.failures, d)
}

// LocationValue returns the recorded value for a heap access.
func (r *Recorder) LocationValue(at ast.ExprID) (terms.Term, bool) {
	return r.locations.Get(at)
}

// ApplicationValue returns the recorded value for a function application.
func (r *Recorder) ApplicationValue(at ast.ExprID) (terms.Term, bool) {
	return r.applications.Get(at)
}

// Merge combines two branch recorders. The operation is associative with
// NewRecorder() as identity: maps union with a-then-b insertion order
// (first-seen wins), fresh-symbol sets union preserving order and
// deduplicating by symbol name, failures concatenate.
func Merge(a, b *Recorder) *Recorder {
	out := NewRecorder()
	out.locations = Union(a.locations, b.locations)
	out.applications = Union(a.applications, b.applications)
	out.fieldSummaries = unionSummaries(a.fieldSummaries, b.fieldSummaries)
	out.predSummaries = unionSummaries(a.predSummaries, b.predSummaries)
	out.inverses = unionInverses(a.inverses, b.inverses)
	out.representatives = unionReps(a.representatives, b.representatives)
	out.recursiveCalls = append(append([]RecursiveCall{}, a.recursiveCalls...), b.recursiveCalls...)
	out.failures = append(append([]diag.Diagnostic{}, a.failures...), b.failures...)
	return out
}

// MergeAll left-folds recorders; an empty list yields the neutral recorder.
func MergeAll(rs []*Recorder) *Recorder {
	out := NewRecorder()
	for _, r := range rs {
		out = Merge(out, r)
	}
	return out
}

func unionSummaries(a, b []SummaryFunction) []SummaryFunction {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]SummaryFunction, 0, len(a)+len(b))
	for _, s := range append(append([]SummaryFunction{}, a...), b...) {
		if seen[s.Fun.Name] {
			continue
		}
		seen[s.Fun.Name] = true
		out = append(out, s)
	}
	return out
}

func unionInverses(a, b []InverseFunction) []InverseFunction {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]InverseFunction, 0, len(a)+len(b))
	for _, s := range append(append([]InverseFunction{}, a...), b...) {
		if seen[s.Fun.Name] {
			continue
		}
		seen[s.Fun.Name] = true
		out = append(out, s)
	}
	return out
}

func unionReps(a, b []Representative) []Representative {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]Representative, 0, len(a)+len(b))
	for _, s := range append(append([]Representative{}, a...), b...) {
		if seen[s.V.Name] {
			continue
		}
		seen[s.V.Name] = true
		out = append(out, s)
	}
	return out
}
