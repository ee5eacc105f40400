package ast

import (
	"fmt"

	"fortio.org/safecast"

	"github.com/ArquintL/silicon/internal/source"
	"github.com/ArquintL/silicon/internal/types"
)

type (
	// FieldID indexes Program.Fields.
	FieldID uint32
	// PredID indexes Program.Predicates.
	PredID uint32
	// FuncID indexes Program.Functions.
	FuncID uint32
)

// Field is a heap field declaration.
type Field struct {
	Name source.StringID
	Type types.TypeID
	Span source.Span
}

// Param is a formal parameter of a function or predicate.
type Param struct {
	Name source.StringID
	Type types.TypeID
	Span source.Span
}

// Predicate is a named, possibly recursive heap assertion.
type Predicate struct {
	Name   source.StringID
	Params []Param
	Body   ExprID // NoExprID for abstract predicates
	Span   source.Span
}

// Function is a heap-dependent program function.
type Function struct {
	Name   source.StringID
	Params []Param
	Result types.TypeID
	Pres   []ExprID
	Posts  []ExprID
	Body   ExprID // NoExprID for abstract (uninterpreted) functions
	Span   source.Span
}

// Program is one verification unit: declarations plus a shared expression
// arena and the interners every node refers into.
type Program struct {
	Strings *source.Interner
	Types   *types.Interner

	Fields     []Field
	Predicates []Predicate
	Functions  []Function

	exprs []Expr // exprs[0] is the NoExprID sentinel
}

// NewProgram returns an empty program with fresh interners.
func NewProgram() *Program {
	return &Program{
		Strings: source.NewInterner(),
		Types:   types.NewInterner(),
		exprs:   make([]Expr, 1),
	}
}

// NewExpr stores the expression and returns its ID.
func (p *Program) NewExpr(e Expr) ExprID {
	n, err := safecast.Conv[uint32](len(p.exprs))
	if err != nil {
		panic(fmt.Errorf("len(exprs) overflow: %w", err))
	}
	p.exprs = append(p.exprs, e)
	return ExprID(n)
}

// Expr returns the arena node; panics on NoExprID or an out-of-range ID.
func (p *Program) Expr(id ExprID) *Expr {
	if id == NoExprID || int(id) >= len(p.exprs) {
		panic(fmt.Sprintf("ast: invalid ExprID %d", id))
	}
	return &p.exprs[id]
}

// NumExprs returns the arena size (sentinel included).
func (p *Program) NumExprs() int {
	return len(p.exprs)
}

// AddField appends a field declaration and returns its ID.
func (p *Program) AddField(f Field) FieldID {
	p.Fields = append(p.Fields, f)
	return FieldID(len(p.Fields) - 1)
}

// AddPredicate appends a predicate declaration and returns its ID.
func (p *Program) AddPredicate(pr Predicate) PredID {
	p.Predicates = append(p.Predicates, pr)
	return PredID(len(p.Predicates) - 1)
}

// AddFunction appends a function declaration and returns its ID.
func (p *Program) AddFunction(f Function) FuncID {
	p.Functions = append(p.Functions, f)
	return FuncID(len(p.Functions) - 1)
}

// FieldByName resolves a field by name.
func (p *Program) FieldByName(name source.StringID) (FieldID, bool) {
	for i := range p.Fields {
		if p.Fields[i].Name == name {
			return FieldID(i), true
		}
	}
	return 0, false
}

// PredicateByName resolves a predicate by name.
func (p *Program) PredicateByName(name source.StringID) (PredID, bool) {
	for i := range p.Predicates {
		if p.Predicates[i].Name == name {
			return PredID(i), true
		}
	}
	return 0, false
}

// FunctionByName resolves a function by name.
func (p *Program) FunctionByName(name source.StringID) (FuncID, bool) {
	for i := range p.Functions {
		if p.Functions[i].Name == name {
			return FuncID(i), true
		}
	}
	return 0, false
}

// FunctionName returns the source name of a function.
func (p *Program) FunctionName(id FuncID) string {
	return p.Strings.MustLookup(p.Functions[id].Name)
}

// PredicateName returns the source name of a predicate.
func (p *Program) PredicateName(id PredID) string {
	return p.Strings.MustLookup(p.Predicates[id].Name)
}

// FieldName returns the source name of a field.
func (p *Program) FieldName(id FieldID) string {
	return p.Strings.MustLookup(p.Fields[id].Name)
}
