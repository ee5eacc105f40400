// Package decider is the prover-facing boundary: a Sink capability that
// receives sort declarations, symbol declarations and axioms, and the
// SMT-LIB rendering of terms. Call order matters — sorts before symbols
// before axioms — because symbol signatures reference sorts and axioms
// reference symbols.
package decider

import (
	"github.com/ArquintL/silicon/internal/terms"
)

// Decl is anything the sink can declare.
type Decl interface{ decl() }

func (SortDecl) decl()  {}
func (FunDecl) decl()   {}
func (ConstDecl) decl() {}

// SortDecl introduces an uninterpreted sort.
type SortDecl struct{ Sort terms.Sort }

// FunDecl introduces a function symbol.
type FunDecl struct{ Fun terms.FunctionSymbol }

// ConstDecl introduces a constant.
type ConstDecl struct {
	Name string
	Sort terms.Sort
}

// Sink receives the theory contribution destined for the prover.
type Sink interface {
	// Comment emits a human-readable provenance line.
	Comment(text string)
	// Declare emits one declaration.
	Declare(d Decl)
	// Emit writes raw, already-rendered lines in order.
	Emit(lines []string)
	// Assert writes one axiom term.
	Assert(t terms.Term)
}
