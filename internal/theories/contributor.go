// Package theories decides which instantiations of the built-in parametric
// theories a program needs, and produces the sort declarations, symbol
// declarations and axioms those instantiations require.
package theories

import (
	"github.com/ArquintL/silicon/internal/ast"
	"github.com/ArquintL/silicon/internal/decider"
	"github.com/ArquintL/silicon/internal/preamble"
	"github.com/ArquintL/silicon/internal/terms"
)

// Contributor discovers the concrete instantiations of one parametric
// theory used by a program and exposes ordered accessors for the three
// contribution tiers. Dependency order is sorts, then symbols, then axioms:
// symbol signatures reference sorts and axioms reference symbols.
//
// Lifecycle: Reset clears accumulated state (idempotent); Analyze runs a
// single pass and must be called exactly once per program before any
// accessor; Start and Stop are no-ops reserved for contributors holding
// external resources. All accessors are pure given the last Analyze.
type Contributor interface {
	Reset()
	Start()
	Stop()
	Analyze(prog *ast.Program)

	Sorts() []terms.Sort
	DeclareSortsTo(sink decider.Sink)
	SymbolDecls() ([]preamble.Block, error)
	DeclareSymbolsTo(sink decider.Sink) error
	Axioms() ([]preamble.Block, error)
	EmitAxiomsTo(sink decider.Sink) error
}

// Contribute drives one contributor through a full emission in dependency
// order. Template failures abort: they mean a broken installation, not a
// problem with the program under verification.
func Contribute(c Contributor, prog *ast.Program, sink decider.Sink) error {
	c.Reset()
	c.Start()
	defer c.Stop()
	c.Analyze(prog)
	c.DeclareSortsTo(sink)
	if err := c.DeclareSymbolsTo(sink); err != nil {
		return err
	}
	return c.EmitAxiomsTo(sink)
}
