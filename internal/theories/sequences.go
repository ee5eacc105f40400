package theories

import (
	"github.com/ArquintL/silicon/internal/ast"
	"github.com/ArquintL/silicon/internal/decider"
	"github.com/ArquintL/silicon/internal/preamble"
	"github.com/ArquintL/silicon/internal/terms"
	"github.com/ArquintL/silicon/internal/types"
)

// SequencesContributor contributes the generic sequence theory: one
// declaration/axiom block per concrete Seq instantiation found in the
// program, plus an integer-specialized tier emitted only when Seq<Int>
// occurs (ordering and arithmetic lemmas are meaningless for other element
// sorts).
type SequencesContributor struct {
	reader   *preamble.Reader
	sorts    *terms.SortSet
	analyzed bool
}

func NewSequencesContributor(reader *preamble.Reader) *SequencesContributor {
	return &SequencesContributor{
		reader: reader,
		sorts:  terms.NewSortSet(),
	}
}

// Reset clears all accumulated state; safe to call repeatedly.
func (c *SequencesContributor) Reset() {
	c.sorts.Reset()
	c.analyzed = false
}

// Start is a no-op: this contributor holds no external resources.
func (c *SequencesContributor) Start() {}

// Stop is a no-op.
func (c *SequencesContributor) Stop() {}

// Analyze walks every typed node of the program and retains each concrete
// Seq instantiation, including nested constituents: visiting a
// Seq<Seq<Int>> also discovers Seq<Int>. Instantiations still carrying
// type variables belong to the generic-domain encoder and are skipped.
func (c *SequencesContributor) Analyze(prog *ast.Program) {
	if c.analyzed {
		panic("theories: Analyze called twice without Reset")
	}
	c.analyzed = true
	in := prog.Types
	prog.WalkTypes(func(tid types.TypeID) {
		in.Constituents(tid, func(cid types.TypeID) {
			t, ok := in.Lookup(cid)
			if !ok || t.Kind != types.KindSeq {
				return
			}
			if !in.Concrete(cid) {
				return
			}
			c.sorts.Add(terms.SortFromType(in, cid))
		})
	})
}

func (c *SequencesContributor) requireAnalyzed() {
	if !c.analyzed {
		panic("theories: accessor read before Analyze")
	}
}

// Sorts returns the discovered sequence sorts in first-seen order.
func (c *SequencesContributor) Sorts() []terms.Sort {
	c.requireAnalyzed()
	return c.sorts.All()
}

// DeclareSortsTo declares every discovered sequence sort.
func (c *SequencesContributor) DeclareSortsTo(sink decider.Sink) {
	for _, s := range c.Sorts() {
		sink.Declare(decider.SortDecl{Sort: s})
	}
}

func (c *SequencesContributor) hasIntSeq() bool {
	return c.sorts.Contains(terms.SeqSort(terms.IntSort))
}

// blocks reads the given general template once per discovered sort and,
// iff Seq<Int> was discovered, appends the integer-specialized template.
func (c *SequencesContributor) blocks(general, intTier string) ([]preamble.Block, error) {
	c.requireAnalyzed()
	var out []preamble.Block
	for _, s := range c.sorts.All() {
		elem := s.Elem.ID()
		lines, err := c.reader.Read(general, map[string]string{"S": elem})
		if err != nil {
			return nil, err
		}
		out = append(out, preamble.Block{
			Origin: general + " [" + elem + "]",
			Lines:  lines,
		})
	}
	if c.hasIntSeq() {
		lines, err := c.reader.Read(intTier, nil)
		if err != nil {
			return nil, err
		}
		out = append(out, preamble.Block{Origin: intTier, Lines: lines})
	}
	return out, nil
}

// SymbolDecls returns the function-symbol declaration blocks.
func (c *SequencesContributor) SymbolDecls() ([]preamble.Block, error) {
	return c.blocks("sequences_decls", "sequences_int_decls")
}

// DeclareSymbolsTo emits the symbol declarations.
func (c *SequencesContributor) DeclareSymbolsTo(sink decider.Sink) error {
	blocks, err := c.SymbolDecls()
	if err != nil {
		return err
	}
	emitBlocks(sink, blocks)
	return nil
}

// Axioms returns the axiom blocks.
func (c *SequencesContributor) Axioms() ([]preamble.Block, error) {
	return c.blocks("sequences_axioms", "sequences_int_axioms")
}

// EmitAxiomsTo emits the axioms.
func (c *SequencesContributor) EmitAxiomsTo(sink decider.Sink) error {
	blocks, err := c.Axioms()
	if err != nil {
		return err
	}
	emitBlocks(sink, blocks)
	return nil
}

func emitBlocks(sink decider.Sink, blocks []preamble.Block) {
	for _, b := range blocks {
		sink.Comment(b.Origin)
		sink.Emit(b.Lines)
	}
}
