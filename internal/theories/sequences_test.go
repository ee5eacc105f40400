package theories

import (
	"strings"
	"testing"

	"github.com/ArquintL/silicon/internal/ast"
	"github.com/ArquintL/silicon/internal/decider"
	"github.com/ArquintL/silicon/internal/preamble"
	"github.com/ArquintL/silicon/internal/types"
)

// progWithTypes builds a program whose single function parameter list
// mentions each given type once.
func progWithTypes(ids ...func(p *ast.Program) types.TypeID) *ast.Program {
	p := ast.NewProgram()
	var params []ast.Param
	for i, mk := range ids {
		params = append(params, ast.Param{
			Name: p.Strings.Intern(string(rune('a' + i))),
			Type: mk(p),
		})
	}
	p.AddFunction(ast.Function{
		Name:   p.Strings.Intern("f"),
		Params: params,
		Result: p.Types.Builtins().Bool,
	})
	return p
}

func seqOf(inner func(p *ast.Program) types.TypeID) func(p *ast.Program) types.TypeID {
	return func(p *ast.Program) types.TypeID {
		return p.Types.Intern(types.MakeSeq(inner(p)))
	}
}

func intType(p *ast.Program) types.TypeID { return p.Types.Builtins().Int }
func refType(p *ast.Program) types.TypeID { return p.Types.Builtins().Ref }
func typeVar(p *ast.Program) types.TypeID {
	return p.Types.Intern(types.MakeTypeVar(p.Strings.Intern("T")))
}

func newContrib() *SequencesContributor {
	return NewSequencesContributor(preamble.NewReader())
}

func sortIDs(c *SequencesContributor) []string {
	var out []string
	for _, s := range c.Sorts() {
		out = append(out, s.ID())
	}
	return out
}

func TestAnalyzeDiscoversNestedConstituents(t *testing.T) {
	c := newContrib()
	c.Analyze(progWithTypes(seqOf(seqOf(intType))))
	got := sortIDs(c)
	want := []string{"Seq<Seq<Int>>", "Seq<Int>"}
	if len(got) != len(want) {
		t.Fatalf("sorts: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sorts[%d]: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestAnalyzeSkipsOpenInstantiations(t *testing.T) {
	c := newContrib()
	c.Analyze(progWithTypes(seqOf(typeVar), seqOf(refType)))
	got := sortIDs(c)
	if len(got) != 1 || got[0] != "Seq<$Ref>" {
		t.Fatalf("type-variable instantiations must be skipped, got %v", got)
	}
}

func TestIntegerTierPresentIffSeqIntDiscovered(t *testing.T) {
	withInt := newContrib()
	withInt.Analyze(progWithTypes(seqOf(intType)))
	blocks, err := withInt.Axioms()
	if err != nil {
		t.Fatalf("axioms: %v", err)
	}
	if !hasOrigin(blocks, "sequences_int_axioms") {
		t.Fatalf("integer tier missing although Seq<Int> was discovered")
	}

	withoutInt := newContrib()
	withoutInt.Analyze(progWithTypes(seqOf(refType)))
	blocks, err = withoutInt.Axioms()
	if err != nil {
		t.Fatalf("axioms: %v", err)
	}
	if hasOrigin(blocks, "sequences_int_axioms") {
		t.Fatalf("integer tier emitted without Seq<Int> in the program")
	}
}

func hasOrigin(blocks []preamble.Block, origin string) bool {
	for _, b := range blocks {
		if b.Origin == origin {
			return true
		}
	}
	return false
}

func TestResetThenAnalyzeDependsOnlyOnNewProgram(t *testing.T) {
	c := newContrib()
	c.Analyze(progWithTypes(seqOf(intType)))
	c.Reset()
	c.Analyze(progWithTypes(seqOf(refType)))
	got := sortIDs(c)
	if len(got) != 1 || got[0] != "Seq<$Ref>" {
		t.Fatalf("residue from previous program: %v", got)
	}
}

func TestAnalyzeTwiceWithoutResetPanics(t *testing.T) {
	c := newContrib()
	c.Analyze(progWithTypes(seqOf(intType)))
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on second Analyze")
		}
	}()
	c.Analyze(progWithTypes(seqOf(intType)))
}

func TestAccessorBeforeAnalyzePanics(t *testing.T) {
	c := newContrib()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic reading sorts before Analyze")
		}
	}()
	c.Sorts()
}

func TestContributeOrdersSortsSymbolsAxioms(t *testing.T) {
	var sb strings.Builder
	sink := decider.NewSMTSink(&sb)
	if err := Contribute(newContrib(), progWithTypes(seqOf(intType)), sink); err != nil {
		t.Fatalf("contribute: %v", err)
	}
	out := sb.String()
	sortPos := strings.Index(out, "(declare-sort Seq<Int>")
	funPos := strings.Index(out, "(declare-fun Seq_length")
	axPos := strings.Index(out, "(assert")
	if sortPos < 0 || funPos < 0 || axPos < 0 {
		t.Fatalf("missing tier in output:\n%s", out)
	}
	if !(sortPos < funPos && funPos < axPos) {
		t.Fatalf("tiers out of order: sort=%d fun=%d ax=%d", sortPos, funPos, axPos)
	}
	if !strings.Contains(out, "; sequences_axioms [Int]") {
		t.Fatalf("provenance comment missing:\n%s", out)
	}
}

func TestSortsContainNoDuplicates(t *testing.T) {
	c := newContrib()
	// Seq<Int> встречается и сам по себе, и как составная часть
	c.Analyze(progWithTypes(seqOf(intType), seqOf(seqOf(intType))))
	got := sortIDs(c)
	seen := map[string]bool{}
	for _, id := range got {
		if seen[id] {
			t.Fatalf("duplicate sort %q in %v", id, got)
		}
		seen[id] = true
	}
}
