package decider

import (
	"strings"
	"testing"

	"github.com/ArquintL/silicon/internal/terms"
)

func TestRenderDecl(t *testing.T) {
	tests := []struct {
		d    Decl
		want string
	}{
		{SortDecl{Sort: terms.SeqSort(terms.IntSort)}, "(declare-sort Seq<Int> 0)"},
		{FunDecl{Fun: terms.FunctionSymbol{
			Name:   "len",
			Args:   []terms.Sort{terms.SnapSort, terms.RefSort},
			Result: terms.IntSort,
		}}, "(declare-fun len ($Snap $Ref) Int)"},
		{ConstDecl{Name: "n", Sort: terms.IntSort}, "(declare-const n Int)"},
	}
	for _, tt := range tests {
		if got := RenderDecl(tt.d); got != tt.want {
			t.Fatalf("got %q, want %q", got, tt.want)
		}
	}
}

func TestRenderTermBasics(t *testing.T) {
	x := terms.Var{Name: "x", S: terms.IntSort}
	tests := []struct {
		t    terms.Term
		want string
	}{
		{terms.IntLit{Val: -3}, "(- 3)"},
		{terms.Bin{Op: terms.OpPlus, X: x, Y: terms.IntLit{Val: 1}}, "(+ x 1)"},
		{terms.Implies{X: terms.BoolLit{Val: true}, Y: terms.BoolLit{Val: false}}, "(=> true false)"},
		{terms.And{}, "true"},
		{terms.App{Fun: terms.FunctionSymbol{Name: "f", Result: terms.IntSort}}, "f"},
	}
	for _, tt := range tests {
		if got := RenderTerm(tt.t); got != tt.want {
			t.Fatalf("got %q, want %q", got, tt.want)
		}
	}
}

func TestRenderLetIsSerialized(t *testing.T) {
	r := terms.Var{Name: "result", S: terms.IntSort}
	app := terms.App{Fun: terms.FunctionSymbol{Name: "f%limited", Result: terms.IntSort}}
	got := RenderTerm(terms.Let{Var: r, Val: app, Body: terms.Bin{Op: terms.OpAtLeast, X: r, Y: terms.IntLit{Val: 0}}})
	want := "(let ((result f%limited)) (>= result 0))"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRenderForallWithTriggers(t *testing.T) {
	x := terms.Var{Name: "x", S: terms.IntSort}
	fx := terms.App{Fun: terms.FunctionSymbol{Name: "f", Args: []terms.Sort{terms.IntSort}, Result: terms.IntSort}, Args: []terms.Term{x}}
	gx := terms.App{Fun: terms.FunctionSymbol{Name: "g", Args: []terms.Sort{terms.IntSort}, Result: terms.IntSort}, Args: []terms.Term{x}}
	f := terms.Forall{
		Vars:     []terms.Var{x},
		Body:     terms.Eq{X: fx, Y: gx},
		Triggers: []terms.Trigger{{Terms: []terms.Term{fx}}, {Terms: []terms.Term{gx}}},
	}
	got := RenderTerm(f)
	want := "(forall ((x Int)) (! (= (f x) (g x)) :pattern ((f x)) :pattern ((g x))))"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestSMTSinkOrderAndComments(t *testing.T) {
	var sb strings.Builder
	sink := NewSMTSink(&sb)
	sink.Comment("sequences [Int]")
	sink.Declare(SortDecl{Sort: terms.SeqSort(terms.IntSort)})
	sink.Emit([]string{"(declare-fun Seq_length (Seq<Int>) Int)"})
	sink.Assert(terms.BoolLit{Val: true})
	if sink.Err() != nil {
		t.Fatalf("unexpected sink error: %v", sink.Err())
	}
	want := "; sequences [Int]\n(declare-sort Seq<Int> 0)\n(declare-fun Seq_length (Seq<Int>) Int)\n(assert true)\n"
	if sb.String() != want {
		t.Fatalf("got %q, want %q", sb.String(), want)
	}
}
