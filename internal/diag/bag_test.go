package diag

import (
	"testing"

	"github.com/ArquintL/silicon/internal/source"
)

func TestBagRespectsLimit(t *testing.T) {
	b := NewBag(2)
	for i := 0; i < 3; i++ {
		b.Add(Diagnostic{Severity: SevError, Code: VerFailedObligation})
	}
	if b.Len() != 2 {
		t.Fatalf("expected 2 items, got %d", b.Len())
	}
}

func TestBagHasErrors(t *testing.T) {
	b := NewBag(10)
	b.Add(Diagnostic{Severity: SevWarning, Code: TypInfo})
	if b.HasErrors() {
		t.Fatalf("warning should not count as error")
	}
	b.Add(Diagnostic{Severity: SevError, Code: VerUntranslatableBody})
	if !b.HasErrors() {
		t.Fatalf("expected HasErrors after adding an error")
	}
}

func TestBagMergeGrowsLimit(t *testing.T) {
	a := NewBag(1)
	a.Add(Diagnostic{Code: VerFailedObligation})
	b := NewBag(1)
	b.Add(Diagnostic{Code: VerUntranslatablePre})
	a.Merge(b)
	if a.Len() != 2 {
		t.Fatalf("merge lost items: %d", a.Len())
	}
}

func TestBagSortDeterministic(t *testing.T) {
	b := NewBag(10)
	b.Add(Diagnostic{Severity: SevWarning, Code: TypMismatch, Primary: source.Span{File: 1, Start: 5}})
	b.Add(Diagnostic{Severity: SevError, Code: VerFailedObligation, Primary: source.Span{File: 1, Start: 5}})
	b.Add(Diagnostic{Severity: SevError, Code: LexBadNumber, Primary: source.Span{File: 0, Start: 9}})
	b.Sort()
	items := b.Items()
	if items[0].Code != LexBadNumber {
		t.Fatalf("expected file order first, got %v", items[0].Code)
	}
	if items[1].Severity != SevError {
		t.Fatalf("same position must order errors before warnings")
	}
}

func TestBagDedup(t *testing.T) {
	b := NewBag(10)
	d := Diagnostic{Severity: SevError, Code: VerFailedObligation, Primary: source.Span{File: 1, Start: 3, End: 7}}
	b.Add(d)
	b.Add(d)
	b.Dedup()
	if b.Len() != 1 {
		t.Fatalf("dedup kept %d items", b.Len())
	}
}
