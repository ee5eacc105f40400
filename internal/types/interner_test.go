package types

import (
	"testing"

	"github.com/ArquintL/silicon/internal/source"
)

func TestInternerBuiltins(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	if b.Int == NoTypeID || b.Bool == NoTypeID {
		t.Fatalf("builtins not initialized")
	}
	tt, _ := in.Lookup(b.Int)
	if tt.Kind != KindInt {
		t.Fatalf("expected Int kind, got %v", tt.Kind)
	}
}

func TestInternerDeduplicatesDescriptors(t *testing.T) {
	in := NewInterner()
	s1 := in.Intern(MakeSeq(in.Builtins().Int))
	s2 := in.Intern(MakeSeq(in.Builtins().Int))
	if s1 != s2 {
		t.Fatalf("sequence types should be deduplicated")
	}
}

func TestConcrete(t *testing.T) {
	in := NewInterner()
	strs := source.NewInterner()
	tv := in.Intern(MakeTypeVar(strs.Intern("T")))
	seqInt := in.Intern(MakeSeq(in.Builtins().Int))
	seqTV := in.Intern(MakeSeq(tv))
	seqSeqTV := in.Intern(MakeSeq(seqTV))

	if !in.Concrete(seqInt) {
		t.Fatalf("Seq[Int] must be concrete")
	}
	if in.Concrete(tv) || in.Concrete(seqTV) || in.Concrete(seqSeqTV) {
		t.Fatalf("types containing type variables must not be concrete")
	}
}

func TestConstituentsNested(t *testing.T) {
	in := NewInterner()
	seqInt := in.Intern(MakeSeq(in.Builtins().Int))
	seqSeqInt := in.Intern(MakeSeq(seqInt))

	var got []TypeID
	in.Constituents(seqSeqInt, func(id TypeID) { got = append(got, id) })

	want := []TypeID{seqSeqInt, seqInt, in.Builtins().Int}
	if len(got) != len(want) {
		t.Fatalf("constituents: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("constituents[%d]: got %v, want %v", i, got[i], want[i])
		}
	}
}
