// Package terms models the target prover's logic: sorts, function symbols
// and first-order terms, including quantifiers with instantiation triggers
// and serialized let-bindings.
package terms

import (
	"fmt"

	"github.com/ArquintL/silicon/internal/types"
)

// SortKind enumerates prover-level sorts.
type SortKind uint8

const (
	SortInvalid SortKind = iota
	SortInt
	SortBool
	SortRef
	SortPerm
	// SortSnap is the sort of heap snapshots passed to heap-dependent
	// function symbols.
	SortSnap
	SortSeq
)

// Sort is a prover-sort descriptor. Seq sorts carry their element sort.
type Sort struct {
	Kind SortKind
	Elem *Sort
}

var (
	IntSort  = Sort{Kind: SortInt}
	BoolSort = Sort{Kind: SortBool}
	RefSort  = Sort{Kind: SortRef}
	PermSort = Sort{Kind: SortPerm}
	SnapSort = Sort{Kind: SortSnap}
)

// SeqSort returns the sequence sort over elem.
func SeqSort(elem Sort) Sort {
	return Sort{Kind: SortSeq, Elem: &elem}
}

// ID returns the prover-level name of the sort; it doubles as the identity
// key for ordered sort sets.
func (s Sort) ID() string {
	switch s.Kind {
	case SortInt:
		return "Int"
	case SortBool:
		return "Bool"
	case SortRef:
		return "$Ref"
	case SortPerm:
		return "$Perm"
	case SortSnap:
		return "$Snap"
	case SortSeq:
		return "Seq<" + s.Elem.ID() + ">"
	default:
		return fmt.Sprintf("sort(%d)", s.Kind)
	}
}

// Equal compares sorts structurally.
func (s Sort) Equal(o Sort) bool {
	if s.Kind != o.Kind {
		return false
	}
	if s.Kind == SortSeq {
		return s.Elem.Equal(*o.Elem)
	}
	return true
}

// SortFromType converts a verifier type to its prover sort. Type variables
// have no sort here; converting one is a caller bug.
func SortFromType(in *types.Interner, id types.TypeID) Sort {
	t := in.MustLookup(id)
	switch t.Kind {
	case types.KindInt:
		return IntSort
	case types.KindBool:
		return BoolSort
	case types.KindPerm:
		return PermSort
	case types.KindRef:
		return RefSort
	case types.KindSeq:
		return SeqSort(SortFromType(in, t.Elem))
	default:
		panic(fmt.Sprintf("terms: no sort for type kind %v", t.Kind))
	}
}
