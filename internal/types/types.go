package types

import (
	"fmt"

	"github.com/ArquintL/silicon/internal/source"
)

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindInt
	KindBool
	KindPerm
	KindRef
	KindSeq
	// KindTypeVar is an unresolved type parameter. Instantiations still
	// carrying type variables belong to the generic-domain encoder and are
	// skipped by the built-in theory contributors.
	KindTypeVar
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindInt:
		return "Int"
	case KindBool:
		return "Bool"
	case KindPerm:
		return "Perm"
	case KindRef:
		return "Ref"
	case KindSeq:
		return "Seq"
	case KindTypeVar:
		return "typevar"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Type is a compact descriptor for any supported type.
type Type struct {
	Kind Kind
	Elem TypeID          // element type for Seq
	Name source.StringID // variable name for TypeVar
}

// MakeSeq describes Seq[elem].
func MakeSeq(elem TypeID) Type {
	return Type{Kind: KindSeq, Elem: elem}
}

// MakeTypeVar describes an open type parameter.
func MakeTypeVar(name source.StringID) Type {
	return Type{Kind: KindTypeVar, Name: name}
}
