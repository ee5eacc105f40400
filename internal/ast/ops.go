package ast

import "fmt"

// Op enumerates operators carried by unary/binary/ternary expressions.
type Op uint8

const (
	OpInvalid Op = iota

	// unary
	OpNot
	OpNeg
	OpSeqLen
	OpSeqSingleton

	// binary
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpAnd
	OpOr
	OpImplies
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpSeqAppend
	OpSeqIndex
	OpSeqTake
	OpSeqDrop
	OpSeqContains

	// ternary
	OpCond
	OpSeqUpdate
)

func (op Op) String() string {
	switch op {
	case OpNot:
		return "!"
	case OpNeg:
		return "-"
	case OpSeqLen:
		return "|..|"
	case OpSeqSingleton:
		return "Seq(..)"
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpMod:
		return "%"
	case OpAnd:
		return "&&"
	case OpOr:
		return "||"
	case OpImplies:
		return "==>"
	case OpEq:
		return "=="
	case OpNe:
		return "!="
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	case OpSeqAppend:
		return "++"
	case OpSeqIndex:
		return "[]"
	case OpSeqTake:
		return "[..n]"
	case OpSeqDrop:
		return "[n..]"
	case OpSeqContains:
		return "in"
	case OpCond:
		return "?:"
	case OpSeqUpdate:
		return "[i := v]"
	default:
		return fmt.Sprintf("Op(%d)", op)
	}
}
