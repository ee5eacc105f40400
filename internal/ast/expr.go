package ast

import (
	"github.com/ArquintL/silicon/internal/source"
	"github.com/ArquintL/silicon/internal/types"
)

// ExprID references an expression inside a Program's arena.
type ExprID uint32

// NoExprID marks the absence of an expression (abstract function body,
// bodyless predicate).
const NoExprID ExprID = 0

// ExprKind enumerates expression kinds of the assertion language.
type ExprKind uint8

const (
	ExprInvalid ExprKind = iota
	// ExprIntLit is an integer literal.
	ExprIntLit
	// ExprBoolLit is a boolean literal.
	ExprBoolLit
	// ExprNullLit is the null reference literal.
	ExprNullLit
	// ExprVar references a formal parameter or bound variable.
	ExprVar
	// ExprResult references the function result inside postconditions.
	ExprResult
	// ExprUnary applies a unary Op to X.
	ExprUnary
	// ExprBinary applies a binary Op to X and Y.
	ExprBinary
	// ExprTernary applies a ternary Op to X, Y and Z.
	ExprTernary
	// ExprFieldAccess reads X.field (heap-dependent; Ref is a FieldID).
	ExprFieldAccess
	// ExprAcc asserts permission to X.field; Y is an optional permission
	// amount (NoExprID means full permission).
	ExprAcc
	// ExprFuncApp applies a program function (Ref is a FuncID).
	ExprFuncApp
	// ExprPredApp asserts a predicate instance (Ref is a PredID).
	ExprPredApp
	// ExprUnfolding evaluates Z in the scope of temporarily unfolding the
	// predicate instance X (an ExprPredApp).
	ExprUnfolding
	// ExprSeqEmpty is the empty sequence literal of the node's Seq type.
	ExprSeqEmpty
	// ExprOld evaluates X in the pre-state heap.
	ExprOld
)

// Expr is a compact arena node. Operand usage depends on Kind.
type Expr struct {
	Kind    ExprKind
	Op      Op
	Type    types.TypeID
	Span    source.Span
	Name    source.StringID // ExprVar: variable name
	Ref     uint32          // FieldID / FuncID / PredID depending on Kind
	X, Y, Z ExprID
	Args    []ExprID // ExprFuncApp / ExprPredApp arguments
	IntVal  int64
	BoolVal bool
}
