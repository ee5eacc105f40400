package terms

// FunctionSymbol names an uninterpreted prover function with its signature.
type FunctionSymbol struct {
	Name   string
	Args   []Sort
	Result Sort
}

// Term is a formula or expression in the prover's logic.
type Term interface {
	Sort() Sort
	term()
}

func (Var) term()     {}
func (IntLit) term()  {}
func (BoolLit) term() {}
func (App) term()     {}
func (Not) term()     {}
func (And) term()     {}
func (Or) term()      {}
func (Implies) term() {}
func (Iff) term()     {}
func (Eq) term()      {}
func (Bin) term()     {}
func (Ite) term()     {}
func (Forall) term()  {}
func (Let) term()     {}

// Var is a free or bound variable.
type Var struct {
	Name string
	S    Sort
}

func (v Var) Sort() Sort { return v.S }

// IntLit is an integer literal.
type IntLit struct{ Val int64 }

func (IntLit) Sort() Sort { return IntSort }

// BoolLit is a boolean literal.
type BoolLit struct{ Val bool }

func (BoolLit) Sort() Sort { return BoolSort }

// App applies a function symbol to arguments. Zero-argument applications
// model constants.
type App struct {
	Fun  FunctionSymbol
	Args []Term
}

func (a App) Sort() Sort { return a.Fun.Result }

// NullRef is the distinguished null reference constant.
func NullRef() App {
	return App{Fun: FunctionSymbol{Name: "$Ref.null", Result: RefSort}}
}

type Not struct{ X Term }

func (Not) Sort() Sort { return BoolSort }

// And is n-ary conjunction; empty And is true.
type And struct{ Xs []Term }

func (And) Sort() Sort { return BoolSort }

// Or is n-ary disjunction; empty Or is false.
type Or struct{ Xs []Term }

func (Or) Sort() Sort { return BoolSort }

type Implies struct{ X, Y Term }

func (Implies) Sort() Sort { return BoolSort }

type Iff struct{ X, Y Term }

func (Iff) Sort() Sort { return BoolSort }

type Eq struct{ X, Y Term }

func (Eq) Sort() Sort { return BoolSort }

// BinOp enumerates built-in arithmetic and comparison operators.
type BinOp uint8

const (
	OpPlus BinOp = iota
	OpMinus
	OpTimes
	OpDiv
	OpMod
	OpLess
	OpAtMost
	OpGreater
	OpAtLeast
)

// IsCompare reports whether the operator yields Bool.
func (op BinOp) IsCompare() bool {
	return op >= OpLess
}

func (op BinOp) String() string {
	switch op {
	case OpPlus:
		return "+"
	case OpMinus:
		return "-"
	case OpTimes:
		return "*"
	case OpDiv:
		return "div"
	case OpMod:
		return "mod"
	case OpLess:
		return "<"
	case OpAtMost:
		return "<="
	case OpGreater:
		return ">"
	case OpAtLeast:
		return ">="
	default:
		return "?"
	}
}

// Bin applies a built-in binary operator.
type Bin struct {
	Op   BinOp
	X, Y Term
}

func (b Bin) Sort() Sort {
	if b.Op.IsCompare() {
		return BoolSort
	}
	return b.X.Sort()
}

// Ite is if-then-else.
type Ite struct{ C, X, Y Term }

func (i Ite) Sort() Sort { return i.X.Sort() }

// Trigger is one syntactic instantiation pattern: all of its terms must be
// matched for the pattern to fire. A quantifier carrying several triggers
// offers them as alternatives.
type Trigger struct{ Terms []Term }

// Forall is a universal quantifier with instantiation triggers.
type Forall struct {
	Vars     []Var
	Body     Term
	Triggers []Trigger
}

func (Forall) Sort() Sort { return BoolSort }

// Let binds Var to Val inside Body. The binding is a real term node: it is
// serialized into prover input, not merely generator-internal scope.
type Let struct {
	Var  Var
	Val  Term
	Body Term
}

func (l Let) Sort() Sort { return l.Body.Sort() }

// BigAnd folds conjuncts without wrapping single terms.
func BigAnd(xs []Term) Term {
	switch len(xs) {
	case 0:
		return BoolLit{Val: true}
	case 1:
		return xs[0]
	default:
		return And{Xs: xs}
	}
}
