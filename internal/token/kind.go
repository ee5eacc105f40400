// Package token defines the lexical vocabulary of the verification language.
package token

// Kind classifies a token.
type Kind uint8

const (
	Invalid Kind = iota
	EOF

	Ident
	IntLit

	// keywords
	KwField
	KwPredicate
	KwFunction
	KwRequires
	KwEnsures
	KwResult
	KwTrue
	KwFalse
	KwNull
	KwAcc
	KwUnfolding
	KwIn
	KwOld
	KwInt
	KwBool
	KwRef
	KwPerm
	KwSeq

	// punctuation
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	Comma
	Colon
	Dot
	Question

	// operators
	Plus
	Minus
	Star
	Slash
	Percent
	Bang
	PlusPlus
	Assign // :=
	EqEq
	NotEq
	Lt
	Le
	Gt
	Ge
	AndAnd
	OrOr
	Implies // ==>
	DotDot  // ..
	Bar     // |
)

var kindNames = map[Kind]string{
	Invalid:     "invalid",
	EOF:         "end of file",
	Ident:       "identifier",
	IntLit:      "integer literal",
	KwField:     "field",
	KwPredicate: "predicate",
	KwFunction:  "function",
	KwRequires:  "requires",
	KwEnsures:   "ensures",
	KwResult:    "result",
	KwTrue:      "true",
	KwFalse:     "false",
	KwNull:      "null",
	KwAcc:       "acc",
	KwUnfolding: "unfolding",
	KwIn:        "in",
	KwOld:       "old",
	KwInt:       "Int",
	KwBool:      "Bool",
	KwRef:       "Ref",
	KwPerm:      "Perm",
	KwSeq:       "Seq",
	LParen:      "(",
	RParen:      ")",
	LBrace:      "{",
	RBrace:      "}",
	LBracket:    "[",
	RBracket:    "]",
	Comma:       ",",
	Colon:       ":",
	Dot:         ".",
	Question:    "?",
	Plus:        "+",
	Minus:       "-",
	Star:        "*",
	Slash:       "/",
	Percent:     "%",
	Bang:        "!",
	PlusPlus:    "++",
	Assign:      ":=",
	EqEq:        "==",
	NotEq:       "!=",
	Lt:          "<",
	Le:          "<=",
	Gt:          ">",
	Ge:          ">=",
	AndAnd:      "&&",
	OrOr:        "||",
	Implies:     "==>",
	DotDot:      "..",
	Bar:         "|",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "kind(?)"
}
