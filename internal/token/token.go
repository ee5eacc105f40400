package token

import (
	"github.com/ArquintL/silicon/internal/source"
)

// Token is one lexeme with its source extent. Text is set for identifier
// and literal tokens only; punctuation is fully described by Kind.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

var keywords = map[string]Kind{
	"field":     KwField,
	"predicate": KwPredicate,
	"function":  KwFunction,
	"requires":  KwRequires,
	"ensures":   KwEnsures,
	"result":    KwResult,
	"true":      KwTrue,
	"false":     KwFalse,
	"null":      KwNull,
	"acc":       KwAcc,
	"unfolding": KwUnfolding,
	"in":        KwIn,
	"old":       KwOld,
	"Int":       KwInt,
	"Bool":      KwBool,
	"Ref":       KwRef,
	"Perm":      KwPerm,
	"Seq":       KwSeq,
}

// LookupKeyword resolves an identifier to its keyword kind, if any.
func LookupKeyword(text string) (Kind, bool) {
	k, ok := keywords[text]
	return k, ok
}
