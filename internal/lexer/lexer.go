// Package lexer tokenizes verification-language source files.
package lexer

import (
	"github.com/ArquintL/silicon/internal/diag"
	"github.com/ArquintL/silicon/internal/source"
	"github.com/ArquintL/silicon/internal/token"
)

// Options configure a Lexer.
type Options struct {
	// Reporter receives lexical diagnostics; nil discards them.
	Reporter diag.Reporter
}

// Lexer walks a file's content byte by byte. Next never fails: unknown
// characters are reported and skipped.
type Lexer struct {
	file     *source.File
	pos      uint32
	reporter diag.Reporter
}

func New(file *source.File, opts Options) *Lexer {
	r := opts.Reporter
	if r == nil {
		r = diag.NopReporter{}
	}
	return &Lexer{file: file, reporter: r}
}

// Tokenize drains the lexer into a slice ending with EOF.
func Tokenize(file *source.File, opts Options) []token.Token {
	lx := New(file, opts)
	var out []token.Token
	for {
		tok := lx.Next()
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out
		}
	}
}

// Next returns the next token.
func (lx *Lexer) Next() token.Token {
	lx.skipBlank()
	start := lx.pos
	c, ok := lx.peek()
	if !ok {
		return token.Token{Kind: token.EOF, Span: lx.span(start)}
	}

	switch {
	case isIdentStart(c):
		return lx.ident(start)
	case c >= '0' && c <= '9':
		return lx.number(start)
	}

	lx.pos++
	mk := func(k token.Kind) token.Token {
		return token.Token{Kind: k, Span: lx.span(start)}
	}
	switch c {
	case '(':
		return mk(token.LParen)
	case ')':
		return mk(token.RParen)
	case '{':
		return mk(token.LBrace)
	case '}':
		return mk(token.RBrace)
	case '[':
		return mk(token.LBracket)
	case ']':
		return mk(token.RBracket)
	case ',':
		return mk(token.Comma)
	case '?':
		return mk(token.Question)
	case '|':
		if lx.eat('|') {
			return mk(token.OrOr)
		}
		return mk(token.Bar)
	case '&':
		if lx.eat('&') {
			return mk(token.AndAnd)
		}
	case ':':
		if lx.eat('=') {
			return mk(token.Assign)
		}
		return mk(token.Colon)
	case '.':
		if lx.eat('.') {
			return mk(token.DotDot)
		}
		return mk(token.Dot)
	case '+':
		if lx.eat('+') {
			return mk(token.PlusPlus)
		}
		return mk(token.Plus)
	case '-':
		return mk(token.Minus)
	case '*':
		return mk(token.Star)
	case '/':
		return mk(token.Slash)
	case '%':
		return mk(token.Percent)
	case '!':
		if lx.eat('=') {
			return mk(token.NotEq)
		}
		return mk(token.Bang)
	case '=':
		if lx.eat('=') {
			if lx.eat('>') {
				return mk(token.Implies)
			}
			return mk(token.EqEq)
		}
	case '<':
		if lx.eat('=') {
			return mk(token.Le)
		}
		return mk(token.Lt)
	case '>':
		if lx.eat('=') {
			return mk(token.Ge)
		}
		return mk(token.Gt)
	}

	diag.ReportError(lx.reporter, diag.LexUnknownChar, lx.span(start),
		"unexpected character "+string(rune(c)))
	// пропускаем символ и продолжаем
	return lx.Next()
}

func (lx *Lexer) ident(start uint32) token.Token {
	for {
		c, ok := lx.peek()
		if !ok || !isIdentPart(c) {
			break
		}
		lx.pos++
	}
	text := string(lx.file.Content[start:lx.pos])
	if kw, ok := token.LookupKeyword(text); ok {
		return token.Token{Kind: kw, Span: lx.span(start), Text: text}
	}
	return token.Token{Kind: token.Ident, Span: lx.span(start), Text: text}
}

func (lx *Lexer) number(start uint32) token.Token {
	for {
		c, ok := lx.peek()
		if !ok || c < '0' || c > '9' {
			break
		}
		lx.pos++
	}
	if c, ok := lx.peek(); ok && isIdentStart(c) {
		diag.ReportError(lx.reporter, diag.LexBadNumber, lx.span(start),
			"malformed integer literal")
	}
	return token.Token{Kind: token.IntLit, Span: lx.span(start), Text: string(lx.file.Content[start:lx.pos])}
}

// skipBlank advances past whitespace and // line comments.
func (lx *Lexer) skipBlank() {
	for {
		c, ok := lx.peek()
		if !ok {
			return
		}
		switch c {
		case ' ', '\t', '\r', '\n':
			lx.pos++
		case '/':
			if lx.peekAt(1) == '/' {
				for {
					c, ok := lx.peek()
					if !ok || c == '\n' {
						break
					}
					lx.pos++
				}
			} else {
				return
			}
		default:
			return
		}
	}
}

func (lx *Lexer) peek() (byte, bool) {
	if int(lx.pos) >= len(lx.file.Content) {
		return 0, false
	}
	return lx.file.Content[lx.pos], true
}

func (lx *Lexer) peekAt(off uint32) byte {
	i := lx.pos + off
	if int(i) >= len(lx.file.Content) {
		return 0
	}
	return lx.file.Content[i]
}

func (lx *Lexer) eat(c byte) bool {
	if b, ok := lx.peek(); ok && b == c {
		lx.pos++
		return true
	}
	return false
}

func (lx *Lexer) span(start uint32) source.Span {
	return source.Span{File: lx.file.ID, Start: start, End: lx.pos}
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
