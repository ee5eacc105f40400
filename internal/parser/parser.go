// Package parser builds typed programs from verification-language source.
//
// Parsing runs in two passes over the token stream: the first registers
// every declaration header so bodies may reference declarations appearing
// later in the file, the second parses and types the recorded specification
// and body expressions.
package parser

import (
	"github.com/ArquintL/silicon/internal/ast"
	"github.com/ArquintL/silicon/internal/diag"
	"github.com/ArquintL/silicon/internal/lexer"
	"github.com/ArquintL/silicon/internal/source"
	"github.com/ArquintL/silicon/internal/token"
	"github.com/ArquintL/silicon/internal/types"
)

// Options configure parsing.
type Options struct {
	// Reporter receives syntax and type diagnostics; nil discards them.
	Reporter diag.Reporter
}

// ParseFile tokenizes the file and adds its declarations to prog.
// Diagnostics go to the reporter; the program stays usable after errors,
// failed expressions are simply absent.
func ParseFile(file *source.File, prog *ast.Program, opts Options) {
	r := opts.Reporter
	if r == nil {
		r = diag.NopReporter{}
	}
	toks := lexer.Tokenize(file, lexer.Options{Reporter: r})
	p := &parser{toks: toks, prog: prog, reporter: r}
	p.parseDecls()
	p.parseBodies()
}

// pending holds expression token ranges recorded during the first pass.
type pending struct {
	fn    ast.FuncID
	pred  ast.PredID
	kind  pendingKind
	start int
	end   int
}

type pendingKind uint8

const (
	pendingPre pendingKind = iota
	pendingPost
	pendingFnBody
	pendingPredBody
)

type parser struct {
	toks     []token.Token
	pos      int
	prog     *ast.Program
	reporter diag.Reporter
	queue    []pending
}

func (p *parser) peek() token.Token    { return p.toks[p.pos] }
func (p *parser) at(k token.Kind) bool { return p.toks[p.pos].Kind == k }

func (p *parser) next() token.Token {
	t := p.toks[p.pos]
	if t.Kind != token.EOF {
		p.pos++
	}
	return t
}

func (p *parser) accept(k token.Kind) bool {
	if p.at(k) {
		p.pos++
		return true
	}
	return false
}

func (p *parser) expect(k token.Kind) (token.Token, bool) {
	if p.at(k) {
		return p.next(), true
	}
	p.errf(diag.SynUnexpectedToken, p.peek().Span,
		"expected "+k.String()+", found "+p.peek().Kind.String())
	return p.peek(), false
}

func (p *parser) errf(code diag.Code, sp source.Span, msg string) {
	diag.ReportError(p.reporter, code, sp, msg)
}

// ---------------------------------------------------------------------------
// pass 1: declaration headers

func (p *parser) parseDecls() {
	for !p.at(token.EOF) {
		switch p.peek().Kind {
		case token.KwField:
			p.parseField()
		case token.KwPredicate:
			p.parsePredicate()
		case token.KwFunction:
			p.parseFunction()
		default:
			p.errf(diag.SynUnexpectedToken, p.peek().Span,
				"expected a declaration, found "+p.peek().Kind.String())
			p.recoverToDecl()
		}
	}
}

func (p *parser) recoverToDecl() {
	for !p.at(token.EOF) {
		switch p.peek().Kind {
		case token.KwField, token.KwPredicate, token.KwFunction:
			return
		}
		p.pos++
	}
}

func (p *parser) parseField() {
	kw := p.next()
	name, ok := p.expect(token.Ident)
	if !ok {
		p.recoverToDecl()
		return
	}
	if _, ok := p.expect(token.Colon); !ok {
		p.recoverToDecl()
		return
	}
	typ, ok := p.parseType()
	if !ok {
		p.recoverToDecl()
		return
	}
	id := p.prog.Strings.Intern(name.Text)
	if _, dup := p.prog.FieldByName(id); dup {
		p.errf(diag.SynDuplicateMember, name.Span, "field "+name.Text+" is already declared")
		return
	}
	p.prog.AddField(ast.Field{Name: id, Type: typ, Span: kw.Span.Cover(name.Span)})
}

func (p *parser) parsePredicate() {
	kw := p.next()
	name, ok := p.expect(token.Ident)
	if !ok {
		p.recoverToDecl()
		return
	}
	params, ok := p.parseParams()
	if !ok {
		p.recoverToDecl()
		return
	}
	id := p.prog.Strings.Intern(name.Text)
	if _, dup := p.prog.PredicateByName(id); dup {
		p.errf(diag.SynDuplicateMember, name.Span, "predicate "+name.Text+" is already declared")
		p.skipBraced()
		return
	}
	predID := p.prog.AddPredicate(ast.Predicate{
		Name:   id,
		Params: params,
		Span:   kw.Span.Cover(name.Span),
	})
	if p.at(token.LBrace) {
		start, end, ok := p.recordBraced()
		if ok {
			p.queue = append(p.queue, pending{pred: predID, fn: ^ast.FuncID(0), kind: pendingPredBody, start: start, end: end})
		}
	}
}

func (p *parser) parseFunction() {
	kw := p.next()
	name, ok := p.expect(token.Ident)
	if !ok {
		p.recoverToDecl()
		return
	}
	params, ok := p.parseParams()
	if !ok {
		p.recoverToDecl()
		return
	}
	if _, ok := p.expect(token.Colon); !ok {
		p.recoverToDecl()
		return
	}
	result, ok := p.parseType()
	if !ok {
		p.recoverToDecl()
		return
	}
	id := p.prog.Strings.Intern(name.Text)
	if _, dup := p.prog.FunctionByName(id); dup {
		p.errf(diag.SynDuplicateMember, name.Span, "function "+name.Text+" is already declared")
		p.skipFunctionTail()
		return
	}
	fnID := p.prog.AddFunction(ast.Function{
		Name:   id,
		Params: params,
		Result: result,
		Span:   kw.Span.Cover(name.Span),
	})

	for {
		switch p.peek().Kind {
		case token.KwRequires:
			p.next()
			start, end := p.recordSpecExpr()
			p.queue = append(p.queue, pending{fn: fnID, kind: pendingPre, start: start, end: end})
			continue
		case token.KwEnsures:
			p.next()
			start, end := p.recordSpecExpr()
			p.queue = append(p.queue, pending{fn: fnID, kind: pendingPost, start: start, end: end})
			continue
		}
		break
	}
	if p.at(token.LBrace) {
		start, end, ok := p.recordBraced()
		if ok {
			p.queue = append(p.queue, pending{fn: fnID, kind: pendingFnBody, start: start, end: end})
		}
	}
}

func (p *parser) parseParams() ([]ast.Param, bool) {
	if _, ok := p.expect(token.LParen); !ok {
		return nil, false
	}
	var params []ast.Param
	if p.accept(token.RParen) {
		return params, true
	}
	for {
		name, ok := p.expect(token.Ident)
		if !ok {
			return nil, false
		}
		if _, ok := p.expect(token.Colon); !ok {
			return nil, false
		}
		typ, ok := p.parseType()
		if !ok {
			return nil, false
		}
		params = append(params, ast.Param{
			Name: p.prog.Strings.Intern(name.Text),
			Type: typ,
			Span: name.Span,
		})
		if p.accept(token.Comma) {
			continue
		}
		_, ok = p.expect(token.RParen)
		return params, ok
	}
}

func (p *parser) parseType() (types.TypeID, bool) {
	b := p.prog.Types.Builtins()
	switch p.peek().Kind {
	case token.KwInt:
		p.next()
		return b.Int, true
	case token.KwBool:
		p.next()
		return b.Bool, true
	case token.KwRef:
		p.next()
		return b.Ref, true
	case token.KwPerm:
		p.next()
		return b.Perm, true
	case token.KwSeq:
		p.next()
		if _, ok := p.expect(token.LBracket); !ok {
			return b.Invalid, false
		}
		elem, ok := p.parseType()
		if !ok {
			return b.Invalid, false
		}
		if _, ok := p.expect(token.RBracket); !ok {
			return b.Invalid, false
		}
		return p.prog.Types.Intern(types.MakeSeq(elem)), true
	case token.Ident:
		// неизвестное имя в позиции типа — параметр типа
		t := p.next()
		return p.prog.Types.Intern(types.MakeTypeVar(p.prog.Strings.Intern(t.Text))), true
	default:
		p.errf(diag.SynExpectType, p.peek().Span,
			"expected a type, found "+p.peek().Kind.String())
		return b.Invalid, false
	}
}

// recordSpecExpr records the token range of one requires/ensures clause:
// everything up to the next spec keyword, declaration keyword, top-level
// brace or EOF.
func (p *parser) recordSpecExpr() (int, int) {
	start := p.pos
	depth := 0
	for {
		t := p.peek()
		if t.Kind == token.EOF {
			break
		}
		if depth == 0 {
			switch t.Kind {
			case token.KwRequires, token.KwEnsures, token.LBrace,
				token.KwField, token.KwPredicate, token.KwFunction:
				return start, p.pos
			}
		}
		switch t.Kind {
		case token.LParen, token.LBracket:
			depth++
		case token.RParen, token.RBracket:
			depth--
		}
		p.pos++
	}
	return start, p.pos
}

// recordBraced consumes a balanced {...} block, returning the range of the
// tokens strictly inside the braces.
func (p *parser) recordBraced() (int, int, bool) {
	open, _ := p.expect(token.LBrace)
	start := p.pos
	depth := 1
	for {
		t := p.peek()
		switch t.Kind {
		case token.EOF:
			p.errf(diag.SynUnclosedDelimiter, open.Span, "unclosed {")
			return start, p.pos, false
		case token.LBrace:
			depth++
		case token.RBrace:
			depth--
			if depth == 0 {
				end := p.pos
				p.pos++
				return start, end, true
			}
		}
		p.pos++
	}
}

func (p *parser) skipBraced() {
	if p.at(token.LBrace) {
		p.recordBraced()
	}
}

func (p *parser) skipFunctionTail() {
	for {
		switch p.peek().Kind {
		case token.KwRequires, token.KwEnsures:
			p.next()
			p.recordSpecExpr()
		case token.LBrace:
			p.recordBraced()
			return
		default:
			return
		}
	}
}

// ---------------------------------------------------------------------------
// pass 2: expressions

func (p *parser) parseBodies() {
	for _, item := range p.queue {
		env := p.envFor(item)
		ep := &exprParser{
			parser: p,
			toks:   p.toks[:item.end],
			env:    env,
		}
		ep.pos = item.start
		id, ok := ep.parseExpr()
		if !ok {
			continue
		}
		if ep.pos < item.end {
			p.errf(diag.SynUnexpectedToken, p.toks[ep.pos].Span,
				"unexpected "+p.toks[ep.pos].Kind.String()+" after expression")
			continue
		}
		switch item.kind {
		case pendingPre:
			p.requireBool(id)
			p.prog.Functions[item.fn].Pres = append(p.prog.Functions[item.fn].Pres, id)
		case pendingPost:
			p.requireBool(id)
			p.prog.Functions[item.fn].Posts = append(p.prog.Functions[item.fn].Posts, id)
		case pendingFnBody:
			p.requireAssignable(id, p.prog.Functions[item.fn].Result)
			p.prog.Functions[item.fn].Body = id
		case pendingPredBody:
			p.requireBool(id)
			p.prog.Predicates[item.pred].Body = id
		}
	}
}

type env struct {
	vars        map[string]types.TypeID
	resultType  types.TypeID
	allowResult bool
}

func (p *parser) envFor(item pending) env {
	e := env{vars: make(map[string]types.TypeID)}
	switch item.kind {
	case pendingPredBody:
		for _, prm := range p.prog.Predicates[item.pred].Params {
			e.vars[p.prog.Strings.MustLookup(prm.Name)] = prm.Type
		}
	default:
		fn := &p.prog.Functions[item.fn]
		for _, prm := range fn.Params {
			e.vars[p.prog.Strings.MustLookup(prm.Name)] = prm.Type
		}
		e.resultType = fn.Result
		e.allowResult = item.kind == pendingPost
	}
	return e
}

func (p *parser) requireBool(id ast.ExprID) {
	e := p.prog.Expr(id)
	if e.Type != p.prog.Types.Builtins().Bool && e.Type != p.prog.Types.Builtins().Invalid {
		p.errf(diag.TypMismatch, e.Span, "expected a Bool expression")
	}
}

func (p *parser) requireAssignable(id ast.ExprID, want types.TypeID) {
	e := p.prog.Expr(id)
	if e.Type != want && e.Type != p.prog.Types.Builtins().Invalid {
		p.errf(diag.TypMismatch, e.Span, "body type does not match the declared result type")
	}
}
