package parser

import (
	"strconv"

	"github.com/ArquintL/silicon/internal/ast"
	"github.com/ArquintL/silicon/internal/diag"
	"github.com/ArquintL/silicon/internal/source"
	"github.com/ArquintL/silicon/internal/token"
	"github.com/ArquintL/silicon/internal/types"
)

// exprParser parses one recorded expression range against an environment of
// formal parameters. Types are assigned while building; a type error is
// reported once and the node is given the invalid type, which downstream
// checks treat as already-diagnosed.
type exprParser struct {
	*parser
	toks []token.Token
	env  env
}

func (ep *exprParser) peek() token.Token {
	if ep.pos >= len(ep.toks) {
		return token.Token{Kind: token.EOF, Span: ep.endSpan()}
	}
	return ep.toks[ep.pos]
}

func (ep *exprParser) at(k token.Kind) bool { return ep.peek().Kind == k }

func (ep *exprParser) next() token.Token {
	t := ep.peek()
	if t.Kind != token.EOF {
		ep.pos++
	}
	return t
}

func (ep *exprParser) accept(k token.Kind) bool {
	if ep.at(k) {
		ep.pos++
		return true
	}
	return false
}

func (ep *exprParser) expect(k token.Kind) (token.Token, bool) {
	if ep.at(k) {
		return ep.next(), true
	}
	ep.errf(diag.SynUnexpectedToken, ep.peek().Span,
		"expected "+k.String()+", found "+ep.peek().Kind.String())
	return ep.peek(), false
}

func (ep *exprParser) endSpan() source.Span {
	if len(ep.toks) == 0 {
		return source.Span{}
	}
	last := ep.toks[len(ep.toks)-1].Span
	return source.Span{File: last.File, Start: last.End, End: last.End}
}

func (ep *exprParser) builtins() types.Builtins { return ep.prog.Types.Builtins() }

// parseExpr parses a full expression (ternary is the lowest precedence).
func (ep *exprParser) parseExpr() (ast.ExprID, bool) {
	cond, ok := ep.parseImplies()
	if !ok {
		return 0, false
	}
	if !ep.accept(token.Question) {
		return cond, true
	}
	thenE, ok := ep.parseExpr()
	if !ok {
		return 0, false
	}
	if _, ok := ep.expect(token.Colon); !ok {
		return 0, false
	}
	elseE, ok := ep.parseExpr()
	if !ok {
		return 0, false
	}
	ep.checkType(cond, ep.builtins().Bool, "condition must be Bool")
	t := ep.prog.Expr(thenE).Type
	if et := ep.prog.Expr(elseE).Type; et != t && !ep.isInvalid(t) && !ep.isInvalid(et) {
		ep.errf(diag.TypMismatch, ep.prog.Expr(elseE).Span, "branches of ?: have different types")
	}
	return ep.node(ast.Expr{
		Kind: ast.ExprTernary, Op: ast.OpCond, Type: t,
		Span: ep.spanOf(cond).Cover(ep.spanOf(elseE)),
		X:    cond, Y: thenE, Z: elseE,
	}), true
}

// parseImplies is right-associative.
func (ep *exprParser) parseImplies() (ast.ExprID, bool) {
	lhs, ok := ep.parseOr()
	if !ok {
		return 0, false
	}
	if !ep.accept(token.Implies) {
		return lhs, true
	}
	rhs, ok := ep.parseImplies()
	if !ok {
		return 0, false
	}
	ep.checkType(lhs, ep.builtins().Bool, "left side of ==> must be Bool")
	ep.checkType(rhs, ep.builtins().Bool, "right side of ==> must be Bool")
	return ep.boolBinary(ast.OpImplies, lhs, rhs), true
}

func (ep *exprParser) parseOr() (ast.ExprID, bool) {
	lhs, ok := ep.parseAnd()
	if !ok {
		return 0, false
	}
	for ep.accept(token.OrOr) {
		rhs, ok := ep.parseAnd()
		if !ok {
			return 0, false
		}
		ep.checkType(lhs, ep.builtins().Bool, "operand of || must be Bool")
		ep.checkType(rhs, ep.builtins().Bool, "operand of || must be Bool")
		lhs = ep.boolBinary(ast.OpOr, lhs, rhs)
	}
	return lhs, true
}

func (ep *exprParser) parseAnd() (ast.ExprID, bool) {
	lhs, ok := ep.parseEquality()
	if !ok {
		return 0, false
	}
	for ep.accept(token.AndAnd) {
		rhs, ok := ep.parseEquality()
		if !ok {
			return 0, false
		}
		ep.checkType(lhs, ep.builtins().Bool, "operand of && must be Bool")
		ep.checkType(rhs, ep.builtins().Bool, "operand of && must be Bool")
		lhs = ep.boolBinary(ast.OpAnd, lhs, rhs)
	}
	return lhs, true
}

func (ep *exprParser) parseEquality() (ast.ExprID, bool) {
	lhs, ok := ep.parseComparison()
	if !ok {
		return 0, false
	}
	for {
		var op ast.Op
		switch {
		case ep.accept(token.EqEq):
			op = ast.OpEq
		case ep.accept(token.NotEq):
			op = ast.OpNe
		default:
			return lhs, true
		}
		rhs, ok := ep.parseComparison()
		if !ok {
			return 0, false
		}
		lt, rt := ep.prog.Expr(lhs).Type, ep.prog.Expr(rhs).Type
		if lt != rt && !ep.isInvalid(lt) && !ep.isInvalid(rt) {
			ep.errf(diag.TypMismatch, ep.spanOf(rhs), "comparing values of different types")
		}
		lhs = ep.boolBinary(op, lhs, rhs)
	}
}

func (ep *exprParser) parseComparison() (ast.ExprID, bool) {
	lhs, ok := ep.parseAdditive()
	if !ok {
		return 0, false
	}
	for {
		var op ast.Op
		switch {
		case ep.accept(token.Lt):
			op = ast.OpLt
		case ep.accept(token.Le):
			op = ast.OpLe
		case ep.accept(token.Gt):
			op = ast.OpGt
		case ep.accept(token.Ge):
			op = ast.OpGe
		case ep.at(token.KwIn):
			// e in s: операнды меняются местами, X всегда последовательность
			ep.next()
			seq, ok := ep.parseAdditive()
			if !ok {
				return 0, false
			}
			elem := ep.seqElem(seq)
			ep.checkType(lhs, elem, "element type does not match the sequence")
			lhs = ep.node(ast.Expr{
				Kind: ast.ExprBinary, Op: ast.OpSeqContains, Type: ep.builtins().Bool,
				Span: ep.spanOf(lhs).Cover(ep.spanOf(seq)),
				X:    seq, Y: lhs,
			})
			continue
		default:
			return lhs, true
		}
		rhs, ok := ep.parseAdditive()
		if !ok {
			return 0, false
		}
		ep.checkType(lhs, ep.builtins().Int, "comparison needs Int operands")
		ep.checkType(rhs, ep.builtins().Int, "comparison needs Int operands")
		lhs = ep.boolBinary(op, lhs, rhs)
	}
}

func (ep *exprParser) parseAdditive() (ast.ExprID, bool) {
	lhs, ok := ep.parseMultiplicative()
	if !ok {
		return 0, false
	}
	for {
		var op ast.Op
		switch {
		case ep.accept(token.Plus):
			op = ast.OpAdd
		case ep.accept(token.Minus):
			op = ast.OpSub
		case ep.accept(token.PlusPlus):
			op = ast.OpSeqAppend
		default:
			return lhs, true
		}
		rhs, ok := ep.parseMultiplicative()
		if !ok {
			return 0, false
		}
		if op == ast.OpSeqAppend {
			lt := ep.prog.Expr(lhs).Type
			ep.seqElem(lhs)
			ep.checkType(rhs, lt, "appending sequences of different types")
			lhs = ep.node(ast.Expr{
				Kind: ast.ExprBinary, Op: op, Type: lt,
				Span: ep.spanOf(lhs).Cover(ep.spanOf(rhs)),
				X:    lhs, Y: rhs,
			})
			continue
		}
		ep.checkType(lhs, ep.builtins().Int, "arithmetic needs Int operands")
		ep.checkType(rhs, ep.builtins().Int, "arithmetic needs Int operands")
		lhs = ep.intBinary(op, lhs, rhs)
	}
}

func (ep *exprParser) parseMultiplicative() (ast.ExprID, bool) {
	lhs, ok := ep.parseUnary()
	if !ok {
		return 0, false
	}
	for {
		var op ast.Op
		switch {
		case ep.accept(token.Star):
			op = ast.OpMul
		case ep.accept(token.Slash):
			op = ast.OpDiv
		case ep.accept(token.Percent):
			op = ast.OpMod
		default:
			return lhs, true
		}
		rhs, ok := ep.parseUnary()
		if !ok {
			return 0, false
		}
		ep.checkType(lhs, ep.builtins().Int, "arithmetic needs Int operands")
		ep.checkType(rhs, ep.builtins().Int, "arithmetic needs Int operands")
		lhs = ep.intBinary(op, lhs, rhs)
	}
}

func (ep *exprParser) parseUnary() (ast.ExprID, bool) {
	switch {
	case ep.at(token.Bang):
		t := ep.next()
		x, ok := ep.parseUnary()
		if !ok {
			return 0, false
		}
		ep.checkType(x, ep.builtins().Bool, "operand of ! must be Bool")
		return ep.node(ast.Expr{
			Kind: ast.ExprUnary, Op: ast.OpNot, Type: ep.builtins().Bool,
			Span: t.Span.Cover(ep.spanOf(x)), X: x,
		}), true
	case ep.at(token.Minus):
		t := ep.next()
		x, ok := ep.parseUnary()
		if !ok {
			return 0, false
		}
		ep.checkType(x, ep.builtins().Int, "operand of unary - must be Int")
		return ep.node(ast.Expr{
			Kind: ast.ExprUnary, Op: ast.OpNeg, Type: ep.builtins().Int,
			Span: t.Span.Cover(ep.spanOf(x)), X: x,
		}), true
	}
	return ep.parsePostfix()
}

func (ep *exprParser) parsePostfix() (ast.ExprID, bool) {
	e, ok := ep.parsePrimary()
	if !ok {
		return 0, false
	}
	for {
		switch {
		case ep.accept(token.Dot):
			name, ok := ep.expect(token.Ident)
			if !ok {
				return 0, false
			}
			e, ok = ep.fieldAccess(e, name)
			if !ok {
				return 0, false
			}
		case ep.at(token.LBracket):
			e, ok = ep.parseBracket(e)
			if !ok {
				return 0, false
			}
		default:
			return e, true
		}
	}
}

// parseBracket handles s[i], s[..n], s[n..] and s[i := v].
func (ep *exprParser) parseBracket(seq ast.ExprID) (ast.ExprID, bool) {
	ep.next()
	seqType := ep.prog.Expr(seq).Type
	elem := ep.seqElem(seq)

	if ep.accept(token.DotDot) {
		n, ok := ep.parseExpr()
		if !ok {
			return 0, false
		}
		close, ok := ep.expect(token.RBracket)
		if !ok {
			return 0, false
		}
		ep.checkType(n, ep.builtins().Int, "take bound must be Int")
		return ep.node(ast.Expr{
			Kind: ast.ExprBinary, Op: ast.OpSeqTake, Type: seqType,
			Span: ep.spanOf(seq).Cover(close.Span), X: seq, Y: n,
		}), true
	}

	first, ok := ep.parseExpr()
	if !ok {
		return 0, false
	}
	switch {
	case ep.accept(token.DotDot):
		close, ok := ep.expect(token.RBracket)
		if !ok {
			return 0, false
		}
		ep.checkType(first, ep.builtins().Int, "drop bound must be Int")
		return ep.node(ast.Expr{
			Kind: ast.ExprBinary, Op: ast.OpSeqDrop, Type: seqType,
			Span: ep.spanOf(seq).Cover(close.Span), X: seq, Y: first,
		}), true
	case ep.accept(token.Assign):
		val, ok := ep.parseExpr()
		if !ok {
			return 0, false
		}
		close, ok := ep.expect(token.RBracket)
		if !ok {
			return 0, false
		}
		ep.checkType(first, ep.builtins().Int, "update index must be Int")
		ep.checkType(val, elem, "update value does not match the element type")
		return ep.node(ast.Expr{
			Kind: ast.ExprTernary, Op: ast.OpSeqUpdate, Type: seqType,
			Span: ep.spanOf(seq).Cover(close.Span), X: seq, Y: first, Z: val,
		}), true
	default:
		close, ok := ep.expect(token.RBracket)
		if !ok {
			return 0, false
		}
		ep.checkType(first, ep.builtins().Int, "index must be Int")
		return ep.node(ast.Expr{
			Kind: ast.ExprBinary, Op: ast.OpSeqIndex, Type: elem,
			Span: ep.spanOf(seq).Cover(close.Span), X: seq, Y: first,
		}), true
	}
}

func (ep *exprParser) parsePrimary() (ast.ExprID, bool) {
	t := ep.peek()
	switch t.Kind {
	case token.IntLit:
		ep.next()
		v, err := strconv.ParseInt(t.Text, 10, 64)
		if err != nil {
			ep.errf(diag.LexBadNumber, t.Span, "integer literal out of range")
		}
		return ep.node(ast.Expr{Kind: ast.ExprIntLit, Type: ep.builtins().Int, Span: t.Span, IntVal: v}), true

	case token.KwTrue, token.KwFalse:
		ep.next()
		return ep.node(ast.Expr{
			Kind: ast.ExprBoolLit, Type: ep.builtins().Bool, Span: t.Span,
			BoolVal: t.Kind == token.KwTrue,
		}), true

	case token.KwNull:
		ep.next()
		return ep.node(ast.Expr{Kind: ast.ExprNullLit, Type: ep.builtins().Ref, Span: t.Span}), true

	case token.KwResult:
		ep.next()
		if !ep.env.allowResult {
			ep.errf(diag.TypResultOutsidePost, t.Span, "result is only available in ensures clauses")
			return ep.node(ast.Expr{Kind: ast.ExprResult, Type: ep.builtins().Invalid, Span: t.Span}), true
		}
		return ep.node(ast.Expr{Kind: ast.ExprResult, Type: ep.env.resultType, Span: t.Span}), true

	case token.Bar:
		ep.next()
		x, ok := ep.parseExpr()
		if !ok {
			return 0, false
		}
		close, ok := ep.expect(token.Bar)
		if !ok {
			return 0, false
		}
		ep.seqElem(x)
		return ep.node(ast.Expr{
			Kind: ast.ExprUnary, Op: ast.OpSeqLen, Type: ep.builtins().Int,
			Span: t.Span.Cover(close.Span), X: x,
		}), true

	case token.KwSeq:
		return ep.parseSeqLiteral()

	case token.KwAcc:
		return ep.parseAcc()

	case token.KwUnfolding:
		return ep.parseUnfolding()

	case token.KwOld:
		ep.next()
		if _, ok := ep.expect(token.LParen); !ok {
			return 0, false
		}
		x, ok := ep.parseExpr()
		if !ok {
			return 0, false
		}
		close, ok := ep.expect(token.RParen)
		if !ok {
			return 0, false
		}
		return ep.node(ast.Expr{
			Kind: ast.ExprOld, Type: ep.prog.Expr(x).Type,
			Span: t.Span.Cover(close.Span), X: x,
		}), true

	case token.LParen:
		ep.next()
		x, ok := ep.parseExpr()
		if !ok {
			return 0, false
		}
		if _, ok := ep.expect(token.RParen); !ok {
			return 0, false
		}
		return x, true

	case token.Ident:
		return ep.parseIdent()

	default:
		ep.errf(diag.SynExpectExpression, t.Span,
			"expected an expression, found "+t.Kind.String())
		return 0, false
	}
}

// parseSeqLiteral handles Seq[T]() (empty) and Seq(e) (singleton).
func (ep *exprParser) parseSeqLiteral() (ast.ExprID, bool) {
	kw := ep.next()
	if ep.accept(token.LBracket) {
		elem, ok := ep.parseType()
		if !ok {
			return 0, false
		}
		if _, ok := ep.expect(token.RBracket); !ok {
			return 0, false
		}
		if _, ok := ep.expect(token.LParen); !ok {
			return 0, false
		}
		close, ok := ep.expect(token.RParen)
		if !ok {
			return 0, false
		}
		return ep.node(ast.Expr{
			Kind: ast.ExprSeqEmpty,
			Type: ep.prog.Types.Intern(types.MakeSeq(elem)),
			Span: kw.Span.Cover(close.Span),
		}), true
	}
	if _, ok := ep.expect(token.LParen); !ok {
		return 0, false
	}
	x, ok := ep.parseExpr()
	if !ok {
		return 0, false
	}
	close, ok := ep.expect(token.RParen)
	if !ok {
		return 0, false
	}
	return ep.node(ast.Expr{
		Kind: ast.ExprUnary, Op: ast.OpSeqSingleton,
		Type: ep.prog.Types.Intern(types.MakeSeq(ep.prog.Expr(x).Type)),
		Span: kw.Span.Cover(close.Span), X: x,
	}), true
}

// parseAcc handles acc(x.f) and acc(x.f, p).
func (ep *exprParser) parseAcc() (ast.ExprID, bool) {
	kw := ep.next()
	if _, ok := ep.expect(token.LParen); !ok {
		return 0, false
	}
	loc, ok := ep.parseExpr()
	if !ok {
		return 0, false
	}
	if ep.prog.Expr(loc).Kind != ast.ExprFieldAccess {
		ep.errf(diag.TypNotAField, ep.spanOf(loc), "acc expects a field location")
	}
	var amount ast.ExprID
	if ep.accept(token.Comma) {
		amount, ok = ep.parseExpr()
		if !ok {
			return 0, false
		}
	}
	close, ok := ep.expect(token.RParen)
	if !ok {
		return 0, false
	}
	return ep.node(ast.Expr{
		Kind: ast.ExprAcc, Type: ep.builtins().Bool,
		Span: kw.Span.Cover(close.Span), X: loc, Y: amount,
	}), true
}

// parseUnfolding handles unfolding P(args) in e.
func (ep *exprParser) parseUnfolding() (ast.ExprID, bool) {
	kw := ep.next()
	name, ok := ep.expect(token.Ident)
	if !ok {
		return 0, false
	}
	pred, ok := ep.predApp(name)
	if !ok {
		return 0, false
	}
	if _, ok := ep.expect(token.KwIn); !ok {
		return 0, false
	}
	inner, ok := ep.parseExpr()
	if !ok {
		return 0, false
	}
	return ep.node(ast.Expr{
		Kind: ast.ExprUnfolding, Type: ep.prog.Expr(inner).Type,
		Span: kw.Span.Cover(ep.spanOf(inner)), X: pred, Z: inner,
	}), true
}

// parseIdent resolves a bare identifier: a call if followed by '(',
// otherwise a formal parameter.
func (ep *exprParser) parseIdent() (ast.ExprID, bool) {
	name := ep.next()
	if ep.at(token.LParen) {
		strID := ep.prog.Strings.Intern(name.Text)
		if fnID, ok := ep.prog.FunctionByName(strID); ok {
			return ep.funcApp(name, fnID)
		}
		if _, ok := ep.prog.PredicateByName(strID); ok {
			return ep.predApp(name)
		}
		ep.errf(diag.TypUnknownName, name.Span, name.Text+" is not a declared function or predicate")
		return 0, false
	}
	typ, ok := ep.env.vars[name.Text]
	if !ok {
		ep.errf(diag.TypUnknownName, name.Span, "unknown name "+name.Text)
		return 0, false
	}
	return ep.node(ast.Expr{
		Kind: ast.ExprVar, Type: typ, Span: name.Span,
		Name: ep.prog.Strings.Intern(name.Text),
	}), true
}

func (ep *exprParser) funcApp(name token.Token, fnID ast.FuncID) (ast.ExprID, bool) {
	fn := &ep.prog.Functions[fnID]
	args, close, ok := ep.parseArgs()
	if !ok {
		return 0, false
	}
	if len(args) != len(fn.Params) {
		ep.errf(diag.TypBadArgCount, name.Span,
			name.Text+" expects "+strconv.Itoa(len(fn.Params))+" arguments, got "+strconv.Itoa(len(args)))
	} else {
		for i, arg := range args {
			ep.checkType(arg, fn.Params[i].Type, "argument type mismatch")
		}
	}
	return ep.node(ast.Expr{
		Kind: ast.ExprFuncApp, Type: fn.Result,
		Span: name.Span.Cover(close), Ref: uint32(fnID), Args: args,
	}), true
}

func (ep *exprParser) predApp(name token.Token) (ast.ExprID, bool) {
	strID := ep.prog.Strings.Intern(name.Text)
	predID, ok := ep.prog.PredicateByName(strID)
	if !ok {
		ep.errf(diag.TypNotAPredicate, name.Span, name.Text+" is not a declared predicate")
		return 0, false
	}
	pred := &ep.prog.Predicates[predID]
	args, close, ok := ep.parseArgs()
	if !ok {
		return 0, false
	}
	if len(args) != len(pred.Params) {
		ep.errf(diag.TypBadArgCount, name.Span,
			name.Text+" expects "+strconv.Itoa(len(pred.Params))+" arguments, got "+strconv.Itoa(len(args)))
	} else {
		for i, arg := range args {
			ep.checkType(arg, pred.Params[i].Type, "argument type mismatch")
		}
	}
	return ep.node(ast.Expr{
		Kind: ast.ExprPredApp, Type: ep.builtins().Bool,
		Span: name.Span.Cover(close), Ref: uint32(predID), Args: args,
	}), true
}

func (ep *exprParser) parseArgs() ([]ast.ExprID, source.Span, bool) {
	if _, ok := ep.expect(token.LParen); !ok {
		return nil, source.Span{}, false
	}
	var args []ast.ExprID
	if close, ok := ep.expectClose(); ok {
		return args, close, true
	}
	for {
		arg, ok := ep.parseExpr()
		if !ok {
			return nil, source.Span{}, false
		}
		args = append(args, arg)
		if ep.accept(token.Comma) {
			continue
		}
		close, ok := ep.expect(token.RParen)
		return args, close.Span, ok
	}
}

func (ep *exprParser) expectClose() (source.Span, bool) {
	if ep.at(token.RParen) {
		return ep.next().Span, true
	}
	return source.Span{}, false
}

func (ep *exprParser) fieldAccess(recv ast.ExprID, name token.Token) (ast.ExprID, bool) {
	ep.checkType(recv, ep.builtins().Ref, "field access needs a Ref receiver")
	fieldID, ok := ep.prog.FieldByName(ep.prog.Strings.Intern(name.Text))
	if !ok {
		ep.errf(diag.TypNotAField, name.Span, name.Text+" is not a declared field")
		return 0, false
	}
	return ep.node(ast.Expr{
		Kind: ast.ExprFieldAccess, Type: ep.prog.Fields[fieldID].Type,
		Span: ep.spanOf(recv).Cover(name.Span), Ref: uint32(fieldID), X: recv,
	}), true
}

// ---------------------------------------------------------------------------
// helpers

func (ep *exprParser) node(e ast.Expr) ast.ExprID {
	return ep.prog.NewExpr(e)
}

func (ep *exprParser) spanOf(id ast.ExprID) source.Span {
	return ep.prog.Expr(id).Span
}

func (ep *exprParser) isInvalid(t types.TypeID) bool {
	return t == ep.builtins().Invalid
}

func (ep *exprParser) checkType(id ast.ExprID, want types.TypeID, msg string) {
	got := ep.prog.Expr(id).Type
	if got == want || ep.isInvalid(got) || ep.isInvalid(want) {
		return
	}
	// конкретный Seq сравнивается по TypeID, интернер это гарантирует
	ep.errf(diag.TypMismatch, ep.spanOf(id), msg)
}

// seqElem returns the element type of a sequence-typed expression, or the
// invalid type after reporting.
func (ep *exprParser) seqElem(id ast.ExprID) types.TypeID {
	t := ep.prog.Expr(id).Type
	if ep.isInvalid(t) {
		return t
	}
	tt := ep.prog.Types.MustLookup(t)
	if tt.Kind != types.KindSeq {
		ep.errf(diag.TypMismatch, ep.spanOf(id), "expected a sequence")
		return ep.builtins().Invalid
	}
	return tt.Elem
}

func (ep *exprParser) boolBinary(op ast.Op, x, y ast.ExprID) ast.ExprID {
	return ep.node(ast.Expr{
		Kind: ast.ExprBinary, Op: op, Type: ep.builtins().Bool,
		Span: ep.spanOf(x).Cover(ep.spanOf(y)), X: x, Y: y,
	})
}

func (ep *exprParser) intBinary(op ast.Op, x, y ast.ExprID) ast.ExprID {
	return ep.node(ast.Expr{
		Kind: ast.ExprBinary, Op: op, Type: ep.builtins().Int,
		Span: ep.spanOf(x).Cover(ep.spanOf(y)), X: x, Y: y,
	})
}
