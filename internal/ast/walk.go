package ast

import (
	"github.com/ArquintL/silicon/internal/types"
)

// WalkTypes visits the resolved type of every typed node of the program:
// field declarations, formal parameters, function results and every
// expression in the arena. The visitor receives each occurrence; callers
// interested in distinct types deduplicate themselves.
func (p *Program) WalkTypes(visit func(types.TypeID)) {
	emit := func(id types.TypeID) {
		if id != types.NoTypeID {
			visit(id)
		}
	}
	for i := range p.Fields {
		emit(p.Fields[i].Type)
	}
	for i := range p.Predicates {
		for _, prm := range p.Predicates[i].Params {
			emit(prm.Type)
		}
	}
	for i := range p.Functions {
		fn := &p.Functions[i]
		for _, prm := range fn.Params {
			emit(prm.Type)
		}
		emit(fn.Result)
	}
	for i := 1; i < len(p.exprs); i++ {
		emit(p.exprs[i].Type)
	}
}

// WalkExpr visits id and all of its operands, parents before children.
// The visitor returning false prunes the subtree.
func (p *Program) WalkExpr(id ExprID, visit func(ExprID, *Expr) bool) {
	if id == NoExprID {
		return
	}
	e := p.Expr(id)
	if !visit(id, e) {
		return
	}
	p.WalkExpr(e.X, visit)
	p.WalkExpr(e.Y, visit)
	p.WalkExpr(e.Z, visit)
	for _, arg := range e.Args {
		p.WalkExpr(arg, visit)
	}
}
