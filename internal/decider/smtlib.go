package decider

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ArquintL/silicon/internal/terms"
)

// SMTSink renders everything it receives as SMT-LIB 2 text.
type SMTSink struct {
	w   io.Writer
	err error
}

func NewSMTSink(w io.Writer) *SMTSink {
	return &SMTSink{w: w}
}

// Err returns the first write error, if any.
func (s *SMTSink) Err() error {
	return s.err
}

func (s *SMTSink) write(line string) {
	if s.err != nil {
		return
	}
	_, s.err = io.WriteString(s.w, line+"\n")
}

func (s *SMTSink) Comment(text string) {
	for _, line := range strings.Split(text, "\n") {
		s.write("; " + line)
	}
}

func (s *SMTSink) Declare(d Decl) {
	s.write(RenderDecl(d))
}

func (s *SMTSink) Emit(lines []string) {
	for _, line := range lines {
		s.write(line)
	}
}

func (s *SMTSink) Assert(t terms.Term) {
	s.write("(assert " + RenderTerm(t) + ")")
}

// RenderDecl renders a single declaration.
func RenderDecl(d Decl) string {
	switch d := d.(type) {
	case SortDecl:
		return "(declare-sort " + d.Sort.ID() + " 0)"
	case FunDecl:
		var b strings.Builder
		b.WriteString("(declare-fun ")
		b.WriteString(d.Fun.Name)
		b.WriteString(" (")
		for i, a := range d.Fun.Args {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(a.ID())
		}
		b.WriteString(") ")
		b.WriteString(d.Fun.Result.ID())
		b.WriteString(")")
		return b.String()
	case ConstDecl:
		return "(declare-const " + d.Name + " " + d.Sort.ID() + ")"
	default:
		panic(fmt.Sprintf("decider: unknown declaration %T", d))
	}
}

// RenderTerm renders a term as an SMT-LIB s-expression. Quantifier triggers
// become :pattern annotations; Let nodes become genuine let forms.
func RenderTerm(t terms.Term) string {
	var b strings.Builder
	renderTerm(&b, t)
	return b.String()
}

func renderTerm(b *strings.Builder, t terms.Term) {
	switch t := t.(type) {
	case terms.Var:
		b.WriteString(t.Name)
	case terms.IntLit:
		if t.Val < 0 {
			b.WriteString("(- " + strconv.FormatInt(-t.Val, 10) + ")")
		} else {
			b.WriteString(strconv.FormatInt(t.Val, 10))
		}
	case terms.BoolLit:
		b.WriteString(strconv.FormatBool(t.Val))
	case terms.App:
		if len(t.Args) == 0 {
			b.WriteString(t.Fun.Name)
			return
		}
		b.WriteByte('(')
		b.WriteString(t.Fun.Name)
		for _, a := range t.Args {
			b.WriteByte(' ')
			renderTerm(b, a)
		}
		b.WriteByte(')')
	case terms.Not:
		renderOp(b, "not", t.X)
	case terms.And:
		if len(t.Xs) == 0 {
			b.WriteString("true")
			return
		}
		renderOp(b, "and", t.Xs...)
	case terms.Or:
		if len(t.Xs) == 0 {
			b.WriteString("false")
			return
		}
		renderOp(b, "or", t.Xs...)
	case terms.Implies:
		renderOp(b, "=>", t.X, t.Y)
	case terms.Iff:
		renderOp(b, "=", t.X, t.Y)
	case terms.Eq:
		renderOp(b, "=", t.X, t.Y)
	case terms.Bin:
		renderOp(b, t.Op.String(), t.X, t.Y)
	case terms.Ite:
		renderOp(b, "ite", t.C, t.X, t.Y)
	case terms.Let:
		b.WriteString("(let ((")
		b.WriteString(t.Var.Name)
		b.WriteByte(' ')
		renderTerm(b, t.Val)
		b.WriteString(")) ")
		renderTerm(b, t.Body)
		b.WriteByte(')')
	case terms.Forall:
		renderForall(b, t)
	default:
		panic(fmt.Sprintf("decider: unknown term %T", t))
	}
}

func renderOp(b *strings.Builder, op string, args ...terms.Term) {
	b.WriteByte('(')
	b.WriteString(op)
	for _, a := range args {
		b.WriteByte(' ')
		renderTerm(b, a)
	}
	b.WriteByte(')')
}

func renderForall(b *strings.Builder, f terms.Forall) {
	b.WriteString("(forall (")
	for i, v := range f.Vars {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte('(')
		b.WriteString(v.Name)
		b.WriteByte(' ')
		b.WriteString(v.S.ID())
		b.WriteByte(')')
	}
	b.WriteString(") ")
	if len(f.Triggers) > 0 {
		b.WriteString("(! ")
	}
	renderTerm(b, f.Body)
	for _, trig := range f.Triggers {
		b.WriteString(" :pattern (")
		for i, pt := range trig.Terms {
			if i > 0 {
				b.WriteByte(' ')
			}
			renderTerm(b, pt)
		}
		b.WriteByte(')')
	}
	if len(f.Triggers) > 0 {
		b.WriteByte(')')
	}
	b.WriteByte(')')
}
