package parser

import (
	"testing"

	"github.com/ArquintL/silicon/internal/ast"
	"github.com/ArquintL/silicon/internal/diag"
	"github.com/ArquintL/silicon/internal/source"
	"github.com/ArquintL/silicon/internal/types"
)

func parseString(t *testing.T, src string) (*ast.Program, *diag.Bag) {
	t.Helper()
	fset := source.NewFileSet()
	id := fset.Add("test.sil", []byte(src), source.FileVirtual)
	prog := ast.NewProgram()
	bag := diag.NewBag(50)
	ParseFile(fset.Get(id), prog, Options{Reporter: diag.BagReporter{Bag: bag}})
	return prog, bag
}

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, bag := parseString(t, src)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	return prog
}

const listSrc = `
field next: Ref
field val: Int

predicate list(xs: Ref) {
	acc(xs.val) && acc(xs.next) && (xs.next == null || list(xs.next))
}

function length(xs: Ref): Int
	requires list(xs)
	ensures result >= 0
{
	xs == null ? 0 : unfolding list(xs) in 1 + length(xs.next)
}
`

func TestParseLinkedListProgram(t *testing.T) {
	prog := mustParse(t, listSrc)
	if len(prog.Fields) != 2 || len(prog.Predicates) != 1 || len(prog.Functions) != 1 {
		t.Fatalf("decl counts: %d fields, %d predicates, %d functions",
			len(prog.Fields), len(prog.Predicates), len(prog.Functions))
	}
	fn := prog.Functions[0]
	if len(fn.Pres) != 1 || len(fn.Posts) != 1 || fn.Body == ast.NoExprID {
		t.Fatalf("spec shape: %d pres, %d posts, body=%d", len(fn.Pres), len(fn.Posts), fn.Body)
	}
	if prog.Expr(fn.Body).Type != prog.Types.Builtins().Int {
		t.Fatalf("body type must be Int")
	}
	if !prog.IsRecursive(0) {
		t.Fatalf("length must be detected as recursive")
	}
}

func TestForwardReferencesResolve(t *testing.T) {
	prog := mustParse(t, `
function caller(x: Int): Int { callee(x) }
function callee(x: Int): Int { x }
`)
	callees := prog.Callees(0)
	if len(callees) != 1 || callees[0] != 1 {
		t.Fatalf("forward reference must resolve to the later function, got %v", callees)
	}
}

func TestSequenceOperationsTypeCheck(t *testing.T) {
	prog := mustParse(t, `
function ops(s: Seq[Int], i: Int): Seq[Int]
	requires 0 <= i && i < |s|
	requires s[i] > 0
	requires i in s
	requires s == Seq[Int]()
{
	(s ++ Seq(i))[..i][i..][i := 0]
}
`)
	fn := prog.Functions[0]
	if len(fn.Pres) != 4 {
		t.Fatalf("expected 4 preconditions, got %d", len(fn.Pres))
	}
	seqInt := prog.Types.Intern(types.MakeSeq(prog.Types.Builtins().Int))
	if prog.Expr(fn.Body).Type != seqInt {
		t.Fatalf("body must be Seq[Int]")
	}
}

func TestTypeVariableInSignature(t *testing.T) {
	prog := mustParse(t, `
function first(s: Seq[T]): T
	requires |s| > 0
{
	s[0]
}
`)
	if prog.Types.Concrete(prog.Functions[0].Result) {
		t.Fatalf("T must parse as an open type parameter")
	}
}

func TestResultOutsidePostconditionReported(t *testing.T) {
	_, bag := parseString(t, `
function bad(x: Int): Int
	requires result > 0
{ x }
`)
	if !hasCode(bag, diag.TypResultOutsidePost) {
		t.Fatalf("missing diagnostic, got %v", bag.Items())
	}
}

func TestUnknownNamesReported(t *testing.T) {
	for src, want := range map[string]diag.Code{
		`function f(x: Int): Int { y }`:          diag.TypUnknownName,
		`function f(x: Ref): Int { x.missing }`:  diag.TypNotAField,
		`function f(x: Int): Int { g(x) }`:       diag.TypUnknownName,
		`function f(x: Int): Int { x + true }`:   diag.TypMismatch,
		`function f(): Int ensures result { 1 }`: diag.TypMismatch,
	} {
		_, bag := parseString(t, src)
		if !hasCode(bag, want) {
			t.Fatalf("source %q: expected %s, got %v", src, want, bag.Items())
		}
	}
}

func TestDuplicateDeclarationReported(t *testing.T) {
	_, bag := parseString(t, `
field f: Int
field f: Bool
`)
	if !hasCode(bag, diag.SynDuplicateMember) {
		t.Fatalf("missing duplicate diagnostic: %v", bag.Items())
	}
}

func TestParserRecoversAfterBadDeclaration(t *testing.T) {
	prog, bag := parseString(t, `
function broken(: Int { }
function fine(x: Int): Int { x }
`)
	if !bag.HasErrors() {
		t.Fatalf("expected diagnostics for the broken declaration")
	}
	if _, ok := prog.FunctionByName(prog.Strings.Intern("fine")); !ok {
		t.Fatalf("parser must recover and parse the following declaration")
	}
}

func hasCode(bag *diag.Bag, code diag.Code) bool {
	for _, d := range bag.Items() {
		if d.Code == code {
			return true
		}
	}
	return false
}
