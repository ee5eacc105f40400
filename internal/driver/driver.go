// Package driver orchestrates a verification run: parse the unit's files,
// contribute the theory preamble, axiomatize every function through its
// phases and emit one prover problem.
package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ArquintL/silicon/internal/ast"
	"github.com/ArquintL/silicon/internal/decider"
	"github.com/ArquintL/silicon/internal/diag"
	"github.com/ArquintL/silicon/internal/functions"
	"github.com/ArquintL/silicon/internal/identifier"
	"github.com/ArquintL/silicon/internal/parser"
	"github.com/ArquintL/silicon/internal/preamble"
	"github.com/ArquintL/silicon/internal/source"
	"github.com/ArquintL/silicon/internal/theories"
)

// Options configure a verification run.
type Options struct {
	// MaxDiagnostics caps diagnostics per unit and per function.
	MaxDiagnostics int
	// Jobs bounds per-function parallelism; <=0 means GOMAXPROCS.
	Jobs int
	// Progress receives per-function status events; nil disables them.
	Progress ProgressSink
	// Cache, when set, skips functions whose source has not changed.
	Cache *DiskCache
}

func (o *Options) normalize() {
	if o.MaxDiagnostics <= 0 {
		o.MaxDiagnostics = 100
	}
	if o.Progress == nil {
		o.Progress = NopSink{}
	}
}

// FunctionResult is the per-function outcome.
type FunctionResult struct {
	Name      string
	Height    int
	Axioms    int
	FromCache bool
	Bag       *diag.Bag
}

// Result is the outcome of one run.
type Result struct {
	FileSet   *source.FileSet
	Program   *ast.Program
	ParseBag  *diag.Bag
	Functions []FunctionResult
	// Problem is the emitted prover input; empty when parsing failed.
	Problem string
}

// HasErrors reports whether any stage produced an error diagnostic.
func (r *Result) HasErrors() bool {
	if r.ParseBag != nil && r.ParseBag.HasErrors() {
		return true
	}
	for i := range r.Functions {
		if r.Functions[i].Bag != nil && r.Functions[i].Bag.HasErrors() {
			return true
		}
	}
	return false
}

// listSilFiles returns the sorted list of *.sil files under dir.
func listSilFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".sil") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// VerifyDir parses every .sil file under dir into one unit and verifies it.
func VerifyDir(ctx context.Context, dir string, opts Options) (*Result, error) {
	files, err := listSilFiles(dir)
	if err != nil {
		return nil, err
	}
	return VerifyFiles(ctx, dir, files, opts)
}

// VerifyFiles verifies the given files as one unit.
func VerifyFiles(ctx context.Context, baseDir string, files []string, opts Options) (*Result, error) {
	opts.normalize()

	fileSet := source.NewFileSetWithBase(baseDir)
	prog := ast.NewProgram()
	parseBag := diag.NewBag(opts.MaxDiagnostics)
	res := &Result{FileSet: fileSet, Program: prog, ParseBag: parseBag}

	// Парсинг последовательный: все файлы делят одну программу.
	for _, path := range files {
		fileID, err := fileSet.Load(path)
		if err != nil {
			parseBag.Add(diag.Diagnostic{
				Severity: diag.SevError,
				Code:     diag.IOLoadFileError,
				Message:  "failed to load file: " + err.Error(),
			})
			continue
		}
		parser.ParseFile(fileSet.Get(fileID), prog, parser.Options{
			Reporter: diag.BagReporter{Bag: parseBag},
		})
	}
	if parseBag.HasErrors() {
		return res, nil
	}

	digest := unitDigest(fileSet)
	if opts.Cache != nil {
		var payload DiskPayload
		if hit, err := opts.Cache.Get(digest, &payload); err == nil && hit {
			resultFromPayload(res, &payload, opts.MaxDiagnostics)
			for i := range res.Functions {
				opts.Progress.Send(Event{Function: res.Functions[i].Name, Status: StatusDone})
			}
			return res, nil
		}
	}

	fnResults, axs, err := axiomatizeAll(ctx, prog, fileSet, opts)
	if err != nil {
		return res, err
	}
	res.Functions = fnResults

	problem, counts, err := emitProblem(prog, axs)
	if err != nil {
		return res, err
	}
	res.Problem = problem
	for i := range res.Functions {
		res.Functions[i].Axioms = counts[i]
	}

	if opts.Cache != nil {
		// кэшируем только чистые прогоны: спаны диагностик не сохраняются
		if err := opts.Cache.Put(digest, payloadFromResult(res)); err != nil {
			return res, err
		}
	}
	return res, nil
}

// emitProblem assembles the prover input: theory preamble, every function's
// symbols, then axioms in call-graph height order so that a function's
// dependencies are always axiomatized before it. Returns the problem text
// and the per-function axiom counts.
func emitProblem(prog *ast.Program, axs []*functions.Axiomatizer) (string, []int, error) {
	var sb strings.Builder
	sink := decider.NewSMTSink(&sb)

	seqs := theories.NewSequencesContributor(preamble.NewReader())
	if err := theories.Contribute(seqs, prog, sink); err != nil {
		return "", nil, err
	}

	// порядок: высота, затем порядок объявления
	order := make([]int, len(axs))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return axs[order[a]].Height() < axs[order[b]].Height()
	})

	// all symbols first: axioms reference other functions' limited symbols
	for i := range prog.Predicates {
		sink.Declare(decider.FunDecl{Fun: functions.PredicateTriggerSymbol(prog, ast.PredID(i))})
	}
	for _, i := range order {
		ax := axs[i]
		sink.Comment("function " + ax.Name())
		syms := ax.Symbols()
		sink.Declare(decider.FunDecl{Fun: syms.Full})
		sink.Declare(decider.FunDecl{Fun: syms.Limited})
		sink.Declare(decider.FunDecl{Fun: syms.Stateless})
		for _, f := range ax.FreshFunctions() {
			sink.Declare(decider.FunDecl{Fun: f})
		}
		for _, c := range ax.FreshConstants() {
			sink.Declare(decider.ConstDecl{Name: c.Name, Sort: c.S})
		}
	}

	counts := make([]int, len(axs))
	for _, i := range order {
		ax := axs[i]
		sink.Comment("axioms of " + ax.Name())
		sink.Assert(ax.LimitedAxiom())
		sink.Assert(ax.TriggerAxiom())
		counts[i] = 2
		if post, ok := ax.PostAxiom(); ok {
			sink.Assert(post)
			counts[i]++
		}
		if def, ok := ax.DefinitionalAxiom(); ok {
			sink.Assert(def)
			counts[i]++
		}
	}
	if err := sink.Err(); err != nil {
		return "", nil, err
	}
	return sb.String(), counts, nil
}

// axiomatizeFunction drives one function through both phases.
func axiomatizeFunction(prog *ast.Program, fnID ast.FuncID, height int, ids *identifier.Factory, maxDiagnostics int) *functions.Axiomatizer {
	ax := functions.NewAxiomatizer(prog, fnID, height, nil, ids, functions.ExprTranslator{}, maxDiagnostics)
	rp := &recorderPass{prog: prog, fn: fnID, ax: ax, ids: ids}
	ax.AdvancePhase(rp.specRecorders())
	ax.TranslatedPres()
	ax.AdvancePhase(rp.bodyRecorders())
	return ax
}
