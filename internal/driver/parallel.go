package driver

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/ArquintL/silicon/internal/ast"
	"github.com/ArquintL/silicon/internal/functions"
	"github.com/ArquintL/silicon/internal/identifier"
	"github.com/ArquintL/silicon/internal/source"
)

// axiomatizeAll runs the per-function phase machinery in parallel. The
// program is read-only at this point and the identifier factory is
// internally synchronized, so functions only share immutable state.
// Result and axiomatizer slices are indexed by function, no mutex needed.
func axiomatizeAll(ctx context.Context, prog *ast.Program, _ *source.FileSet, opts Options) ([]FunctionResult, []*functions.Axiomatizer, error) {
	heights := prog.CallGraphHeights()

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	n := len(prog.Functions)
	results := make([]FunctionResult, n)
	axs := make([]*functions.Axiomatizer, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, max(n, 1)))

	for i := 0; i < n; i++ {
		g.Go(func(i int) func() error {
			return func() error {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}

				name := prog.FunctionName(ast.FuncID(i))
				opts.Progress.Send(Event{Function: name, Status: StatusWorking})

				// своя фабрика на функцию: имена детерминированы при любом
				// числе воркеров и не пересекаются между функциями
				ids := identifier.NewScopedFactory(name)
				ax := axiomatizeFunction(prog, ast.FuncID(i), heights[i], ids, opts.MaxDiagnostics)
				axs[i] = ax
				results[i] = FunctionResult{
					Name:   name,
					Height: heights[i],
					Bag:    ax.Diagnostics(),
				}

				status := StatusDone
				if ax.Diagnostics().HasErrors() {
					status = StatusError
				}
				opts.Progress.Send(Event{Function: name, Status: status})
				return nil
			}
		}(i))
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return results, axs, nil
}
