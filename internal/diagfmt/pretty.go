package diagfmt

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/ArquintL/silicon/internal/diag"
	"github.com/ArquintL/silicon/internal/source"
)

var (
	errColor  = color.New(color.FgRed, color.Bold)
	warnColor = color.New(color.FgYellow, color.Bold)
	infoColor = color.New(color.FgCyan)
	posColor  = color.New(color.Bold)
)

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем Notes с аналогичным форматом.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	for _, d := range bag.Items() {
		writeLine(w, fs, opts, d.Severity, d.Code, d.Primary, d.Message)
		if opts.ShowNotes {
			for _, n := range d.Notes {
				fmt.Fprintf(w, "  note: %s: %s\n", position(fs, opts, n.Span), n.Msg)
			}
		}
	}
}

func writeLine(w io.Writer, fs *source.FileSet, opts PrettyOpts, sev diag.Severity, code diag.Code, sp source.Span, msg string) {
	pos := position(fs, opts, sp)
	sevText := severityText(sev)
	if opts.Color {
		pos = posColor.Sprint(pos)
		sevText = severityColor(sev).Sprint(sevText)
	}
	fmt.Fprintf(w, "%s: %s %s: %s\n", pos, sevText, code.String(), msg)
}

// position renders "<path>:<line>:<col>"; diagnostics without a span (cache
// restores, I/O failures) render as "<unit>".
func position(fs *source.FileSet, opts PrettyOpts, sp source.Span) string {
	if fs == nil || int(sp.File) >= fs.Len() || (sp.Empty() && sp.File == 0 && sp.Start == 0) {
		return "<unit>"
	}
	f := fs.Get(sp.File)
	lc := fs.Position(sp.File, sp.Start)
	path := f.Path
	if opts.PathMode == PathModeBasename {
		path = filepath.Base(path)
	}
	return fmt.Sprintf("%s:%d:%d", path, lc.Line, lc.Col)
}

func severityText(sev diag.Severity) string {
	switch sev {
	case diag.SevError:
		return "error"
	case diag.SevWarning:
		return "warning"
	default:
		return "info"
	}
}

func severityColor(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return errColor
	case diag.SevWarning:
		return warnColor
	default:
		return infoColor
	}
}
