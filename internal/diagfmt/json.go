package diagfmt

import (
	"encoding/json"
	"io"

	"github.com/ArquintL/silicon/internal/diag"
	"github.com/ArquintL/silicon/internal/source"
)

type jsonNote struct {
	Message string `json:"message"`
	Line    uint32 `json:"line,omitempty"`
	Col     uint32 `json:"col,omitempty"`
}

type jsonDiagnostic struct {
	Severity string     `json:"severity"`
	Code     string     `json:"code"`
	Message  string     `json:"message"`
	Path     string     `json:"path,omitempty"`
	Line     uint32     `json:"line,omitempty"`
	Col      uint32     `json:"col,omitempty"`
	Notes    []jsonNote `json:"notes,omitempty"`
}

// JSON пишет диагностики одним JSON-массивом (машинный вывод для CI).
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	items := bag.Items()
	if opts.Max > 0 && len(items) > opts.Max {
		items = items[:opts.Max]
	}
	out := make([]jsonDiagnostic, 0, len(items))
	for _, d := range items {
		jd := jsonDiagnostic{
			Severity: d.Severity.String(),
			Code:     d.Code.String(),
			Message:  d.Message,
		}
		if opts.IncludePositions && fs != nil && fs.Len() > int(d.Primary.File) {
			f := fs.Get(d.Primary.File)
			lc := fs.Position(d.Primary.File, d.Primary.Start)
			jd.Path = f.Path
			jd.Line = lc.Line
			jd.Col = lc.Col
		}
		if opts.IncludeNotes {
			for _, n := range d.Notes {
				jn := jsonNote{Message: n.Msg}
				if opts.IncludePositions && fs != nil && fs.Len() > int(n.Span.File) {
					lc := fs.Position(n.Span.File, n.Span.Start)
					jn.Line = lc.Line
					jn.Col = lc.Col
				}
				jd.Notes = append(jd.Notes, jn)
			}
		}
		out = append(out, jd)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
