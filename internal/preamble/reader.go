// Package preamble serves the static axiom/declaration templates emitted
// ahead of any per-function work. Templates are read-only embedded assets;
// a missing or unreadable template is a configuration error, fatal to the
// whole theory-contribution pass.
package preamble

import (
	"embed"
	"fmt"
	"sort"
	"strings"
	"sync"
)

//go:embed assets/*.smt2
var assets embed.FS

// Block is an ordered run of raw prover lines tagged with its origin.
// Blocks concatenate in discovery order: not required for soundness, but
// required for reproducible, diffable prover input.
type Block struct {
	Origin string
	Lines  []string
}

// Reader reads templates and applies placeholder substitution. Reads are
// memoized by (template, substitution) key; the underlying assets never
// change at run time.
type Reader struct {
	mu    sync.Mutex
	cache map[string][]string
}

func NewReader() *Reader {
	return &Reader{cache: make(map[string][]string)}
}

// Read returns the substituted lines of the named template. Placeholders
// have the form $key$.
func (r *Reader) Read(template string, subst map[string]string) ([]string, error) {
	key := cacheKey(template, subst)
	r.mu.Lock()
	lines, ok := r.cache[key]
	r.mu.Unlock()
	if ok {
		return lines, nil
	}

	raw, err := assets.ReadFile("assets/" + template + ".smt2")
	if err != nil {
		return nil, fmt.Errorf("preamble: template %q: %w", template, err)
	}
	text := string(raw)
	for k, v := range subst {
		text = strings.ReplaceAll(text, "$"+k+"$", v)
	}
	lines = splitLines(text)

	r.mu.Lock()
	r.cache[key] = lines
	r.mu.Unlock()
	return lines, nil
}

func cacheKey(template string, subst map[string]string) string {
	keys := make([]string, 0, len(subst))
	for k := range subst {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString(template)
	for _, k := range keys {
		b.WriteByte(0)
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(subst[k])
	}
	return b.String()
}

func splitLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}
