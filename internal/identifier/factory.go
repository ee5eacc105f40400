// Package identifier allocates globally unique prover-level names.
//
// Names must be deterministic (same allocation order gives same names) and
// injective (two distinct allocations never collide), so that symbols from
// different functions cannot capture each other inside shared axioms.
package identifier

import (
	"strings"
	"sync"
)

// Factory hands out fresh names derived from a base identifier. The n-th
// allocation for base "x" yields "x@n". The '@' separator is stripped from
// incoming bases, which keeps the scheme injective.
type Factory struct {
	mu       sync.Mutex
	prefix   string
	counters map[string]int
}

func NewFactory() *Factory {
	return &Factory{counters: make(map[string]int)}
}

// NewScopedFactory prefixes every allocation with "scope.". Factories with
// distinct scopes never collide with each other, so each scope can allocate
// independently — the basis for deterministic parallel name generation.
func NewScopedFactory(scope string) *Factory {
	return &Factory{prefix: sanitize(scope) + ".", counters: make(map[string]int)}
}

// Fresh returns the next unique name for base.
func (f *Factory) Fresh(base string) string {
	base = sanitize(base)
	f.mu.Lock()
	defer f.mu.Unlock()
	n := f.counters[base]
	f.counters[base] = n + 1
	return f.prefix + base + "@" + itoa(n)
}

func sanitize(base string) string {
	if base == "" {
		base = "v"
	}
	return strings.ReplaceAll(base, "@", "_")
}

// itoa avoids strconv for the tiny non-negative counters used here.
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
