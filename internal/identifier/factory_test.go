package identifier

import "testing"

func TestFreshIsDeterministic(t *testing.T) {
	a := NewFactory()
	b := NewFactory()
	for i := 0; i < 3; i++ {
		if x, y := a.Fresh("s"), b.Fresh("s"); x != y {
			t.Fatalf("same allocation order must yield same names: %q vs %q", x, y)
		}
	}
}

func TestFreshIsInjective(t *testing.T) {
	f := NewFactory()
	seen := make(map[string]bool)
	for _, base := range []string{"x", "x", "x@0", "y", "x_0"} {
		name := f.Fresh(base)
		if seen[name] {
			t.Fatalf("collision on %q", name)
		}
		seen[name] = true
	}
}

func TestFreshEmptyBase(t *testing.T) {
	f := NewFactory()
	if got := f.Fresh(""); got != "v@0" {
		t.Fatalf("empty base: got %q", got)
	}
}
