package functions

// OrderedMap is an insertion-ordered map: iteration follows first-insert
// order, later Put calls for an existing key are ignored. Downstream axiom
// assembly depends on this determinism.
type OrderedMap[K comparable, V any] struct {
	keys []K
	vals map[K]V
}

func NewOrderedMap[K comparable, V any]() *OrderedMap[K, V] {
	return &OrderedMap[K, V]{vals: make(map[K]V)}
}

// Put inserts the pair unless the key is already present; reports whether
// it was inserted.
func (m *OrderedMap[K, V]) Put(k K, v V) bool {
	if _, ok := m.vals[k]; ok {
		return false
	}
	m.keys = append(m.keys, k)
	m.vals[k] = v
	return true
}

// Get returns the value for k.
func (m *OrderedMap[K, V]) Get(k K) (V, bool) {
	v, ok := m.vals[k]
	return v, ok
}

// Len returns the number of entries.
func (m *OrderedMap[K, V]) Len() int {
	return len(m.keys)
}

// Each visits entries in insertion order; the visitor returning false stops
// the iteration.
func (m *OrderedMap[K, V]) Each(visit func(K, V) bool) {
	for _, k := range m.keys {
		if !visit(k, m.vals[k]) {
			return
		}
	}
}

// Union returns a new map holding a's entries then b's, first-seen wins.
func Union[K comparable, V any](a, b *OrderedMap[K, V]) *OrderedMap[K, V] {
	out := NewOrderedMap[K, V]()
	a.Each(func(k K, v V) bool { out.Put(k, v); return true })
	b.Each(func(k K, v V) bool { out.Put(k, v); return true })
	return out
}
