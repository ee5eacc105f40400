package terms

// SortSet is an insertion-ordered, duplicate-free collection of sorts.
// First-seen order is part of the contract: downstream declaration emission
// must be deterministic and diffable.
type SortSet struct {
	sorts []Sort
	index map[string]int
}

func NewSortSet() *SortSet {
	return &SortSet{index: make(map[string]int)}
}

// Add inserts the sort unless already present; reports whether it was new.
func (ss *SortSet) Add(s Sort) bool {
	key := s.ID()
	if _, ok := ss.index[key]; ok {
		return false
	}
	ss.index[key] = len(ss.sorts)
	ss.sorts = append(ss.sorts, s)
	return true
}

// Contains reports membership.
func (ss *SortSet) Contains(s Sort) bool {
	_, ok := ss.index[s.ID()]
	return ok
}

// Len returns the number of distinct sorts.
func (ss *SortSet) Len() int {
	return len(ss.sorts)
}

// All returns the sorts in first-seen order. Do not modify.
func (ss *SortSet) All() []Sort {
	return ss.sorts
}

// Reset drops all sorts; safe on an empty set.
func (ss *SortSet) Reset() {
	ss.sorts = ss.sorts[:0]
	ss.index = make(map[string]int)
}
