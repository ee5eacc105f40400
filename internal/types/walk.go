package types

// Concrete reports whether the type is fully resolved, i.e. carries no open
// type parameters anywhere in its structure.
func (in *Interner) Concrete(id TypeID) bool {
	t, ok := in.Lookup(id)
	if !ok {
		return false
	}
	switch t.Kind {
	case KindTypeVar:
		return false
	case KindSeq:
		return in.Concrete(t.Elem)
	default:
		return true
	}
}

// Constituents visits id itself and every structural constituent of it,
// outermost first. A Seq[Seq[Int]] visit therefore also delivers Seq[Int]
// and Int.
func (in *Interner) Constituents(id TypeID, visit func(TypeID)) {
	t, ok := in.Lookup(id)
	if !ok {
		return
	}
	visit(id)
	if t.Kind == KindSeq {
		in.Constituents(t.Elem, visit)
	}
}
