package ecs

import "slices"

// Intersect returns the entities present in both sets, ascending.
func Intersect[A, B any](a *SparseSet[A], b *SparseSet[B]) []Entity {
	if a == nil || b == nil {
		return nil
	}
	var out []Entity
	// iterate smaller set
	if a.Len() <= b.Len() {
		out = make([]Entity, 0, a.Len())
		for _, e := range a.denseEntities {
			if b.Has(e) {
				out = append(out, e)
			}
		}
	} else {
		out = make([]Entity, 0, b.Len())
		for _, e := range b.denseEntities {
			if a.Has(e) {
				out = append(out, e)
			}
		}
	}
	slices.Sort(out)
	return out
}

// Sorted returns the entities of s in ascending order. Systems iterate in
// this order so a tick does not depend on insertion history.
func Sorted[T any](s *SparseSet[T]) []Entity {
	if s == nil {
		return nil
	}
	out := slices.Clone(s.denseEntities)
	slices.Sort(out)
	return out
}
