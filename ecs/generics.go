package ecs

// Lookup returns the component for e, or the zero value when absent. Most
// combat components are pointers, so a nil result means "not attached".
func Lookup[T any](s *SparseSet[T], e Entity) T {
	v, _ := s.Get(e)
	return v
}

// Each calls fn for every component in s in ascending entity order.
func Each[T any](s *SparseSet[T], fn func(e Entity, v T)) {
	for _, e := range Sorted(s) {
		v, ok := s.Get(e)
		if !ok {
			continue
		}
		fn(e, v)
	}
}
