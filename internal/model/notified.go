package model

// NotifiedSet is an insertion-ordered set of job IDs. The zero value is not
// usable; create one with NewNotifiedSet.
type NotifiedSet struct {
	ids   []JobID
	index map[JobID]struct{}
}

// NewNotifiedSet returns a set holding ids in the given order, duplicates dropped.
func NewNotifiedSet(ids ...JobID) *NotifiedSet {
	s := &NotifiedSet{index: make(map[JobID]struct{}, len(ids))}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Has reports whether id is in the set.
func (s *NotifiedSet) Has(id JobID) bool {
	_, ok := s.index[id]
	return ok
}

// Add inserts id. It returns false if id was already present.
func (s *NotifiedSet) Add(id JobID) bool {
	if s.Has(id) {
		return false
	}
	s.index[id] = struct{}{}
	s.ids = append(s.ids, id)
	return true
}

// Len returns the number of ids in the set.
func (s *NotifiedSet) Len() int { return len(s.ids) }

// IDs returns a copy of the ids in insertion order.
func (s *NotifiedSet) IDs() []JobID {
	out := make([]JobID, len(s.ids))
	copy(out, s.ids)
	return out
}
