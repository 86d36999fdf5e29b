package model

// Store holds the full, ordered entry collection. It is built once at load
// time and never grows or shrinks afterwards.
type Store struct {
	Entries []Entry `json:"entries"`
}

// NewStore creates a Store from entries, assigning each its position.
func NewStore(entries []Entry) *Store {
	s := &Store{Entries: make([]Entry, len(entries))}
	for i, e := range entries {
		e.Pos = i
		s.Entries[i] = e
	}
	return s
}

// Len returns the number of entries in the collection.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Entries)
}

// All returns a copy of the collection in its original order.
func (s *Store) All() []Entry {
	if s == nil {
		return []Entry{}
	}
	out := make([]Entry, len(s.Entries))
	copy(out, s.Entries)
	return out
}

// At returns the entry at pos, or nil if pos is out of range.
func (s *Store) At(pos int) *Entry {
	if s == nil || pos < 0 || pos >= len(s.Entries) {
		return nil
	}
	return &s.Entries[pos]
}
