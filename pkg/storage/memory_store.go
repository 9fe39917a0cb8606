package storage

// MemoryVisitedSet is a map-backed VisitedSet. Not safe for concurrent use.
type MemoryVisitedSet struct {
	urls map[string]struct{}
}

// NewMemoryVisitedSet creates an empty MemoryVisitedSet
func NewMemoryVisitedSet() *MemoryVisitedSet {
	return &MemoryVisitedSet{urls: make(map[string]struct{})}
}

// MarkVisited implements the VisitedSet interface
func (s *MemoryVisitedSet) MarkVisited(rawURL string) (bool, error) {
	if _, exists := s.urls[rawURL]; exists {
		return false, nil
	}
	s.urls[rawURL] = struct{}{}
	return true, nil
}

// Count implements the VisitedSet interface
func (s *MemoryVisitedSet) Count() (int, error) {
	return len(s.urls), nil
}

// Close implements the VisitedSet interface
func (s *MemoryVisitedSet) Close() error {
	s.urls = nil
	return nil
}
