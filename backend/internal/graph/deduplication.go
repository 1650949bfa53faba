package graph

// ============================================================================
// Deduplication
// ============================================================================

// orderedSet collects strings once each, remembering first-seen order
type orderedSet struct {
	seen  map[string]struct{}
	items []string
}

func newOrderedSet(capacity int) *orderedSet {
	return &orderedSet{
		seen:  make(map[string]struct{}, capacity),
		items: make([]string, 0, capacity),
	}
}

// add inserts value unless it is already present
func (s *orderedSet) add(value string) {
	if _, ok := s.seen[value]; ok {
		return
	}
	s.seen[value] = struct{}{}
	s.items = append(s.items, value)
}

// list returns the members in insertion order, never nil
func (s *orderedSet) list() []string {
	return s.items
}
