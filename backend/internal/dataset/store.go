package dataset

// Store holds the rows of one tabular source. It is built once and never
// mutated afterwards, so it is safe to share across goroutines.
type Store struct {
	source  string
	columns []string
	records []Record
}

// NewStore builds a store from records that did not come from a file
func NewStore(records []Record) *Store {
	extra := make(map[string]any)
	for _, r := range records {
		for k := range r.Extra {
			extra[k] = nil
		}
	}
	columns := defaultColumns(extra)

	owned := make([]Record, len(records))
	for i, r := range records {
		r.columns = columns
		owned[i] = r
	}

	return &Store{columns: columns, records: owned}
}

func newLoadedStore(source string, columns []string, records []Record) *Store {
	return &Store{source: source, columns: columns, records: records}
}

// Records returns the rows in source order
func (s *Store) Records() []Record {
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the number of rows
func (s *Store) Len() int {
	return len(s.records)
}

// Columns returns the header names in source order
func (s *Store) Columns() []string {
	out := make([]string, len(s.columns))
	copy(out, s.columns)
	return out
}

// Source returns the path the store was loaded from, empty for fixtures
func (s *Store) Source() string {
	return s.source
}
