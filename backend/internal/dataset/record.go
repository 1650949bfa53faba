package dataset

import (
	"bytes"
	"encoding/json"
	"sort"
)

// Column names the derivations depend on. Every source must carry all six.
const (
	ColEntity1       = "Entity1"
	ColEntity1Type   = "Entity1_Type"
	ColEntity1Parent = "Entity1_Parent"
	ColEntity2       = "Entity2"
	ColEntity2Type   = "Entity2_Type"
	ColEntity2Parent = "Entity2_Parent"
)

// RequiredColumns lists the typed columns in their canonical order
var RequiredColumns = []string{
	ColEntity1,
	ColEntity1Type,
	ColEntity1Parent,
	ColEntity2,
	ColEntity2Type,
	ColEntity2Parent,
}

// Record is one row of the dataset: a relationship between two entities,
// each belonging to a parent group. Columns other than the six typed ones are
// kept in Extra with their native value (string, int64, float64, bool or nil).
type Record struct {
	Entity1       string
	Entity1Type   string
	Entity1Parent string
	Entity2       string
	Entity2Type   string
	Entity2Parent string

	Extra map[string]any

	// columns is the source header order, shared by every record of a store
	columns []string
}

// Field is a single named cell of a record
type Field struct {
	Name  string
	Value any
}

// Get returns the value of the named column
func (r Record) Get(name string) (any, bool) {
	switch name {
	case ColEntity1:
		return r.Entity1, true
	case ColEntity1Type:
		return r.Entity1Type, true
	case ColEntity1Parent:
		return r.Entity1Parent, true
	case ColEntity2:
		return r.Entity2, true
	case ColEntity2Type:
		return r.Entity2Type, true
	case ColEntity2Parent:
		return r.Entity2Parent, true
	}
	v, ok := r.Extra[name]
	return v, ok
}

// Fields returns every cell of the record in source column order. Records
// built outside a loader list the typed columns first, then Extra by name.
func (r Record) Fields() []Field {
	order := r.columns
	if order == nil {
		order = defaultColumns(r.Extra)
	}

	fields := make([]Field, 0, len(order))
	for _, name := range order {
		v, _ := r.Get(name)
		fields = append(fields, Field{Name: name, Value: v})
	}
	return fields
}

// MarshalJSON encodes the record as one flat object keyed by column name
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.Fields() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (r *Record) set(name string, value any) {
	s, _ := value.(string)
	switch name {
	case ColEntity1:
		r.Entity1 = s
	case ColEntity1Type:
		r.Entity1Type = s
	case ColEntity1Parent:
		r.Entity1Parent = s
	case ColEntity2:
		r.Entity2 = s
	case ColEntity2Type:
		r.Entity2Type = s
	case ColEntity2Parent:
		r.Entity2Parent = s
	default:
		if r.Extra == nil {
			r.Extra = make(map[string]any)
		}
		r.Extra[name] = value
	}
}

func isRequired(name string) bool {
	for _, col := range RequiredColumns {
		if col == name {
			return true
		}
	}
	return false
}

func defaultColumns(extra map[string]any) []string {
	names := make([]string, 0, len(RequiredColumns)+len(extra))
	names = append(names, RequiredColumns...)

	keys := make([]string, 0, len(extra))
	for k := range extra {
		if !isRequired(k) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return append(names, keys...)
}
