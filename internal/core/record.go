package core

import (
	"strconv"
	"strings"
)

// Kind is the scalar type of a column's values.
type Kind int

const (
	KindText Kind = iota
	KindNumber
	KindDate
	KindTag
)

// String returns the lowercase kind name used in JSON listings.
func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	case KindTag:
		return "tag"
	default:
		return "text"
	}
}

// Value is a single scalar cell. Dates are held as YYYY-MM-DD strings.
type Value struct {
	Kind Kind
	Str  string
	Num  float64
}

// Text returns a text value.
func Text(s string) Value { return Value{Kind: KindText, Str: s} }

// Number returns a numeric value.
func Number(n float64) Value { return Value{Kind: KindNumber, Num: n} }

// Date returns a date value. s should already be in YYYY-MM-DD form.
func Date(s string) Value { return Value{Kind: KindDate, Str: s} }

// Tag returns an enumerated value such as a status or role.
func Tag(s string) Value { return Value{Kind: KindTag, Str: s} }

// String renders the value for display and for text matching.
func (v Value) String() string {
	if v.Kind == KindNumber {
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	}
	return v.Str
}

// IsZero reports whether the value was never set.
func (v Value) IsZero() bool {
	return v == Value{}
}

// compareValues orders two values of the same column.
// Numbers compare numerically, everything else lexically.
func compareValues(a, b Value) int {
	if a.Kind == KindNumber && b.Kind == KindNumber {
		switch {
		case a.Num < b.Num:
			return -1
		case a.Num > b.Num:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(a.String(), b.String())
}

// Record is one row. ID is unique within a store and never reused.
type Record struct {
	ID     int
	Fields map[string]Value
}

// NewRecord builds a record, copying fields so the caller's map stays private.
func NewRecord(id int, fields map[string]Value) Record {
	copied := make(map[string]Value, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	return Record{ID: id, Fields: copied}
}

// Get returns the value stored under key, or the zero Value.
func (r Record) Get(key string) Value {
	if r.Fields == nil {
		return Value{}
	}
	return r.Fields[key]
}

// Column describes one displayed field of a table.
type Column struct {
	Key      string // snake_case field name: "created_at"
	Label    string // Header text: "Created At"
	Kind     Kind
	Sortable bool
}

// Schema describes the columns of a table and which fields drive
// text filtering, date filtering and the detail heading.
type Schema struct {
	Columns      []Column
	DisplayField string // Text filter target
	DateField    string // Date filter target, empty when the table has none
	TitleField   string // Detail overlay heading
}

// Column returns the column with the given key.
func (s Schema) Column(key string) (Column, bool) {
	for _, c := range s.Columns {
		if c.Key == key {
			return c, true
		}
	}
	return Column{}, false
}

// Sortable reports whether key names a sortable column.
func (s Schema) Sortable(key string) bool {
	c, ok := s.Column(key)
	return ok && c.Sortable
}

// Keys returns the column keys in display order.
func (s Schema) Keys() []string {
	keys := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		keys[i] = c.Key
	}
	return keys
}

// ColumnKey converts a header label to a column key.
// "Created At" -> "created_at"
func ColumnKey(label string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(label), " ", "_"))
}
