package records

import "fmt"

// Header is the ordered set of field names shared by every record in a set.
// Field names are unique; lookup is by exact, case-sensitive name.
type Header struct {
	names []string
	index map[string]int
}

// NewHeader validates the field names and builds a Header. Duplicate or empty
// field names are rejected so later substitution is a checked map lookup.
func NewHeader(names []string) (*Header, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("records: header has no fields")
	}
	index := make(map[string]int, len(names))
	for i, name := range names {
		if name == "" {
			return nil, fmt.Errorf("records: header field %d is empty", i+1)
		}
		if _, exists := index[name]; exists {
			return nil, fmt.Errorf("records: duplicate header field %q", name)
		}
		index[name] = i
	}
	return &Header{names: append([]string(nil), names...), index: index}, nil
}

// Fields returns the field names in header order. Callers must not modify the
// returned slice.
func (h *Header) Fields() []string {
	return h.names
}

// Len returns the number of fields.
func (h *Header) Len() int {
	return len(h.names)
}

// Has reports whether name is a known field.
func (h *Header) Has(name string) bool {
	_, ok := h.index[name]
	return ok
}

// Record is one data row: a read-only field-name → value mapping that shares
// its Header with every other row in the set.
type Record struct {
	header *Header
	values []string
}

// Get returns the value for the named field and whether the field exists.
func (r Record) Get(name string) (string, bool) {
	i, ok := r.header.index[name]
	if !ok {
		return "", false
	}
	return r.values[i], true
}

// Fields returns the record's field names in header order.
func (r Record) Fields() []string {
	return r.header.Fields()
}

// Values returns the field values in header order. Callers must not modify
// the returned slice.
func (r Record) Values() []string {
	return r.values
}

// RecordSet is an ordered sequence of records plus their shared header.
type RecordSet struct {
	header *Header
	rows   []Record
}

// NewRecordSet builds a RecordSet from a header and raw rows, enforcing that
// every row carries exactly the header's field count.
func NewRecordSet(header *Header, rows [][]string) (RecordSet, error) {
	if header == nil {
		return RecordSet{}, fmt.Errorf("records: header is required")
	}
	set := RecordSet{header: header, rows: make([]Record, 0, len(rows))}
	for i, values := range rows {
		if len(values) != header.Len() {
			return RecordSet{}, fmt.Errorf("records: row %d has %d fields, header has %d", i+1, len(values), header.Len())
		}
		set.rows = append(set.rows, Record{header: header, values: append([]string(nil), values...)})
	}
	return set, nil
}

// Header returns the shared header.
func (s RecordSet) Header() *Header {
	return s.header
}

// Len returns the number of data rows.
func (s RecordSet) Len() int {
	return len(s.rows)
}

// Row returns the record at 0-based index i.
func (s RecordSet) Row(i int) Record {
	return s.rows[i]
}

// FilterRange keeps the contiguous sub-range [first, last] of data rows,
// 1-based and inclusive, not counting the header. A bound of zero or less
// means "unbounded" on that side. Bounds outside the data extent clamp to the
// available rows; a range that is empty after clamping yields an empty set,
// never an error.
func (s RecordSet) FilterRange(first, last int) RecordSet {
	if first < 1 {
		first = 1
	}
	if last < 1 || last > len(s.rows) {
		last = len(s.rows)
	}
	if first > last {
		return RecordSet{header: s.header}
	}
	return RecordSet{header: s.header, rows: s.rows[first-1 : last]}
}
