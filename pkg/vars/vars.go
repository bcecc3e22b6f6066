// Package vars builds the substitution mapping for one (record, position)
// pair: every record field plus the engine's reserved pseudo-variables.
package vars

import (
	"strconv"
	"time"

	"github.com/codfish-zz/ScribusGenerator/pkg/records"
)

// SubstitutionMap is the resolved placeholder-name → value mapping for one
// record at one position. Built fresh per record, never shared.
type SubstitutionMap map[string]string

// Reserved pseudo-variable names. These are computed by the engine and win
// over record fields of the same name, so names used in output-file patterns
// stay unambiguous.
const (
	NameCount    = "COUNT"
	NameTotal    = "TOTAL"
	NameDate     = "DATE"
	NameTime     = "TIME"
	NameDateTime = "DATETIME"
)

// ReservedNames lists every pseudo-variable the resolver adds.
func ReservedNames() []string {
	return []string{NameCount, NameTotal, NameDate, NameTime, NameDateTime}
}

// IsReserved reports whether name is an engine pseudo-variable.
func IsReserved(name string) bool {
	switch name {
	case NameCount, NameTotal, NameDate, NameTime, NameDateTime:
		return true
	}
	return false
}

// Option customises resolver construction.
type Option func(*Resolver)

// WithClock overrides the time source used for the date/time
// pseudo-variables. Tests use this for deterministic output.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) {
		if now != nil {
			r.now = now
		}
	}
}

// Resolver produces SubstitutionMaps. Resolution never fails; unknown
// placeholder names are caught later, at substitution time.
type Resolver struct {
	now func() time.Time
}

// NewResolver constructs a Resolver applying any provided options.
func NewResolver(options ...Option) *Resolver {
	r := &Resolver{now: time.Now}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

// Resolve maps every field of the record plus the reserved pseudo-variables.
// position is the record's 1-based index within the sequence being generated
// (after range filtering); total is the sequence length.
func (r *Resolver) Resolve(record records.Record, position, total int) SubstitutionMap {
	fields := record.Fields()
	m := make(SubstitutionMap, len(fields)+5)
	for _, name := range fields {
		value, _ := record.Get(name)
		m[name] = value
	}
	r.addReserved(m, position, total)
	return m
}

// ResolveContext returns a map holding only the reserved pseudo-variables.
// Merge mode uses it to resolve output-name patterns when no single record
// applies.
func (r *Resolver) ResolveContext(position, total int) SubstitutionMap {
	m := make(SubstitutionMap, 5)
	r.addReserved(m, position, total)
	return m
}

// addReserved overwrites any record field that collides with a reserved name.
func (r *Resolver) addReserved(m SubstitutionMap, position, total int) {
	now := r.now()
	m[NameCount] = strconv.Itoa(position)
	m[NameTotal] = strconv.Itoa(total)
	m[NameDate] = now.Format("2006-01-02")
	m[NameTime] = now.Format("15:04:05")
	m[NameDateTime] = now.Format("2006-01-02 15:04:05")
}
