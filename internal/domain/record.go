package domain

import "strings"

// Record is one search term's sale performance as kept in the record store.
type Record struct {
	SearchTerm string
	Percentage int
	SoldCount  int
}

// Clone creates a copy of the record.
func (r *Record) Clone() *Record {
	return &Record{
		SearchTerm: r.SearchTerm,
		Percentage: r.Percentage,
		SoldCount:  r.SoldCount,
	}
}

// NormalizeKey trims surrounding whitespace from a search term.
// Keys are compared case-sensitively after normalization.
func NormalizeKey(term string) string {
	return strings.TrimSpace(term)
}

// KeySet tracks search terms already present in the store or accepted in
// the current batch.
type KeySet map[string]struct{}

// NewKeySet builds a KeySet from the keys of the given records.
func NewKeySet(records []Record) KeySet {
	ks := make(KeySet, len(records))
	for _, r := range records {
		ks[r.SearchTerm] = struct{}{}
	}
	return ks
}

// Has reports whether key is in the set.
func (ks KeySet) Has(key string) bool {
	_, ok := ks[key]
	return ok
}

// Add inserts key into the set.
func (ks KeySet) Add(key string) {
	ks[key] = struct{}{}
}

// CloneRecords returns a copy of records that is never nil, so an empty
// store still serializes as an empty array.
func CloneRecords(records []Record) []Record {
	out := make([]Record, len(records))
	copy(out, records)
	return out
}
