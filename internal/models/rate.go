// Package models defines data structures and domain types.
package models

import (
	"sort"
	"time"
)

// RateTable is a snapshot of exchange rates relative to one base currency
// at one point in time. It is never mutated after the fetch that produced
// it and is discarded once the conversion that used it completes.
type RateTable struct {
	Base      string
	FetchedAt time.Time
	Rates     map[string]float64
}

// Rate returns the rate for a currency code and whether it is present.
// The base currency itself always resolves to 1.
func (t *RateTable) Rate(code string) (float64, bool) {
	if code == t.Base {
		return 1, true
	}
	rate, ok := t.Rates[code]
	return rate, ok
}

// Has reports whether the table can resolve a currency code.
func (t *RateTable) Has(code string) bool {
	_, ok := t.Rate(code)
	return ok
}

// Codes returns the currency codes in the table in sorted order,
// including the base.
func (t *RateTable) Codes() []string {
	codes := make([]string, 0, len(t.Rates)+1)
	if _, ok := t.Rates[t.Base]; !ok && t.Base != "" {
		codes = append(codes, t.Base)
	}
	for code := range t.Rates {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
