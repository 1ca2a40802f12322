// Package ledger turns a fetched list of transaction records into the rows a
// screen shows and exports: a type filter, a free-text search and a tabular
// serialization of whatever is currently visible.
package ledger

import (
	"strings"

	"github.com/Veraticus/stackbank/internal/model"
)

// Filter is the screen-local filter state. The zero value shows everything.
type Filter struct {
	Search string
	Type   model.TransactionType
}

// IsZero reports whether no filter is applied.
func (f Filter) IsZero() bool {
	return f.Search == "" && f.Type == ""
}

// Matches reports whether r passes both the type and the search filter.
func (f Filter) Matches(r model.TransactionRecord) bool {
	return f.matchesType(r) && f.matchesSearch(r)
}

// matchesType is an exact, case-sensitive comparison.
func (f Filter) matchesType(r model.TransactionRecord) bool {
	return f.Type == "" || f.Type == r.Type
}

func (f Filter) matchesSearch(r model.TransactionRecord) bool {
	if f.Search == "" {
		return true
	}
	q := strings.ToLower(f.Search)

	return strings.Contains(strings.ToLower(string(r.Type)), q) ||
		strings.Contains(r.AmountString(), q) ||
		strings.Contains(strings.ToLower(r.Date), q) ||
		containsOptional(r.Biller, q) ||
		containsOptional(r.To, q) ||
		containsOptional(r.From, q)
}

// containsOptional fails for absent fields.
func containsOptional(field *string, q string) bool {
	return field != nil && strings.Contains(strings.ToLower(*field), q)
}

// Visible returns the records passing f, in input order. It never mutates
// records and always returns a fresh slice.
func Visible(records []model.TransactionRecord, f Filter) []model.TransactionRecord {
	out := make([]model.TransactionRecord, 0, len(records))
	for _, r := range records {
		if f.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}
