package filter

import (
	"strings"
	"time"

	"golang.org/x/text/language"
)

// DefaultDateField is the date path used when Options.DateField is unset.
var DefaultDateField = MustPath("createdAt")

// Options carries one pass of CombineFilters: the configured fields plus the
// interaction state of a list view.
type Options struct {
	SearchTerm   string
	SearchFields []Path
	Filters      Filters
	DateRange    DateRange
	DateField    Path
	CustomStart  *time.Time
	CustomEnd    *time.Time
	SortBy       SortMode

	// Now anchors rolling date ranges; zero means time.Now().
	Now time.Time
	// Language selects the collation used by title and string sorts;
	// zero means language.Und.
	Language language.Tag
}

// CombineFilters runs search, equality filters, date range and sort over
// data, in that order. Steps whose input is at its default are skipped. The
// result is always a new slice; data and its records are never modified.
func CombineFilters(data []Record, opts Options) []Record {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	dateField := opts.DateField
	if dateField.IsZero() {
		dateField = DefaultDateField
	}

	result := FilterBySearch(data, opts.SearchTerm, opts.SearchFields)
	if opts.Filters.Len() > 0 {
		result = ApplyMultipleFilters(result, opts.Filters)
	}
	result = FilterByDateRange(result, dateField, opts.DateRange, opts.CustomStart, opts.CustomEnd, now)
	result = sortData(result, opts.SortBy, opts.Language, now.Location())

	out := make([]Record, len(result))
	copy(out, result)
	return out
}

// CountActiveFilters counts the engaged dimensions of a view: a non-blank
// search term, every filter not at its unset sentinel, and a date range
// other than all.
func CountActiveFilters(term string, filters Filters, rng DateRange) int {
	n := 0
	if strings.TrimSpace(term) != "" {
		n++
	}
	for _, e := range filters.entries {
		if !e.Value.IsUnset() {
			n++
		}
	}
	if rng.Active() {
		n++
	}
	return n
}
