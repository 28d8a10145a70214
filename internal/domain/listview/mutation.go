package listview

import (
	"time"

	"github.com/rpggio/listview/internal/filter"
	"github.com/rpggio/listview/internal/view"
)

// Mutation is one change to a view's interaction state.
type Mutation interface {
	apply(v *view.View) error
}

// SetSearch replaces the search term.
type SetSearch struct{ Term string }

// ClearSearch empties the search term.
type ClearSearch struct{}

// SetFilter sets one filterable field.
type SetFilter struct {
	Field string
	Value any
}

// SetFilters merges several filters at once.
type SetFilters struct{ Filters []FilterValue }

// ClearFilter resets one field to ALL.
type ClearFilter struct{ Field string }

// SetSort selects a sort mode; Direction only applies to field sorts.
type SetSort struct {
	SortBy    string
	Direction string
}

// SetDateRange selects a named date range.
type SetDateRange struct{ Range string }

// SetCustomDateRange sets explicit bounds and switches to the custom range.
type SetCustomDateRange struct {
	Start *time.Time
	End   *time.Time
}

// ClearAll resets the view to its preset defaults.
type ClearAll struct{}

func (m SetSearch) apply(v *view.View) error {
	v.SetSearchTerm(m.Term)
	return nil
}

func (ClearSearch) apply(v *view.View) error {
	v.ClearSearch()
	return nil
}

func (m SetFilter) apply(v *view.View) error {
	field, err := filterableField(m.Field, v.Config())
	if err != nil {
		return err
	}
	v.SetFilter(field, filter.Of(m.Value))
	return nil
}

func (m SetFilters) apply(v *view.View) error {
	fs, err := decodeFilters(m.Filters, v.Config())
	if err != nil {
		return err
	}
	v.SetFilters(fs)
	return nil
}

func (m ClearFilter) apply(v *view.View) error {
	field, err := filterableField(m.Field, v.Config())
	if err != nil {
		return err
	}
	v.ClearFilter(field)
	return nil
}

func (m SetSort) apply(v *view.View) error {
	mode, err := filter.ParseSortMode(m.SortBy, filter.ParseDirection(m.Direction))
	if err != nil {
		return errInvalid(err)
	}
	v.SetSortBy(mode)
	return nil
}

func (m SetDateRange) apply(v *view.View) error {
	r, err := parseRange(m.Range)
	if err != nil {
		return err
	}
	v.SetDateRange(r)
	return nil
}

func (m SetCustomDateRange) apply(v *view.View) error {
	if m.Start != nil && m.End != nil && m.End.Before(*m.Start) {
		return errInvalid(errEndBeforeStart)
	}
	v.SetCustomDateRange(m.Start, m.End)
	return nil
}

func (ClearAll) apply(v *view.View) error {
	v.ClearAll()
	return nil
}
