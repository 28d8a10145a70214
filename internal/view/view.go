// Package view holds the interaction state of one list view and memoizes the
// derived list computed from it.
package view

import (
	"sync"
	"time"

	"github.com/rpggio/listview/internal/filter"
	"golang.org/x/text/language"
)

// Config is fixed for the lifetime of a view.
type Config struct {
	SearchFields     []filter.Path
	FilterableFields []filter.Path
	DefaultSort      filter.SortMode
	DateField        filter.Path
	Language         language.Tag
}

// DefaultConfig searches title and name, sorts newest first and buckets by
// createdAt.
func DefaultConfig() Config {
	return Config{
		SearchFields: []filter.Path{filter.MustPath("title"), filter.MustPath("name")},
		DefaultSort:  filter.SortDateDesc,
		DateField:    filter.DefaultDateField,
	}
}

// State is the mutable interaction state of a view. CustomStart and
// CustomEnd only take effect while DateRange is custom.
type State struct {
	SearchTerm  string
	Filters     filter.Filters
	SortBy      filter.SortMode
	DateRange   filter.DateRange
	CustomStart *time.Time
	CustomEnd   *time.Time
}

// Equal reports whether two states derive the same view.
func (s State) Equal(o State) bool {
	return s.SearchTerm == o.SearchTerm &&
		s.Filters.Equal(o.Filters) &&
		s.SortBy.Equal(o.SortBy) &&
		s.DateRange == o.DateRange &&
		timeEqual(s.CustomStart, o.CustomStart) &&
		timeEqual(s.CustomEnd, o.CustomEnd)
}

func (s State) clone() State {
	s.CustomStart = cloneTime(s.CustomStart)
	s.CustomEnd = cloneTime(s.CustomEnd)
	return s
}

// Result is the derived view. A Result is never modified after it is handed
// out; callers must not modify Items either.
type Result struct {
	Items         []filter.Record
	ActiveFilters int
	HasFilters    bool
	ResultCount   int
	TotalCount    int
	Revision      uint64
}

// Option customizes a View.
type Option func(*View)

// WithClock replaces time.Now as the anchor of rolling date ranges.
func WithClock(now func() time.Time) Option {
	return func(v *View) {
		if now != nil {
			v.now = now
		}
	}
}

// WithState starts the view from s instead of the configured defaults.
func WithState(s State) Option {
	return func(v *View) { v.state = s.clone() }
}

// View is the stateful adapter of one list view. It is safe for concurrent
// use; every mutation is applied atomically.
type View struct {
	mu     sync.Mutex
	cfg    Config
	data   []filter.Record
	state  State
	rev    uint64
	cached *Result
	now    func() time.Time
}

// New creates a view over data. data is not copied; callers hand over
// ownership of the slice.
func New(cfg Config, data []filter.Record, opts ...Option) *View {
	if cfg.DateField.IsZero() {
		cfg.DateField = filter.DefaultDateField
	}
	v := &View{
		cfg:   cfg,
		data:  data,
		state: defaultState(cfg),
		rev:   1,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

func defaultState(cfg Config) State {
	return State{
		Filters:   filter.ResetFilters(cfg.FilterableFields),
		SortBy:    cfg.DefaultSort,
		DateRange: filter.RangeAll,
	}
}

// Config returns the view configuration.
func (v *View) Config() Config { return v.cfg }

// Result returns the derived view, recomputing it only when data or state
// changed since the last call. Unchanged views return the same pointer.
func (v *View) Result() *Result {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.cached != nil && v.cached.Revision == v.rev {
		return v.cached
	}

	s := v.state
	items := filter.CombineFilters(v.data, filter.Options{
		SearchTerm:   s.SearchTerm,
		SearchFields: v.cfg.SearchFields,
		Filters:      s.Filters,
		DateRange:    s.DateRange,
		DateField:    v.cfg.DateField,
		CustomStart:  s.CustomStart,
		CustomEnd:    s.CustomEnd,
		SortBy:       s.SortBy,
		Now:          v.now(),
		Language:     v.cfg.Language,
	})
	active := filter.CountActiveFilters(s.SearchTerm, s.Filters, s.DateRange)
	v.cached = &Result{
		Items:         items,
		ActiveFilters: active,
		HasFilters:    active > 0,
		ResultCount:   len(items),
		TotalCount:    len(v.data),
		Revision:      v.rev,
	}
	return v.cached
}

// State returns a copy of the current interaction state.
func (v *View) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state.clone()
}

// Restore replaces the interaction state wholesale.
func (v *View) Restore(s State) {
	v.update(func(State) State { return s.clone() })
}

// Data returns the source records.
func (v *View) Data() []filter.Record {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.data
}

// SetData replaces the source records.
func (v *View) SetData(data []filter.Record) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.data = data
	v.rev++
}

// Revision increases whenever the derived view may have changed.
func (v *View) Revision() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.rev
}

// Invalidate forces the next Result to recompute. Rolling ranges such as
// last7days move with the clock without any state change.
func (v *View) Invalidate() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.rev++
}

// SetSearchTerm sets the free-text term; matching trims and ignores case.
func (v *View) SetSearchTerm(term string) {
	v.update(func(s State) State {
		s.SearchTerm = term
		return s
	})
}

// ClearSearch empties the search term.
func (v *View) ClearSearch() { v.SetSearchTerm("") }

// SetFilter sets one field's target.
func (v *View) SetFilter(field filter.Path, value filter.Value) {
	v.update(func(s State) State {
		s.Filters = s.Filters.Set(field, value)
		return s
	})
}

// SetFilters merges fs over the current filters.
func (v *View) SetFilters(fs filter.Filters) {
	v.update(func(s State) State {
		s.Filters = s.Filters.Merge(fs)
		return s
	})
}

// ClearFilter resets one field to "ALL".
func (v *View) ClearFilter(field filter.Path) {
	v.SetFilter(field, filter.String(filter.All))
}

// SetSortBy sets the ordering applied after filtering.
func (v *View) SetSortBy(mode filter.SortMode) {
	v.update(func(s State) State {
		s.SortBy = mode
		return s
	})
}

// SetDateRange selects a named range. Custom bounds are kept for a later
// switch back to custom.
func (v *View) SetDateRange(r filter.DateRange) {
	v.update(func(s State) State {
		s.DateRange = r
		return s
	})
}

// SetCustomDateRange sets both bounds and switches the range to custom.
func (v *View) SetCustomDateRange(start, end *time.Time) {
	v.update(func(s State) State {
		s.CustomStart = cloneTime(start)
		s.CustomEnd = cloneTime(end)
		s.DateRange = filter.RangeCustom
		return s
	})
}

// ClearAll resets search, filters, date range and sort to the configured
// defaults in one step.
func (v *View) ClearAll() {
	v.update(func(State) State { return defaultState(v.cfg) })
}

func (v *View) update(fn func(State) State) {
	v.mu.Lock()
	defer v.mu.Unlock()
	next := fn(v.state)
	if next.Equal(v.state) {
		return
	}
	v.state = next
	v.rev++
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func timeEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
