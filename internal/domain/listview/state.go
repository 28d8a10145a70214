package listview

import (
	"fmt"

	"github.com/rpggio/listview/internal/filter"
	"github.com/rpggio/listview/internal/view"
)

// EncodeState converts interaction state to its wire form.
func EncodeState(s view.State) ViewState {
	entries := s.Filters.Entries()
	fs := make([]FilterValue, 0, len(entries))
	for _, e := range entries {
		fs = append(fs, FilterValue{Field: e.Field.String(), Value: e.Value.Interface()})
	}
	out := ViewState{
		SearchTerm:  s.SearchTerm,
		Filters:     fs,
		SortBy:      s.SortBy.String(),
		DateRange:   string(s.DateRange),
		CustomStart: s.CustomStart,
		CustomEnd:   s.CustomEnd,
	}
	if !s.SortBy.IsNone() {
		out.SortDirection = s.SortBy.Direction().String()
	}
	return out
}

// DecodeState validates a wire state against cfg.
func DecodeState(vs ViewState, cfg view.Config) (view.State, error) {
	fs, err := decodeFilters(vs.Filters, cfg)
	if err != nil {
		return view.State{}, err
	}
	sort, err := filter.ParseSortMode(vs.SortBy, filter.ParseDirection(vs.SortDirection))
	if err != nil {
		return view.State{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	rng, err := parseRange(vs.DateRange)
	if err != nil {
		return view.State{}, err
	}
	return view.State{
		SearchTerm:  vs.SearchTerm,
		Filters:     filter.ResetFilters(cfg.FilterableFields).Merge(fs),
		SortBy:      sort,
		DateRange:   rng,
		CustomStart: vs.CustomStart,
		CustomEnd:   vs.CustomEnd,
	}, nil
}

func decodeFilters(values []FilterValue, cfg view.Config) (filter.Filters, error) {
	var fs filter.Filters
	for _, fv := range values {
		field, err := filterableField(fv.Field, cfg)
		if err != nil {
			return filter.Filters{}, err
		}
		fs = fs.Set(field, filter.Of(fv.Value))
	}
	return fs, nil
}

func filterableField(name string, cfg view.Config) (filter.Path, error) {
	field, err := filter.ParsePath(name)
	if err != nil {
		return filter.Path{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	for _, f := range cfg.FilterableFields {
		if f.Equal(field) {
			return field, nil
		}
	}
	return filter.Path{}, fmt.Errorf("%w: %w: %s", ErrInvalidInput, ErrUnknownField, name)
}

func parseRange(s string) (filter.DateRange, error) {
	if s == "" {
		return filter.RangeAll, nil
	}
	r := filter.DateRange(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: unknown date range %q", ErrInvalidInput, s)
	}
	return r, nil
}
