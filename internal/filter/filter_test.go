package filter_test

import (
	"math"
	"testing"
	"time"

	"github.com/rpggio/listview/internal/filter"
	"github.com/stretchr/testify/require"
)

func titles(t *testing.T, recs []filter.Record) []string {
	t.Helper()
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		s, _ := r["title"].(string)
		out = append(out, s)
	}
	return out
}

func TestParsePath(t *testing.T) {
	p, err := filter.ParsePath("organization.name")
	require.NoError(t, err)
	require.Equal(t, "organization.name", p.String())

	for _, bad := range []string{"", " title", "a..b", "a.", ".a"} {
		_, err := filter.ParsePath(bad)
		require.ErrorIs(t, err, filter.ErrInvalidPath, bad)
	}
}

func TestLookup_Nested(t *testing.T) {
	rec := filter.Record{
		"organization": map[string]any{"name": "Acme"},
		"count":        3,
		"flag":         false,
		"empty":        nil,
	}

	v := filter.Lookup(rec, filter.MustPath("organization.name"))
	s, ok := v.Str()
	require.True(t, ok)
	require.Equal(t, "Acme", s)

	require.Equal(t, filter.KindAbsent, filter.Lookup(rec, filter.MustPath("organization.city")).Kind())
	require.Equal(t, filter.KindAbsent, filter.Lookup(rec, filter.MustPath("count.value")).Kind())
	require.Equal(t, filter.KindNull, filter.Lookup(rec, filter.MustPath("empty")).Kind())
	require.Equal(t, filter.KindBool, filter.Lookup(rec, filter.MustPath("flag")).Kind())

	n, ok := filter.Lookup(rec, filter.MustPath("count")).Num()
	require.True(t, ok)
	require.Equal(t, 3.0, n)
}

func TestFilterBySearch(t *testing.T) {
	data := []filter.Record{
		{"title": "Fix bug", "organization": map[string]any{"name": "Acme"}},
		{"title": "Write docs", "amount": 1234},
		{"title": "Deploy", "done": true},
	}
	fields := []filter.Path{filter.MustPath("title"), filter.MustPath("organization.name"), filter.MustPath("amount"), filter.MustPath("done")}

	require.Equal(t, []string{"Fix bug"}, titles(t, filter.FilterBySearch(data, "  FIX ", fields)))
	require.Equal(t, []string{"Fix bug"}, titles(t, filter.FilterBySearch(data, "acme", fields)))
	require.Equal(t, []string{"Write docs"}, titles(t, filter.FilterBySearch(data, "23", fields)))
	require.Empty(t, filter.FilterBySearch(data, "true", fields))
	require.Len(t, filter.FilterBySearch(data, "   ", fields), 3)
}

func TestFilterBySearch_ExponentNumbers(t *testing.T) {
	data := []filter.Record{
		{"title": "tiny", "n": 1e-7},
		{"title": "huge", "n": 1e21},
		{"title": "plain", "n": 0.5},
	}
	fields := []filter.Path{filter.MustPath("n")}

	require.Equal(t, []string{"tiny"}, titles(t, filter.FilterBySearch(data, "1e-7", fields)))
	require.Empty(t, filter.FilterBySearch(data, "e-07", fields))
	require.Equal(t, []string{"huge"}, titles(t, filter.FilterBySearch(data, "1e+21", fields)))
	require.Equal(t, []string{"plain"}, titles(t, filter.FilterBySearch(data, "0.5", fields)))
}

func TestFilterByField(t *testing.T) {
	data := []filter.Record{
		{"title": "a", "status": "PENDING", "points": 3},
		{"title": "b", "status": "DONE", "points": 0},
		{"title": "c", "status": "PENDING"},
	}
	status := filter.MustPath("status")

	require.Equal(t, []string{"a", "c"}, titles(t, filter.FilterByField(data, status, filter.String("PENDING"))))
	require.Equal(t, []string{"b"}, titles(t, filter.FilterByField(data, filter.MustPath("points"), filter.Number(0))))
	require.Empty(t, filter.FilterByField(data, filter.MustPath("points"), filter.String("3")))

	for _, unset := range []filter.Value{filter.String(filter.All), filter.String(""), filter.Null(), filter.Absent()} {
		require.Len(t, filter.FilterByField(data, status, unset), 3)
	}
}

func TestApplyMultipleFilters(t *testing.T) {
	data := []filter.Record{
		{"title": "a", "status": "PENDING", "priority": "HIGH"},
		{"title": "b", "status": "PENDING", "priority": "LOW"},
		{"title": "c", "status": "DONE", "priority": "HIGH"},
	}
	fs := filter.NewFilters(
		filter.FieldFilter{Field: filter.MustPath("status"), Value: filter.String("PENDING")},
		filter.FieldFilter{Field: filter.MustPath("priority"), Value: filter.String("HIGH")},
	)
	require.Equal(t, []string{"a"}, titles(t, filter.ApplyMultipleFilters(data, fs)))
}

func TestFilters_ValueSemantics(t *testing.T) {
	status := filter.MustPath("status")
	priority := filter.MustPath("priority")

	base := filter.NewFilters(filter.FieldFilter{Field: status, Value: filter.String("ALL")})
	next := base.Set(priority, filter.String("HIGH")).Set(status, filter.String("PENDING"))

	v, ok := base.Get(status)
	require.True(t, ok)
	require.True(t, v.Equal(filter.String("ALL")))
	require.Equal(t, 1, base.Len())

	entries := next.Entries()
	require.Len(t, entries, 2)
	require.Equal(t, "status", entries[0].Field.String())
	require.Equal(t, "priority", entries[1].Field.String())
}

func TestSortData_PriorityDesc(t *testing.T) {
	data := []filter.Record{{"priority": "LOW"}, {"priority": "URGENT"}, {"priority": "MEDIUM"}}
	sorted := filter.SortData(data, filter.SortPriorityDesc)

	got := make([]string, 0, len(sorted))
	for _, r := range sorted {
		got = append(got, r["priority"].(string))
	}
	require.Equal(t, []string{"URGENT", "MEDIUM", "LOW"}, got)
	require.Equal(t, "LOW", data[0]["priority"], "input must not be reordered")
}

func TestSortData_StableTies(t *testing.T) {
	data := []filter.Record{
		{"title": "first", "priority": "HIGH"},
		{"title": "unknown", "priority": "WHATEVER"},
		{"title": "second", "priority": "HIGH"},
	}
	require.Equal(t, []string{"first", "second", "unknown"}, titles(t, filter.SortData(data, filter.SortPriorityDesc)))
	require.Equal(t, []string{"unknown", "first", "second"}, titles(t, filter.SortData(data, filter.SortPriorityAsc)))
}

func TestSortData_Date(t *testing.T) {
	data := []filter.Record{
		{"title": "jan", "createdAt": "2024-01-01"},
		{"title": "none"},
		{"title": "due", "dueDate": "2024-03-01T09:00:00Z"},
		{"title": "feb", "createdAt": "2024-02-01T00:00:00Z"},
	}
	require.Equal(t, []string{"due", "feb", "jan", "none"}, titles(t, filter.SortData(data, filter.SortDateDesc)))
	require.Equal(t, []string{"none", "jan", "feb", "due"}, titles(t, filter.SortData(data, filter.SortDateAsc)))
}

func TestSortData_TitleCollated(t *testing.T) {
	data := []filter.Record{{"title": "cherry"}, {"name": "Banana"}, {"title": "apple"}}

	sorted := filter.SortData(data, filter.SortTitleAsc)
	got := make([]string, 0, len(sorted))
	for _, r := range sorted {
		if s, ok := r["title"].(string); ok {
			got = append(got, s)
		} else {
			got = append(got, r["name"].(string))
		}
	}
	require.Equal(t, []string{"apple", "Banana", "cherry"}, got)
}

func TestSortData_GenericFieldMissingLast(t *testing.T) {
	data := []filter.Record{
		{"title": "b", "score": 2},
		{"title": "nil", "score": nil},
		{"title": "a", "score": 1},
		{"title": "absent"},
		{"title": "c", "score": 3},
	}
	score := filter.MustPath("score")

	require.Equal(t, []string{"a", "b", "c", "nil", "absent"},
		titles(t, filter.SortData(data, filter.SortByField(score, filter.Ascending))))
	require.Equal(t, []string{"c", "b", "a", "nil", "absent"},
		titles(t, filter.SortData(data, filter.SortByField(score, filter.Descending))))
}

func TestParseSortMode(t *testing.T) {
	m, err := filter.ParseSortMode("", filter.Descending)
	require.NoError(t, err)
	require.True(t, m.IsNone())

	m, err = filter.ParseSortMode("default", filter.Ascending)
	require.NoError(t, err)
	require.True(t, m.IsNone())

	m, err = filter.ParseSortMode("PRIORITY_ASC", filter.Descending)
	require.NoError(t, err)
	require.True(t, m.Equal(filter.SortPriorityAsc))
	require.Equal(t, "PRIORITY_ASC", m.String())

	m, err = filter.ParseSortMode("organization.name", filter.ParseDirection("ASC"))
	require.NoError(t, err)
	require.Equal(t, "organization.name", m.String())
	require.Equal(t, filter.Ascending, m.Direction())

	_, err = filter.ParseSortMode("a..b", filter.Descending)
	require.ErrorIs(t, err, filter.ErrInvalidPath)
}

func TestFilterByDateRange_Last7Days(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	data := []filter.Record{
		{"title": "old", "createdAt": now.Add(-8 * 24 * time.Hour).Format(time.RFC3339)},
		{"title": "recent", "createdAt": now.Add(-3 * 24 * time.Hour).Format(time.RFC3339)},
		{"title": "broken", "createdAt": "not a date"},
	}
	got := filter.FilterByDateRange(data, filter.DefaultDateField, filter.RangeLast7Days, nil, nil, now)
	require.Equal(t, []string{"recent"}, titles(t, got))
}

func TestFilterByDateRange_TodayAndMonth(t *testing.T) {
	now := time.Date(2024, 2, 10, 10, 0, 0, 0, time.UTC)
	data := []filter.Record{
		{"title": "first", "createdAt": "2024-02-01"},
		{"title": "today-end", "createdAt": "2024-02-10T23:59:59Z"},
		{"title": "tomorrow", "createdAt": "2024-02-11T00:00:00Z"},
		{"title": "leap", "createdAt": "2024-02-29T23:59:59Z"},
		{"title": "march", "createdAt": "2024-03-01"},
		{"title": "millis", "createdAt": now.UnixMilli()},
		{"title": "time", "createdAt": now},
	}
	field := filter.DefaultDateField

	require.Equal(t, []string{"today-end", "millis", "time"},
		titles(t, filter.FilterByDateRange(data, field, filter.RangeToday, nil, nil, now)))
	require.Equal(t, []string{"first", "today-end", "tomorrow", "leap", "millis", "time"},
		titles(t, filter.FilterByDateRange(data, field, filter.RangeThisMonth, nil, nil, now)))
}

func TestFilterByDateRange_Custom(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	data := []filter.Record{
		{"title": "a", "createdAt": "2024-01-01"},
		{"title": "b", "createdAt": "2024-03-01"},
		{"title": "c", "createdAt": "2024-05-01"},
		{"title": "none"},
	}
	field := filter.DefaultDateField
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	require.Equal(t, []string{"b"}, titles(t, filter.FilterByDateRange(data, field, filter.RangeCustom, &start, &end, now)))
	require.Equal(t, []string{"b", "c"}, titles(t, filter.FilterByDateRange(data, field, filter.RangeCustom, &start, nil, now)))
	require.Equal(t, []string{"a", "b"}, titles(t, filter.FilterByDateRange(data, field, filter.RangeCustom, nil, &start, now)))
	require.Equal(t, []string{"a", "b", "c"}, titles(t, filter.FilterByDateRange(data, field, filter.RangeCustom, nil, nil, now)))
	require.Len(t, filter.FilterByDateRange(data, field, filter.RangeAll, nil, nil, now), 4)
	require.Len(t, filter.FilterByDateRange(data, field, "", nil, nil, now), 4)
}

func TestParseTime_NumericBounds(t *testing.T) {
	got, ok := filter.ParseTime(filter.Number(8.64e15), time.UTC)
	require.True(t, ok)
	require.Equal(t, 275760, got.Year())

	got, ok = filter.ParseTime(filter.Number(0), time.UTC)
	require.True(t, ok)
	require.Equal(t, int64(0), got.UnixMilli())

	for _, n := range []float64{8.64e15 + 1, -8.64e15 - 1, 1e300, math.Inf(1), math.NaN()} {
		_, ok := filter.ParseTime(filter.Number(n), time.UTC)
		require.False(t, ok, n)
	}

	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	data := []filter.Record{
		{"title": "far", "createdAt": 1e300},
		{"title": "ms", "createdAt": float64(now.UnixMilli())},
	}
	require.Equal(t, []string{"ms"}, titles(t, filter.FilterByDateRange(data, filter.DefaultDateField, filter.RangeCustom, nil, nil, now)))
}

func TestCountActiveFilters(t *testing.T) {
	fs := filter.NewFilters(
		filter.FieldFilter{Field: filter.MustPath("status"), Value: filter.String("ALL")},
		filter.FieldFilter{Field: filter.MustPath("priority"), Value: filter.String("HIGH")},
	)
	require.Equal(t, 1, filter.CountActiveFilters("", fs, filter.RangeAll))
	require.Equal(t, 3, filter.CountActiveFilters("fix", fs, filter.RangeToday))
	require.Equal(t, 0, filter.CountActiveFilters("   ", filter.Filters{}, ""))
}

func TestResetFilters(t *testing.T) {
	reset := filter.ResetFilters([]filter.Path{filter.MustPath("status"), filter.MustPath("priority")})

	want := filter.NewFilters(
		filter.FieldFilter{Field: filter.MustPath("status"), Value: filter.String("ALL")},
		filter.FieldFilter{Field: filter.MustPath("priority"), Value: filter.String("ALL")},
	)
	require.True(t, reset.Equal(want))
}

func TestCombineFilters_EndToEnd(t *testing.T) {
	data := []filter.Record{
		{"title": "Fix bug", "status": "PENDING", "createdAt": "2024-01-01"},
		{"title": "Write docs", "status": "DONE", "createdAt": "2024-02-01"},
	}
	got := filter.CombineFilters(data, filter.Options{
		SearchTerm:   "fix",
		SearchFields: []filter.Path{filter.MustPath("title")},
		Filters:      filter.NewFilters(filter.FieldFilter{Field: filter.MustPath("status"), Value: filter.String("PENDING")}),
		SortBy:       filter.SortDateDesc,
	})
	require.Len(t, got, 1)
	require.Equal(t, data[0], got[0])
}

func TestCombineFilters_ReturnsNewSlice(t *testing.T) {
	data := []filter.Record{{"title": "a"}, {"title": "b"}}
	got := filter.CombineFilters(data, filter.Options{DateRange: filter.RangeAll})
	require.Equal(t, data, got)

	got[0] = filter.Record{"title": "changed"}
	require.Equal(t, "a", data[0]["title"])
}
