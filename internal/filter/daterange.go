package filter

import (
	"math"
	"time"
)

// DateRange names a date bucket a list view can be narrowed to.
type DateRange string

const (
	RangeAll        DateRange = "all"
	RangeToday      DateRange = "today"
	RangeLast7Days  DateRange = "last7days"
	RangeLast30Days DateRange = "last30days"
	RangeThisMonth  DateRange = "thisMonth"
	RangeCustom     DateRange = "custom"
)

// Valid reports whether r is one of the named ranges.
func (r DateRange) Valid() bool {
	switch r {
	case RangeAll, RangeToday, RangeLast7Days, RangeLast30Days, RangeThisMonth, RangeCustom:
		return true
	}
	return false
}

// Active reports whether r narrows the view at all.
func (r DateRange) Active() bool { return r != "" && r != RangeAll }

// Interval is an inclusive time interval. A nil bound is open on that side.
type Interval struct {
	Start *time.Time
	End   *time.Time
}

// Contains reports whether t falls inside the interval, bounds included.
func (i Interval) Contains(t time.Time) bool {
	if i.Start != nil && t.Before(*i.Start) {
		return false
	}
	if i.End != nil && t.After(*i.End) {
		return false
	}
	return true
}

const day = 24 * time.Hour

// Interval computes the bounds of r relative to now, in now's location. The
// second result is false when r does not filter (all, empty or unknown).
// For RangeCustom, start and end are used as given; a nil bound is unbounded.
func (r DateRange) Interval(now time.Time, start, end *time.Time) (Interval, bool) {
	loc := now.Location()
	y, m, d := now.Date()

	switch r {
	case RangeToday:
		lo := time.Date(y, m, d, 0, 0, 0, 0, loc)
		hi := time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), loc)
		return Interval{Start: &lo, End: &hi}, true
	case RangeLast7Days:
		lo := now.Add(-7 * day)
		hi := now
		return Interval{Start: &lo, End: &hi}, true
	case RangeLast30Days:
		lo := now.Add(-30 * day)
		hi := now
		return Interval{Start: &lo, End: &hi}, true
	case RangeThisMonth:
		lo := time.Date(y, m, 1, 0, 0, 0, 0, loc)
		// Day 0 of next month normalizes to the last day of this one.
		hi := time.Date(y, m+1, 0, 23, 59, 59, 0, loc)
		return Interval{Start: &lo, End: &hi}, true
	case RangeCustom:
		return Interval{Start: start, End: end}, true
	}
	return Interval{}, false
}

// FilterByDateRange keeps records whose field parses as a date inside the
// range computed from now. Records with a missing or unparseable date are
// dropped by every range that filters.
func FilterByDateRange(data []Record, field Path, r DateRange, start, end *time.Time, now time.Time) []Record {
	if !r.Active() {
		return data
	}
	iv, ok := r.Interval(now, start, end)
	if !ok {
		return data
	}

	out := make([]Record, 0, len(data))
	for _, rec := range data {
		t, ok := ParseTime(Lookup(rec, field), now.Location())
		if ok && iv.Contains(t) {
			out = append(out, rec)
		}
	}
	return out
}

var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// maxTimeMillis bounds numeric timestamps to ±100,000,000 days from the
// epoch; larger magnitudes are not dates.
const maxTimeMillis = 8.64e15

// ParseTime interprets v as a point in time. Accepted forms: time values,
// RFC 3339 strings, date-only strings (UTC midnight), zone-less date-times
// (interpreted in loc) and numbers as Unix milliseconds within maxTimeMillis.
func ParseTime(v Value, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	switch v.kind {
	case KindTime:
		return v.t, !v.t.IsZero()
	case KindNumber:
		if math.IsNaN(v.num) || math.Abs(v.num) > maxTimeMillis {
			return time.Time{}, false
		}
		return time.UnixMilli(int64(v.num)).In(loc), true
	case KindString:
		s := v.str
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return t, true
		}
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			return t, true
		}
		for _, layout := range localLayouts {
			if t, err := time.ParseInLocation(layout, s, loc); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}
