package filter

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Direction orders a field sort.
type Direction uint8

const (
	Descending Direction = iota
	Ascending
)

// ParseDirection maps "asc" (any case) to Ascending and anything else to
// Descending.
func ParseDirection(s string) Direction {
	if strings.EqualFold(strings.TrimSpace(s), "asc") {
		return Ascending
	}
	return Descending
}

func (d Direction) String() string {
	if d == Ascending {
		return "asc"
	}
	return "desc"
}

type sortKind uint8

const (
	sortNone sortKind = iota
	sortDate
	sortTitle
	sortPriority
	sortField
)

// SortMode selects an ordering strategy: one of the predefined modes or a
// generic sort on a single field.
type SortMode struct {
	kind  sortKind
	dir   Direction
	field Path
}

// Predefined sort modes.
var (
	SortNone         = SortMode{}
	SortDateDesc     = SortMode{kind: sortDate, dir: Descending}
	SortDateAsc      = SortMode{kind: sortDate, dir: Ascending}
	SortTitleAsc     = SortMode{kind: sortTitle, dir: Ascending}
	SortTitleDesc    = SortMode{kind: sortTitle, dir: Descending}
	SortPriorityDesc = SortMode{kind: sortPriority, dir: Descending}
	SortPriorityAsc  = SortMode{kind: sortPriority, dir: Ascending}
)

// SortByField orders by the value at field.
func SortByField(field Path, dir Direction) SortMode {
	if field.IsZero() {
		return SortNone
	}
	return SortMode{kind: sortField, dir: dir, field: field}
}

var predefinedModes = map[string]SortMode{
	"DATE_DESC":     SortDateDesc,
	"DATE_ASC":      SortDateAsc,
	"TITLE_ASC":     SortTitleAsc,
	"TITLE_DESC":    SortTitleDesc,
	"PRIORITY_DESC": SortPriorityDesc,
	"PRIORITY_ASC":  SortPriorityAsc,
}

// ParseSortMode resolves a sort identifier. "default" and "" mean no sort,
// the predefined identifiers map to their modes, and anything else is taken
// as a field path sorted in dir.
func ParseSortMode(id string, dir Direction) (SortMode, error) {
	if id == "" || id == "default" {
		return SortNone, nil
	}
	if mode, ok := predefinedModes[id]; ok {
		return mode, nil
	}
	field, err := ParsePath(id)
	if err != nil {
		return SortNone, fmt.Errorf("sort mode: %w", err)
	}
	return SortByField(field, dir), nil
}

// String returns the identifier ParseSortMode accepts.
func (m SortMode) String() string {
	switch m.kind {
	case sortDate:
		return "DATE_" + strings.ToUpper(m.dir.String())
	case sortTitle:
		return "TITLE_" + strings.ToUpper(m.dir.String())
	case sortPriority:
		return "PRIORITY_" + strings.ToUpper(m.dir.String())
	case sortField:
		return m.field.String()
	}
	return "default"
}

// Direction returns the ordering direction.
func (m SortMode) Direction() Direction { return m.dir }

// IsNone reports whether m leaves order untouched.
func (m SortMode) IsNone() bool { return m.kind == sortNone }

// Equal reports whether both modes order identically.
func (m SortMode) Equal(o SortMode) bool {
	if m.kind != o.kind {
		return false
	}
	if m.kind == sortNone {
		return true
	}
	return m.dir == o.dir && m.field.Equal(o.field)
}

var priorityRank = map[string]int{
	"URGENT": 4,
	"HIGH":   3,
	"MEDIUM": 2,
	"LOW":    1,
}

var (
	pathCreatedAt = MustPath("createdAt")
	pathDueDate   = MustPath("dueDate")
	pathTitle     = MustPath("title")
	pathName      = MustPath("name")
	pathPriority  = MustPath("priority")
)

// SortData returns a sorted copy of data. Ties keep their input order.
func SortData(data []Record, mode SortMode) []Record {
	return sortData(data, mode, language.Und, time.Local)
}

func sortData(data []Record, mode SortMode, tag language.Tag, loc *time.Location) []Record {
	if mode.IsNone() {
		return data
	}
	sorted := slices.Clone(data)
	slices.SortStableFunc(sorted, mode.comparator(tag, loc))
	return sorted
}

func (m SortMode) comparator(tag language.Tag, loc *time.Location) func(a, b Record) int {
	coll := collate.New(tag)
	flip := func(c int) int {
		if m.dir == Descending {
			return -c
		}
		return c
	}

	switch m.kind {
	case sortDate:
		return func(a, b Record) int {
			return flip(cmp.Compare(dateKey(a, loc), dateKey(b, loc)))
		}
	case sortTitle:
		return func(a, b Record) int {
			return flip(coll.CompareString(titleKey(a), titleKey(b)))
		}
	case sortPriority:
		return func(a, b Record) int {
			return flip(cmp.Compare(priorityKey(a), priorityKey(b)))
		}
	default:
		return func(a, b Record) int {
			return compareField(Lookup(a, m.field), Lookup(b, m.field), m.dir, coll)
		}
	}
}

// dateKey is createdAt, else dueDate, as Unix milliseconds; missing or
// unparseable dates count as the epoch.
func dateKey(rec Record, loc *time.Location) int64 {
	v := Lookup(rec, pathCreatedAt)
	if !v.truthy() {
		v = Lookup(rec, pathDueDate)
	}
	t, ok := ParseTime(v, loc)
	if !ok {
		return 0
	}
	return t.UnixMilli()
}

func titleKey(rec Record) string {
	v := Lookup(rec, pathTitle)
	if !v.truthy() {
		v = Lookup(rec, pathName)
	}
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return formatNumber(v.num)
	}
	return ""
}

func priorityKey(rec Record) int {
	s, ok := Lookup(rec, pathPriority).Str()
	if !ok {
		return 0
	}
	return priorityRank[s]
}

// compareField orders two field values for a generic sort. Missing values
// sort last in either direction; values of different kinds order by kind.
func compareField(a, b Value, dir Direction, coll *collate.Collator) int {
	am, bm := a.missing(), b.missing()
	switch {
	case am && bm:
		return 0
	case am:
		return 1
	case bm:
		return -1
	}
	c := compareValues(a, b, coll)
	if dir == Descending {
		return -c
	}
	return c
}

func compareValues(a, b Value, coll *collate.Collator) int {
	if a.kind != b.kind {
		return cmp.Compare(a.kind, b.kind)
	}
	switch a.kind {
	case KindString:
		return coll.CompareString(a.str, b.str)
	case KindNumber:
		return cmp.Compare(a.num, b.num)
	case KindBool:
		switch {
		case a.b == b.b:
			return 0
		case b.b:
			return -1
		default:
			return 1
		}
	case KindTime:
		return a.t.Compare(b.t)
	}
	return 0
}
