package filter

// FieldFilter selects records whose Field strictly equals Value.
type FieldFilter struct {
	Field Path
	Value Value
}

// Filters is an insertion-ordered field to target mapping. It has value
// semantics: every modifier returns a new Filters and leaves the receiver
// untouched, so snapshots handed out by a view stay stable.
type Filters struct {
	entries []FieldFilter
}

// NewFilters builds a mapping from entries; a repeated field keeps its first
// position and its last value.
func NewFilters(entries ...FieldFilter) Filters {
	var f Filters
	for _, e := range entries {
		f = f.Set(e.Field, e.Value)
	}
	return f
}

// Len returns the number of fields present.
func (f Filters) Len() int { return len(f.entries) }

// Entries returns a copy of the entries in declared order.
func (f Filters) Entries() []FieldFilter {
	out := make([]FieldFilter, len(f.entries))
	copy(out, f.entries)
	return out
}

// Get returns the target for field.
func (f Filters) Get(field Path) (Value, bool) {
	for _, e := range f.entries {
		if e.Field.Equal(field) {
			return e.Value, true
		}
	}
	return Value{}, false
}

// Set returns a copy with field set to v. An existing field keeps its position.
func (f Filters) Set(field Path, v Value) Filters {
	out := make([]FieldFilter, len(f.entries), len(f.entries)+1)
	copy(out, f.entries)
	for i := range out {
		if out[i].Field.Equal(field) {
			out[i].Value = v
			return Filters{entries: out}
		}
	}
	return Filters{entries: append(out, FieldFilter{Field: field, Value: v})}
}

// Merge returns a copy with every entry of other applied in order.
func (f Filters) Merge(other Filters) Filters {
	out := f
	for _, e := range other.entries {
		out = out.Set(e.Field, e.Value)
	}
	return out
}

// Equal reports whether both mappings hold the same fields, values and order.
func (f Filters) Equal(o Filters) bool {
	if len(f.entries) != len(o.entries) {
		return false
	}
	for i := range f.entries {
		if !f.entries[i].Field.Equal(o.entries[i].Field) || !f.entries[i].Value.Equal(o.entries[i].Value) {
			return false
		}
	}
	return true
}

// FilterByField keeps records whose field strictly equals target. An unset
// target ("ALL", "", nil or absent) returns data unchanged.
func FilterByField(data []Record, field Path, target Value) []Record {
	if target.IsUnset() {
		return data
	}

	out := make([]Record, 0, len(data))
	for _, rec := range data {
		if Lookup(rec, field).Equal(target) {
			out = append(out, rec)
		}
	}
	return out
}

// ApplyMultipleFilters intersects every entry of filters, in declared order.
func ApplyMultipleFilters(data []Record, filters Filters) []Record {
	result := make([]Record, len(data))
	copy(result, data)
	for _, e := range filters.entries {
		result = FilterByField(result, e.Field, e.Value)
	}
	return result
}

// ResetFilters returns a mapping with every field set to "ALL".
func ResetFilters(fields []Path) Filters {
	var f Filters
	for _, field := range fields {
		f = f.Set(field, String(All))
	}
	return f
}
