package filter

import "strings"

// FilterBySearch keeps records where at least one of fields contains term,
// case-insensitively. Strings are matched directly, numbers by their decimal
// form; every other kind never matches. An empty or blank term returns data
// unchanged.
func FilterBySearch(data []Record, term string, fields []Path) []Record {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return data
	}

	out := make([]Record, 0, len(data))
	for _, rec := range data {
		if matchesSearch(rec, needle, fields) {
			out = append(out, rec)
		}
	}
	return out
}

func matchesSearch(rec Record, needle string, fields []Path) bool {
	for _, field := range fields {
		v := Lookup(rec, field)
		switch v.kind {
		case KindString:
			if v.str != "" && strings.Contains(strings.ToLower(v.str), needle) {
				return true
			}
		case KindNumber:
			if strings.Contains(formatNumber(v.num), needle) {
				return true
			}
		}
	}
	return false
}
