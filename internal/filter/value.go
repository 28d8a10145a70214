package filter

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Record is a single list item: a field name to value mapping. Nested
// records are plain map[string]any or Record values.
type Record map[string]any

// Kind tags the dynamic type held by a Value.
type Kind uint8

const (
	KindAbsent Kind = iota // field or intermediate segment missing
	KindNull
	KindString
	KindNumber
	KindBool
	KindTime
	KindObject
	KindList
)

// All is the sentinel filter value meaning "do not filter on this field".
const All = "ALL"

// Value is the tagged result of resolving a field path.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
	t    time.Time
	raw  any
}

// Absent is the Value of a missing field.
func Absent() Value { return Value{} }

// Null is the Value of an explicit nil.
func Null() Value { return Value{kind: KindNull} }

// String wraps s.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number wraps f.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Bool wraps b.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Time wraps t.
func Time(t time.Time) Value { return Value{kind: KindTime, t: t} }

// Of classifies an arbitrary field value.
func Of(v any) Value {
	switch v := v.(type) {
	case nil:
		return Null()
	case string:
		return String(v)
	case bool:
		return Bool(v)
	case float64:
		return Number(v)
	case float32:
		return Number(float64(v))
	case int:
		return Number(float64(v))
	case int8:
		return Number(float64(v))
	case int16:
		return Number(float64(v))
	case int32:
		return Number(float64(v))
	case int64:
		return Number(float64(v))
	case uint:
		return Number(float64(v))
	case uint8:
		return Number(float64(v))
	case uint16:
		return Number(float64(v))
	case uint32:
		return Number(float64(v))
	case uint64:
		return Number(float64(v))
	case time.Time:
		return Time(v)
	case *time.Time:
		if v == nil {
			return Null()
		}
		return Time(*v)
	case []any:
		return Value{kind: KindList, raw: v}
	default:
		return Value{kind: KindObject, raw: v}
	}
}

// Kind returns the tag.
func (v Value) Kind() Kind { return v.kind }

// Str returns the string payload and whether v is a String.
func (v Value) Str() (string, bool) { return v.str, v.kind == KindString }

// Num returns the numeric payload and whether v is a Number.
func (v Value) Num() (float64, bool) { return v.num, v.kind == KindNumber }

// Interface converts v back into a plain Go value. Absent becomes nil.
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	case KindBool:
		return v.b
	case KindTime:
		return v.t
	case KindObject, KindList:
		return v.raw
	default:
		return nil
	}
}

// IsUnset reports whether v, used as a filter target, means "no filtering":
// Absent, Null, "" or "ALL".
func (v Value) IsUnset() bool {
	switch v.kind {
	case KindAbsent, KindNull:
		return true
	case KindString:
		return v.str == "" || v.str == All
	}
	return false
}

// missing reports whether v carries no usable payload for ordering.
func (v Value) missing() bool { return v.kind == KindAbsent || v.kind == KindNull }

// truthy mirrors the fallback chains used by the predefined sort keys: empty
// strings, zero, false and missing values fall through to the next field.
func (v Value) truthy() bool {
	switch v.kind {
	case KindAbsent, KindNull:
		return false
	case KindString:
		return v.str != ""
	case KindNumber:
		return v.num != 0 && !math.IsNaN(v.num)
	case KindBool:
		return v.b
	case KindTime:
		return !v.t.IsZero()
	}
	return true
}

// Equal is strict equality: same kind and same payload. Objects and lists are
// never equal to anything, matching reference semantics for freshly decoded
// data.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindAbsent, KindNull:
		return true
	case KindString:
		return v.str == o.str
	case KindNumber:
		return v.num == o.num
	case KindBool:
		return v.b == o.b
	case KindTime:
		return v.t.Equal(o.t)
	}
	return false
}

// Lookup resolves path inside rec. Any missing segment, or a segment that
// traverses a non-object, yields Absent.
func Lookup(rec Record, path Path) Value {
	if path.IsZero() {
		if rec == nil {
			return Absent()
		}
		return Value{kind: KindObject, raw: rec}
	}
	var cur any = map[string]any(rec)
	for _, seg := range path.segs {
		obj, ok := asObject(cur)
		if !ok {
			return Absent()
		}
		next, present := obj[seg]
		if !present {
			return Absent()
		}
		cur = next
	}
	return Of(cur)
}

func asObject(v any) (map[string]any, bool) {
	switch v := v.(type) {
	case map[string]any:
		return v, v != nil
	case Record:
		return map[string]any(v), v != nil
	}
	return nil, false
}

// formatNumber renders f the way a user sees it in a table cell: shortest
// decimal form without exponent for ordinary magnitudes.
func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	abs := math.Abs(f)
	if abs >= 1e21 || (abs != 0 && abs < 1e-6) {
		return trimExponent(strconv.FormatFloat(f, 'g', -1, 64))
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// trimExponent drops the zero padding strconv puts on a two-digit exponent,
// so 1e-07 reads 1e-7.
func trimExponent(s string) string {
	i := strings.IndexByte(s, 'e')
	if i < 0 || i+2 >= len(s) {
		return s
	}
	digits := strings.TrimLeft(s[i+2:], "0")
	if digits == "" {
		digits = "0"
	}
	return s[:i+2] + digits
}
