// Package filter implements search, equality, date-range and sort steps over
// in-memory records, and the orchestrator that combines them for a list view.
//
// Every function here is total: malformed or missing fields never produce an
// error, they simply fail to match. Inputs are never mutated.
package filter

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPath indicates a field path that cannot address a record field.
var ErrInvalidPath = errors.New("invalid field path")

// Path addresses a possibly nested field with dot notation, e.g.
// "organization.name". The zero Path addresses the record itself.
type Path struct {
	raw  string
	segs []string
}

// ParsePath validates a dot-separated field path.
func ParsePath(s string) (Path, error) {
	if s == "" {
		return Path{}, fmt.Errorf("%w: empty", ErrInvalidPath)
	}
	if strings.TrimSpace(s) != s {
		return Path{}, fmt.Errorf("%w: %q has surrounding whitespace", ErrInvalidPath, s)
	}
	segs := strings.Split(s, ".")
	for _, seg := range segs {
		if seg == "" {
			return Path{}, fmt.Errorf("%w: %q has an empty segment", ErrInvalidPath, s)
		}
	}
	return Path{raw: s, segs: segs}, nil
}

// MustPath is ParsePath for literals; it panics on an invalid path.
func MustPath(s string) Path {
	p, err := ParsePath(s)
	if err != nil {
		panic(err)
	}
	return p
}

// ParsePaths validates a list of paths, failing on the first invalid one.
func ParsePaths(raw []string) ([]Path, error) {
	out := make([]Path, 0, len(raw))
	for _, s := range raw {
		p, err := ParsePath(s)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// String returns the dotted form.
func (p Path) String() string { return p.raw }

// IsZero reports whether p addresses the whole record.
func (p Path) IsZero() bool { return len(p.segs) == 0 }

// Equal reports whether both paths address the same field.
func (p Path) Equal(o Path) bool { return p.raw == o.raw }
