package listview

import (
	"errors"
	"fmt"
)

var (
	// ErrViewNotFound indicates no open view for the session and kind.
	ErrViewNotFound = errors.New("view not found")
	// ErrInvalidInput indicates an unusable mutation or page request.
	ErrInvalidInput = errors.New("invalid view input")
	// ErrUnknownField indicates a filter on a field the preset does not expose.
	ErrUnknownField = errors.New("field is not filterable")
)

var errEndBeforeStart = errors.New("custom range ends before it starts")

func errInvalid(err error) error {
	return fmt.Errorf("%w: %v", ErrInvalidInput, err)
}
