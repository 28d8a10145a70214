package resource

import "errors"

var (
	// ErrResourceNotFound indicates the resource doesn't exist.
	ErrResourceNotFound = errors.New("resource not found")
	// ErrUnknownKind indicates a collection name outside Kinds.
	ErrUnknownKind = errors.New("unknown resource kind")
	// ErrInvalidInput indicates invalid resource data.
	ErrInvalidInput = errors.New("invalid resource input")
	// ErrNotOwned indicates a task assigned to someone else.
	ErrNotOwned = errors.New("task is assigned to another user")
)
