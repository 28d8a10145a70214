package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/listview/internal/domain/access"
	"github.com/rpggio/listview/internal/domain/activity"
	"github.com/rpggio/listview/internal/domain/listview"
	"github.com/rpggio/listview/internal/domain/resource"
	"github.com/rpggio/listview/internal/filter"
)

var (
	// ErrSessionRequired is returned by view tools called without a session.
	ErrSessionRequired = errors.New("session id required")
	// ErrUnknownMethod is returned for a method outside the tool catalog.
	ErrUnknownMethod = errors.New("unknown method")
	// ErrUnauthorized indicates a missing or unknown bearer token.
	ErrUnauthorized = errors.New("unauthorized")
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) CodeValue() string {
	return e.Code
}

func (e *APIError) MessageValue() string {
	return e.Message
}

func (e *APIError) DetailsValue() any {
	return e.Details
}

func (e *APIError) RecoveryHintValue() string {
	return e.RecoveryHint
}

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.Is(err, access.ErrForbidden):
		return &APIError{Code: "FORBIDDEN", Message: err.Error(), RecoveryHint: "Use a key with a role that can access this collection"}
	case errors.Is(err, ErrUnauthorized):
		return &APIError{Code: "UNAUTHORIZED", Message: "unauthorized", RecoveryHint: "Pass a valid bearer token"}
	case errors.Is(err, ErrSessionRequired):
		return &APIError{Code: "SESSION_REQUIRED", Message: "session id required", RecoveryHint: "Pass session_id or the Mcp-Session-Id header"}
	case errors.Is(err, ErrUnknownMethod):
		return &APIError{Code: "METHOD_NOT_FOUND", Message: err.Error()}
	case errors.Is(err, listview.ErrViewNotFound):
		return &APIError{Code: "VIEW_NOT_FOUND", Message: "view not open", RecoveryHint: "Call open_view first"}
	case errors.Is(err, resource.ErrResourceNotFound):
		return &APIError{Code: "RESOURCE_NOT_FOUND", Message: "resource not found", RecoveryHint: "Check ID spelling"}
	case errors.Is(err, resource.ErrUnknownKind):
		return &APIError{Code: "UNKNOWN_KIND", Message: err.Error(), RecoveryHint: "Use organizations, users, clients, tasks or records"}
	case errors.Is(err, resource.ErrNotOwned):
		return &APIError{Code: "NOT_OWNED", Message: "task is assigned to another user"}
	case errors.Is(err, listview.ErrUnknownField):
		return &APIError{Code: "UNKNOWN_FIELD", Message: err.Error(), RecoveryHint: "Filter only on the view's filterable fields"}
	case errors.Is(err, listview.ErrInvalidInput),
		errors.Is(err, resource.ErrInvalidInput),
		errors.Is(err, activity.ErrInvalidInput),
		errors.Is(err, filter.ErrInvalidPath):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error()}
	default:
		return nil
	}
}
