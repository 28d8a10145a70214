package mcp

import (
	"time"

	"github.com/rpggio/listview/internal/domain/activity"
	"github.com/rpggio/listview/internal/domain/listview"
	"github.com/rpggio/listview/internal/domain/resource"
)

// ToolDefinition describes a callable tool
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
	Annotations map[string]any `json:"annotations,omitempty"`
}

type CreateResourceParams struct {
	Kind resource.Kind  `json:"kind"`
	ID   string         `json:"id,omitempty"`
	Data map[string]any `json:"data"`
}

type UpdateResourceParams struct {
	Kind resource.Kind  `json:"kind"`
	ID   string         `json:"id"`
	Data map[string]any `json:"data"`
}

type ResourceRefParams struct {
	Kind resource.Kind `json:"kind"`
	ID   string        `json:"id"`
}

type ToggleTaskFinishParams struct {
	ID string `json:"id"`
}

// ViewParams addresses one list view. SessionID overrides the transport
// session when set.
type ViewParams struct {
	Kind      resource.Kind `json:"kind"`
	SessionID string        `json:"session_id,omitempty"`
	Offset    int           `json:"offset,omitempty"`
	Limit     int           `json:"limit,omitempty"`
}

type SetSearchParams struct {
	ViewParams
	Term string `json:"term"`
}

type SetFilterParams struct {
	ViewParams
	Field string `json:"field"`
	Value any    `json:"value"`
}

type SetFiltersParams struct {
	ViewParams
	Filters []listview.FilterValue `json:"filters"`
}

type ClearFilterParams struct {
	ViewParams
	Field string `json:"field"`
}

type SetSortParams struct {
	ViewParams
	SortBy    string `json:"sort_by"`
	Direction string `json:"direction,omitempty"`
}

type SetDateRangeParams struct {
	ViewParams
	Range string `json:"range"`
}

type SetCustomDateRangeParams struct {
	ViewParams
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

type GetViewStatsParams struct {
	ViewParams
	TrendDays int `json:"trend_days,omitempty"`
}

type GetRecentActivityParams struct {
	Kind       resource.Kind `json:"kind,omitempty"`
	ResourceID *string       `json:"resource_id,omitempty"`
	Limit      int           `json:"limit,omitempty"`
	Offset     int           `json:"offset,omitempty"`
}

type DeleteResourceResponse struct {
	Kind    resource.Kind `json:"kind"`
	ID      string        `json:"id"`
	Deleted bool          `json:"deleted"`
}

type CloseViewResponse struct {
	Kind      resource.Kind `json:"kind"`
	SessionID string        `json:"session_id"`
	Closed    bool          `json:"closed"`
}

type ActivityEntryResponse struct {
	Timestamp  time.Time             `json:"timestamp"`
	Type       activity.ActivityType `json:"type"`
	Kind       string                `json:"kind"`
	SessionID  string                `json:"session_id,omitempty"`
	ResourceID *string               `json:"resource_id,omitempty"`
	Summary    string                `json:"summary"`
	Details    string                `json:"details,omitempty"`
}
