package listview

import (
	"time"

	"github.com/rpggio/listview/internal/domain/analytics"
	"github.com/rpggio/listview/internal/domain/resource"
	"github.com/rpggio/listview/internal/filter"
)

// Key identifies one list view: a session looking at one collection.
type Key struct {
	TenantID  string        `json:"tenant_id"`
	SessionID string        `json:"session_id"`
	Kind      resource.Kind `json:"kind"`
}

// FilterValue is one equality filter in wire form.
type FilterValue struct {
	Field string `json:"field"`
	Value any    `json:"value"`
}

// ViewState is the interaction state in wire and storage form.
type ViewState struct {
	SearchTerm    string        `json:"search_term"`
	Filters       []FilterValue `json:"filters"`
	SortBy        string        `json:"sort_by"`
	SortDirection string        `json:"sort_direction,omitempty"`
	DateRange     string        `json:"date_range"`
	CustomStart   *time.Time    `json:"custom_start,omitempty"`
	CustomEnd     *time.Time    `json:"custom_end,omitempty"`
}

// SavedState is a persisted ViewState.
type SavedState struct {
	Key       Key       `json:"key"`
	State     ViewState `json:"state"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PageRequest selects a window of the derived list. A zero Limit uses the
// preset page size.
type PageRequest struct {
	Offset int
	Limit  int
}

// Page is a window of the derived list plus counts over the whole list.
type Page struct {
	SessionID     string          `json:"session_id"`
	Kind          resource.Kind   `json:"kind"`
	Items         []filter.Record `json:"items"`
	Offset        int             `json:"offset"`
	Limit         int             `json:"limit"`
	ActiveFilters int             `json:"active_filters"`
	HasFilters    bool            `json:"has_filters"`
	ResultCount   int             `json:"result_count"`
	TotalCount    int             `json:"total_count"`
	Revision      uint64          `json:"revision"`
	State         ViewState       `json:"state"`
}

// Stats summarizes the derived list of a view.
type Stats struct {
	SessionID   string                  `json:"session_id"`
	Kind        resource.Kind           `json:"kind"`
	ResultCount int                     `json:"result_count"`
	Tasks       analytics.Stats         `json:"tasks"`
	Priorities  []analytics.FieldCount  `json:"priorities"`
	Trend       []analytics.TrendPoint  `json:"trend"`
	Clients     []analytics.ClientTasks `json:"clients"`
	// Performance covers the tasks assigned to the caller.
	Performance *analytics.Performance `json:"performance,omitempty"`
}
