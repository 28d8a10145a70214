package activity

import "time"

// ActivityType represents the type of activity event
type ActivityType string

const (
	TypeResourceCreated ActivityType = "resource_created"
	TypeResourceUpdated ActivityType = "resource_updated"
	TypeResourceDeleted ActivityType = "resource_deleted"
	TypeTaskToggled     ActivityType = "task_toggled"
	TypeViewCleared     ActivityType = "view_cleared"
)

// ActivityEntry represents an event in the activity log
type ActivityEntry struct {
	ID           int64        `json:"id"`
	TenantID     string       `json:"tenant_id"`
	Kind         string       `json:"kind"`
	ResourceID   *string      `json:"resource_id,omitempty"`
	SessionID    *string      `json:"session_id,omitempty"`
	ActivityType ActivityType `json:"type"`
	Summary      string       `json:"summary"`
	Details      string       `json:"details,omitempty"` // JSON string
	CreatedAt    time.Time    `json:"created_at"`
	Tick         int64        `json:"tick"`
}
