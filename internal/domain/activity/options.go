package activity

// ListActivityOptions provides filtering options for listing activity.
type ListActivityOptions struct {
	Kind         string
	ResourceID   *string
	SessionID    *string
	ActivityType *ActivityType
	Limit        int
	Offset       int
}
