package resource

import (
	"maps"
	"time"

	"github.com/rpggio/listview/internal/filter"
)

// Kind names a collection of the management app.
type Kind string

const (
	KindOrganizations Kind = "organizations"
	KindUsers         Kind = "users"
	KindClients       Kind = "clients"
	KindTasks         Kind = "tasks"
	KindRecords       Kind = "records"
)

// Kinds lists every collection in display order.
func Kinds() []Kind {
	return []Kind{KindOrganizations, KindUsers, KindClients, KindTasks, KindRecords}
}

// ParseKind validates a collection name.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", ErrUnknownKind
}

// Task status values.
const (
	StatusPending    = "PENDING"
	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"
	StatusCancelled  = "CANCELLED"
	StatusOnHold     = "ON_HOLD"
)

// Task priority values.
const (
	PriorityLow    = "LOW"
	PriorityMedium = "MEDIUM"
	PriorityHigh   = "HIGH"
	PriorityUrgent = "URGENT"
)

// TaskStatuses and TaskPriorities list the accepted values in display order.
var (
	TaskStatuses   = []string{StatusPending, StatusInProgress, StatusCompleted, StatusCancelled, StatusOnHold}
	TaskPriorities = []string{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}
	UserRoles      = []string{"USER", "MANAGER", "ADMIN"}
)

// Resource is one item of a collection. Data holds the free-form fields the
// list views search, filter and sort on.
type Resource struct {
	ID        string        `json:"id"`
	TenantID  string        `json:"tenant_id"`
	Kind      Kind          `json:"kind"`
	Data      filter.Record `json:"data"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	Tick      int64         `json:"tick"`
}

// stampedKinds are the collections whose items carry server-side
// createdAt and updatedAt. Tasks date by dueDate and carry their creation
// time as createdDate; users carry no dates.
var stampedKinds = map[Kind]bool{
	KindOrganizations: true,
	KindClients:       true,
	KindRecords:       true,
}

// Document flattens the resource into the record a list view sees: Data
// with id set from the resource. Server timestamps fill createdAt and
// updatedAt for stamped kinds, and createdDate for tasks, only where Data
// does not supply them.
func (r *Resource) Document() filter.Record {
	doc := make(filter.Record, len(r.Data)+3)
	maps.Copy(doc, r.Data)
	doc["id"] = r.ID
	switch {
	case stampedKinds[r.Kind]:
		setDefault(doc, "createdAt", r.CreatedAt)
		setDefault(doc, "updatedAt", r.UpdatedAt)
	case r.Kind == KindTasks:
		setDefault(doc, "createdDate", r.CreatedAt)
	}
	return doc
}

func setDefault(doc filter.Record, key string, t time.Time) {
	if _, ok := doc[key]; !ok {
		doc[key] = t
	}
}

// Documents flattens a slice of resources in order.
func Documents(list []Resource) []filter.Record {
	out := make([]filter.Record, 0, len(list))
	for i := range list {
		out = append(out, list[i].Document())
	}
	return out
}
