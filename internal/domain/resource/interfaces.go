package resource

import (
	"context"

	"github.com/rpggio/listview/internal/domain/activity"
)

// Repository provides persistence for resources.
type Repository interface {
	Create(ctx context.Context, tenantID string, res *Resource) error
	Get(ctx context.Context, tenantID string, kind Kind, id string) (*Resource, error)
	Update(ctx context.Context, tenantID string, res *Resource) error
	Delete(ctx context.Context, tenantID string, kind Kind, id string) error
	List(ctx context.Context, tenantID string, kind Kind) ([]Resource, error)
}

// CollectionRepository maintains the per-collection write counter.
type CollectionRepository interface {
	IncrementTick(ctx context.Context, tenantID string, kind Kind) (int64, error)
	GetTick(ctx context.Context, tenantID string, kind Kind) (int64, error)
}

// ActivityRepository logs resource activities.
type ActivityRepository interface {
	Log(ctx context.Context, tenantID string, entry *activity.ActivityEntry) error
}
