package listview

import (
	"context"

	"github.com/rpggio/listview/internal/domain/activity"
	"github.com/rpggio/listview/internal/domain/resource"
	"github.com/rpggio/listview/internal/filter"
)

// CollectionSource supplies the records behind a view.
type CollectionSource interface {
	Snapshot(ctx context.Context, tenantID string, kind resource.Kind) ([]filter.Record, int64, error)
	Revision(ctx context.Context, tenantID string, kind resource.Kind) (int64, error)
}

// StateRepository persists interaction state between requests.
type StateRepository interface {
	Save(ctx context.Context, st *SavedState) error
	Get(ctx context.Context, key Key) (*SavedState, error)
	Delete(ctx context.Context, key Key) error
}

// ActivityRepository logs view activities.
type ActivityRepository interface {
	Log(ctx context.Context, tenantID string, entry *activity.ActivityEntry) error
}
