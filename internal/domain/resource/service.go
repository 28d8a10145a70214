package resource

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/listview/internal/domain/activity"
	"github.com/rpggio/listview/internal/filter"
	"github.com/rpggio/listview/internal/repository"
)

// Service handles resource business logic.
type Service struct {
	resources   Repository
	collections CollectionRepository
	activities  ActivityRepository
	logger      *slog.Logger
	now         func() time.Time
}

// NewService creates a new resource service.
func NewService(
	resources Repository,
	collections CollectionRepository,
	activities ActivityRepository,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		resources:   resources,
		collections: collections,
		activities:  activities,
		logger:      logger,
		now:         time.Now,
	}
}

// CreateRequest describes a resource creation request.
type CreateRequest struct {
	Kind Kind
	ID   string
	Data filter.Record
}

// UpdateRequest replaces the data of an existing resource.
type UpdateRequest struct {
	Kind Kind
	ID   string
	Data filter.Record
}

// Create validates and stores a new resource.
func (s *Service) Create(ctx context.Context, tenantID string, req CreateRequest) (*Resource, error) {
	if err := ValidateData(req.Kind, req.Data); err != nil {
		return nil, err
	}

	id := req.ID
	if strings.TrimSpace(id) == "" {
		id = uuid.NewString()
	}

	tick, err := s.collections.IncrementTick(ctx, tenantID, req.Kind)
	if err != nil {
		return nil, fmt.Errorf("incrementing tick: %w", err)
	}

	now := s.now()
	res := &Resource{
		ID:        id,
		TenantID:  tenantID,
		Kind:      req.Kind,
		Data:      maps.Clone(req.Data),
		CreatedAt: now,
		UpdatedAt: now,
		Tick:      tick,
	}
	if err := s.resources.Create(ctx, tenantID, res); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("%w: id %s already exists", ErrInvalidInput, id)
		}
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	s.log(ctx, tenantID, res, activity.TypeResourceCreated, "created")
	return res, nil
}

// Get returns a resource by kind and ID.
func (s *Service) Get(ctx context.Context, tenantID string, kind Kind, id string) (*Resource, error) {
	if _, err := ParseKind(string(kind)); err != nil {
		return nil, err
	}
	res, err := s.resources.Get(ctx, tenantID, kind, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, fmt.Errorf("getting resource: %w", err)
	}
	return res, nil
}

// Update replaces the data of a resource.
func (s *Service) Update(ctx context.Context, tenantID string, req UpdateRequest) (*Resource, error) {
	if req.ID == "" {
		return nil, ErrInvalidInput
	}
	if err := ValidateData(req.Kind, req.Data); err != nil {
		return nil, err
	}

	current, err := s.Get(ctx, tenantID, req.Kind, req.ID)
	if err != nil {
		return nil, err
	}

	updated := *current
	updated.Data = maps.Clone(req.Data)
	return s.save(ctx, tenantID, &updated, activity.TypeResourceUpdated, "updated")
}

// Delete removes a resource.
func (s *Service) Delete(ctx context.Context, tenantID string, kind Kind, id string) error {
	if _, err := ParseKind(string(kind)); err != nil {
		return err
	}
	if err := s.resources.Delete(ctx, tenantID, kind, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrResourceNotFound
		}
		return fmt.Errorf("deleting resource: %w", err)
	}

	tick, err := s.collections.IncrementTick(ctx, tenantID, kind)
	if err != nil {
		return fmt.Errorf("incrementing tick: %w", err)
	}
	s.log(ctx, tenantID, &Resource{ID: id, Kind: kind, Tick: tick}, activity.TypeResourceDeleted, "deleted")
	return nil
}

// List returns every resource of a collection.
func (s *Service) List(ctx context.Context, tenantID string, kind Kind) ([]Resource, error) {
	if _, err := ParseKind(string(kind)); err != nil {
		return nil, err
	}
	list, err := s.resources.List(ctx, tenantID, kind)
	if err != nil {
		return nil, fmt.Errorf("listing resources: %w", err)
	}
	return list, nil
}

// Revision returns the collection tick; it moves on every write.
func (s *Service) Revision(ctx context.Context, tenantID string, kind Kind) (int64, error) {
	tick, err := s.collections.GetTick(ctx, tenantID, kind)
	if err != nil {
		return 0, fmt.Errorf("getting tick: %w", err)
	}
	return tick, nil
}

// Snapshot returns the flattened documents of a collection together with
// the tick they were read at.
func (s *Service) Snapshot(ctx context.Context, tenantID string, kind Kind) ([]filter.Record, int64, error) {
	tick, err := s.Revision(ctx, tenantID, kind)
	if err != nil {
		return nil, 0, err
	}
	list, err := s.List(ctx, tenantID, kind)
	if err != nil {
		return nil, 0, err
	}
	return Documents(list), tick, nil
}

// ToggleFinish flips a task between finished and in progress. When the task
// names an assignee, only that user may toggle it; an empty actor skips the
// check.
func (s *Service) ToggleFinish(ctx context.Context, tenantID, id, actor string) (*Resource, error) {
	current, err := s.Get(ctx, tenantID, KindTasks, id)
	if err != nil {
		return nil, err
	}

	if assignee, ok := filter.Lookup(current.Data, filter.MustPath("assignedTo")).Str(); ok && assignee != "" && actor != "" && assignee != actor {
		return nil, ErrNotOwned
	}

	finished, _ := current.Data["finished"].(bool)
	finished = !finished

	data := maps.Clone(current.Data)
	if data == nil {
		data = filter.Record{}
	}
	data["finished"] = finished
	if finished {
		data["status"] = StatusCompleted
		data["completedDate"] = s.now().UTC().Format(time.RFC3339)
	} else {
		data["status"] = StatusInProgress
		data["completedDate"] = nil
	}

	updated := *current
	updated.Data = data
	return s.save(ctx, tenantID, &updated, activity.TypeTaskToggled, "toggled")
}

func (s *Service) save(ctx context.Context, tenantID string, res *Resource, typ activity.ActivityType, verb string) (*Resource, error) {
	tick, err := s.collections.IncrementTick(ctx, tenantID, res.Kind)
	if err != nil {
		return nil, fmt.Errorf("incrementing tick: %w", err)
	}
	res.Tick = tick
	res.UpdatedAt = s.now()

	if err := s.resources.Update(ctx, tenantID, res); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, fmt.Errorf("updating resource: %w", err)
	}

	s.log(ctx, tenantID, res, typ, verb)
	return res, nil
}

func (s *Service) log(ctx context.Context, tenantID string, res *Resource, typ activity.ActivityType, verb string) {
	if s.activities == nil {
		return
	}
	id := res.ID
	if err := s.activities.Log(ctx, tenantID, &activity.ActivityEntry{
		Kind:         string(res.Kind),
		ResourceID:   &id,
		ActivityType: typ,
		Summary:      fmt.Sprintf("%s %s %s", verb, strings.TrimSuffix(string(res.Kind), "s"), id),
		Tick:         res.Tick,
	}); err != nil {
		s.logger.Warn("activity log failed", "kind", res.Kind, "resource_id", id, "error", err)
	}
}
