package mocks

import (
	"context"

	"github.com/rpggio/listview/internal/domain/activity"
	"github.com/rpggio/listview/internal/domain/listview"
	"github.com/rpggio/listview/internal/domain/resource"
	"github.com/rpggio/listview/internal/filter"
	"github.com/stretchr/testify/mock"
)

// ResourceRepository is a mock for resource.Repository.
type ResourceRepository struct {
	mock.Mock
}

func (m *ResourceRepository) Create(ctx context.Context, tenantID string, res *resource.Resource) error {
	args := m.Called(ctx, tenantID, res)
	return args.Error(0)
}

func (m *ResourceRepository) Get(ctx context.Context, tenantID string, kind resource.Kind, id string) (*resource.Resource, error) {
	args := m.Called(ctx, tenantID, kind, id)
	if res, ok := args.Get(0).(*resource.Resource); ok {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ResourceRepository) Update(ctx context.Context, tenantID string, res *resource.Resource) error {
	args := m.Called(ctx, tenantID, res)
	return args.Error(0)
}

func (m *ResourceRepository) Delete(ctx context.Context, tenantID string, kind resource.Kind, id string) error {
	args := m.Called(ctx, tenantID, kind, id)
	return args.Error(0)
}

func (m *ResourceRepository) List(ctx context.Context, tenantID string, kind resource.Kind) ([]resource.Resource, error) {
	args := m.Called(ctx, tenantID, kind)
	if list, ok := args.Get(0).([]resource.Resource); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// CollectionRepository is a mock for resource.CollectionRepository.
type CollectionRepository struct {
	mock.Mock
}

func (m *CollectionRepository) IncrementTick(ctx context.Context, tenantID string, kind resource.Kind) (int64, error) {
	args := m.Called(ctx, tenantID, kind)
	return args.Get(0).(int64), args.Error(1)
}

func (m *CollectionRepository) GetTick(ctx context.Context, tenantID string, kind resource.Kind) (int64, error) {
	args := m.Called(ctx, tenantID, kind)
	return args.Get(0).(int64), args.Error(1)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, tenantID string, entry *activity.ActivityEntry) error {
	args := m.Called(ctx, tenantID, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, tenantID string, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	args := m.Called(ctx, tenantID, opts)
	if list, ok := args.Get(0).([]activity.ActivityEntry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ViewStateRepository is a mock for listview.StateRepository.
type ViewStateRepository struct {
	mock.Mock
}

func (m *ViewStateRepository) Save(ctx context.Context, st *listview.SavedState) error {
	args := m.Called(ctx, st)
	return args.Error(0)
}

func (m *ViewStateRepository) Get(ctx context.Context, key listview.Key) (*listview.SavedState, error) {
	args := m.Called(ctx, key)
	if st, ok := args.Get(0).(*listview.SavedState); ok {
		return st, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ViewStateRepository) Delete(ctx context.Context, key listview.Key) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// CollectionSource is a mock for listview.CollectionSource.
type CollectionSource struct {
	mock.Mock
}

func (m *CollectionSource) Snapshot(ctx context.Context, tenantID string, kind resource.Kind) ([]filter.Record, int64, error) {
	args := m.Called(ctx, tenantID, kind)
	if docs, ok := args.Get(0).([]filter.Record); ok {
		return docs, args.Get(1).(int64), args.Error(2)
	}
	return nil, args.Get(1).(int64), args.Error(2)
}

func (m *CollectionSource) Revision(ctx context.Context, tenantID string, kind resource.Kind) (int64, error) {
	args := m.Called(ctx, tenantID, kind)
	return args.Get(0).(int64), args.Error(1)
}
