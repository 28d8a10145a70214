package resource_test

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/listview/internal/domain/activity"
	"github.com/rpggio/listview/internal/domain/resource"
	"github.com/rpggio/listview/internal/filter"
	"github.com/rpggio/listview/internal/repository"
	"github.com/rpggio/listview/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestResourceService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant1"

	resources := &mocks.ResourceRepository{}
	collections := &mocks.CollectionRepository{}
	activities := &mocks.ActivityRepository{}

	collections.On("IncrementTick", ctx, tenantID, resource.KindTasks).Return(int64(3), nil)
	resources.On("Create", ctx, tenantID, mock.Anything).Return(nil)
	activities.On("Log", ctx, tenantID, mock.MatchedBy(func(e *activity.ActivityEntry) bool {
		return e.ActivityType == activity.TypeResourceCreated && e.Kind == "tasks" && e.Tick == 3
	})).Return(nil)

	svc := resource.NewService(resources, collections, activities, nil)
	data := filter.Record{"title": "Fix bug", "status": "PENDING", "priority": "HIGH"}
	res, err := svc.Create(ctx, tenantID, resource.CreateRequest{Kind: resource.KindTasks, Data: data})
	require.NoError(t, err)
	require.NotEmpty(t, res.ID)
	require.Equal(t, int64(3), res.Tick)
	require.False(t, res.CreatedAt.IsZero())

	data["title"] = "changed"
	require.Equal(t, "Fix bug", res.Data["title"], "data is copied on create")

	doc := res.Document()
	require.Equal(t, res.ID, doc["id"])
	require.NotContains(t, doc, "createdAt", "tasks date by dueDate")
	require.Equal(t, res.CreatedAt, doc["createdDate"])
	activities.AssertExpectations(t)
}

func TestResource_DocumentKeepsSuppliedDates(t *testing.T) {
	stored := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)

	client := &resource.Resource{
		ID:        "c1",
		Kind:      resource.KindClients,
		Data:      filter.Record{"firstName": "Ana", "createdAt": "2024-01-01"},
		CreatedAt: stored,
		UpdatedAt: stored,
	}
	doc := client.Document()
	require.Equal(t, "2024-01-01", doc["createdAt"])
	require.Equal(t, stored, doc["updatedAt"])
	require.Equal(t, "2024-01-01", client.Data["createdAt"])
	require.Len(t, client.Data, 2, "data is not mutated")

	bare := &resource.Resource{ID: "c2", Kind: resource.KindClients, Data: filter.Record{"firstName": "Bo"}, CreatedAt: stored}
	require.Equal(t, stored, bare.Document()["createdAt"])

	task := &resource.Resource{
		ID:        "t1",
		Kind:      resource.KindTasks,
		Data:      filter.Record{"title": "Ship", "dueDate": "2030-01-01"},
		CreatedAt: stored,
	}
	doc = task.Document()
	require.NotContains(t, doc, "createdAt")
	require.NotContains(t, doc, "updatedAt")
	require.Equal(t, stored, doc["createdDate"])
	require.Equal(t, "2030-01-01", doc["dueDate"])
}

func TestResourceService_SnapshotSortsTasksByDueDate(t *testing.T) {
	ctx := context.Background()
	stored := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)

	resources := &mocks.ResourceRepository{}
	collections := &mocks.CollectionRepository{}
	collections.On("GetTick", ctx, "tenant1", resource.KindTasks).Return(int64(2), nil)
	resources.On("List", ctx, "tenant1", resource.KindTasks).Return([]resource.Resource{
		{ID: "due-early", Kind: resource.KindTasks, Data: filter.Record{"title": "a", "dueDate": "2020-01-01"}, CreatedAt: stored},
		{ID: "due-late", Kind: resource.KindTasks, Data: filter.Record{"title": "b", "dueDate": "2030-01-01"}, CreatedAt: stored.Add(time.Hour)},
	}, nil)

	svc := resource.NewService(resources, collections, nil, nil)
	docs, tick, err := svc.Snapshot(ctx, "tenant1", resource.KindTasks)
	require.NoError(t, err)
	require.Equal(t, int64(2), tick)

	sorted := filter.SortData(docs, filter.SortDateDesc)
	require.Equal(t, "due-late", sorted[0]["id"])
	require.Equal(t, "due-early", sorted[1]["id"])
}

func TestResourceService_CreateValidation(t *testing.T) {
	ctx := context.Background()
	svc := resource.NewService(&mocks.ResourceRepository{}, &mocks.CollectionRepository{}, nil, nil)

	cases := []resource.CreateRequest{
		{Kind: resource.KindTasks, Data: filter.Record{"title": "  "}},
		{Kind: resource.KindTasks, Data: filter.Record{"title": "x", "status": "DONE"}},
		{Kind: resource.KindTasks, Data: filter.Record{"title": "x", "priority": 3}},
		{Kind: resource.KindClients, Data: filter.Record{"lastName": "Doe"}},
		{Kind: resource.KindUsers, Data: filter.Record{"username": "u", "role": "ROOT"}},
		{Kind: resource.KindRecords, Data: filter.Record{"clientId": 7}},
	}
	for _, req := range cases {
		_, err := svc.Create(ctx, "tenant1", req)
		require.ErrorIs(t, err, resource.ErrInvalidInput, "%v", req.Data)
	}

	_, err := svc.Create(ctx, "tenant1", resource.CreateRequest{Kind: "widgets", Data: filter.Record{}})
	require.ErrorIs(t, err, resource.ErrUnknownKind)
}

func TestResourceService_GetNotFound(t *testing.T) {
	ctx := context.Background()

	resources := &mocks.ResourceRepository{}
	resources.On("Get", ctx, "tenant1", resource.KindClients, "c1").Return(nil, repository.ErrNotFound)

	svc := resource.NewService(resources, &mocks.CollectionRepository{}, nil, nil)
	_, err := svc.Get(ctx, "tenant1", resource.KindClients, "c1")
	require.ErrorIs(t, err, resource.ErrResourceNotFound)
}

func TestResourceService_ToggleFinish(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant1"

	resources := &mocks.ResourceRepository{}
	collections := &mocks.CollectionRepository{}

	task := &resource.Resource{
		ID:   "t1",
		Kind: resource.KindTasks,
		Data: filter.Record{"title": "Fix bug", "status": "PENDING", "assignedTo": "ana"},
	}
	resources.On("Get", ctx, tenantID, resource.KindTasks, "t1").Return(task, nil)
	collections.On("IncrementTick", ctx, tenantID, resource.KindTasks).Return(int64(9), nil)
	resources.On("Update", ctx, tenantID, mock.Anything).Return(nil)

	svc := resource.NewService(resources, collections, nil, nil)

	_, err := svc.ToggleFinish(ctx, tenantID, "t1", "bob")
	require.ErrorIs(t, err, resource.ErrNotOwned)

	done, err := svc.ToggleFinish(ctx, tenantID, "t1", "ana")
	require.NoError(t, err)
	require.Equal(t, true, done.Data["finished"])
	require.Equal(t, resource.StatusCompleted, done.Data["status"])
	require.NotNil(t, done.Data["completedDate"])
	require.Equal(t, "PENDING", task.Data["status"], "stored copy is not modified in place")
}

func TestResourceService_ToggleFinishReopens(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant1"

	resources := &mocks.ResourceRepository{}
	collections := &mocks.CollectionRepository{}

	resources.On("Get", ctx, tenantID, resource.KindTasks, "t1").Return(&resource.Resource{
		ID:   "t1",
		Kind: resource.KindTasks,
		Data: filter.Record{"title": "Fix bug", "status": "COMPLETED", "finished": true, "completedDate": "2024-01-01T00:00:00Z"},
	}, nil)
	collections.On("IncrementTick", ctx, tenantID, resource.KindTasks).Return(int64(2), nil)
	resources.On("Update", ctx, tenantID, mock.Anything).Return(nil)

	svc := resource.NewService(resources, collections, nil, nil)
	open, err := svc.ToggleFinish(ctx, tenantID, "t1", "")
	require.NoError(t, err)
	require.Equal(t, false, open.Data["finished"])
	require.Equal(t, resource.StatusInProgress, open.Data["status"])
	require.Nil(t, open.Data["completedDate"])
}

func TestResourceService_Delete(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant1"

	resources := &mocks.ResourceRepository{}
	collections := &mocks.CollectionRepository{}
	activities := &mocks.ActivityRepository{}

	resources.On("Delete", ctx, tenantID, resource.KindClients, "c1").Return(nil)
	resources.On("Delete", ctx, tenantID, resource.KindClients, "missing").Return(repository.ErrNotFound)
	collections.On("IncrementTick", ctx, tenantID, resource.KindClients).Return(int64(4), nil)
	activities.On("Log", ctx, tenantID, mock.Anything).Return(nil)

	svc := resource.NewService(resources, collections, activities, nil)
	require.NoError(t, svc.Delete(ctx, tenantID, resource.KindClients, "c1"))
	require.ErrorIs(t, svc.Delete(ctx, tenantID, resource.KindClients, "missing"), resource.ErrResourceNotFound)
	collections.AssertNumberOfCalls(t, "IncrementTick", 1)
}

func TestResourceService_Snapshot(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant1"

	resources := &mocks.ResourceRepository{}
	collections := &mocks.CollectionRepository{}

	collections.On("GetTick", ctx, tenantID, resource.KindClients).Return(int64(5), nil)
	resources.On("List", ctx, tenantID, resource.KindClients).Return([]resource.Resource{
		{ID: "c1", Kind: resource.KindClients, Data: filter.Record{"firstName": "Ana"}},
	}, nil)

	svc := resource.NewService(resources, collections, nil, nil)
	docs, tick, err := svc.Snapshot(ctx, tenantID, resource.KindClients)
	require.NoError(t, err)
	require.Equal(t, int64(5), tick)
	require.Len(t, docs, 1)
	require.Equal(t, "Ana", docs[0]["firstName"])
	require.Equal(t, "c1", docs[0]["id"])
}
