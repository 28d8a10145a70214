package mcp

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rpggio/listview/internal/domain/access"
	"github.com/rpggio/listview/internal/domain/activity"
	"github.com/rpggio/listview/internal/domain/listview"
	"github.com/rpggio/listview/internal/domain/resource"
	"github.com/stretchr/testify/require"
)

type resourceStub struct {
	createFn func(context.Context, string, resource.CreateRequest) (*resource.Resource, error)
	getFn    func(context.Context, string, resource.Kind, string) (*resource.Resource, error)
	updateFn func(context.Context, string, resource.UpdateRequest) (*resource.Resource, error)
	deleteFn func(context.Context, string, resource.Kind, string) error
	toggleFn func(context.Context, string, string, string) (*resource.Resource, error)
}

func (r resourceStub) Create(ctx context.Context, tenantID string, req resource.CreateRequest) (*resource.Resource, error) {
	return r.createFn(ctx, tenantID, req)
}
func (r resourceStub) Get(ctx context.Context, tenantID string, kind resource.Kind, id string) (*resource.Resource, error) {
	return r.getFn(ctx, tenantID, kind, id)
}
func (r resourceStub) Update(ctx context.Context, tenantID string, req resource.UpdateRequest) (*resource.Resource, error) {
	return r.updateFn(ctx, tenantID, req)
}
func (r resourceStub) Delete(ctx context.Context, tenantID string, kind resource.Kind, id string) error {
	return r.deleteFn(ctx, tenantID, kind, id)
}
func (r resourceStub) ToggleFinish(ctx context.Context, tenantID, id, actor string) (*resource.Resource, error) {
	return r.toggleFn(ctx, tenantID, id, actor)
}

type viewStub struct {
	openFn  func(context.Context, access.Principal, string, resource.Kind, listview.PageRequest) (*listview.Page, error)
	getFn   func(context.Context, access.Principal, string, resource.Kind, listview.PageRequest) (*listview.Page, error)
	applyFn func(context.Context, access.Principal, string, resource.Kind, listview.Mutation, listview.PageRequest) (*listview.Page, error)
	closeFn func(context.Context, access.Principal, string, resource.Kind) error
	statsFn func(context.Context, access.Principal, string, resource.Kind, int) (*listview.Stats, error)
}

func (v viewStub) Open(ctx context.Context, p access.Principal, sessionID string, kind resource.Kind, req listview.PageRequest) (*listview.Page, error) {
	return v.openFn(ctx, p, sessionID, kind, req)
}
func (v viewStub) Get(ctx context.Context, p access.Principal, sessionID string, kind resource.Kind, req listview.PageRequest) (*listview.Page, error) {
	return v.getFn(ctx, p, sessionID, kind, req)
}
func (v viewStub) Apply(ctx context.Context, p access.Principal, sessionID string, kind resource.Kind, m listview.Mutation, req listview.PageRequest) (*listview.Page, error) {
	return v.applyFn(ctx, p, sessionID, kind, m, req)
}
func (v viewStub) Close(ctx context.Context, p access.Principal, sessionID string, kind resource.Kind) error {
	return v.closeFn(ctx, p, sessionID, kind)
}
func (v viewStub) Stats(ctx context.Context, p access.Principal, sessionID string, kind resource.Kind, trendDays int) (*listview.Stats, error) {
	return v.statsFn(ctx, p, sessionID, kind, trendDays)
}

type activityStub struct {
	listFn func(context.Context, string, activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

func (a activityStub) GetRecentActivity(ctx context.Context, tenantID string, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	return a.listFn(ctx, tenantID, opts)
}

var (
	manager = access.Principal{TenantID: "tenant1", Username: "ana", Role: access.RoleManager}
	user    = access.Principal{TenantID: "tenant1", Username: "bo", Role: access.RoleUser}
)

func TestHandler_ResourceCommands(t *testing.T) {
	ctx := context.Background()
	var toggledBy string

	handler := NewHandler(
		resourceStub{
			createFn: func(_ context.Context, tenantID string, req resource.CreateRequest) (*resource.Resource, error) {
				require.Equal(t, "tenant1", tenantID)
				return &resource.Resource{ID: "t1", Kind: req.Kind, Data: req.Data}, nil
			},
			getFn: func(_ context.Context, _ string, kind resource.Kind, id string) (*resource.Resource, error) {
				return &resource.Resource{ID: id, Kind: kind}, nil
			},
			updateFn: func(_ context.Context, _ string, req resource.UpdateRequest) (*resource.Resource, error) {
				return &resource.Resource{ID: req.ID, Kind: req.Kind, Data: req.Data}, nil
			},
			deleteFn: func(_ context.Context, _ string, _ resource.Kind, _ string) error { return nil },
			toggleFn: func(_ context.Context, _ string, id, actor string) (*resource.Resource, error) {
				toggledBy = actor
				return &resource.Resource{ID: id, Kind: resource.KindTasks}, nil
			},
		},
		viewStub{},
		activityStub{},
	)

	res, err := handler.Handle(ctx, manager, "", "create_resource", mustJSON(t, CreateResourceParams{Kind: resource.KindTasks, Data: map[string]any{"title": "x"}}))
	require.NoError(t, err)
	require.Equal(t, "x", res.(*resource.Resource).Data["title"])

	_, err = handler.Handle(ctx, manager, "", "get_resource", mustJSON(t, ResourceRefParams{Kind: resource.KindUsers, ID: "u1"}))
	require.NoError(t, err)

	_, err = handler.Handle(ctx, manager, "", "update_resource", mustJSON(t, UpdateResourceParams{Kind: resource.KindTasks, ID: "t1", Data: map[string]any{"title": "y"}}))
	require.NoError(t, err)

	out, err := handler.Handle(ctx, manager, "", "delete_resource", mustJSON(t, ResourceRefParams{Kind: resource.KindTasks, ID: "t1"}))
	require.NoError(t, err)
	require.Equal(t, DeleteResourceResponse{Kind: resource.KindTasks, ID: "t1", Deleted: true}, out)

	_, err = handler.Handle(ctx, user, "", "toggle_task_finish", mustJSON(t, ToggleTaskFinishParams{ID: "t1"}))
	require.NoError(t, err)
	require.Equal(t, "bo", toggledBy)
}

func TestHandler_AccessErrors(t *testing.T) {
	ctx := context.Background()
	handler := NewHandler(resourceStub{}, viewStub{}, activityStub{})

	_, err := handler.Handle(ctx, user, "", "create_resource", mustJSON(t, CreateResourceParams{Kind: resource.KindClients, Data: map[string]any{"firstName": "A"}}))
	requireCode(t, err, "FORBIDDEN")

	_, err = handler.Handle(ctx, user, "", "get_resource", mustJSON(t, ResourceRefParams{Kind: resource.KindOrganizations, ID: "o1"}))
	requireCode(t, err, "FORBIDDEN")

	_, err = handler.Handle(ctx, manager, "", "get_resource", mustJSON(t, ResourceRefParams{Kind: "widgets", ID: "w1"}))
	requireCode(t, err, "UNKNOWN_KIND")

	_, err = handler.Handle(ctx, manager, "", "get_resource", json.RawMessage(`{"kind":`))
	requireCode(t, err, "INVALID_INPUT")

	_, err = handler.Handle(ctx, manager, "", "no_such_tool", nil)
	requireCode(t, err, "METHOD_NOT_FOUND")
}

func TestHandler_ViewCommands(t *testing.T) {
	ctx := context.Background()
	var applied []listview.Mutation
	var sessions []string

	page := func(sessionID string, kind resource.Kind) *listview.Page {
		return &listview.Page{SessionID: sessionID, Kind: kind}
	}
	handler := NewHandler(
		resourceStub{},
		viewStub{
			openFn: func(_ context.Context, _ access.Principal, sessionID string, kind resource.Kind, req listview.PageRequest) (*listview.Page, error) {
				sessions = append(sessions, sessionID)
				require.Equal(t, listview.PageRequest{Offset: 5, Limit: 10}, req)
				return page(sessionID, kind), nil
			},
			getFn: func(_ context.Context, _ access.Principal, sessionID string, kind resource.Kind, _ listview.PageRequest) (*listview.Page, error) {
				sessions = append(sessions, sessionID)
				return page(sessionID, kind), nil
			},
			applyFn: func(_ context.Context, _ access.Principal, sessionID string, kind resource.Kind, m listview.Mutation, _ listview.PageRequest) (*listview.Page, error) {
				applied = append(applied, m)
				return page(sessionID, kind), nil
			},
			closeFn: func(_ context.Context, _ access.Principal, _ string, _ resource.Kind) error { return nil },
			statsFn: func(_ context.Context, _ access.Principal, _ string, kind resource.Kind, trendDays int) (*listview.Stats, error) {
				require.Equal(t, 14, trendDays)
				return &listview.Stats{Kind: kind}, nil
			},
		},
		activityStub{},
	)

	view := ViewParams{Kind: resource.KindTasks}
	_, err := handler.Handle(ctx, manager, "sess1", "open_view", mustJSON(t, ViewParams{Kind: resource.KindTasks, Offset: 5, Limit: 10}))
	require.NoError(t, err)
	_, err = handler.Handle(ctx, manager, "sess1", "get_view", mustJSON(t, ViewParams{Kind: resource.KindTasks, SessionID: "other"}))
	require.NoError(t, err)
	require.Equal(t, []string{"sess1", "other"}, sessions)

	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	calls := []struct {
		method string
		params any
		want   listview.Mutation
	}{
		{"set_search", SetSearchParams{ViewParams: view, Term: "fix"}, listview.SetSearch{Term: "fix"}},
		{"clear_search", view, listview.ClearSearch{}},
		{"set_filter", SetFilterParams{ViewParams: view, Field: "status", Value: "PENDING"}, listview.SetFilter{Field: "status", Value: "PENDING"}},
		{"set_filters", SetFiltersParams{ViewParams: view, Filters: []listview.FilterValue{{Field: "priority", Value: "HIGH"}}}, listview.SetFilters{Filters: []listview.FilterValue{{Field: "priority", Value: "HIGH"}}}},
		{"clear_filter", ClearFilterParams{ViewParams: view, Field: "status"}, listview.ClearFilter{Field: "status"}},
		{"set_sort", SetSortParams{ViewParams: view, SortBy: "title", Direction: "asc"}, listview.SetSort{SortBy: "title", Direction: "asc"}},
		{"set_date_range", SetDateRangeParams{ViewParams: view, Range: "last7days"}, listview.SetDateRange{Range: "last7days"}},
		{"clear_view", view, listview.ClearAll{}},
	}
	for _, c := range calls {
		_, err := handler.Handle(ctx, manager, "sess1", c.method, mustJSON(t, c.params))
		require.NoError(t, err, c.method)
		require.Equal(t, c.want, applied[len(applied)-1], c.method)
	}

	_, err = handler.Handle(ctx, manager, "sess1", "set_custom_date_range", mustJSON(t, SetCustomDateRangeParams{ViewParams: view, Start: &start}))
	require.NoError(t, err)
	custom, ok := applied[len(applied)-1].(listview.SetCustomDateRange)
	require.True(t, ok)
	require.True(t, start.Equal(*custom.Start))
	require.Nil(t, custom.End)

	_, err = handler.Handle(ctx, manager, "sess1", "get_view_stats", mustJSON(t, GetViewStatsParams{ViewParams: view, TrendDays: 14}))
	require.NoError(t, err)

	out, err := handler.Handle(ctx, manager, "sess1", "close_view", mustJSON(t, view))
	require.NoError(t, err)
	require.Equal(t, CloseViewResponse{Kind: resource.KindTasks, SessionID: "sess1", Closed: true}, out)
}

func TestHandler_ViewRequiresSession(t *testing.T) {
	handler := NewHandler(resourceStub{}, viewStub{}, activityStub{})
	_, err := handler.Handle(context.Background(), manager, "", "open_view", mustJSON(t, ViewParams{Kind: resource.KindTasks}))
	requireCode(t, err, "SESSION_REQUIRED")
}

func TestHandler_ViewErrorsMapped(t *testing.T) {
	handler := NewHandler(resourceStub{}, viewStub{
		getFn: func(context.Context, access.Principal, string, resource.Kind, listview.PageRequest) (*listview.Page, error) {
			return nil, listview.ErrViewNotFound
		},
		applyFn: func(context.Context, access.Principal, string, resource.Kind, listview.Mutation, listview.PageRequest) (*listview.Page, error) {
			return nil, listview.ErrUnknownField
		},
	}, activityStub{})

	_, err := handler.Handle(context.Background(), manager, "s1", "get_view", mustJSON(t, ViewParams{Kind: resource.KindTasks}))
	requireCode(t, err, "VIEW_NOT_FOUND")

	_, err = handler.Handle(context.Background(), manager, "s1", "set_filter", mustJSON(t, SetFilterParams{ViewParams: ViewParams{Kind: resource.KindTasks}, Field: "title"}))
	requireCode(t, err, "UNKNOWN_FIELD")
}

func TestHandler_RecentActivityHidesForbiddenKinds(t *testing.T) {
	resourceID := "o1"
	handler := NewHandler(resourceStub{}, viewStub{}, activityStub{
		listFn: func(_ context.Context, _ string, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
			require.Equal(t, 5, opts.Limit)
			return []activity.ActivityEntry{
				{Kind: "organizations", ResourceID: &resourceID, ActivityType: activity.TypeResourceCreated},
				{Kind: "tasks", ActivityType: activity.TypeTaskToggled},
			}, nil
		},
	})

	out, err := handler.Handle(context.Background(), user, "", "get_recent_activity", mustJSON(t, GetRecentActivityParams{Limit: 5}))
	require.NoError(t, err)
	entries := out.([]ActivityEntryResponse)
	require.Len(t, entries, 1)
	require.Equal(t, activity.TypeTaskToggled, entries[0].Type)

	_, err = handler.Handle(context.Background(), user, "", "get_recent_activity", mustJSON(t, GetRecentActivityParams{Kind: resource.KindOrganizations}))
	requireCode(t, err, "FORBIDDEN")
}

func TestBuildToolCatalog(t *testing.T) {
	catalog := buildToolCatalog()
	require.Len(t, catalog, 19)

	seen := map[string]bool{}
	for _, def := range catalog {
		require.False(t, seen[def.Name], "duplicate tool %s", def.Name)
		seen[def.Name] = true
		require.Equal(t, "object", def.InputSchema["type"], def.Name)
	}
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	apiErr, ok := err.(*APIError)
	require.True(t, ok, "expected *APIError, got %T: %v", err, err)
	require.Equal(t, code, apiErr.Code)
}

func mustJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}
