package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rpggio/listview/internal/domain/access"
	"github.com/rpggio/listview/internal/domain/activity"
	"github.com/rpggio/listview/internal/domain/listview"
	"github.com/rpggio/listview/internal/domain/resource"
)

// ResourceService defines collection operations needed by MCP.
type ResourceService interface {
	Create(ctx context.Context, tenantID string, req resource.CreateRequest) (*resource.Resource, error)
	Get(ctx context.Context, tenantID string, kind resource.Kind, id string) (*resource.Resource, error)
	Update(ctx context.Context, tenantID string, req resource.UpdateRequest) (*resource.Resource, error)
	Delete(ctx context.Context, tenantID string, kind resource.Kind, id string) error
	ToggleFinish(ctx context.Context, tenantID, id, actor string) (*resource.Resource, error)
}

// ViewService defines list view operations needed by MCP.
type ViewService interface {
	Open(ctx context.Context, p access.Principal, sessionID string, kind resource.Kind, req listview.PageRequest) (*listview.Page, error)
	Get(ctx context.Context, p access.Principal, sessionID string, kind resource.Kind, req listview.PageRequest) (*listview.Page, error)
	Apply(ctx context.Context, p access.Principal, sessionID string, kind resource.Kind, m listview.Mutation, req listview.PageRequest) (*listview.Page, error)
	Close(ctx context.Context, p access.Principal, sessionID string, kind resource.Kind) error
	Stats(ctx context.Context, p access.Principal, sessionID string, kind resource.Kind, trendDays int) (*listview.Stats, error)
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, tenantID string, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// Handler dispatches MCP commands.
type Handler struct {
	resources ResourceService
	views     ViewService
	activity  ActivityService
}

// NewHandler creates a new MCP handler.
func NewHandler(resources ResourceService, views ViewService, activitySvc ActivityService) *Handler {
	return &Handler{
		resources: resources,
		views:     views,
		activity:  activitySvc,
	}
}

// Handle dispatches MCP requests to domain services. Errors the client can
// act on come back as *APIError.
func (h *Handler) Handle(ctx context.Context, p access.Principal, sessionID, method string, params json.RawMessage) (any, error) {
	result, err := h.handle(ctx, p, sessionID, method, params)
	if err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

func (h *Handler) handle(ctx context.Context, p access.Principal, sessionID, method string, params json.RawMessage) (any, error) {
	switch method {
	case "create_resource":
		var req CreateResourceParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := requireKind(p, req.Kind, true); err != nil {
			return nil, err
		}
		return h.resources.Create(ctx, p.TenantID, resource.CreateRequest{
			Kind: req.Kind,
			ID:   req.ID,
			Data: req.Data,
		})
	case "get_resource":
		var req ResourceRefParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := requireKind(p, req.Kind, false); err != nil {
			return nil, err
		}
		return h.resources.Get(ctx, p.TenantID, req.Kind, req.ID)
	case "update_resource":
		var req UpdateResourceParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := requireKind(p, req.Kind, true); err != nil {
			return nil, err
		}
		return h.resources.Update(ctx, p.TenantID, resource.UpdateRequest{
			Kind: req.Kind,
			ID:   req.ID,
			Data: req.Data,
		})
	case "delete_resource":
		var req ResourceRefParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := requireKind(p, req.Kind, true); err != nil {
			return nil, err
		}
		if err := h.resources.Delete(ctx, p.TenantID, req.Kind, req.ID); err != nil {
			return nil, err
		}
		return DeleteResourceResponse{Kind: req.Kind, ID: req.ID, Deleted: true}, nil
	case "toggle_task_finish":
		var req ToggleTaskFinishParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := p.RequireWrite(resource.KindTasks); err != nil {
			return nil, err
		}
		return h.resources.ToggleFinish(ctx, p.TenantID, req.ID, p.Username)
	case "open_view":
		var req ViewParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		sid, err := viewSession(req, sessionID)
		if err != nil {
			return nil, err
		}
		return h.views.Open(ctx, p, sid, req.Kind, req.page())
	case "get_view":
		var req ViewParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		sid, err := viewSession(req, sessionID)
		if err != nil {
			return nil, err
		}
		return h.views.Get(ctx, p, sid, req.Kind, req.page())
	case "close_view":
		var req ViewParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		sid, err := viewSession(req, sessionID)
		if err != nil {
			return nil, err
		}
		if err := h.views.Close(ctx, p, sid, req.Kind); err != nil {
			return nil, err
		}
		return CloseViewResponse{Kind: req.Kind, SessionID: sid, Closed: true}, nil
	case "get_view_stats":
		var req GetViewStatsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		sid, err := viewSession(req.ViewParams, sessionID)
		if err != nil {
			return nil, err
		}
		return h.views.Stats(ctx, p, sid, req.Kind, req.TrendDays)
	case "set_search", "clear_search", "set_filter", "set_filters", "clear_filter",
		"set_sort", "set_date_range", "set_custom_date_range", "clear_view":
		view, m, err := decodeMutation(method, params)
		if err != nil {
			return nil, err
		}
		sid, err := viewSession(view, sessionID)
		if err != nil {
			return nil, err
		}
		return h.views.Apply(ctx, p, sid, view.Kind, m, view.page())
	case "get_recent_activity":
		var req GetRecentActivityParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if req.Kind != "" {
			if err := requireKind(p, req.Kind, false); err != nil {
				return nil, err
			}
		}
		entries, err := h.activity.GetRecentActivity(ctx, p.TenantID, activity.ListActivityOptions{
			Kind:       string(req.Kind),
			ResourceID: req.ResourceID,
			Limit:      req.Limit,
			Offset:     req.Offset,
		})
		if err != nil {
			return nil, err
		}
		resp := make([]ActivityEntryResponse, 0, len(entries))
		for _, entry := range entries {
			if entry.Kind != "" && !p.CanView(resource.Kind(entry.Kind)) {
				continue
			}
			resp = append(resp, ActivityEntryResponse{
				Timestamp:  entry.CreatedAt,
				Type:       entry.ActivityType,
				Kind:       entry.Kind,
				SessionID:  stringValue(entry.SessionID),
				ResourceID: entry.ResourceID,
				Summary:    entry.Summary,
				Details:    entry.Details,
			})
		}
		return resp, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, method)
	}
}

// decodeMutation reads the view address and the state change of a view
// mutation method.
func decodeMutation(method string, params json.RawMessage) (ViewParams, listview.Mutation, error) {
	switch method {
	case "set_search":
		var req SetSearchParams
		err := decodeParams(params, &req)
		return req.ViewParams, listview.SetSearch{Term: req.Term}, err
	case "clear_search":
		var req ViewParams
		err := decodeParams(params, &req)
		return req, listview.ClearSearch{}, err
	case "set_filter":
		var req SetFilterParams
		err := decodeParams(params, &req)
		return req.ViewParams, listview.SetFilter{Field: req.Field, Value: req.Value}, err
	case "set_filters":
		var req SetFiltersParams
		err := decodeParams(params, &req)
		return req.ViewParams, listview.SetFilters{Filters: req.Filters}, err
	case "clear_filter":
		var req ClearFilterParams
		err := decodeParams(params, &req)
		return req.ViewParams, listview.ClearFilter{Field: req.Field}, err
	case "set_sort":
		var req SetSortParams
		err := decodeParams(params, &req)
		return req.ViewParams, listview.SetSort{SortBy: req.SortBy, Direction: req.Direction}, err
	case "set_date_range":
		var req SetDateRangeParams
		err := decodeParams(params, &req)
		return req.ViewParams, listview.SetDateRange{Range: req.Range}, err
	case "set_custom_date_range":
		var req SetCustomDateRangeParams
		err := decodeParams(params, &req)
		return req.ViewParams, listview.SetCustomDateRange{Start: req.Start, End: req.End}, err
	case "clear_view":
		var req ViewParams
		err := decodeParams(params, &req)
		return req, listview.ClearAll{}, err
	}
	return ViewParams{}, nil, fmt.Errorf("%w: %s", ErrUnknownMethod, method)
}

// requireKind checks that kind exists before checking p may access it.
func requireKind(p access.Principal, kind resource.Kind, write bool) error {
	if _, err := resource.ParseKind(string(kind)); err != nil {
		return err
	}
	if write {
		return p.RequireWrite(kind)
	}
	return p.RequireView(kind)
}

func (v ViewParams) page() listview.PageRequest {
	return listview.PageRequest{Offset: v.Offset, Limit: v.Limit}
}

func viewSession(v ViewParams, sessionID string) (string, error) {
	if v.SessionID != "" {
		return v.SessionID, nil
	}
	if sessionID == "" {
		return "", ErrSessionRequired
	}
	return sessionID, nil
}

func decodeParams(params json.RawMessage, out any) error {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, out); err != nil {
		return fmt.Errorf("%w: %v", listview.ErrInvalidInput, err)
	}
	return nil
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}

func stringValue(val *string) string {
	if val == nil {
		return ""
	}
	return *val
}
