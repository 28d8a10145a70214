package mcp

import (
	"context"
	"encoding/json"
	"log/slog"
	"maps"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/listview/internal/domain/resource"
	"github.com/rpggio/listview/internal/metrics"
)

func kindProperty() map[string]any {
	kinds := make([]string, 0, len(resource.Kinds()))
	for _, k := range resource.Kinds() {
		kinds = append(kinds, string(k))
	}
	return map[string]any{
		"type":        "string",
		"description": "Collection name",
		"enum":        kinds,
	}
}

// viewSchema builds the input schema of a view tool: the view address and
// paging, plus extra properties.
func viewSchema(extra map[string]any, required ...string) map[string]any {
	props := map[string]any{
		"kind": kindProperty(),
		"session_id": map[string]any{
			"type":        "string",
			"description": "Session owning the view (defaults to the transport session)",
		},
		"offset": map[string]any{
			"type":        "integer",
			"description": "Index of the first item to return",
		},
		"limit": map[string]any{
			"type":        "integer",
			"description": "Maximum number of items to return (default is the collection page size)",
		},
	}
	maps.Copy(props, extra)
	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   append([]string{"kind"}, required...),
	}
}

func resourceRefSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"kind": kindProperty(),
			"id": map[string]any{
				"type":        "string",
				"description": "Resource ID",
			},
		},
		"required": []string{"kind", "id"},
	}
}

// buildToolCatalog returns all available MCP tools
func buildToolCatalog() []ToolDefinition {
	dataProperty := map[string]any{
		"type":        "object",
		"description": "Resource fields; tasks need title, clients firstName, organizations name, users username, records clientId and profileType",
	}
	dateProperty := func(desc string) map[string]any {
		return map[string]any{"type": "string", "format": "date-time", "description": desc}
	}

	return []ToolDefinition{
		// Collections
		{
			Name:        "create_resource",
			Description: "Create an item in a collection",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"kind": kindProperty(),
					"id": map[string]any{
						"type":        "string",
						"description": "Unique identifier (optional, will be generated if not provided)",
					},
					"data": dataProperty,
				},
				"required": []string{"kind", "data"},
			},
		},
		{
			Name:        "get_resource",
			Description: "Get one item of a collection by ID",
			InputSchema: resourceRefSchema(),
		},
		{
			Name:        "update_resource",
			Description: "Replace the fields of an item",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"kind": kindProperty(),
					"id": map[string]any{
						"type":        "string",
						"description": "Resource ID",
					},
					"data": dataProperty,
				},
				"required": []string{"kind", "id", "data"},
			},
		},
		{
			Name:        "delete_resource",
			Description: "Delete an item from a collection",
			InputSchema: resourceRefSchema(),
		},
		{
			Name:        "toggle_task_finish",
			Description: "Mark a task completed, or reopen it as in progress. Only the assignee may toggle an assigned task",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id": map[string]any{
						"type":        "string",
						"description": "Task ID",
					},
				},
				"required": []string{"id"},
			},
		},

		// Views
		{
			Name:        "open_view",
			Description: "Open (or reopen) the session's list view of a collection and return the first page",
			InputSchema: viewSchema(nil),
		},
		{
			Name:        "get_view",
			Description: "Return a page of an open list view with result and total counts",
			InputSchema: viewSchema(nil),
		},
		{
			Name:        "set_search",
			Description: "Set the case-insensitive search term of a view",
			InputSchema: viewSchema(map[string]any{
				"term": map[string]any{"type": "string", "description": "Search term; blank matches everything"},
			}, "term"),
		},
		{
			Name:        "clear_search",
			Description: "Clear the search term of a view",
			InputSchema: viewSchema(nil),
		},
		{
			Name:        "set_filter",
			Description: "Filter a view to items whose field equals value; ALL removes the filter",
			InputSchema: viewSchema(map[string]any{
				"field": map[string]any{"type": "string", "description": "Filterable field path, e.g. status"},
				"value": map[string]any{"description": "Value to match exactly"},
			}, "field", "value"),
		},
		{
			Name:        "set_filters",
			Description: "Set several equality filters of a view at once",
			InputSchema: viewSchema(map[string]any{
				"filters": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"field": map[string]any{"type": "string"},
							"value": map[string]any{},
						},
						"required": []string{"field", "value"},
					},
				},
			}, "filters"),
		},
		{
			Name:        "clear_filter",
			Description: "Reset one filter of a view to ALL",
			InputSchema: viewSchema(map[string]any{
				"field": map[string]any{"type": "string", "description": "Filterable field path"},
			}, "field"),
		},
		{
			Name:        "set_sort",
			Description: "Sort a view by DATE_DESC, DATE_ASC, TITLE_ASC, TITLE_DESC, PRIORITY_DESC, PRIORITY_ASC, default, or any field path",
			InputSchema: viewSchema(map[string]any{
				"sort_by": map[string]any{"type": "string", "description": "Sort mode or field path"},
				"direction": map[string]any{
					"type":        "string",
					"description": "Direction for field sorts",
					"enum":        []string{"asc", "desc"},
				},
			}, "sort_by"),
		},
		{
			Name:        "set_date_range",
			Description: "Restrict a view to a date range bucket",
			InputSchema: viewSchema(map[string]any{
				"range": map[string]any{
					"type": "string",
					"enum": []string{"all", "today", "last7days", "last30days", "thisMonth", "custom"},
				},
			}, "range"),
		},
		{
			Name:        "set_custom_date_range",
			Description: "Restrict a view to explicit bounds; an omitted bound is open",
			InputSchema: viewSchema(map[string]any{
				"start": dateProperty("Inclusive lower bound"),
				"end":   dateProperty("Inclusive upper bound"),
			}),
		},
		{
			Name:        "clear_view",
			Description: "Reset search, filters, sort and date range of a view to the collection defaults",
			InputSchema: viewSchema(nil),
		},
		{
			Name:        "close_view",
			Description: "Close a view and forget its saved state",
			InputSchema: viewSchema(nil),
		},
		{
			Name:        "get_view_stats",
			Description: "Task counts, priority distribution, completion trend, per-client task counts and the caller's performance over a view's filtered items",
			InputSchema: viewSchema(map[string]any{
				"trend_days": map[string]any{"type": "integer", "description": "Days in the completion trend (default 7)"},
			}),
		},

		// Activity
		{
			Name:        "get_recent_activity",
			Description: "List recent writes and view resets, newest first",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"kind": kindProperty(),
					"resource_id": map[string]any{
						"type":        "string",
						"description": "Only activity on this resource",
					},
					"limit": map[string]any{
						"type":        "integer",
						"description": "Maximum number of results",
					},
					"offset": map[string]any{
						"type":        "integer",
						"description": "Offset for pagination",
					},
				},
			},
		},
	}
}

// registerTools adds every catalog tool to server, dispatching to handler.
func registerTools(server *sdkmcp.Server, handler *Handler, logger *slog.Logger) {
	for _, def := range buildToolCatalog() {
		name := def.Name
		server.AddTool(&sdkmcp.Tool{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: def.InputSchema,
		}, func(ctx context.Context, req *sdkmcp.CallToolRequest) (*sdkmcp.CallToolResult, error) {
			var args json.RawMessage
			if req != nil && req.Params != nil {
				args = req.Params.Arguments
			}

			start := time.Now()
			result, err := handler.Handle(ctx, getPrincipal(ctx), getSessionID(ctx), name, args)
			metrics.ObserveTool(name, err, time.Since(start))
			if err != nil {
				apiErr := MapError(err)
				if apiErr == nil {
					logger.Error("tool failed", "tool", name, "error", err)
					apiErr = &APIError{Code: "INTERNAL", Message: err.Error()}
				}
				return toolResult(apiErr, true), nil
			}
			return toolResult(result, false), nil
		})
	}
}

func toolResult(payload any, isError bool) *sdkmcp.CallToolResult {
	data, err := json.Marshal(payload)
	if err != nil {
		return &sdkmcp.CallToolResult{
			IsError: true,
			Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: "failed to encode result: " + err.Error()}},
		}
	}
	return &sdkmcp.CallToolResult{
		IsError: isError,
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}
}
