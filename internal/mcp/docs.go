package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `listview serves the list screens of a management app (organizations, users, clients, tasks, records) as stateful views.

Core concepts:
- Collection: one kind of item. Every write moves the collection tick.
- View: one session's look at one collection. It holds a search term, equality filters, a sort mode and a date range, and derives a filtered, sorted list with result and total counts.
- Views are per session. Pass the Mcp-Session-Id header (HTTP), _meta.session_id (stdio), or a session_id argument.

Default workflow:
1) open_view(kind) to create or restore a view; it returns the first page.
2) Narrow it with set_search / set_filter / set_filters / set_date_range / set_custom_date_range and order it with set_sort. Each call returns the new page.
3) Page with get_view(offset, limit). Counts always cover the whole filtered list.
4) clear_view resets to the collection defaults; close_view forgets the view.
5) Write items with create_resource / update_resource / delete_resource / toggle_task_finish; open views pick the change up on the next read.

Docs:
- listview://docs/index
- listview://docs/filtering
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "listview://docs/index",
		Name:        "docs_index",
		Title:       "listview docs index",
		Description: "Entry point: collections, views and which tools to use.",
		Content: `# listview: Docs Index

## Collections

| kind | required fields | filterable by default |
|---|---|---|
| organizations | name | type, active |
| users | username | role, organization.name |
| clients | firstName | active, organization.name |
| tasks | title | status, priority, assignedTo |
| records | clientId, profileType | profileType, clientId |

Roles limit what a caller may open: USER sees clients, tasks and records; MANAGER adds users; ADMIN sees everything.
USER may only write tasks and records.

## Views

A view is addressed by (session, kind). Its state survives restarts; an evicted view is restored from its saved state on the next call.

Read listview://docs/filtering for the exact matching rules.
`,
	},
	{
		URI:         "listview://docs/filtering",
		Name:        "docs_filtering",
		Title:       "Filtering and sorting rules",
		Description: "How search, filters, date ranges and sort modes match items.",
		Content: `# Filtering and sorting

Steps run in a fixed order: search, equality filters, date range, sort.

## Search
Case-insensitive substring match over the view's search fields (nested paths like client.firstName work).
A blank term matches everything. Numbers and booleans are matched by their text form.

## Equality filters
An item passes when the field equals the value exactly. The value ALL, an empty string or null removes the filter.
0 and false are real values.

## Date ranges
all, today, last7days, last30days, thisMonth, custom. Ranges are computed from the server clock.
Tasks filter on dueDate. Other collections filter on createdAt, which the server stamps on organizations, clients and records unless the item supplies its own.
A custom range with a missing bound is open on that side. Items without a parseable date are dropped by any bounded range.

## Sort
DATE_DESC and DATE_ASC use createdAt, falling back to dueDate. TITLE_ASC and TITLE_DESC use title, falling back to name, with locale-aware collation.
PRIORITY_DESC and PRIORITY_ASC order URGENT > HIGH > MEDIUM > LOW. Any other value is a field path sorted with direction asc or desc; items missing the field sort last.
Ties keep their input order.

## Counters
active_filters counts a non-blank search, each filter not ALL, and a date range other than all.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
