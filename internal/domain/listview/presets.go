package listview

import (
	"fmt"

	"github.com/rpggio/listview/internal/domain/resource"
	"github.com/rpggio/listview/internal/filter"
	"github.com/rpggio/listview/internal/view"
	"golang.org/x/text/language"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

// Preset configures the list view of one collection.
type Preset struct {
	SearchFields     []string `yaml:"search_fields"`
	FilterableFields []string `yaml:"filterable_fields"`
	DefaultSort      string   `yaml:"default_sort"`
	DefaultDirection string   `yaml:"default_direction"`
	DateField        string   `yaml:"date_field"`
	PageSize         int      `yaml:"page_size"`
}

// DefaultPresets mirrors the list screens of the management app.
func DefaultPresets() map[resource.Kind]Preset {
	return map[resource.Kind]Preset{
		resource.KindOrganizations: {
			SearchFields:     []string{"name", "description", "contactEmail"},
			FilterableFields: []string{"type", "active"},
			DefaultSort:      "TITLE_ASC",
			DateField:        "createdAt",
		},
		resource.KindUsers: {
			SearchFields:     []string{"username", "name", "surname", "email"},
			FilterableFields: []string{"role", "organization.name"},
			DefaultSort:      "TITLE_ASC",
			DateField:        "createdAt",
		},
		resource.KindClients: {
			SearchFields:     []string{"firstName", "lastName", "email", "phone"},
			FilterableFields: []string{"active", "organization.name"},
			DefaultSort:      "DATE_DESC",
			DateField:        "createdAt",
		},
		resource.KindTasks: {
			SearchFields:     []string{"title", "description", "client.firstName", "client.lastName"},
			FilterableFields: []string{"status", "priority", "assignedTo"},
			DefaultSort:      "DATE_DESC",
			DateField:        "dueDate",
		},
		resource.KindRecords: {
			SearchFields:     []string{"profileType", "clientId"},
			FilterableFields: []string{"profileType", "clientId"},
			DefaultSort:      "DATE_DESC",
			DateField:        "createdAt",
		},
	}
}

// MergePresets returns defaults with every non-empty field of overrides
// applied per kind.
func MergePresets(defaults, overrides map[resource.Kind]Preset) map[resource.Kind]Preset {
	out := make(map[resource.Kind]Preset, len(defaults))
	for k, p := range defaults {
		out[k] = p
	}
	for k, o := range overrides {
		p := out[k]
		if len(o.SearchFields) > 0 {
			p.SearchFields = o.SearchFields
		}
		if len(o.FilterableFields) > 0 {
			p.FilterableFields = o.FilterableFields
		}
		if o.DefaultSort != "" {
			p.DefaultSort = o.DefaultSort
		}
		if o.DefaultDirection != "" {
			p.DefaultDirection = o.DefaultDirection
		}
		if o.DateField != "" {
			p.DateField = o.DateField
		}
		if o.PageSize > 0 {
			p.PageSize = o.PageSize
		}
		out[k] = p
	}
	return out
}

// Config validates the preset and converts it to a view configuration.
func (p Preset) Config(lang language.Tag) (view.Config, error) {
	search, err := filter.ParsePaths(p.SearchFields)
	if err != nil {
		return view.Config{}, fmt.Errorf("search fields: %w", err)
	}
	filterable, err := filter.ParsePaths(p.FilterableFields)
	if err != nil {
		return view.Config{}, fmt.Errorf("filterable fields: %w", err)
	}
	sort, err := filter.ParseSortMode(p.DefaultSort, filter.ParseDirection(p.DefaultDirection))
	if err != nil {
		return view.Config{}, err
	}
	dateField := filter.DefaultDateField
	if p.DateField != "" {
		if dateField, err = filter.ParsePath(p.DateField); err != nil {
			return view.Config{}, fmt.Errorf("date field: %w", err)
		}
	}
	return view.Config{
		SearchFields:     search,
		FilterableFields: filterable,
		DefaultSort:      sort,
		DateField:        dateField,
		Language:         lang,
	}, nil
}

func (p Preset) pageSize() int {
	if p.PageSize > 0 && p.PageSize <= maxPageSize {
		return p.PageSize
	}
	return defaultPageSize
}
