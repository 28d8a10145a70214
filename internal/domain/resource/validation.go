package resource

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rpggio/listview/internal/filter"
)

var requiredFields = map[Kind][]string{
	KindOrganizations: {"name"},
	KindUsers:         {"username"},
	KindClients:       {"firstName"},
	KindTasks:         {"title"},
	KindRecords:       {"clientId", "profileType"},
}

var enumFields = map[Kind]map[string][]string{
	KindTasks: {"status": TaskStatuses, "priority": TaskPriorities},
	KindUsers: {"role": UserRoles},
}

// ValidateData checks the fields a collection requires and the enumerated
// values it restricts.
func ValidateData(kind Kind, data filter.Record) error {
	required, ok := requiredFields[kind]
	if !ok {
		return ErrUnknownKind
	}
	for _, field := range required {
		v := filter.Lookup(data, filter.MustPath(field))
		switch v.Kind() {
		case filter.KindAbsent, filter.KindNull:
			return fmt.Errorf("%w: %s requires %s", ErrInvalidInput, kind, field)
		case filter.KindString:
			if s, _ := v.Str(); strings.TrimSpace(s) == "" {
				return fmt.Errorf("%w: %s requires %s", ErrInvalidInput, kind, field)
			}
		}
	}
	for field, allowed := range enumFields[kind] {
		v := filter.Lookup(data, filter.MustPath(field))
		if v.Kind() == filter.KindAbsent || v.Kind() == filter.KindNull {
			continue
		}
		s, ok := v.Str()
		if !ok || !slices.Contains(allowed, s) {
			return fmt.Errorf("%w: %s must be one of %s", ErrInvalidInput, field, strings.Join(allowed, ", "))
		}
	}
	return nil
}
