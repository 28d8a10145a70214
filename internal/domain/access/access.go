// Package access decides which collections a caller may list.
package access

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/rpggio/listview/internal/domain/resource"
)

// ErrForbidden indicates the caller's role may not view a collection.
var ErrForbidden = errors.New("forbidden")

// Role is a caller's role in the management app.
type Role string

const (
	RoleUser    Role = "USER"
	RoleManager Role = "MANAGER"
	RoleAdmin   Role = "ADMIN"
)

// ParseRole accepts a role name in any case. The empty string is USER.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case "", RoleUser:
		return RoleUser, nil
	case RoleManager:
		return RoleManager, nil
	case RoleAdmin:
		return RoleAdmin, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

var visibleKinds = map[Role][]resource.Kind{
	RoleAdmin:   resource.Kinds(),
	RoleManager: {resource.KindUsers, resource.KindClients, resource.KindTasks, resource.KindRecords},
	RoleUser:    {resource.KindClients, resource.KindTasks, resource.KindRecords},
}

// Principal is the authenticated caller.
type Principal struct {
	TenantID string
	Username string
	Role     Role
}

// CanView reports whether p may list kind.
func (p Principal) CanView(kind resource.Kind) bool {
	return slices.Contains(visibleKinds[p.Role], kind)
}

// CanWrite reports whether p may create or modify resources of kind.
// Users only write tasks and records; managers write everything they see.
func (p Principal) CanWrite(kind resource.Kind) bool {
	if p.Role == RoleUser {
		return kind == resource.KindTasks || kind == resource.KindRecords
	}
	return p.CanView(kind)
}

// RequireView returns ErrForbidden unless p may list kind.
func (p Principal) RequireView(kind resource.Kind) error {
	if !p.CanView(kind) {
		return fmt.Errorf("%w: role %s cannot view %s", ErrForbidden, p.Role, kind)
	}
	return nil
}

// RequireWrite returns ErrForbidden unless p may write kind.
func (p Principal) RequireWrite(kind resource.Kind) error {
	if !p.CanWrite(kind) {
		return fmt.Errorf("%w: role %s cannot modify %s", ErrForbidden, p.Role, kind)
	}
	return nil
}
