package access_test

import (
	"testing"

	"github.com/rpggio/listview/internal/domain/access"
	"github.com/rpggio/listview/internal/domain/resource"
	"github.com/stretchr/testify/require"
)

func TestPrincipal_CanView(t *testing.T) {
	admin := access.Principal{Role: access.RoleAdmin}
	manager := access.Principal{Role: access.RoleManager}
	user := access.Principal{Role: access.RoleUser}

	for _, k := range resource.Kinds() {
		require.True(t, admin.CanView(k), k)
	}
	require.False(t, manager.CanView(resource.KindOrganizations))
	require.True(t, manager.CanView(resource.KindUsers))
	require.False(t, user.CanView(resource.KindUsers))
	require.True(t, user.CanView(resource.KindTasks))

	require.ErrorIs(t, user.RequireView(resource.KindOrganizations), access.ErrForbidden)
	require.NoError(t, user.RequireView(resource.KindClients))
}

func TestPrincipal_CanWrite(t *testing.T) {
	user := access.Principal{Role: access.RoleUser}
	require.True(t, user.CanWrite(resource.KindTasks))
	require.False(t, user.CanWrite(resource.KindClients))
	require.ErrorIs(t, user.RequireWrite(resource.KindClients), access.ErrForbidden)

	manager := access.Principal{Role: access.RoleManager}
	require.True(t, manager.CanWrite(resource.KindClients))
	require.False(t, manager.CanWrite(resource.KindOrganizations))
}

func TestParseRole(t *testing.T) {
	r, err := access.ParseRole("manager")
	require.NoError(t, err)
	require.Equal(t, access.RoleManager, r)

	r, err = access.ParseRole("")
	require.NoError(t, err)
	require.Equal(t, access.RoleUser, r)

	_, err = access.ParseRole("root")
	require.Error(t, err)
}
