package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleOrdering(t *testing.T) {
	assert.True(t, RoleSuperadmin.IsAtLeast(RoleAdmin))
	assert.True(t, RoleSuperadmin.IsAtLeast(RoleGuest))
	assert.True(t, RoleAdmin.IsAtLeast(RoleAdmin))
	assert.True(t, RoleManager.IsAtLeast(RoleWorker))
	assert.False(t, RoleWorker.IsAtLeast(RoleManager))
	assert.False(t, RoleGuest.IsAtLeast(RoleWorker))
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole("Manager")
	require.NoError(t, err)
	assert.Equal(t, RoleManager, role)

	role, err = ParseRole("  superadmin ")
	require.NoError(t, err)
	assert.Equal(t, RoleSuperadmin, role)

	_, err = ParseRole("banana")
	assert.Error(t, err)
}

func TestRoleRoundTrip(t *testing.T) {
	for _, role := range []Role{RoleSuperadmin, RoleAdmin, RoleManager, RoleWorker, RoleGuest} {
		parsed, err := ParseRole(role.String())
		require.NoError(t, err)
		assert.Equal(t, role, parsed)
	}
}
