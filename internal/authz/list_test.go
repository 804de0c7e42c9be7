package authz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterForListUnrestricted(t *testing.T) {
	store := newStubStore()
	resolver := NewResolver(store, nil, nil)

	admin := Identity{UserID: 1, TenantID: 5, Role: RoleAdmin}
	filter, err := resolver.FilterForList(context.Background(), admin, ResourceProjects, ActionRead)
	require.NoError(t, err)
	assert.True(t, filter.Unrestricted)
	assert.Empty(t, filter.OwnerIDs)
}

func TestFilterForListScopedOwn(t *testing.T) {
	store := newStubStore()
	resolver := NewResolver(store, nil, nil)

	worker := Identity{UserID: 9, TenantID: 5, Role: RoleWorker}
	filter, err := resolver.FilterForList(context.Background(), worker, ResourceTimeEntries, ActionRead)
	require.NoError(t, err)
	assert.False(t, filter.Unrestricted)
	assert.Equal(t, []int64{9}, filter.OwnerIDs)
	assert.Zero(t, store.teamCalls, "own scope must not fetch the team")
}

func TestFilterForListScopedTeamIncludesSelf(t *testing.T) {
	store := newStubStore()
	store.team = map[int64]struct{}{12: {}, 13: {}}
	resolver := NewResolver(store, nil, nil)

	manager := Identity{UserID: 11, TenantID: 5, Role: RoleManager}
	filter, err := resolver.FilterForList(context.Background(), manager, ResourceTimeEntries, ActionRead)
	require.NoError(t, err)
	assert.False(t, filter.Unrestricted)
	assert.ElementsMatch(t, []int64{11, 12, 13}, filter.OwnerIDs)
}

func TestFilterForListDenied(t *testing.T) {
	store := newStubStore()
	resolver := NewResolver(store, nil, nil)

	guest := Identity{UserID: 20, TenantID: 5, Role: RoleGuest}
	_, err := resolver.FilterForList(context.Background(), guest, ResourceInvoices, ActionRead)
	require.Error(t, err)
	assert.True(t, IsDenied(err))
}

func TestFilterForListSuperadminSkipsStore(t *testing.T) {
	resolver := NewResolver(panicStore{t: t}, nil, nil)

	root := Identity{UserID: 1, TenantID: 5, Role: RoleSuperadmin}
	filter, err := resolver.FilterForList(context.Background(), root, ResourceAudit, ActionRead)
	require.NoError(t, err)
	assert.True(t, filter.Unrestricted)
}

func TestFilterForListFailsClosedOnStoreError(t *testing.T) {
	store := newStubStore()
	store.teamErr = context.DeadlineExceeded
	resolver := NewResolver(store, nil, nil)

	manager := Identity{UserID: 11, TenantID: 5, Role: RoleManager}
	_, err := resolver.FilterForList(context.Background(), manager, ResourceTimeEntries, ActionRead)
	require.Error(t, err)
	assert.True(t, IsDenied(err))
}
