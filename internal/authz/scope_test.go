package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr(v int64) *int64 { return &v }

func TestCheckScopeOwn(t *testing.T) {
	assert.True(t, CheckScope(ScopedOwn, 42, nil, nil), "no target owner")
	assert.True(t, CheckScope(ScopedOwn, 42, ptr(42), nil), "own object")
	assert.False(t, CheckScope(ScopedOwn, 42, ptr(99), nil), "foreign object")
	// Own-object checks must not need the actor in any team set.
	assert.True(t, CheckScope(ScopedOwn, 42, ptr(42), map[int64]struct{}{}))
}

func TestCheckScopeTeam(t *testing.T) {
	team := map[int64]struct{}{7: {}, 8: {}}
	assert.True(t, CheckScope(ScopedTeam, 42, nil, team))
	assert.True(t, CheckScope(ScopedTeam, 42, ptr(42), nil), "own object before team lookup")
	assert.True(t, CheckScope(ScopedTeam, 42, ptr(7), team))
	assert.False(t, CheckScope(ScopedTeam, 42, ptr(99), team))
	assert.False(t, CheckScope(ScopedTeam, 42, ptr(99), nil))
}

func TestCheckScopeUnscopedValues(t *testing.T) {
	assert.True(t, CheckScope(Allowed, 1, ptr(2), nil))
	assert.False(t, CheckScope(Denied, 1, ptr(1), nil))
	assert.False(t, CheckScope(PermissionValue(9), 1, ptr(1), nil), "unknown value fails closed")
}

// ScopedTeam must be at least as permissive as ScopedOwn for identical
// inputs.
func TestTeamScopeDominatesOwnScope(t *testing.T) {
	owners := []*int64{nil, ptr(42), ptr(7), ptr(99)}
	teams := []map[int64]struct{}{nil, {}, {7: {}}, {7: {}, 99: {}}}
	for _, owner := range owners {
		for _, team := range teams {
			if CheckScope(ScopedOwn, 42, owner, team) {
				assert.True(t, CheckScope(ScopedTeam, 42, owner, team))
			}
		}
	}
}
