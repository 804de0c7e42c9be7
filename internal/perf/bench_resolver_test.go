// Package perf holds micro-benchmarks for the permission engine hot
// path. Every request crosses the resolver at least once, so decision
// cost is tracked here.
package perf

import (
	"context"
	"testing"

	"github.com/praxis-suite/praxis/internal/authz"
)

// flatStore answers every lookup from memory with no overrides set.
type flatStore struct {
	team map[int64]struct{}
}

func (s flatStore) FindUserOverride(context.Context, int64, int64, authz.Resource, authz.Action) (bool, bool, error) {
	return false, false, nil
}

func (s flatStore) FindDepartmentOverride(context.Context, int64, string, authz.Resource, authz.Action) (authz.PermissionValue, bool, error) {
	return authz.Denied, false, nil
}

func (s flatStore) FindTeamMembers(context.Context, int64, int64) (map[int64]struct{}, error) {
	return s.team, nil
}

func (s flatStore) FindTenantSettings(context.Context, int64) (authz.TenantSettings, bool, error) {
	return authz.TenantSettings{
		TenantID:                 1,
		AllowAdminUserCreate:     true,
		AllowAdminUserDelete:     true,
		AllowAdminInvoiceApprove: true,
		AllowAdminSettingsUpdate: true,
	}, true, nil
}

func benchStore() flatStore {
	team := make(map[int64]struct{}, 16)
	for i := int64(1); i <= 16; i++ {
		team[i] = struct{}{}
	}
	return flatStore{team: team}
}

func BenchmarkAssertAllowed(b *testing.B) {
	resolver := authz.NewResolver(benchStore(), nil, nil)
	admin := authz.Identity{UserID: 1, TenantID: 1, Role: authz.RoleAdmin}
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := resolver.Assert(ctx, admin, authz.ResourceProjects, authz.ActionRead); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkAssertOwnerScoped(b *testing.B) {
	resolver := authz.NewResolver(benchStore(), nil, nil)
	worker := authz.Identity{UserID: 7, TenantID: 1, Role: authz.RoleWorker}
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := resolver.Assert(ctx, worker, authz.ResourceTasks, authz.ActionUpdate, authz.WithOwner(7)); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkAssertDenied(b *testing.B) {
	resolver := authz.NewResolver(benchStore(), nil, nil)
	guest := authz.Identity{UserID: 9, TenantID: 1, Role: authz.RoleGuest}
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := resolver.Assert(ctx, guest, authz.ResourceInvoices, authz.ActionCreate); err == nil {
			b.Fatal("expected denial")
		}
	}
}

func BenchmarkFilterForListTeamScope(b *testing.B) {
	resolver := authz.NewResolver(benchStore(), nil, nil)
	manager := authz.Identity{UserID: 3, TenantID: 1, Role: authz.RoleManager}
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := resolver.FilterForList(ctx, manager, authz.ResourceTimeEntries, authz.ActionRead); err != nil {
			b.Fatal(err)
		}
	}
}
