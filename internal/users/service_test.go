package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/praxis-suite/praxis/internal/authz"
	"github.com/praxis-suite/praxis/internal/shared"
)

type memoryRepo struct {
	nextID int64
	byID   map[int64]*User
	hashes map[int64]string
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{nextID: 1, byID: make(map[int64]*User), hashes: make(map[int64]string)}
}

func (r *memoryRepo) List(_ context.Context, tenantID int64, filters ListFilters) ([]User, int, error) {
	allowed := map[int64]struct{}{}
	for _, id := range filters.IDs {
		allowed[id] = struct{}{}
	}
	var rows []User
	for _, user := range r.byID {
		if user.TenantID != tenantID {
			continue
		}
		if filters.IDs != nil {
			if _, ok := allowed[user.ID]; !ok {
				continue
			}
		}
		rows = append(rows, *user)
	}
	return rows, len(rows), nil
}

func (r *memoryRepo) FindByID(_ context.Context, tenantID, id int64) (*User, error) {
	user, ok := r.byID[id]
	if !ok || user.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *memoryRepo) Insert(_ context.Context, tenantID int64, input CreateInput, passwordHash string) (*User, error) {
	user := &User{
		ID:         r.nextID,
		TenantID:   tenantID,
		Email:      input.Email,
		Name:       input.Name,
		Role:       input.Role,
		Department: input.Department,
		IsActive:   true,
	}
	r.byID[user.ID] = user
	r.hashes[user.ID] = passwordHash
	r.nextID++
	copied := *user
	return &copied, nil
}

func (r *memoryRepo) Update(_ context.Context, tenantID, id int64, input UpdateInput) (*User, error) {
	user, ok := r.byID[id]
	if !ok || user.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Role != nil {
		user.Role = *input.Role
	}
	if input.Department != nil {
		user.Department = *input.Department
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
	copied := *user
	return &copied, nil
}

func (r *memoryRepo) Delete(_ context.Context, tenantID, id int64) error {
	user, ok := r.byID[id]
	if !ok || user.TenantID != tenantID {
		return shared.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

type openPolicyStore struct{}

func (openPolicyStore) FindUserOverride(context.Context, int64, int64, authz.Resource, authz.Action) (bool, bool, error) {
	return false, false, nil
}

func (openPolicyStore) FindDepartmentOverride(context.Context, int64, string, authz.Resource, authz.Action) (authz.PermissionValue, bool, error) {
	return authz.Denied, false, nil
}

func (openPolicyStore) FindTeamMembers(context.Context, int64, int64) (map[int64]struct{}, error) {
	return map[int64]struct{}{}, nil
}

func (openPolicyStore) FindTenantSettings(context.Context, int64) (authz.TenantSettings, bool, error) {
	return authz.TenantSettings{}, false, nil
}

func newTestService(t *testing.T) (*Service, *memoryRepo) {
	t.Helper()
	repo := newMemoryRepo()
	resolver := authz.NewResolver(openPolicyStore{}, nil, nil)
	return NewService(repo, resolver), repo
}

// scopedReadStore serves a department policy that tightens users:read.
type scopedReadStore struct {
	openPolicyStore
	readScope authz.PermissionValue
}

func (s scopedReadStore) FindDepartmentOverride(_ context.Context, _ int64, _ string, resource authz.Resource, action authz.Action) (authz.PermissionValue, bool, error) {
	if resource == authz.ResourceUsers && action == authz.ActionRead {
		return s.readScope, true, nil
	}
	return authz.Denied, false, nil
}

func newScopedReadService(t *testing.T, scope authz.PermissionValue) (*Service, *memoryRepo) {
	t.Helper()
	repo := newMemoryRepo()
	resolver := authz.NewResolver(scopedReadStore{readScope: scope}, nil, nil)
	return NewService(repo, resolver), repo
}

func TestScopedReadPolicyNarrowsList(t *testing.T) {
	svc, repo := newScopedReadService(t, authz.ScopedOwn)
	repo.byID[9] = &User{ID: 9, TenantID: 1, Email: "me@praxis.test", Name: "Me", Role: "worker"}
	repo.byID[8] = &User{ID: 8, TenantID: 1, Email: "peer@praxis.test", Name: "Peer", Role: "worker"}
	worker := authz.Identity{UserID: 9, TenantID: 1, Role: authz.RoleWorker, Department: "ops"}

	rows, _, err := svc.List(context.Background(), worker, ListFilters{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(9), rows[0].ID)
}

func TestScopedReadPolicyBlocksForeignGet(t *testing.T) {
	svc, repo := newScopedReadService(t, authz.ScopedOwn)
	repo.byID[9] = &User{ID: 9, TenantID: 1, Email: "me@praxis.test", Name: "Me", Role: "worker"}
	repo.byID[8] = &User{ID: 8, TenantID: 1, Email: "peer@praxis.test", Name: "Peer", Role: "worker"}
	worker := authz.Identity{UserID: 9, TenantID: 1, Role: authz.RoleWorker, Department: "ops"}

	user, err := svc.Get(context.Background(), worker, 9)
	require.NoError(t, err)
	assert.Equal(t, int64(9), user.ID)

	_, err = svc.Get(context.Background(), worker, 8)
	require.Error(t, err)
	var denial *authz.DenialError
	require.ErrorAs(t, err, &denial)
	assert.Equal(t, authz.ReasonScopeViolation, denial.Reason)
}

func TestUnscopedReadListsEverything(t *testing.T) {
	svc, repo := newTestService(t)
	repo.byID[9] = &User{ID: 9, TenantID: 1, Email: "me@praxis.test", Name: "Me", Role: "worker"}
	repo.byID[8] = &User{ID: 8, TenantID: 1, Email: "peer@praxis.test", Name: "Peer", Role: "worker"}
	worker := authz.Identity{UserID: 9, TenantID: 1, Role: authz.RoleWorker}

	rows, total, err := svc.List(context.Background(), worker, ListFilters{})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, 2, total)
}

func TestCreateHashesPassword(t *testing.T) {
	svc, repo := newTestService(t)
	admin := authz.Identity{UserID: 1, TenantID: 1, Role: authz.RoleAdmin}

	user, err := svc.Create(context.Background(), admin, CreateInput{
		Email:    "worker@praxis.test",
		Name:     "Worker One",
		Password: "long enough pass",
		Role:     "worker",
	})
	require.NoError(t, err)
	assert.Equal(t, "worker", user.Role)

	hash := repo.hashes[user.ID]
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "long enough pass", hash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("long enough pass")))
}

func TestCreateRejectsUnknownRole(t *testing.T) {
	svc, _ := newTestService(t)
	admin := authz.Identity{UserID: 1, TenantID: 1, Role: authz.RoleAdmin}

	_, err := svc.Create(context.Background(), admin, CreateInput{
		Email:    "x@praxis.test",
		Name:     "X",
		Password: "long enough pass",
		Role:     "overlord",
	})
	require.Error(t, err)
}

func TestOnlySuperadminMintsSuperadmin(t *testing.T) {
	svc, _ := newTestService(t)
	admin := authz.Identity{UserID: 1, TenantID: 1, Role: authz.RoleAdmin}

	_, err := svc.Create(context.Background(), admin, CreateInput{
		Email:    "root@praxis.test",
		Name:     "Root",
		Password: "long enough pass",
		Role:     "superadmin",
	})
	require.Error(t, err)
	assert.True(t, authz.IsDenied(err))

	root := authz.Identity{UserID: 2, TenantID: 1, Role: authz.RoleSuperadmin}
	_, err = svc.Create(context.Background(), root, CreateInput{
		Email:    "root@praxis.test",
		Name:     "Root",
		Password: "long enough pass",
		Role:     "superadmin",
	})
	require.NoError(t, err)
}

func TestUpdateDeniedForWorker(t *testing.T) {
	svc, repo := newTestService(t)
	repo.byID[5] = &User{ID: 5, TenantID: 1, Email: "t@praxis.test", Name: "Target", Role: "worker"}

	worker := authz.Identity{UserID: 9, TenantID: 1, Role: authz.RoleWorker}
	newName := "Renamed"
	_, err := svc.Update(context.Background(), worker, 5, UpdateInput{Name: &newName})
	require.Error(t, err)
	assert.True(t, authz.IsDenied(err))
}

func TestDeleteGuards(t *testing.T) {
	svc, repo := newTestService(t)
	repo.byID[3] = &User{ID: 3, TenantID: 1, Email: "a@praxis.test", Name: "A", Role: "worker"}
	repo.byID[4] = &User{ID: 4, TenantID: 1, Email: "b@praxis.test", Name: "B", Role: "superadmin"}

	admin := authz.Identity{UserID: 1, TenantID: 1, Role: authz.RoleAdmin}

	require.Error(t, svc.Delete(context.Background(), admin, admin.UserID), "self deletion must fail")

	err := svc.Delete(context.Background(), admin, 4)
	require.Error(t, err)
	assert.True(t, authz.IsDenied(err), "admin cannot delete a superadmin")

	require.NoError(t, svc.Delete(context.Background(), admin, 3))
	_, err = repo.FindByID(context.Background(), 1, 3)
	require.ErrorIs(t, err, shared.ErrNotFound)
}
