package projects

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxis-suite/praxis/internal/authz"
	"github.com/praxis-suite/praxis/internal/shared"
)

type memoryRepo struct {
	nextID int64
	byID   map[int64]*Project
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{nextID: 1, byID: make(map[int64]*Project)}
}

func (r *memoryRepo) List(_ context.Context, tenantID int64, filters ListFilters) ([]Project, error) {
	allowed := map[int64]struct{}{}
	for _, owner := range filters.OwnerIDs {
		allowed[owner] = struct{}{}
	}
	var rows []Project
	for _, project := range r.byID {
		if project.TenantID != tenantID {
			continue
		}
		if filters.Status != "" && project.Status != filters.Status {
			continue
		}
		if filters.OwnerIDs != nil {
			if _, ok := allowed[project.OwnerID]; !ok {
				continue
			}
		}
		rows = append(rows, *project)
	}
	return rows, nil
}

func (r *memoryRepo) FindByID(_ context.Context, tenantID, id int64) (*Project, error) {
	project, ok := r.byID[id]
	if !ok || project.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	copied := *project
	return &copied, nil
}

func (r *memoryRepo) Insert(_ context.Context, project Project) (*Project, error) {
	project.ID = r.nextID
	r.byID[project.ID] = &project
	r.nextID++
	copied := project
	return &copied, nil
}

func (r *memoryRepo) Update(_ context.Context, tenantID, id int64, input UpdateInput) (*Project, error) {
	project, ok := r.byID[id]
	if !ok || project.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	if input.Name != nil {
		project.Name = *input.Name
	}
	if input.Status != nil {
		project.Status = *input.Status
	}
	copied := *project
	return &copied, nil
}

func (r *memoryRepo) Delete(_ context.Context, tenantID, id int64) error {
	project, ok := r.byID[id]
	if !ok || project.TenantID != tenantID {
		return shared.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

// teamStore answers team lookups from a fixed member set and leaves
// everything else at the matrix baseline. A read scope, when set, is
// served as a department policy on projects:read.
type teamStore struct {
	members   map[int64]struct{}
	readScope authz.PermissionValue
	scoped    bool
}

func (s teamStore) FindUserOverride(context.Context, int64, int64, authz.Resource, authz.Action) (bool, bool, error) {
	return false, false, nil
}

func (s teamStore) FindDepartmentOverride(_ context.Context, _ int64, _ string, resource authz.Resource, action authz.Action) (authz.PermissionValue, bool, error) {
	if s.scoped && resource == authz.ResourceProjects && action == authz.ActionRead {
		return s.readScope, true, nil
	}
	return authz.Denied, false, nil
}

func (s teamStore) FindTeamMembers(context.Context, int64, int64) (map[int64]struct{}, error) {
	return s.members, nil
}

func (s teamStore) FindTenantSettings(context.Context, int64) (authz.TenantSettings, bool, error) {
	return authz.TenantSettings{}, false, nil
}

func newTestService(members ...int64) (*Service, *memoryRepo) {
	repo := newMemoryRepo()
	team := make(map[int64]struct{}, len(members))
	for _, member := range members {
		team[member] = struct{}{}
	}
	resolver := authz.NewResolver(teamStore{members: team}, nil, nil)
	return NewService(repo, resolver), repo
}

func newScopedReadService(scope authz.PermissionValue, members ...int64) (*Service, *memoryRepo) {
	repo := newMemoryRepo()
	team := make(map[int64]struct{}, len(members))
	for _, member := range members {
		team[member] = struct{}{}
	}
	resolver := authz.NewResolver(teamStore{members: team, readScope: scope, scoped: true}, nil, nil)
	return NewService(repo, resolver), repo
}

func TestScopedReadPolicyNarrowsList(t *testing.T) {
	svc, repo := newScopedReadService(authz.ScopedOwn)
	repo.byID[1] = &Project{ID: 1, TenantID: 1, Name: "Mine", OwnerID: 9, Status: StatusActive}
	repo.byID[2] = &Project{ID: 2, TenantID: 1, Name: "Theirs", OwnerID: 8, Status: StatusActive}
	worker := authz.Identity{UserID: 9, TenantID: 1, Role: authz.RoleWorker, Department: "ops"}

	projects, err := svc.List(context.Background(), worker, ListFilters{})
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, int64(9), projects[0].OwnerID)
}

func TestScopedReadPolicyBlocksForeignGet(t *testing.T) {
	svc, repo := newScopedReadService(authz.ScopedOwn)
	repo.byID[1] = &Project{ID: 1, TenantID: 1, Name: "Mine", OwnerID: 9, Status: StatusActive}
	repo.byID[2] = &Project{ID: 2, TenantID: 1, Name: "Theirs", OwnerID: 8, Status: StatusActive}
	worker := authz.Identity{UserID: 9, TenantID: 1, Role: authz.RoleWorker, Department: "ops"}

	project, err := svc.Get(context.Background(), worker, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(9), project.OwnerID)

	_, err = svc.Get(context.Background(), worker, 2)
	require.Error(t, err)
	var denial *authz.DenialError
	require.ErrorAs(t, err, &denial)
	assert.Equal(t, authz.ReasonScopeViolation, denial.Reason)
}

func TestUnscopedReadListsEverything(t *testing.T) {
	svc, repo := newTestService()
	repo.byID[1] = &Project{ID: 1, TenantID: 1, Name: "Mine", OwnerID: 9, Status: StatusActive}
	repo.byID[2] = &Project{ID: 2, TenantID: 1, Name: "Theirs", OwnerID: 8, Status: StatusActive}
	worker := authz.Identity{UserID: 9, TenantID: 1, Role: authz.RoleWorker}

	projects, err := svc.List(context.Background(), worker, ListFilters{})
	require.NoError(t, err)
	assert.Len(t, projects, 2)
}

func TestCreateDefaultsOwnerToCaller(t *testing.T) {
	svc, _ := newTestService()
	manager := authz.Identity{UserID: 3, TenantID: 1, Role: authz.RoleManager}

	project, err := svc.Create(context.Background(), manager, CreateInput{Name: "Relaunch"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), project.OwnerID)
	assert.Equal(t, StatusActive, project.Status)
}

func TestManagerUpdatesTeamProject(t *testing.T) {
	svc, repo := newTestService(7)
	repo.byID[1] = &Project{ID: 1, TenantID: 1, Name: "Relaunch", OwnerID: 7, Status: StatusActive}
	manager := authz.Identity{UserID: 3, TenantID: 1, Role: authz.RoleManager}

	name := "Relaunch v2"
	project, err := svc.Update(context.Background(), manager, 1, UpdateInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Relaunch v2", project.Name)
}

func TestManagerCannotUpdateForeignProject(t *testing.T) {
	svc, repo := newTestService(7)
	repo.byID[1] = &Project{ID: 1, TenantID: 1, Name: "Relaunch", OwnerID: 99, Status: StatusActive}
	manager := authz.Identity{UserID: 3, TenantID: 1, Role: authz.RoleManager}

	name := "Hijack"
	_, err := svc.Update(context.Background(), manager, 1, UpdateInput{Name: &name})
	require.Error(t, err)
	var denial *authz.DenialError
	require.ErrorAs(t, err, &denial)
	assert.Equal(t, authz.ReasonScopeViolation, denial.Reason)
}

func TestWorkerCannotDeleteProject(t *testing.T) {
	svc, repo := newTestService(9)
	repo.byID[1] = &Project{ID: 1, TenantID: 1, Name: "Relaunch", OwnerID: 9, Status: StatusActive}
	worker := authz.Identity{UserID: 9, TenantID: 1, Role: authz.RoleWorker}

	err := svc.Delete(context.Background(), worker, 1)
	require.Error(t, err)
	assert.True(t, authz.IsDenied(err))
	assert.Contains(t, repo.byID, int64(1))
}
