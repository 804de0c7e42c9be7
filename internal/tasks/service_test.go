package tasks

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
	byID   map[int64]*Task
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{nextID: 1, byID: make(map[int64]*Task)}
}

func (r *memoryRepo) List(_ context.Context, tenantID int64, filters ListFilters) ([]Task, error) {
	allowed := map[int64]struct{}{}
	for _, assignee := range filters.AssigneeIDs {
		allowed[assignee] = struct{}{}
	}
	var rows []Task
	for _, task := range r.byID {
		if task.TenantID != tenantID {
			continue
		}
		if filters.Status != "" && task.Status != filters.Status {
			continue
		}
		if filters.AssigneeIDs != nil {
			if _, ok := allowed[task.AssigneeID]; !ok {
				continue
			}
		}
		rows = append(rows, *task)
	}
	return rows, nil
}

func (r *memoryRepo) FindByID(_ context.Context, tenantID, id int64) (*Task, error) {
	task, ok := r.byID[id]
	if !ok || task.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	copied := *task
	return &copied, nil
}

func (r *memoryRepo) Insert(_ context.Context, task Task) (*Task, error) {
	task.ID = r.nextID
	r.byID[task.ID] = &task
	r.nextID++
	copied := task
	return &copied, nil
}

func (r *memoryRepo) Update(_ context.Context, tenantID, id int64, input UpdateInput) (*Task, error) {
	task, ok := r.byID[id]
	if !ok || task.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Status != nil {
		task.Status = *input.Status
	}
	copied := *task
	return &copied, nil
}

func (r *memoryRepo) SetStatus(_ context.Context, tenantID, id int64, status string) (*Task, error) {
	task, ok := r.byID[id]
	if !ok || task.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	task.Status = status
	copied := *task
	return &copied, nil
}

func (r *memoryRepo) Delete(_ context.Context, tenantID, id int64) error {
	task, ok := r.byID[id]
	if !ok || task.TenantID != tenantID {
		return shared.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

// teamStore exposes a fixed team for the manager under test. A read
// scope, when set, is served as a department policy on tasks:read.
type teamStore struct {
	team      map[int64]struct{}
	readScope authz.PermissionValue
	scoped    bool
}

func (s teamStore) FindUserOverride(context.Context, int64, int64, authz.Resource, authz.Action) (bool, bool, error) {
	return false, false, nil
}

func (s teamStore) FindDepartmentOverride(_ context.Context, _ int64, _ string, resource authz.Resource, action authz.Action) (authz.PermissionValue, bool, error) {
	if s.scoped && resource == authz.ResourceTasks && action == authz.ActionRead {
		return s.readScope, true, nil
	}
	return authz.Denied, false, nil
}

func (s teamStore) FindTeamMembers(context.Context, int64, int64) (map[int64]struct{}, error) {
	return s.team, nil
}

func (s teamStore) FindTenantSettings(context.Context, int64) (authz.TenantSettings, bool, error) {
	return authz.TenantSettings{}, false, nil
}

func newTestService(team map[int64]struct{}) (*Service, *memoryRepo) {
	repo := newMemoryRepo()
	resolver := authz.NewResolver(teamStore{team: team}, nil, nil)
	return NewService(repo, resolver), repo
}

func newScopedReadService(team map[int64]struct{}, scope authz.PermissionValue) (*Service, *memoryRepo) {
	repo := newMemoryRepo()
	resolver := authz.NewResolver(teamStore{team: team, readScope: scope, scoped: true}, nil, nil)
	return NewService(repo, resolver), repo
}

func TestWorkerUpdatesOwnTaskOnly(t *testing.T) {
	svc, repo := newTestService(nil)
	repo.byID[1] = &Task{ID: 1, TenantID: 1, ProjectID: 1, Title: "mine", AssigneeID: 9, Status: StatusOpen}
	repo.byID[2] = &Task{ID: 2, TenantID: 1, ProjectID: 1, Title: "theirs", AssigneeID: 8, Status: StatusOpen}
	worker := authz.Identity{UserID: 9, TenantID: 1, Role: authz.RoleWorker}

	title := "renamed"
	task, err := svc.Update(context.Background(), worker, 1, UpdateInput{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "renamed", task.Title)

	_, err = svc.Update(context.Background(), worker, 2, UpdateInput{Title: &title})
	require.Error(t, err)
	assert.True(t, authz.IsDenied(err))
}

func TestManagerApprovesWithinTeam(t *testing.T) {
	svc, repo := newTestService(map[int64]struct{}{9: {}})
	repo.byID[1] = &Task{ID: 1, TenantID: 1, ProjectID: 1, Title: "team", AssigneeID: 9, Status: StatusDone}
	repo.byID[2] = &Task{ID: 2, TenantID: 1, ProjectID: 1, Title: "outside", AssigneeID: 30, Status: StatusDone}
	manager := authz.Identity{UserID: 11, TenantID: 1, Role: authz.RoleManager}

	task, err := svc.Approve(context.Background(), manager, 1)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, task.Status)

	_, err = svc.Approve(context.Background(), manager, 2)
	require.Error(t, err)
	assert.True(t, authz.IsDenied(err))
}

func TestApproveRequiresDoneStatus(t *testing.T) {
	svc, repo := newTestService(nil)
	repo.byID[1] = &Task{ID: 1, TenantID: 1, ProjectID: 1, Title: "open", AssigneeID: 9, Status: StatusOpen}
	admin := authz.Identity{UserID: 1, TenantID: 1, Role: authz.RoleAdmin}

	_, err := svc.Approve(context.Background(), admin, 1)
	require.Error(t, err)
	assert.False(t, authz.IsDenied(err), "status rule is validation, not authorization")
}

func TestApprovedTasksAreFrozen(t *testing.T) {
	svc, repo := newTestService(nil)
	repo.byID[1] = &Task{ID: 1, TenantID: 1, ProjectID: 1, Title: "sealed", AssigneeID: 9, Status: StatusApproved}
	admin := authz.Identity{UserID: 1, TenantID: 1, Role: authz.RoleAdmin}

	title := "tamper"
	_, err := svc.Update(context.Background(), admin, 1, UpdateInput{Title: &title})
	require.Error(t, err)
}

func TestScopedReadPolicyNarrowsList(t *testing.T) {
	svc, repo := newScopedReadService(nil, authz.ScopedOwn)
	repo.byID[1] = &Task{ID: 1, TenantID: 1, ProjectID: 1, Title: "mine", AssigneeID: 9, Status: StatusOpen}
	repo.byID[2] = &Task{ID: 2, TenantID: 1, ProjectID: 1, Title: "theirs", AssigneeID: 8, Status: StatusOpen}
	worker := authz.Identity{UserID: 9, TenantID: 1, Role: authz.RoleWorker, Department: "ops"}

	tasks, err := svc.List(context.Background(), worker, ListFilters{})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, int64(9), tasks[0].AssigneeID)
}

func TestScopedReadPolicyBlocksForeignGet(t *testing.T) {
	svc, repo := newScopedReadService(nil, authz.ScopedOwn)
	repo.byID[1] = &Task{ID: 1, TenantID: 1, ProjectID: 1, Title: "mine", AssigneeID: 9, Status: StatusOpen}
	repo.byID[2] = &Task{ID: 2, TenantID: 1, ProjectID: 1, Title: "theirs", AssigneeID: 8, Status: StatusOpen}
	worker := authz.Identity{UserID: 9, TenantID: 1, Role: authz.RoleWorker, Department: "ops"}

	task, err := svc.Get(context.Background(), worker, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(9), task.AssigneeID)

	_, err = svc.Get(context.Background(), worker, 2)
	require.Error(t, err)
	var denial *authz.DenialError
	require.ErrorAs(t, err, &denial)
	assert.Equal(t, authz.ReasonScopeViolation, denial.Reason)
}

func TestTeamScopedReadPolicyFollowsTeam(t *testing.T) {
	svc, repo := newScopedReadService(map[int64]struct{}{8: {}}, authz.ScopedTeam)
	repo.byID[1] = &Task{ID: 1, TenantID: 1, ProjectID: 1, Title: "teammate", AssigneeID: 8, Status: StatusOpen}
	repo.byID[2] = &Task{ID: 2, TenantID: 1, ProjectID: 1, Title: "outsider", AssigneeID: 30, Status: StatusOpen}
	worker := authz.Identity{UserID: 9, TenantID: 1, Role: authz.RoleWorker, Department: "ops"}

	task, err := svc.Get(context.Background(), worker, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(8), task.AssigneeID)

	_, err = svc.Get(context.Background(), worker, 2)
	require.Error(t, err)
	assert.True(t, authz.IsDenied(err))
}

func TestUnscopedReadListsEverything(t *testing.T) {
	svc, repo := newTestService(nil)
	repo.byID[1] = &Task{ID: 1, TenantID: 1, ProjectID: 1, Title: "mine", AssigneeID: 9, Status: StatusOpen}
	repo.byID[2] = &Task{ID: 2, TenantID: 1, ProjectID: 1, Title: "theirs", AssigneeID: 8, Status: StatusOpen}
	worker := authz.Identity{UserID: 9, TenantID: 1, Role: authz.RoleWorker}

	tasks, err := svc.List(context.Background(), worker, ListFilters{})
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
}

func TestCreateDefaultsAssigneeToCaller(t *testing.T) {
	svc, _ := newTestService(nil)
	worker := authz.Identity{UserID: 9, TenantID: 1, Role: authz.RoleWorker}

	task, err := svc.Create(context.Background(), worker, CreateInput{ProjectID: 3, Title: "new work"})
	require.NoError(t, err)
	assert.Equal(t, int64(9), task.AssigneeID)
	assert.Equal(t, StatusOpen, task.Status)
}
