package tasks

import (
	"context"
	"fmt"

	"github.com/praxis-suite/praxis/internal/authz"
	"github.com/praxis-suite/praxis/internal/platform/httpx"
)

// Service wraps task rules on top of the permission engine.
type Service struct {
	repo     Repository
	resolver *authz.Resolver
}

// NewService constructs the service.
func NewService(repo Repository, resolver *authz.Resolver) *Service {
	return &Service{repo: repo, resolver: resolver}
}

// List returns tenant tasks, narrowed by the engine's list filter. The
// matrix leaves task reads unscoped, but an override can tighten them
// to own or team at runtime.
func (s *Service) List(ctx context.Context, id authz.Identity, filters ListFilters) ([]Task, error) {
	scope, err := s.resolver.FilterForList(ctx, id, authz.ResourceTasks, authz.ActionRead)
	if err != nil {
		return nil, err
	}
	if !scope.Unrestricted {
		filters.AssigneeIDs = scope.OwnerIDs
	}
	return s.repo.List(ctx, id.TenantID, filters)
}

// Get loads one task after an assignee-scoped read check.
func (s *Service) Get(ctx context.Context, id authz.Identity, taskID int64) (*Task, error) {
	task, err := s.repo.FindByID(ctx, id.TenantID, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.resolver.Assert(ctx, id, authz.ResourceTasks, authz.ActionRead, authz.WithOwner(task.AssigneeID)); err != nil {
		return nil, err
	}
	return task, nil
}

// Create registers a task. An omitted assignee defaults to the caller.
func (s *Service) Create(ctx context.Context, id authz.Identity, input CreateInput) (*Task, error) {
	assigneeID := input.AssigneeID
	if assigneeID == 0 {
		assigneeID = id.UserID
	}
	return s.repo.Insert(ctx, Task{
		TenantID:    id.TenantID,
		ProjectID:   input.ProjectID,
		Title:       input.Title,
		Description: input.Description,
		AssigneeID:  assigneeID,
		Status:      StatusOpen,
		DueDate:     input.DueDate,
	})
}

// Update applies changes after an assignee-scoped check.
func (s *Service) Update(ctx context.Context, id authz.Identity, taskID int64, input UpdateInput) (*Task, error) {
	task, err := s.repo.FindByID(ctx, id.TenantID, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.resolver.Assert(ctx, id, authz.ResourceTasks, authz.ActionUpdate, authz.WithOwner(task.AssigneeID)); err != nil {
		return nil, err
	}
	if task.Status == StatusApproved {
		return nil, fmt.Errorf("%w: approved tasks are frozen", httpx.ErrValidation)
	}
	return s.repo.Update(ctx, id.TenantID, taskID, input)
}

// Approve marks a finished task approved after a scoped check against
// the assignee.
func (s *Service) Approve(ctx context.Context, id authz.Identity, taskID int64) (*Task, error) {
	task, err := s.repo.FindByID(ctx, id.TenantID, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.resolver.Assert(ctx, id, authz.ResourceTasks, authz.ActionApprove, authz.WithOwner(task.AssigneeID)); err != nil {
		return nil, err
	}
	if task.Status != StatusDone {
		return nil, fmt.Errorf("%w: only done tasks can be approved", httpx.ErrValidation)
	}
	return s.repo.SetStatus(ctx, id.TenantID, taskID, StatusApproved)
}

// Delete removes a task after an assignee-scoped check.
func (s *Service) Delete(ctx context.Context, id authz.Identity, taskID int64) error {
	task, err := s.repo.FindByID(ctx, id.TenantID, taskID)
	if err != nil {
		return err
	}
	if err := s.resolver.Assert(ctx, id, authz.ResourceTasks, authz.ActionDelete, authz.WithOwner(task.AssigneeID)); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id.TenantID, taskID)
}
