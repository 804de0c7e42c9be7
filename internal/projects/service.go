package projects

import (
	"context"

	"github.com/praxis-suite/praxis/internal/authz"
)

// Service wraps project rules on top of the permission engine.
type Service struct {
	repo     Repository
	resolver *authz.Resolver
}

// NewService constructs the service.
func NewService(repo Repository, resolver *authz.Resolver) *Service {
	return &Service{repo: repo, resolver: resolver}
}

// List returns tenant projects, narrowed by the engine's list filter.
// Project reads start unscoped, but an override can tighten them to
// own or team at runtime.
func (s *Service) List(ctx context.Context, id authz.Identity, filters ListFilters) ([]Project, error) {
	scope, err := s.resolver.FilterForList(ctx, id, authz.ResourceProjects, authz.ActionRead)
	if err != nil {
		return nil, err
	}
	if !scope.Unrestricted {
		filters.OwnerIDs = scope.OwnerIDs
	}
	return s.repo.List(ctx, id.TenantID, filters)
}

// Get loads one project after an owner-scoped read check.
func (s *Service) Get(ctx context.Context, id authz.Identity, projectID int64) (*Project, error) {
	project, err := s.repo.FindByID(ctx, id.TenantID, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.resolver.Assert(ctx, id, authz.ResourceProjects, authz.ActionRead, authz.WithOwner(project.OwnerID)); err != nil {
		return nil, err
	}
	return project, nil
}

// Create registers a project. An omitted owner defaults to the caller.
func (s *Service) Create(ctx context.Context, id authz.Identity, input CreateInput) (*Project, error) {
	ownerID := input.OwnerID
	if ownerID == 0 {
		ownerID = id.UserID
	}
	return s.repo.Insert(ctx, Project{
		TenantID:    id.TenantID,
		Name:        input.Name,
		Description: input.Description,
		OwnerID:     ownerID,
		Status:      StatusActive,
	})
}

// Update applies changes after an owner-scoped check.
func (s *Service) Update(ctx context.Context, id authz.Identity, projectID int64, input UpdateInput) (*Project, error) {
	project, err := s.repo.FindByID(ctx, id.TenantID, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.resolver.Assert(ctx, id, authz.ResourceProjects, authz.ActionUpdate, authz.WithOwner(project.OwnerID)); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id.TenantID, projectID, input)
}

// Delete removes a project after an owner-scoped check.
func (s *Service) Delete(ctx context.Context, id authz.Identity, projectID int64) error {
	project, err := s.repo.FindByID(ctx, id.TenantID, projectID)
	if err != nil {
		return err
	}
	if err := s.resolver.Assert(ctx, id, authz.ResourceProjects, authz.ActionDelete, authz.WithOwner(project.OwnerID)); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id.TenantID, projectID)
}
