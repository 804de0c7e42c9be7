package users

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/praxis-suite/praxis/internal/authz"
	"github.com/praxis-suite/praxis/internal/platform/httpx"
)

// Service wraps account management rules on top of the permission engine.
type Service struct {
	repo     Repository
	resolver *authz.Resolver
}

// NewService constructs the service.
func NewService(repo Repository, resolver *authz.Resolver) *Service {
	return &Service{repo: repo, resolver: resolver}
}

// List returns tenant accounts, narrowed by the engine's list filter
// when the caller's read grant is scoped.
func (s *Service) List(ctx context.Context, id authz.Identity, filters ListFilters) ([]User, int, error) {
	scope, err := s.resolver.FilterForList(ctx, id, authz.ResourceUsers, authz.ActionRead)
	if err != nil {
		return nil, 0, err
	}
	if !scope.Unrestricted {
		filters.IDs = scope.OwnerIDs
	}
	if filters.PageSize <= 0 {
		filters.PageSize = 20
	}
	if filters.PageSize > 100 {
		filters.PageSize = 100
	}
	if filters.Page <= 0 {
		filters.Page = 1
	}
	return s.repo.List(ctx, id.TenantID, filters)
}

// Get loads one account after a scoped read check against the target.
func (s *Service) Get(ctx context.Context, id authz.Identity, userID int64) (*User, error) {
	target, err := s.repo.FindByID(ctx, id.TenantID, userID)
	if err != nil {
		return nil, err
	}
	if err := s.resolver.Assert(ctx, id, authz.ResourceUsers, authz.ActionRead, authz.WithOwner(target.ID)); err != nil {
		return nil, err
	}
	return target, nil
}

// Create registers a new account. The veto gate can block this for
// administrators even though their matrix row allows it.
func (s *Service) Create(ctx context.Context, id authz.Identity, input CreateInput) (*User, error) {
	role, err := authz.ParseRole(input.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown role %q", httpx.ErrValidation, input.Role)
	}
	// Only a superadmin may mint another superadmin.
	if role == authz.RoleSuperadmin && id.Role != authz.RoleSuperadmin {
		return nil, authz.Deny(authz.ResourceUsers, authz.ActionCreate, authz.ReasonPermissionDenied)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	input.Role = role.String()
	return s.repo.Insert(ctx, id.TenantID, input, string(hash))
}

// Update applies partial changes after an owner-scoped check against the
// target account.
func (s *Service) Update(ctx context.Context, id authz.Identity, userID int64, input UpdateInput) (*User, error) {
	target, err := s.repo.FindByID(ctx, id.TenantID, userID)
	if err != nil {
		return nil, err
	}
	if err := s.resolver.Assert(ctx, id, authz.ResourceUsers, authz.ActionUpdate, authz.WithOwner(target.ID)); err != nil {
		return nil, err
	}
	if input.Role != nil {
		role, err := authz.ParseRole(*input.Role)
		if err != nil {
			return nil, fmt.Errorf("%w: unknown role %q", httpx.ErrValidation, *input.Role)
		}
		if role == authz.RoleSuperadmin && id.Role != authz.RoleSuperadmin {
			return nil, authz.Deny(authz.ResourceUsers, authz.ActionUpdate, authz.ReasonPermissionDenied)
		}
		normalized := role.String()
		input.Role = &normalized
	}
	return s.repo.Update(ctx, id.TenantID, userID, input)
}

// Delete removes an account. Self-deletion is rejected outright.
func (s *Service) Delete(ctx context.Context, id authz.Identity, userID int64) error {
	if userID == id.UserID {
		return fmt.Errorf("%w: cannot delete your own account", httpx.ErrValidation)
	}
	target, err := s.repo.FindByID(ctx, id.TenantID, userID)
	if err != nil {
		return err
	}
	// Non-superadmins cannot remove a superadmin account.
	if target.Role == authz.RoleSuperadmin.String() && id.Role != authz.RoleSuperadmin {
		return authz.Deny(authz.ResourceUsers, authz.ActionDelete, authz.ReasonPermissionDenied)
	}
	return s.repo.Delete(ctx, id.TenantID, userID)
}
