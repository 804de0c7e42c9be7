package permissions

import (
	"context"
	"fmt"

	"github.com/praxis-suite/praxis/internal/authz"
	"github.com/praxis-suite/praxis/internal/departments"
	"github.com/praxis-suite/praxis/internal/platform/httpx"
	"github.com/praxis-suite/praxis/internal/users"
)

// UserDirectory resolves a stored account into the identity the engine
// evaluates.
type UserDirectory interface {
	FindIdentity(ctx context.Context, tenantID, userID int64) (authz.Identity, error)
}

// usersDirectory adapts the users repository.
type usersDirectory struct {
	repo users.Repository
}

// NewUsersDirectory builds a UserDirectory over the users repository.
func NewUsersDirectory(repo users.Repository) UserDirectory {
	return usersDirectory{repo: repo}
}

func (d usersDirectory) FindIdentity(ctx context.Context, tenantID, userID int64) (authz.Identity, error) {
	user, err := d.repo.FindByID(ctx, tenantID, userID)
	if err != nil {
		return authz.Identity{}, err
	}
	role, err := authz.ParseRole(user.Role)
	if err != nil {
		return authz.Identity{}, err
	}
	return authz.Identity{
		UserID:     user.ID,
		TenantID:   user.TenantID,
		Role:       role,
		Department: user.Department,
	}, nil
}

// PolicyReader lists a department's policy rows, the middle tier of
// the cascade.
type PolicyReader interface {
	List(ctx context.Context, tenantID int64, department string) ([]departments.Policy, error)
}

// Service manages per-user overrides and effective-permission listings.
type Service struct {
	repo      Repository
	directory UserDirectory
	policies  PolicyReader
}

// NewService constructs the service.
func NewService(repo Repository, directory UserDirectory, policies PolicyReader) *Service {
	return &Service{repo: repo, directory: directory, policies: policies}
}

// ListForUser returns the raw override rows for one user.
func (s *Service) ListForUser(ctx context.Context, id authz.Identity, userID int64) ([]Override, error) {
	return s.repo.ListForUser(ctx, id.TenantID, userID)
}

// Upsert validates and stores an override.
func (s *Service) Upsert(ctx context.Context, id authz.Identity, input OverrideInput) (*Override, error) {
	resource, err := authz.ParseResource(input.Resource)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}
	action, err := authz.ParseAction(input.Action)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}
	// The target must exist in the tenant; orphan overrides are noise
	// the engine would consult forever.
	if _, err := s.directory.FindIdentity(ctx, id.TenantID, input.UserID); err != nil {
		return nil, err
	}
	input.Resource = string(resource)
	input.Action = string(action)
	return s.repo.Upsert(ctx, id.TenantID, input)
}

// Delete removes an override row.
func (s *Service) Delete(ctx context.Context, id authz.Identity, overrideID int64) error {
	return s.repo.Delete(ctx, id.TenantID, overrideID)
}

type gridKey struct {
	resource authz.Resource
	action   authz.Action
}

// Effective resolves the full (resource, action) grid for a user. The
// user's override rows and the department's policy rows are fetched
// once each, then every cell goes through the same cascade enforcement
// applies.
func (s *Service) Effective(ctx context.Context, id authz.Identity, userID int64) ([]EffectiveEntry, error) {
	target, err := s.directory.FindIdentity(ctx, id.TenantID, userID)
	if err != nil {
		return nil, err
	}

	userLayer := make(map[gridKey]bool)
	deptLayer := make(map[gridKey]authz.PermissionValue)
	if target.Role != authz.RoleSuperadmin {
		rows, err := s.repo.ListForUser(ctx, id.TenantID, userID)
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			userLayer[gridKey{authz.Resource(row.Resource), authz.Action(row.Action)}] = row.Granted
		}
		if target.Department != "" {
			policies, err := s.policies.List(ctx, id.TenantID, target.Department)
			if err != nil {
				return nil, err
			}
			for _, policy := range policies {
				value, err := authz.ParsePermissionValue(policy.Value)
				if err != nil {
					return nil, err
				}
				deptLayer[gridKey{authz.Resource(policy.Resource), authz.Action(policy.Action)}] = value
			}
		}
	}

	var entries []EffectiveEntry
	for _, resource := range authz.Resources() {
		for _, action := range authz.Actions() {
			value := authz.Allowed
			if target.Role != authz.RoleSuperadmin {
				var user *bool
				if granted, ok := userLayer[gridKey{resource, action}]; ok {
					user = &granted
				}
				var dept *authz.PermissionValue
				if policy, ok := deptLayer[gridKey{resource, action}]; ok {
					dept = &policy
				}
				value = authz.EffectiveFromLayers(target.Role, resource, action, user, dept)
			}
			if value == authz.Denied {
				continue
			}
			entries = append(entries, EffectiveEntry{
				Resource: string(resource),
				Action:   string(action),
				Value:    value.String(),
			})
		}
	}
	return entries, nil
}
