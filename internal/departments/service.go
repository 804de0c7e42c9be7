package departments

import (
	"context"
	"fmt"

	"github.com/praxis-suite/praxis/internal/authz"
	"github.com/praxis-suite/praxis/internal/platform/httpx"
)

// Service validates and stores department policies.
type Service struct {
	repo Repository
}

// NewService constructs the service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns the tenant's department policies.
func (s *Service) List(ctx context.Context, id authz.Identity, department string) ([]Policy, error) {
	return s.repo.List(ctx, id.TenantID, department)
}

// Upsert validates the rule against the engine vocabulary before it is
// stored; a row the engine cannot parse would silently resolve to
// Denied at check time.
func (s *Service) Upsert(ctx context.Context, id authz.Identity, input PolicyInput) (*Policy, error) {
	resource, err := authz.ParseResource(input.Resource)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}
	action, err := authz.ParseAction(input.Action)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}
	value, err := authz.ParsePermissionValue(input.Value)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}
	input.Resource = string(resource)
	input.Action = string(action)
	input.Value = value.String()
	return s.repo.Upsert(ctx, id.TenantID, input)
}

// Delete removes a policy row.
func (s *Service) Delete(ctx context.Context, id authz.Identity, policyID int64) error {
	return s.repo.Delete(ctx, id.TenantID, policyID)
}
