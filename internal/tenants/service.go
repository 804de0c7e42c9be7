package tenants

import (
	"context"
	"fmt"

	"github.com/praxis-suite/praxis/internal/authz"
	"github.com/praxis-suite/praxis/internal/platform/httpx"
)

// SettingsInvalidator drops cached tenant settings after a write. The
// policy cache TTL would converge anyway; invalidation makes the change
// visible to the next permission check.
type SettingsInvalidator interface {
	Invalidate(ctx context.Context, tenantID int64)
}

// knownModules are the feature modules a tenant can toggle.
var knownModules = map[string]struct{}{
	"projects":   {},
	"timesheets": {},
	"invoicing":  {},
}

// Service wraps tenant settings rules.
type Service struct {
	repo        Repository
	invalidator SettingsInvalidator
}

// NewService constructs the service.
func NewService(repo Repository, invalidator SettingsInvalidator) *Service {
	return &Service{repo: repo, invalidator: invalidator}
}

// Get returns the caller tenant's settings.
func (s *Service) Get(ctx context.Context, id authz.Identity) (*Settings, error) {
	return s.repo.FindSettings(ctx, id.TenantID)
}

// Update applies partial changes and invalidates the policy cache. The
// route guard has already run the veto-gated settings:update check.
func (s *Service) Update(ctx context.Context, id authz.Identity, input UpdateInput) (*Settings, error) {
	current, err := s.repo.FindSettings(ctx, id.TenantID)
	if err != nil {
		return nil, err
	}
	if input.AllowAdminUserCreate != nil {
		current.AllowAdminUserCreate = *input.AllowAdminUserCreate
	}
	if input.AllowAdminUserDelete != nil {
		current.AllowAdminUserDelete = *input.AllowAdminUserDelete
	}
	if input.AllowAdminInvoiceApprove != nil {
		current.AllowAdminInvoiceApprove = *input.AllowAdminInvoiceApprove
	}
	if input.AllowAdminSettingsUpdate != nil {
		current.AllowAdminSettingsUpdate = *input.AllowAdminSettingsUpdate
	}
	if input.EnabledModules != nil {
		for _, module := range *input.EnabledModules {
			if _, ok := knownModules[module]; !ok {
				return nil, fmt.Errorf("%w: unknown module %q", httpx.ErrValidation, module)
			}
		}
		current.EnabledModules = *input.EnabledModules
	}

	stored, err := s.repo.UpsertSettings(ctx, *current)
	if err != nil {
		return nil, err
	}
	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx, id.TenantID)
	}
	return stored, nil
}
