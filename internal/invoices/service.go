package invoices

import (
	"context"
	"fmt"

	"github.com/praxis-suite/praxis/internal/authz"
	"github.com/praxis-suite/praxis/internal/platform/httpx"
)

// IdempotencyGuard deduplicates retried writes by request key.
type IdempotencyGuard interface {
	CheckAndInsert(ctx context.Context, key, module string) error
}

// Service wraps invoice rules on top of the permission engine.
type Service struct {
	repo        Repository
	resolver    *authz.Resolver
	idempotency IdempotencyGuard
}

// NewService constructs the service.
func NewService(repo Repository, resolver *authz.Resolver, idempotency IdempotencyGuard) *Service {
	return &Service{repo: repo, resolver: resolver, idempotency: idempotency}
}

// List returns invoices the caller may see, narrowed by the engine's
// list filter (workers resolve to own-only reads).
func (s *Service) List(ctx context.Context, id authz.Identity, filters ListFilters) ([]Invoice, error) {
	scope, err := s.resolver.FilterForList(ctx, id, authz.ResourceInvoices, authz.ActionRead)
	if err != nil {
		return nil, err
	}
	if !scope.Unrestricted {
		filters.OwnerIDs = scope.OwnerIDs
	}
	return s.repo.List(ctx, id.TenantID, filters)
}

// Get loads one invoice after an owner-scoped read check.
func (s *Service) Get(ctx context.Context, id authz.Identity, invoiceID int64) (*Invoice, error) {
	invoice, err := s.repo.FindByID(ctx, id.TenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	if err := s.resolver.Assert(ctx, id, authz.ResourceInvoices, authz.ActionRead, authz.WithOwner(invoice.OwnerID)); err != nil {
		return nil, err
	}
	return invoice, nil
}

// GetForExport loads one invoice after an owner-scoped export check.
func (s *Service) GetForExport(ctx context.Context, id authz.Identity, invoiceID int64) (*Invoice, error) {
	invoice, err := s.repo.FindByID(ctx, id.TenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	if err := s.resolver.Assert(ctx, id, authz.ResourceInvoices, authz.ActionExport, authz.WithOwner(invoice.OwnerID)); err != nil {
		return nil, err
	}
	return invoice, nil
}

// Create registers a draft invoice owned by the caller.
func (s *Service) Create(ctx context.Context, id authz.Identity, input CreateInput) (*Invoice, error) {
	return s.repo.Insert(ctx, Invoice{
		TenantID:  id.TenantID,
		ProjectID: input.ProjectID,
		OwnerID:   id.UserID,
		Number:    input.Number,
		Amount:    input.Amount,
		Currency:  input.Currency,
		Status:    StatusDraft,
	})
}

// Update changes a draft invoice after an owner-scoped check.
func (s *Service) Update(ctx context.Context, id authz.Identity, invoiceID int64, input UpdateInput) (*Invoice, error) {
	invoice, err := s.repo.FindByID(ctx, id.TenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	if err := s.resolver.Assert(ctx, id, authz.ResourceInvoices, authz.ActionUpdate, authz.WithOwner(invoice.OwnerID)); err != nil {
		return nil, err
	}
	if invoice.Status != StatusDraft {
		return nil, fmt.Errorf("%w: only draft invoices can change", httpx.ErrValidation)
	}
	return s.repo.Update(ctx, id.TenantID, invoiceID, input)
}

// Submit moves a draft to submitted, ready for approval. The
// idempotency key makes retried submissions single-shot.
func (s *Service) Submit(ctx context.Context, id authz.Identity, invoiceID int64, idempotencyKey string) (*Invoice, error) {
	invoice, err := s.repo.FindByID(ctx, id.TenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	if err := s.resolver.Assert(ctx, id, authz.ResourceInvoices, authz.ActionUpdate, authz.WithOwner(invoice.OwnerID)); err != nil {
		return nil, err
	}
	if invoice.Status != StatusDraft {
		return nil, fmt.Errorf("%w: invoice already submitted", httpx.ErrValidation)
	}
	if idempotencyKey != "" {
		if err := s.idempotency.CheckAndInsert(ctx, idempotencyKey, "invoices"); err != nil {
			return nil, err
		}
	}
	return s.repo.SetStatus(ctx, id.TenantID, invoiceID, StatusSubmitted, nil)
}

// Approve finalizes a submitted invoice. For administrators the engine
// consults the tenant veto before the matrix is even reached.
func (s *Service) Approve(ctx context.Context, id authz.Identity, invoiceID int64, idempotencyKey string) (*Invoice, error) {
	invoice, err := s.repo.FindByID(ctx, id.TenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	if err := s.resolver.Assert(ctx, id, authz.ResourceInvoices, authz.ActionApprove, authz.WithOwner(invoice.OwnerID)); err != nil {
		return nil, err
	}
	if invoice.Status != StatusSubmitted {
		return nil, fmt.Errorf("%w: only submitted invoices can be approved", httpx.ErrValidation)
	}
	if idempotencyKey != "" {
		if err := s.idempotency.CheckAndInsert(ctx, idempotencyKey, "invoices"); err != nil {
			return nil, err
		}
	}
	approver := id.UserID
	return s.repo.SetStatus(ctx, id.TenantID, invoiceID, StatusApproved, &approver)
}
