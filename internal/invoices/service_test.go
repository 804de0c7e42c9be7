package invoices

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
	byID   map[int64]*Invoice
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{nextID: 1, byID: make(map[int64]*Invoice)}
}

func (r *memoryRepo) List(_ context.Context, tenantID int64, filters ListFilters) ([]Invoice, error) {
	allowed := map[int64]struct{}{}
	for _, owner := range filters.OwnerIDs {
		allowed[owner] = struct{}{}
	}
	var rows []Invoice
	for _, invoice := range r.byID {
		if invoice.TenantID != tenantID {
			continue
		}
		if filters.OwnerIDs != nil {
			if _, ok := allowed[invoice.OwnerID]; !ok {
				continue
			}
		}
		rows = append(rows, *invoice)
	}
	return rows, nil
}

func (r *memoryRepo) FindByID(_ context.Context, tenantID, id int64) (*Invoice, error) {
	invoice, ok := r.byID[id]
	if !ok || invoice.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	copied := *invoice
	return &copied, nil
}

func (r *memoryRepo) Insert(_ context.Context, invoice Invoice) (*Invoice, error) {
	invoice.ID = r.nextID
	r.byID[invoice.ID] = &invoice
	r.nextID++
	copied := invoice
	return &copied, nil
}

func (r *memoryRepo) Update(_ context.Context, tenantID, id int64, input UpdateInput) (*Invoice, error) {
	invoice, ok := r.byID[id]
	if !ok || invoice.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	if input.Amount != nil {
		invoice.Amount = *input.Amount
	}
	copied := *invoice
	return &copied, nil
}

func (r *memoryRepo) SetStatus(_ context.Context, tenantID, id int64, status string, approvedBy *int64) (*Invoice, error) {
	invoice, ok := r.byID[id]
	if !ok || invoice.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	invoice.Status = status
	invoice.ApprovedBy = approvedBy
	copied := *invoice
	return &copied, nil
}

// vetoStore serves tenant settings with invoice approval vetoed.
type vetoStore struct {
	vetoApprove bool
}

func (s vetoStore) FindUserOverride(context.Context, int64, int64, authz.Resource, authz.Action) (bool, bool, error) {
	return false, false, nil
}

func (s vetoStore) FindDepartmentOverride(context.Context, int64, string, authz.Resource, authz.Action) (authz.PermissionValue, bool, error) {
	return authz.Denied, false, nil
}

func (s vetoStore) FindTeamMembers(context.Context, int64, int64) (map[int64]struct{}, error) {
	return map[int64]struct{}{}, nil
}

func (s vetoStore) FindTenantSettings(context.Context, int64) (authz.TenantSettings, bool, error) {
	return authz.TenantSettings{
		TenantID:                 1,
		AllowAdminUserCreate:     true,
		AllowAdminUserDelete:     true,
		AllowAdminInvoiceApprove: !s.vetoApprove,
		AllowAdminSettingsUpdate: true,
	}, true, nil
}

type memoryIdempotency struct {
	seen map[string]struct{}
}

func (g *memoryIdempotency) CheckAndInsert(_ context.Context, key, _ string) error {
	if g.seen == nil {
		g.seen = make(map[string]struct{})
	}
	if _, ok := g.seen[key]; ok {
		return shared.ErrIdempotencyConflict
	}
	g.seen[key] = struct{}{}
	return nil
}

func newTestService(vetoApprove bool) (*Service, *memoryRepo, *memoryIdempotency) {
	repo := newMemoryRepo()
	guard := &memoryIdempotency{}
	resolver := authz.NewResolver(vetoStore{vetoApprove: vetoApprove}, nil, nil)
	return NewService(repo, resolver, guard), repo, guard
}

func TestApproveVetoBlocksAdmin(t *testing.T) {
	svc, repo, _ := newTestService(true)
	repo.byID[1] = &Invoice{ID: 1, TenantID: 1, ProjectID: 1, OwnerID: 9, Number: "INV-001", Amount: 100, Currency: "EUR", Status: StatusSubmitted}
	admin := authz.Identity{UserID: 1, TenantID: 1, Role: authz.RoleAdmin}

	_, err := svc.Approve(context.Background(), admin, 1, "")
	require.Error(t, err)
	var denial *authz.DenialError
	require.ErrorAs(t, err, &denial)
	assert.Equal(t, authz.ReasonVetoRestricted, denial.Reason)
}

func TestApproveVetoDoesNotBindSuperadmin(t *testing.T) {
	svc, repo, _ := newTestService(true)
	repo.byID[1] = &Invoice{ID: 1, TenantID: 1, ProjectID: 1, OwnerID: 9, Number: "INV-001", Amount: 100, Currency: "EUR", Status: StatusSubmitted}
	root := authz.Identity{UserID: 2, TenantID: 1, Role: authz.RoleSuperadmin}

	invoice, err := svc.Approve(context.Background(), root, 1, "")
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, invoice.Status)
	require.NotNil(t, invoice.ApprovedBy)
	assert.Equal(t, int64(2), *invoice.ApprovedBy)
}

func TestApproveWithOpenVeto(t *testing.T) {
	svc, repo, _ := newTestService(false)
	repo.byID[1] = &Invoice{ID: 1, TenantID: 1, ProjectID: 1, OwnerID: 9, Number: "INV-001", Amount: 100, Currency: "EUR", Status: StatusSubmitted}
	admin := authz.Identity{UserID: 1, TenantID: 1, Role: authz.RoleAdmin}

	invoice, err := svc.Approve(context.Background(), admin, 1, "")
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, invoice.Status)
}

func TestApproveIdempotencyConflict(t *testing.T) {
	svc, repo, _ := newTestService(false)
	repo.byID[1] = &Invoice{ID: 1, TenantID: 1, ProjectID: 1, OwnerID: 9, Number: "INV-001", Amount: 100, Currency: "EUR", Status: StatusSubmitted}
	repo.byID[2] = &Invoice{ID: 2, TenantID: 1, ProjectID: 1, OwnerID: 9, Number: "INV-002", Amount: 50, Currency: "EUR", Status: StatusSubmitted}
	admin := authz.Identity{UserID: 1, TenantID: 1, Role: authz.RoleAdmin}

	_, err := svc.Approve(context.Background(), admin, 1, "key-1")
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), admin, 2, "key-1")
	require.ErrorIs(t, err, shared.ErrIdempotencyConflict)
}

func TestSubmitRequiresDraft(t *testing.T) {
	svc, repo, _ := newTestService(false)
	repo.byID[1] = &Invoice{ID: 1, TenantID: 1, ProjectID: 1, OwnerID: 9, Number: "INV-001", Amount: 100, Currency: "EUR", Status: StatusSubmitted}
	admin := authz.Identity{UserID: 1, TenantID: 1, Role: authz.RoleAdmin}

	_, err := svc.Submit(context.Background(), admin, 1, "")
	require.Error(t, err)
	assert.False(t, authz.IsDenied(err))
}

func TestGetForExportDeniedForWorker(t *testing.T) {
	svc, repo, _ := newTestService(false)
	repo.byID[1] = &Invoice{ID: 1, TenantID: 1, ProjectID: 1, OwnerID: 9, Number: "INV-001", Amount: 100, Currency: "EUR", Status: StatusApproved}
	worker := authz.Identity{UserID: 9, TenantID: 1, Role: authz.RoleWorker}

	_, err := svc.GetForExport(context.Background(), worker, 1)
	require.Error(t, err)
	assert.True(t, authz.IsDenied(err))
}

func TestGetForExportAllowedForManager(t *testing.T) {
	svc, repo, _ := newTestService(false)
	repo.byID[1] = &Invoice{ID: 1, TenantID: 1, ProjectID: 1, OwnerID: 9, Number: "INV-001", Amount: 100, Currency: "EUR", Status: StatusApproved}
	manager := authz.Identity{UserID: 3, TenantID: 1, Role: authz.RoleManager}

	invoice, err := svc.GetForExport(context.Background(), manager, 1)
	require.NoError(t, err)
	assert.Equal(t, "INV-001", invoice.Number)
}

func TestListScopesWorkerToOwnInvoices(t *testing.T) {
	svc, repo, _ := newTestService(false)
	repo.byID[1] = &Invoice{ID: 1, TenantID: 1, ProjectID: 1, OwnerID: 9, Number: "INV-001", Amount: 100, Currency: "EUR", Status: StatusDraft}
	repo.byID[2] = &Invoice{ID: 2, TenantID: 1, ProjectID: 1, OwnerID: 10, Number: "INV-002", Amount: 50, Currency: "EUR", Status: StatusDraft}
	worker := authz.Identity{UserID: 9, TenantID: 1, Role: authz.RoleWorker}

	invoices, err := svc.List(context.Background(), worker, ListFilters{})
	require.NoError(t, err)
	require.Len(t, invoices, 1)
	assert.Equal(t, int64(9), invoices[0].OwnerID)
}
