package tenants

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxis-suite/praxis/internal/authz"
)

type memoryRepo struct {
	stored map[int64]*Settings
}

func (r *memoryRepo) FindSettings(_ context.Context, tenantID int64) (*Settings, error) {
	if settings, ok := r.stored[tenantID]; ok {
		copied := *settings
		return &copied, nil
	}
	return &Settings{
		TenantID:                 tenantID,
		AllowAdminUserCreate:     true,
		AllowAdminUserDelete:     true,
		AllowAdminInvoiceApprove: true,
		AllowAdminSettingsUpdate: true,
	}, nil
}

func (r *memoryRepo) UpsertSettings(_ context.Context, settings Settings) (*Settings, error) {
	if r.stored == nil {
		r.stored = make(map[int64]*Settings)
	}
	copied := settings
	r.stored[settings.TenantID] = &copied
	result := settings
	return &result, nil
}

type captureInvalidator struct {
	tenants []int64
}

func (c *captureInvalidator) Invalidate(_ context.Context, tenantID int64) {
	c.tenants = append(c.tenants, tenantID)
}

func TestGetDefaultsWhenMissing(t *testing.T) {
	svc := NewService(&memoryRepo{}, nil)
	admin := authz.Identity{UserID: 1, TenantID: 7, Role: authz.RoleAdmin}

	settings, err := svc.Get(context.Background(), admin)
	require.NoError(t, err)
	assert.True(t, settings.AllowAdminUserCreate)
	assert.True(t, settings.AllowAdminInvoiceApprove)
	assert.Empty(t, settings.EnabledModules)
}

func TestUpdateInvalidatesCache(t *testing.T) {
	invalidator := &captureInvalidator{}
	svc := NewService(&memoryRepo{}, invalidator)
	admin := authz.Identity{UserID: 1, TenantID: 7, Role: authz.RoleAdmin}

	off := false
	settings, err := svc.Update(context.Background(), admin, UpdateInput{AllowAdminUserDelete: &off})
	require.NoError(t, err)
	assert.False(t, settings.AllowAdminUserDelete)
	assert.True(t, settings.AllowAdminUserCreate, "untouched flags keep their value")
	assert.Equal(t, []int64{7}, invalidator.tenants)
}

func TestUpdateRejectsUnknownModule(t *testing.T) {
	svc := NewService(&memoryRepo{}, nil)
	admin := authz.Identity{UserID: 1, TenantID: 7, Role: authz.RoleAdmin}

	modules := []string{"projects", "crystal-ball"}
	_, err := svc.Update(context.Background(), admin, UpdateInput{EnabledModules: &modules})
	require.Error(t, err)
}

func TestUpdateSetsModules(t *testing.T) {
	svc := NewService(&memoryRepo{}, nil)
	admin := authz.Identity{UserID: 1, TenantID: 7, Role: authz.RoleAdmin}

	modules := []string{"projects", "invoicing"}
	settings, err := svc.Update(context.Background(), admin, UpdateInput{EnabledModules: &modules})
	require.NoError(t, err)
	assert.Equal(t, modules, settings.EnabledModules)
}
