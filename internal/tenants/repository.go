package tenants

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists tenant settings.
type Repository interface {
	FindSettings(ctx context.Context, tenantID int64) (*Settings, error)
	UpsertSettings(ctx context.Context, settings Settings) (*Settings, error)
}

// PostgresRepository implements Repository on pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// FindSettings loads the settings row. A missing row returns the open
// defaults: every flag true, no module restrictions.
func (r *PostgresRepository) FindSettings(ctx context.Context, tenantID int64) (*Settings, error) {
	const query = `
		SELECT tenant_id, allow_admin_user_create, allow_admin_user_delete,
		       allow_admin_invoice_approve, allow_admin_settings_update, enabled_modules
		FROM tenant_settings
		WHERE tenant_id = $1`

	var settings Settings
	err := r.pool.QueryRow(ctx, query, tenantID).Scan(
		&settings.TenantID,
		&settings.AllowAdminUserCreate,
		&settings.AllowAdminUserDelete,
		&settings.AllowAdminInvoiceApprove,
		&settings.AllowAdminSettingsUpdate,
		&settings.EnabledModules,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &Settings{
				TenantID:                 tenantID,
				AllowAdminUserCreate:     true,
				AllowAdminUserDelete:     true,
				AllowAdminInvoiceApprove: true,
				AllowAdminSettingsUpdate: true,
			}, nil
		}
		return nil, err
	}
	return &settings, nil
}

// UpsertSettings writes the full settings row.
func (r *PostgresRepository) UpsertSettings(ctx context.Context, settings Settings) (*Settings, error) {
	const query = `
		INSERT INTO tenant_settings
			(tenant_id, allow_admin_user_create, allow_admin_user_delete,
			 allow_admin_invoice_approve, allow_admin_settings_update, enabled_modules, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (tenant_id) DO UPDATE SET
			allow_admin_user_create     = EXCLUDED.allow_admin_user_create,
			allow_admin_user_delete     = EXCLUDED.allow_admin_user_delete,
			allow_admin_invoice_approve = EXCLUDED.allow_admin_invoice_approve,
			allow_admin_settings_update = EXCLUDED.allow_admin_settings_update,
			enabled_modules             = EXCLUDED.enabled_modules,
			updated_at                  = now()
		RETURNING tenant_id, allow_admin_user_create, allow_admin_user_delete,
		          allow_admin_invoice_approve, allow_admin_settings_update, enabled_modules`

	var stored Settings
	err := r.pool.QueryRow(ctx, query,
		settings.TenantID,
		settings.AllowAdminUserCreate,
		settings.AllowAdminUserDelete,
		settings.AllowAdminInvoiceApprove,
		settings.AllowAdminSettingsUpdate,
		settings.EnabledModules,
	).Scan(
		&stored.TenantID,
		&stored.AllowAdminUserCreate,
		&stored.AllowAdminUserDelete,
		&stored.AllowAdminInvoiceApprove,
		&stored.AllowAdminSettingsUpdate,
		&stored.EnabledModules,
	)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}
