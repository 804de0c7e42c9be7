// Package policystore persists the policy records the authorization
// engine reads: per-user overrides, department policies, team
// memberships and tenant settings.
package policystore

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/praxis-suite/praxis/internal/authz"
)

// Repository is the PostgreSQL implementation of authz.PolicyStore.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// FindUserOverride looks up the per-user boolean grant.
func (r *Repository) FindUserOverride(ctx context.Context, tenantID, userID int64, resource authz.Resource, action authz.Action) (bool, bool, error) {
	var granted bool
	err := r.pool.QueryRow(ctx,
		`SELECT granted FROM user_permission_overrides
		 WHERE tenant_id = $1 AND user_id = $2 AND resource = $3 AND action = $4`,
		tenantID, userID, string(resource), string(action)).Scan(&granted)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, false, nil
		}
		return false, false, err
	}
	return granted, true, nil
}

// FindDepartmentOverride looks up the department policy value.
func (r *Repository) FindDepartmentOverride(ctx context.Context, tenantID int64, department string, resource authz.Resource, action authz.Action) (authz.PermissionValue, bool, error) {
	var raw string
	err := r.pool.QueryRow(ctx,
		`SELECT value FROM department_policies
		 WHERE tenant_id = $1 AND department = $2 AND resource = $3 AND action = $4`,
		tenantID, department, string(resource), string(action)).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return authz.Denied, false, nil
		}
		return authz.Denied, false, err
	}
	value, err := authz.ParsePermissionValue(raw)
	if err != nil {
		// A corrupt row must never widen access.
		return authz.Denied, false, err
	}
	return value, true, nil
}

// FindTeamMembers returns the union of co-members across every team the
// user manages or belongs to.
func (r *Repository) FindTeamMembers(ctx context.Context, tenantID, userID int64) (map[int64]struct{}, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT tm.user_id
		 FROM team_members tm
		 WHERE tm.tenant_id = $1
		   AND tm.team_id IN (
			SELECT team_id FROM team_members WHERE tenant_id = $1 AND user_id = $2
			UNION
			SELECT id FROM teams WHERE tenant_id = $1 AND manager_id = $2
		 )`,
		tenantID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	members := make(map[int64]struct{})
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		members[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return members, nil
}

// FindTenantSettings returns the tenant's veto and module settings.
func (r *Repository) FindTenantSettings(ctx context.Context, tenantID int64) (authz.TenantSettings, bool, error) {
	var settings authz.TenantSettings
	err := r.pool.QueryRow(ctx,
		`SELECT tenant_id, allow_admin_user_create, allow_admin_user_delete,
		        allow_admin_invoice_approve, allow_admin_settings_update, enabled_modules
		 FROM tenant_settings WHERE tenant_id = $1`,
		tenantID).Scan(
		&settings.TenantID,
		&settings.AllowAdminUserCreate,
		&settings.AllowAdminUserDelete,
		&settings.AllowAdminInvoiceApprove,
		&settings.AllowAdminSettingsUpdate,
		&settings.EnabledModules,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return authz.TenantSettings{}, false, nil
		}
		return authz.TenantSettings{}, false, err
	}
	return settings, true, nil
}
