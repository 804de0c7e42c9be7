package permissions

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/praxis-suite/praxis/internal/shared"
)

// Repository persists user permission overrides.
type Repository interface {
	ListForUser(ctx context.Context, tenantID, userID int64) ([]Override, error)
	Upsert(ctx context.Context, tenantID int64, input OverrideInput) (*Override, error)
	Delete(ctx context.Context, tenantID, id int64) error
}

// PostgresRepository implements Repository on pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// ListForUser returns a user's overrides.
func (r *PostgresRepository) ListForUser(ctx context.Context, tenantID, userID int64) ([]Override, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, tenant_id, user_id, resource, action, granted, created_at
		FROM user_permission_overrides
		WHERE tenant_id = $1 AND user_id = $2
		ORDER BY resource, action`, tenantID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var overrides []Override
	for rows.Next() {
		var override Override
		if err := rows.Scan(&override.ID, &override.TenantID, &override.UserID,
			&override.Resource, &override.Action, &override.Granted, &override.CreatedAt); err != nil {
			return nil, err
		}
		overrides = append(overrides, override)
	}
	return overrides, rows.Err()
}

// Upsert writes an override keyed on (tenant, user, resource, action).
func (r *PostgresRepository) Upsert(ctx context.Context, tenantID int64, input OverrideInput) (*Override, error) {
	const query = `
		INSERT INTO user_permission_overrides (tenant_id, user_id, resource, action, granted, created_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (tenant_id, user_id, resource, action)
			DO UPDATE SET granted = EXCLUDED.granted
		RETURNING id, tenant_id, user_id, resource, action, granted, created_at`

	var override Override
	err := r.pool.QueryRow(ctx, query, tenantID, input.UserID, input.Resource, input.Action, input.Granted).
		Scan(&override.ID, &override.TenantID, &override.UserID,
			&override.Resource, &override.Action, &override.Granted, &override.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &override, nil
}

// Delete removes an override row.
func (r *PostgresRepository) Delete(ctx context.Context, tenantID, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM user_permission_overrides WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
