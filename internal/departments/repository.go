package departments

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/praxis-suite/praxis/internal/shared"
)

// Repository persists department policies.
type Repository interface {
	List(ctx context.Context, tenantID int64, department string) ([]Policy, error)
	Upsert(ctx context.Context, tenantID int64, input PolicyInput) (*Policy, error)
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

// List returns policies, optionally filtered by department.
func (r *PostgresRepository) List(ctx context.Context, tenantID int64, department string) ([]Policy, error) {
	query := `
		SELECT id, tenant_id, department, resource, action, value, created_at
		FROM department_policies
		WHERE tenant_id = $1`
	args := []any{tenantID}
	if department != "" {
		query += ` AND department = $2`
		args = append(args, department)
	}
	query += ` ORDER BY department, resource, action`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var policies []Policy
	for rows.Next() {
		var policy Policy
		if err := rows.Scan(&policy.ID, &policy.TenantID, &policy.Department,
			&policy.Resource, &policy.Action, &policy.Value, &policy.CreatedAt); err != nil {
			return nil, err
		}
		policies = append(policies, policy)
	}
	return policies, rows.Err()
}

// Upsert writes a policy row keyed on (tenant, department, resource, action).
func (r *PostgresRepository) Upsert(ctx context.Context, tenantID int64, input PolicyInput) (*Policy, error) {
	const query = `
		INSERT INTO department_policies (tenant_id, department, resource, action, value, created_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (tenant_id, department, resource, action)
			DO UPDATE SET value = EXCLUDED.value
		RETURNING id, tenant_id, department, resource, action, value, created_at`

	var policy Policy
	err := r.pool.QueryRow(ctx, query, tenantID, input.Department, input.Resource, input.Action, input.Value).
		Scan(&policy.ID, &policy.TenantID, &policy.Department, &policy.Resource,
			&policy.Action, &policy.Value, &policy.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &policy, nil
}

// Delete removes a policy row.
func (r *PostgresRepository) Delete(ctx context.Context, tenantID, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM department_policies WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
