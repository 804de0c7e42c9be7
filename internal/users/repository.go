package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/praxis-suite/praxis/internal/platform/db"
	"github.com/praxis-suite/praxis/internal/platform/httpx"
	"github.com/praxis-suite/praxis/internal/shared"
)

// Repository persists accounts.
type Repository interface {
	List(ctx context.Context, tenantID int64, filters ListFilters) ([]User, int, error)
	FindByID(ctx context.Context, tenantID, id int64) (*User, error)
	Insert(ctx context.Context, tenantID int64, input CreateInput, passwordHash string) (*User, error)
	Update(ctx context.Context, tenantID, id int64, input UpdateInput) (*User, error)
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

const userColumns = `id, tenant_id, email, name, role, COALESCE(department, ''), is_active, created_at, last_login_at`

func scanUser(row pgx.Row) (*User, error) {
	var user User
	err := row.Scan(
		&user.ID,
		&user.TenantID,
		&user.Email,
		&user.Name,
		&user.Role,
		&user.Department,
		&user.IsActive,
		&user.CreatedAt,
		&user.LastLoginAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// List returns a page of tenant accounts plus the total count.
func (r *PostgresRepository) List(ctx context.Context, tenantID int64, filters ListFilters) ([]User, int, error) {
	conditions := []string{"tenant_id = $1"}
	args := []any{tenantID}

	if filters.Department != "" {
		args = append(args, filters.Department)
		conditions = append(conditions, fmt.Sprintf("department = $%d", len(args)))
	}
	if filters.Role != "" {
		args = append(args, filters.Role)
		conditions = append(conditions, fmt.Sprintf("role = $%d", len(args)))
	}
	if len(filters.IDs) > 0 {
		args = append(args, filters.IDs)
		conditions = append(conditions, fmt.Sprintf("id = ANY($%d)", len(args)))
	}
	where := strings.Join(conditions, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM users WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := 0
	limit := filters.PageSize
	if limit > 0 && filters.Page > 1 {
		offset = (filters.Page - 1) * limit
	}
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where + ` ORDER BY name`
	if limit > 0 {
		query += fmt.Sprintf(" OFFSET %d LIMIT %d", offset, limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *user)
	}
	return result, total, rows.Err()
}

// FindByID loads one account within the tenant.
func (r *PostgresRepository) FindByID(ctx context.Context, tenantID, id int64) (*User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	return scanUser(row)
}

// Insert creates an account. Duplicate emails map to httpx.ErrDuplicate.
func (r *PostgresRepository) Insert(ctx context.Context, tenantID int64, input CreateInput, passwordHash string) (*User, error) {
	const query = `
		INSERT INTO users (tenant_id, email, name, password_hash, role, department, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), true, now())
		RETURNING ` + userColumns

	row := r.pool.QueryRow(ctx, query, tenantID, input.Email, input.Name, passwordHash, input.Role, input.Department)
	user, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("%w: email already registered", httpx.ErrDuplicate)
		}
		return nil, err
	}
	return user, nil
}

// Update applies partial changes to an account.
func (r *PostgresRepository) Update(ctx context.Context, tenantID, id int64, input UpdateInput) (*User, error) {
	sets := []string{}
	args := []any{tenantID, id}

	appendSet := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if input.Name != nil {
		appendSet("name", *input.Name)
	}
	if input.Role != nil {
		appendSet("role", *input.Role)
	}
	if input.Department != nil {
		appendSet("department", *input.Department)
	}
	if input.IsActive != nil {
		appendSet("is_active", *input.IsActive)
	}
	if len(sets) == 0 {
		return r.FindByID(ctx, tenantID, id)
	}

	query := `UPDATE users SET ` + strings.Join(sets, ", ") +
		` WHERE tenant_id = $1 AND id = $2 RETURNING ` + userColumns
	return scanUser(r.pool.QueryRow(ctx, query, args...))
}

// Delete removes an account together with its overrides, team
// memberships and sessions.
func (r *PostgresRepository) Delete(ctx context.Context, tenantID, id int64) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM user_permission_overrides WHERE tenant_id = $1 AND user_id = $2`, tenantID, id); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM team_members WHERE tenant_id = $1 AND user_id = $2`, tenantID, id); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM sessions WHERE user_id = $1`, id); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `DELETE FROM users WHERE tenant_id = $1 AND id = $2`, tenantID, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}
