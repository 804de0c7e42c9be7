package projects

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/praxis-suite/praxis/internal/shared"
)

// Repository persists projects.
type Repository interface {
	List(ctx context.Context, tenantID int64, filters ListFilters) ([]Project, error)
	FindByID(ctx context.Context, tenantID, id int64) (*Project, error)
	Insert(ctx context.Context, project Project) (*Project, error)
	Update(ctx context.Context, tenantID, id int64, input UpdateInput) (*Project, error)
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

const projectColumns = `id, tenant_id, name, COALESCE(description, ''), owner_id, status, created_at, updated_at`

func scanProject(row pgx.Row) (*Project, error) {
	var project Project
	err := row.Scan(
		&project.ID,
		&project.TenantID,
		&project.Name,
		&project.Description,
		&project.OwnerID,
		&project.Status,
		&project.CreatedAt,
		&project.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &project, nil
}

// List returns tenant projects matching the filters.
func (r *PostgresRepository) List(ctx context.Context, tenantID int64, filters ListFilters) ([]Project, error) {
	conditions := []string{"tenant_id = $1"}
	args := []any{tenantID}
	if filters.Status != "" {
		args = append(args, filters.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if len(filters.OwnerIDs) > 0 {
		args = append(args, filters.OwnerIDs)
		conditions = append(conditions, fmt.Sprintf("owner_id = ANY($%d)", len(args)))
	}
	query := `SELECT ` + projectColumns + ` FROM projects WHERE ` + strings.Join(conditions, " AND ") + ` ORDER BY name`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *project)
	}
	return projects, rows.Err()
}

// FindByID loads one project.
func (r *PostgresRepository) FindByID(ctx context.Context, tenantID, id int64) (*Project, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	return scanProject(row)
}

// Insert creates a project.
func (r *PostgresRepository) Insert(ctx context.Context, project Project) (*Project, error) {
	const query = `
		INSERT INTO projects (tenant_id, name, description, owner_id, status, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, now(), now())
		RETURNING ` + projectColumns

	row := r.pool.QueryRow(ctx, query, project.TenantID, project.Name, project.Description, project.OwnerID, project.Status)
	return scanProject(row)
}

// Update applies partial changes to a project.
func (r *PostgresRepository) Update(ctx context.Context, tenantID, id int64, input UpdateInput) (*Project, error) {
	sets := []string{"updated_at = now()"}
	args := []any{tenantID, id}

	appendSet := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if input.Name != nil {
		appendSet("name", *input.Name)
	}
	if input.Description != nil {
		appendSet("description", *input.Description)
	}
	if input.OwnerID != nil {
		appendSet("owner_id", *input.OwnerID)
	}
	if input.Status != nil {
		appendSet("status", *input.Status)
	}

	query := `UPDATE projects SET ` + strings.Join(sets, ", ") +
		` WHERE tenant_id = $1 AND id = $2 RETURNING ` + projectColumns
	return scanProject(r.pool.QueryRow(ctx, query, args...))
}

// Delete removes a project.
func (r *PostgresRepository) Delete(ctx context.Context, tenantID, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
