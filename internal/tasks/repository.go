package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/praxis-suite/praxis/internal/shared"
)

// Repository persists tasks.
type Repository interface {
	List(ctx context.Context, tenantID int64, filters ListFilters) ([]Task, error)
	FindByID(ctx context.Context, tenantID, id int64) (*Task, error)
	Insert(ctx context.Context, task Task) (*Task, error)
	Update(ctx context.Context, tenantID, id int64, input UpdateInput) (*Task, error)
	SetStatus(ctx context.Context, tenantID, id int64, status string) (*Task, error)
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

const taskColumns = `id, tenant_id, project_id, title, COALESCE(description, ''), assignee_id, status, due_date, created_at, updated_at`

func scanTask(row pgx.Row) (*Task, error) {
	var task Task
	err := row.Scan(
		&task.ID,
		&task.TenantID,
		&task.ProjectID,
		&task.Title,
		&task.Description,
		&task.AssigneeID,
		&task.Status,
		&task.DueDate,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

// List returns tenant tasks matching the filters.
func (r *PostgresRepository) List(ctx context.Context, tenantID int64, filters ListFilters) ([]Task, error) {
	conditions := []string{"tenant_id = $1"}
	args := []any{tenantID}

	if filters.ProjectID > 0 {
		args = append(args, filters.ProjectID)
		conditions = append(conditions, fmt.Sprintf("project_id = $%d", len(args)))
	}
	if filters.AssigneeID > 0 {
		args = append(args, filters.AssigneeID)
		conditions = append(conditions, fmt.Sprintf("assignee_id = $%d", len(args)))
	}
	if filters.Status != "" {
		args = append(args, filters.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if len(filters.AssigneeIDs) > 0 {
		args = append(args, filters.AssigneeIDs)
		conditions = append(conditions, fmt.Sprintf("assignee_id = ANY($%d)", len(args)))
	}

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE ` + strings.Join(conditions, " AND ") +
		` ORDER BY due_date NULLS LAST, id`
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

// FindByID loads one task.
func (r *PostgresRepository) FindByID(ctx context.Context, tenantID, id int64) (*Task, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	return scanTask(row)
}

// Insert creates a task.
func (r *PostgresRepository) Insert(ctx context.Context, task Task) (*Task, error) {
	const query = `
		INSERT INTO tasks (tenant_id, project_id, title, description, assignee_id, status, due_date, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, now(), now())
		RETURNING ` + taskColumns

	row := r.pool.QueryRow(ctx, query, task.TenantID, task.ProjectID, task.Title,
		task.Description, task.AssigneeID, task.Status, task.DueDate)
	return scanTask(row)
}

// Update applies partial changes to a task.
func (r *PostgresRepository) Update(ctx context.Context, tenantID, id int64, input UpdateInput) (*Task, error) {
	sets := []string{"updated_at = now()"}
	args := []any{tenantID, id}

	appendSet := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if input.Title != nil {
		appendSet("title", *input.Title)
	}
	if input.Description != nil {
		appendSet("description", *input.Description)
	}
	if input.AssigneeID != nil {
		appendSet("assignee_id", *input.AssigneeID)
	}
	if input.Status != nil {
		appendSet("status", *input.Status)
	}
	if input.DueDate != nil {
		appendSet("due_date", *input.DueDate)
	}

	query := `UPDATE tasks SET ` + strings.Join(sets, ", ") +
		` WHERE tenant_id = $1 AND id = $2 RETURNING ` + taskColumns
	return scanTask(r.pool.QueryRow(ctx, query, args...))
}

// SetStatus transitions a task's status.
func (r *PostgresRepository) SetStatus(ctx context.Context, tenantID, id int64, status string) (*Task, error) {
	const query = `UPDATE tasks SET status = $3, updated_at = now()
		WHERE tenant_id = $1 AND id = $2 RETURNING ` + taskColumns
	return scanTask(r.pool.QueryRow(ctx, query, tenantID, id, status))
}

// Delete removes a task.
func (r *PostgresRepository) Delete(ctx context.Context, tenantID, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
