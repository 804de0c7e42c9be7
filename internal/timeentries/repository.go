package timeentries

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/praxis-suite/praxis/internal/shared"
)

// Repository persists time entries.
type Repository interface {
	List(ctx context.Context, tenantID int64, filters ListFilters) ([]Entry, error)
	FindByID(ctx context.Context, tenantID, id int64) (*Entry, error)
	Insert(ctx context.Context, entry Entry) (*Entry, error)
	Update(ctx context.Context, tenantID, id int64, input UpdateInput) (*Entry, error)
	SetStatus(ctx context.Context, tenantID, id int64, status string) (*Entry, error)
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

const entryColumns = `id, tenant_id, task_id, user_id, day, hours, COALESCE(note, ''), status, created_at`

func scanEntry(row pgx.Row) (*Entry, error) {
	var entry Entry
	err := row.Scan(
		&entry.ID,
		&entry.TenantID,
		&entry.TaskID,
		&entry.UserID,
		&entry.Day,
		&entry.Hours,
		&entry.Note,
		&entry.Status,
		&entry.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// List returns entries matching the filters. A non-nil OwnerIDs slice
// restricts rows to those owners.
func (r *PostgresRepository) List(ctx context.Context, tenantID int64, filters ListFilters) ([]Entry, error) {
	conditions := []string{"tenant_id = $1"}
	args := []any{tenantID}

	if filters.TaskID > 0 {
		args = append(args, filters.TaskID)
		conditions = append(conditions, fmt.Sprintf("task_id = $%d", len(args)))
	}
	if !filters.From.IsZero() {
		args = append(args, filters.From)
		conditions = append(conditions, fmt.Sprintf("day >= $%d", len(args)))
	}
	if !filters.To.IsZero() {
		args = append(args, filters.To)
		conditions = append(conditions, fmt.Sprintf("day <= $%d", len(args)))
	}
	if filters.OwnerIDs != nil {
		args = append(args, filters.OwnerIDs)
		conditions = append(conditions, fmt.Sprintf("user_id = ANY($%d)", len(args)))
	}

	query := `SELECT ` + entryColumns + ` FROM time_entries WHERE ` +
		strings.Join(conditions, " AND ") + ` ORDER BY day DESC, id DESC`
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}

// FindByID loads one entry.
func (r *PostgresRepository) FindByID(ctx context.Context, tenantID, id int64) (*Entry, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+entryColumns+` FROM time_entries WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	return scanEntry(row)
}

// Insert creates an entry.
func (r *PostgresRepository) Insert(ctx context.Context, entry Entry) (*Entry, error) {
	const query = `
		INSERT INTO time_entries (tenant_id, task_id, user_id, day, hours, note, status, created_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, now())
		RETURNING ` + entryColumns

	row := r.pool.QueryRow(ctx, query, entry.TenantID, entry.TaskID, entry.UserID,
		entry.Day, entry.Hours, entry.Note, entry.Status)
	return scanEntry(row)
}

// Update applies partial changes to an entry.
func (r *PostgresRepository) Update(ctx context.Context, tenantID, id int64, input UpdateInput) (*Entry, error) {
	sets := []string{}
	args := []any{tenantID, id}

	appendSet := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if input.Day != nil {
		appendSet("day", *input.Day)
	}
	if input.Hours != nil {
		appendSet("hours", *input.Hours)
	}
	if input.Note != nil {
		appendSet("note", *input.Note)
	}
	if len(sets) == 0 {
		return r.FindByID(ctx, tenantID, id)
	}

	query := `UPDATE time_entries SET ` + strings.Join(sets, ", ") +
		` WHERE tenant_id = $1 AND id = $2 RETURNING ` + entryColumns
	return scanEntry(r.pool.QueryRow(ctx, query, args...))
}

// SetStatus transitions an entry's status.
func (r *PostgresRepository) SetStatus(ctx context.Context, tenantID, id int64, status string) (*Entry, error) {
	const query = `UPDATE time_entries SET status = $3
		WHERE tenant_id = $1 AND id = $2 RETURNING ` + entryColumns
	return scanEntry(r.pool.QueryRow(ctx, query, tenantID, id, status))
}

// Delete removes an entry.
func (r *PostgresRepository) Delete(ctx context.Context, tenantID, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM time_entries WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
