package invoices

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/praxis-suite/praxis/internal/platform/httpx"
	"github.com/praxis-suite/praxis/internal/shared"
)

// Repository persists invoices.
type Repository interface {
	List(ctx context.Context, tenantID int64, filters ListFilters) ([]Invoice, error)
	FindByID(ctx context.Context, tenantID, id int64) (*Invoice, error)
	Insert(ctx context.Context, invoice Invoice) (*Invoice, error)
	Update(ctx context.Context, tenantID, id int64, input UpdateInput) (*Invoice, error)
	SetStatus(ctx context.Context, tenantID, id int64, status string, approvedBy *int64) (*Invoice, error)
}

// PostgresRepository implements Repository on pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const invoiceColumns = `id, tenant_id, project_id, owner_id, number, amount, currency, status, issued_at, approved_by, created_at`

func scanInvoice(row pgx.Row) (*Invoice, error) {
	var invoice Invoice
	err := row.Scan(
		&invoice.ID,
		&invoice.TenantID,
		&invoice.ProjectID,
		&invoice.OwnerID,
		&invoice.Number,
		&invoice.Amount,
		&invoice.Currency,
		&invoice.Status,
		&invoice.IssuedAt,
		&invoice.ApprovedBy,
		&invoice.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// List returns invoices matching the filters.
func (r *PostgresRepository) List(ctx context.Context, tenantID int64, filters ListFilters) ([]Invoice, error) {
	conditions := []string{"tenant_id = $1"}
	args := []any{tenantID}

	if filters.ProjectID > 0 {
		args = append(args, filters.ProjectID)
		conditions = append(conditions, fmt.Sprintf("project_id = $%d", len(args)))
	}
	if filters.Status != "" {
		args = append(args, filters.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filters.OwnerIDs != nil {
		args = append(args, filters.OwnerIDs)
		conditions = append(conditions, fmt.Sprintf("owner_id = ANY($%d)", len(args)))
	}

	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE ` +
		strings.Join(conditions, " AND ") + ` ORDER BY created_at DESC, id DESC`
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []Invoice
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, *invoice)
	}
	return invoices, rows.Err()
}

// FindByID loads one invoice.
func (r *PostgresRepository) FindByID(ctx context.Context, tenantID, id int64) (*Invoice, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	return scanInvoice(row)
}

// Insert creates an invoice. Duplicate numbers map to httpx.ErrDuplicate.
func (r *PostgresRepository) Insert(ctx context.Context, invoice Invoice) (*Invoice, error) {
	const query = `
		INSERT INTO invoices (tenant_id, project_id, owner_id, number, amount, currency, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		RETURNING ` + invoiceColumns

	row := r.pool.QueryRow(ctx, query, invoice.TenantID, invoice.ProjectID, invoice.OwnerID,
		invoice.Number, invoice.Amount, invoice.Currency, invoice.Status)
	stored, err := scanInvoice(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("%w: invoice number already used", httpx.ErrDuplicate)
		}
		return nil, err
	}
	return stored, nil
}

// Update applies partial changes to an invoice.
func (r *PostgresRepository) Update(ctx context.Context, tenantID, id int64, input UpdateInput) (*Invoice, error) {
	sets := []string{}
	args := []any{tenantID, id}

	appendSet := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if input.Number != nil {
		appendSet("number", *input.Number)
	}
	if input.Amount != nil {
		appendSet("amount", *input.Amount)
	}
	if input.Currency != nil {
		appendSet("currency", *input.Currency)
	}
	if len(sets) == 0 {
		return r.FindByID(ctx, tenantID, id)
	}

	query := `UPDATE invoices SET ` + strings.Join(sets, ", ") +
		` WHERE tenant_id = $1 AND id = $2 RETURNING ` + invoiceColumns
	return scanInvoice(r.pool.QueryRow(ctx, query, args...))
}

// SetStatus transitions an invoice. Approval also stamps issued_at and
// the approver.
func (r *PostgresRepository) SetStatus(ctx context.Context, tenantID, id int64, status string, approvedBy *int64) (*Invoice, error) {
	if status == StatusApproved {
		const query = `UPDATE invoices SET status = $3, approved_by = $4, issued_at = now()
			WHERE tenant_id = $1 AND id = $2 RETURNING ` + invoiceColumns
		return scanInvoice(r.pool.QueryRow(ctx, query, tenantID, id, status, approvedBy))
	}
	const query = `UPDATE invoices SET status = $3
		WHERE tenant_id = $1 AND id = $2 RETURNING ` + invoiceColumns
	return scanInvoice(r.pool.QueryRow(ctx, query, tenantID, id, status))
}
