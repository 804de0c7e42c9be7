package audit

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides PostgreSQL backed persistence for audit records.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Insert appends one record.
func (r *Repository) Insert(ctx context.Context, record Record) error {
	at := record.At
	if at.IsZero() {
		at = time.Now().UTC()
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO audit_logs (tenant_id, actor_id, verb, entity, entity_id, detail, occurred_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		record.TenantID, record.ActorID, record.Verb, record.Entity, record.EntityID, record.Detail, at)
	return err
}

// TimelineWindow returns one page of records plus one lookahead row.
func (r *Repository) TimelineWindow(ctx context.Context, filters TimelineFilters, offset, limit int) ([]Record, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, tenant_id, actor_id, verb, entity, entity_id, detail, occurred_at
		 FROM audit_logs
		 WHERE tenant_id = $1
		   AND ($2::timestamptz IS NULL OR occurred_at >= $2)
		   AND ($3::timestamptz IS NULL OR occurred_at <= $3)
		   AND ($4::bigint = 0 OR actor_id = $4)
		   AND ($5::text = '' OR entity = $5)
		   AND ($6::text = '' OR verb = $6)
		 ORDER BY occurred_at DESC, id DESC
		 OFFSET $7 LIMIT $8`,
		filters.TenantID, nullableTime(filters.From), nullableTime(filters.To),
		filters.ActorID, filters.Entity, filters.Verb, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var records []Record
	for rows.Next() {
		var record Record
		if err := rows.Scan(&record.ID, &record.TenantID, &record.ActorID, &record.Verb,
			&record.Entity, &record.EntityID, &record.Detail, &record.At); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// DeleteOlderThan prunes records past the retention horizon. Returns the
// number of rows removed.
func (r *Repository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM audit_logs WHERE occurred_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
