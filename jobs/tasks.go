// Package jobs hosts the background worker: audit persistence, audit
// retention and idempotency key cleanup.
package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/praxis-suite/praxis/internal/audit"
	jobmetrics "github.com/praxis-suite/praxis/internal/jobs"
	"github.com/praxis-suite/praxis/internal/shared"
)

const (
	// QueueDefault is the queue every Praxis task runs on.
	QueueDefault = "default"
	// TaskTypeAuditRetention prunes audit rows past the retention window.
	TaskTypeAuditRetention = "audit:retention"
	// TaskTypeIdempotencyCleanup prunes stale idempotency keys.
	TaskTypeIdempotencyCleanup = "maintenance:idempotency_cleanup"
)

// NewAuditRetentionTask builds the cron task payload.
func NewAuditRetentionTask() *asynq.Task {
	return asynq.NewTask(TaskTypeAuditRetention, nil)
}

// NewIdempotencyCleanupTask builds the cron task payload.
func NewIdempotencyCleanupTask() *asynq.Task {
	return asynq.NewTask(TaskTypeIdempotencyCleanup, nil)
}

// NewAuditWriteHandler persists queued audit records. A malformed
// payload is dropped rather than retried.
func NewAuditWriteHandler(logger *slog.Logger, repo *audit.Repository, metrics *jobmetrics.Metrics) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		tracker := metrics.Track("audit_write")
		var payload audit.WritePayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			logger.Error("audit write: malformed payload", slog.Any("error", err))
			_ = tracker.End(err)
			return asynq.SkipRetry
		}
		err := repo.Insert(ctx, audit.Record{
			TenantID: payload.TenantID,
			ActorID:  payload.ActorID,
			Verb:     payload.Verb,
			Entity:   payload.Entity,
			EntityID: payload.EntityID,
			Detail:   payload.Detail,
			At:       payload.At,
		})
		if err != nil {
			logger.Error("audit write", slog.Any("error", err))
		}
		return tracker.End(err)
	}
}

// NewAuditRetentionHandler deletes audit rows older than the retention
// window.
func NewAuditRetentionHandler(logger *slog.Logger, repo *audit.Repository, retention time.Duration, metrics *jobmetrics.Metrics) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		tracker := metrics.Track("audit_retention")
		cutoff := time.Now().Add(-retention)
		removed, err := repo.DeleteOlderThan(ctx, cutoff)
		if err != nil {
			logger.Error("audit retention", slog.Any("error", err))
			return tracker.End(err)
		}
		metrics.AddPruned("audit_retention", removed)
		logger.Info("audit retention", slog.Int64("removed", removed), slog.Time("cutoff", cutoff))
		return tracker.End(nil)
	}
}

// NewIdempotencyCleanupHandler removes idempotency keys past their
// useful life.
func NewIdempotencyCleanupHandler(logger *slog.Logger, store *shared.IdempotencyStore, olderThan time.Duration, metrics *jobmetrics.Metrics) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		tracker := metrics.Track("idempotency_cleanup")
		err := store.Cleanup(ctx, olderThan)
		if err != nil {
			logger.Error("idempotency cleanup", slog.Any("error", err))
		}
		return tracker.End(err)
	}
}
