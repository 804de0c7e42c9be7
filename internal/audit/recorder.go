package audit

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/hibiken/asynq"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/praxis-suite/praxis/internal/authz"
)

// Enqueuer is the slice of asynq.Client the recorder needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Recorder implements authz.AuditSink by queueing records for the
// worker. Enqueue failures are logged and swallowed; they never reach
// the decision path and never turn a deny into an error.
type Recorder struct {
	enqueuer Enqueuer
	logger   *slog.Logger
	timeout  time.Duration
}

// NewRecorder constructs a Recorder.
func NewRecorder(enqueuer Enqueuer, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{enqueuer: enqueuer, logger: logger, timeout: 2 * time.Second}
}

var entityTitles = cases.Title(language.English)

var resourceDisplay = map[authz.Resource]string{
	authz.ResourceTimeEntries: "time entries",
}

func displayName(resource authz.Resource) string {
	if name, ok := resourceDisplay[resource]; ok {
		return name
	}
	return string(resource)
}

// Record queues one decision event. The enqueue runs under its own
// bounded deadline so a slow broker cannot stall the original request
// past it.
func (r *Recorder) Record(ctx context.Context, event authz.AuditEvent) {
	if r == nil || r.enqueuer == nil {
		return
	}
	detail := event.Detail
	if detail == "" {
		detail = string(event.Action) + " refused on " + entityTitles.String(displayName(event.Resource))
	}
	payload := WritePayload{
		TenantID: event.TenantID,
		ActorID:  event.ActorID,
		Verb:     event.Verb,
		Entity:   string(event.Resource),
		Detail:   detail,
		At:       time.Now().UTC(),
	}
	if event.OwnerID != nil {
		payload.EntityID = strconv.FormatInt(*event.OwnerID, 10)
	}
	task, err := NewWriteTask(payload)
	if err != nil {
		r.logger.Error("audit: marshal record", slog.Any("error", err))
		return
	}
	enqueueCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
	defer cancel()
	if _, err := r.enqueuer.EnqueueContext(enqueueCtx, task); err != nil {
		r.logger.Warn("audit: enqueue failed, record dropped",
			slog.String("verb", event.Verb),
			slog.Any("error", err))
	}
}
