package audit

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

// TaskTypeWrite is the asynq task type carrying one audit record.
const TaskTypeWrite = "audit:write"

// WritePayload is the wire form of a queued audit record.
type WritePayload struct {
	TenantID int64     `json:"tenant_id"`
	ActorID  int64     `json:"actor_id"`
	Verb     string    `json:"verb"`
	Entity   string    `json:"entity"`
	EntityID string    `json:"entity_id,omitempty"`
	Detail   string    `json:"detail,omitempty"`
	At       time.Time `json:"at"`
}

// NewWriteTask constructs the asynq task for one record.
func NewWriteTask(payload WritePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	// No retry: a lost audit entry is accepted degradation, and retrying
	// stale denials would reorder the log.
	return asynq.NewTask(TaskTypeWrite, data, asynq.MaxRetry(0)), nil
}
