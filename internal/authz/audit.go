package authz

import "context"

// AuditEvent describes a decision the engine wants on record. Only
// denials and vetoes are emitted; grants stay out of the log to keep it
// signal-dense.
type AuditEvent struct {
	TenantID int64
	ActorID  int64
	Verb     string
	Resource Resource
	Action   Action
	OwnerID  *int64
	Detail   string
}

// AuditSink receives decision events. Implementations must be
// best-effort: a failing sink may log locally but must never surface an
// error into the decision path.
type AuditSink interface {
	Record(ctx context.Context, event AuditEvent)
}

// NopAuditSink discards every event.
type NopAuditSink struct{}

// Record implements AuditSink.
func (NopAuditSink) Record(context.Context, AuditEvent) {}
