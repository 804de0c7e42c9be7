// Package audit records and serves the append-only decision log. Writes
// are fire-and-forget: the recorder enqueues, a worker persists, and a
// lost entry is an accepted degradation rather than a request failure.
package audit

import "time"

// Record is one append-only audit log entry.
type Record struct {
	ID       int64
	TenantID int64
	ActorID  int64
	Verb     string
	Entity   string
	EntityID string
	Detail   string
	At       time.Time
}

// TimelineFilters narrow a timeline listing.
type TimelineFilters struct {
	TenantID int64
	From     time.Time
	To       time.Time
	ActorID  int64
	Entity   string
	Verb     string
	Page     int
	PageSize int
}

// PagingInfo describes the window returned by Timeline.
type PagingInfo struct {
	Page     int
	PageSize int
	HasNext  bool
	PrevPage int
	NextPage int
}

// Result bundles timeline rows with paging metadata.
type Result struct {
	Rows   []Record
	Paging PagingInfo
}
