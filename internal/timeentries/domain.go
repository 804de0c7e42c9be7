// Package timeentries manages logged hours. Reads are the most tightly
// scoped surface in the matrix, so listings go through the engine's
// owner filter instead of a route guard.
package timeentries

import "time"

// Entry statuses.
const (
	StatusDraft    = "draft"
	StatusApproved = "approved"
)

// Entry is one block of logged hours.
type Entry struct {
	ID        int64     `json:"id"`
	TenantID  int64     `json:"tenant_id"`
	TaskID    int64     `json:"task_id"`
	UserID    int64     `json:"user_id"`
	Day       time.Time `json:"day"`
	Hours     float64   `json:"hours"`
	Note      string    `json:"note,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateInput carries the fields for a new entry.
type CreateInput struct {
	TaskID int64     `json:"task_id" validate:"required,gt=0"`
	Day    time.Time `json:"day" validate:"required"`
	Hours  float64   `json:"hours" validate:"required,gt=0,lte=24"`
	Note   string    `json:"note"`
}

// UpdateInput carries the mutable fields of an entry.
type UpdateInput struct {
	Day   *time.Time `json:"day"`
	Hours *float64   `json:"hours" validate:"omitempty,gt=0,lte=24"`
	Note  *string    `json:"note"`
}

// ListFilters constrain the entry listing. OwnerIDs comes from the
// engine's list filter, never from the request.
type ListFilters struct {
	TaskID   int64
	From     time.Time
	To       time.Time
	OwnerIDs []int64
}
