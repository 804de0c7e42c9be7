// Package invoices manages client billing. Approval is the sensitive
// operation: tenants can veto it for administrators, and retried
// submissions are deduplicated through idempotency keys.
package invoices

import "time"

// Invoice statuses.
const (
	StatusDraft     = "draft"
	StatusSubmitted = "submitted"
	StatusApproved  = "approved"
)

// Invoice is one billing document.
type Invoice struct {
	ID         int64      `json:"id"`
	TenantID   int64      `json:"tenant_id"`
	ProjectID  int64      `json:"project_id"`
	OwnerID    int64      `json:"owner_id"`
	Number     string     `json:"number"`
	Amount     float64    `json:"amount"`
	Currency   string     `json:"currency"`
	Status     string     `json:"status"`
	IssuedAt   *time.Time `json:"issued_at,omitempty"`
	ApprovedBy *int64     `json:"approved_by,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// CreateInput carries the fields for a new invoice.
type CreateInput struct {
	ProjectID int64   `json:"project_id" validate:"required,gt=0"`
	Number    string  `json:"number" validate:"required,min=3"`
	Amount    float64 `json:"amount" validate:"required,gt=0"`
	Currency  string  `json:"currency" validate:"required,len=3"`
}

// UpdateInput carries the mutable fields of a draft invoice.
type UpdateInput struct {
	Number   *string  `json:"number" validate:"omitempty,min=3"`
	Amount   *float64 `json:"amount" validate:"omitempty,gt=0"`
	Currency *string  `json:"currency" validate:"omitempty,len=3"`
}

// ListFilters constrain the invoice listing. OwnerIDs comes from the
// engine's list filter.
type ListFilters struct {
	ProjectID int64
	Status    string
	OwnerIDs  []int64
}
