// Package projects manages the project catalogue. Ownership feeds the
// scoped update/delete grants managers and workers resolve to.
package projects

import "time"

// Project statuses.
const (
	StatusActive   = "active"
	StatusArchived = "archived"
)

// Project is one unit of client work.
type Project struct {
	ID          int64     `json:"id"`
	TenantID    int64     `json:"tenant_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	OwnerID     int64     `json:"owner_id"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateInput carries the fields for a new project.
type CreateInput struct {
	Name        string `json:"name" validate:"required,min=2"`
	Description string `json:"description"`
	OwnerID     int64  `json:"owner_id"`
}

// UpdateInput carries the mutable fields of a project.
type UpdateInput struct {
	Name        *string `json:"name" validate:"omitempty,min=2"`
	Description *string `json:"description"`
	OwnerID     *int64  `json:"owner_id"`
	Status      *string `json:"status" validate:"omitempty,oneof=active archived"`
}

// ListFilters constrain the project listing. OwnerIDs comes from the
// engine's list filter when the caller's read grant is scoped.
type ListFilters struct {
	Status   string
	OwnerIDs []int64
}
