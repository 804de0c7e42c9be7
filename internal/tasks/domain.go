// Package tasks manages project tasks. The assignee is the owner for
// scoped grants: workers edit their own tasks, managers approve across
// their team.
package tasks

import "time"

// Task statuses.
const (
	StatusOpen     = "open"
	StatusDone     = "done"
	StatusApproved = "approved"
)

// Task is one unit of work inside a project.
type Task struct {
	ID          int64      `json:"id"`
	TenantID    int64      `json:"tenant_id"`
	ProjectID   int64      `json:"project_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	AssigneeID  int64      `json:"assignee_id"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CreateInput carries the fields for a new task.
type CreateInput struct {
	ProjectID   int64      `json:"project_id" validate:"required,gt=0"`
	Title       string     `json:"title" validate:"required,min=2"`
	Description string     `json:"description"`
	AssigneeID  int64      `json:"assignee_id"`
	DueDate     *time.Time `json:"due_date"`
}

// UpdateInput carries the mutable fields of a task.
type UpdateInput struct {
	Title       *string    `json:"title" validate:"omitempty,min=2"`
	Description *string    `json:"description"`
	AssigneeID  *int64     `json:"assignee_id"`
	Status      *string    `json:"status" validate:"omitempty,oneof=open done"`
	DueDate     *time.Time `json:"due_date"`
}

// ListFilters constrain the task listing. AssigneeIDs comes from the
// engine's list filter when the caller's read grant is scoped.
type ListFilters struct {
	ProjectID   int64
	AssigneeID  int64
	Status      string
	AssigneeIDs []int64
}
