// Package users manages tenant accounts. Creation and deletion sit
// behind the tenant veto gate, so an administrator may be blocked here
// even though the role matrix grants the action.
package users

import "time"

// User is a tenant account.
type User struct {
	ID          int64      `json:"id"`
	TenantID    int64      `json:"tenant_id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Role        string     `json:"role"`
	Department  string     `json:"department,omitempty"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// CreateInput carries the fields for a new account.
type CreateInput struct {
	Email      string `json:"email" validate:"required,email"`
	Name       string `json:"name" validate:"required,min=2"`
	Password   string `json:"password" validate:"required,min=8"`
	Role       string `json:"role" validate:"required"`
	Department string `json:"department"`
}

// UpdateInput carries the mutable fields of an account.
type UpdateInput struct {
	Name       *string `json:"name" validate:"omitempty,min=2"`
	Role       *string `json:"role"`
	Department *string `json:"department"`
	IsActive   *bool   `json:"is_active"`
}

// ListFilters constrain the account listing. IDs comes from the
// engine's list filter when the caller's read grant is scoped.
type ListFilters struct {
	Department string
	Role       string
	Page       int
	PageSize   int
	IDs        []int64
}
