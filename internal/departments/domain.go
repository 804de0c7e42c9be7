// Package departments manages department policy rows, the middle tier
// of the override cascade: they beat the role matrix but lose to any
// per-user override.
package departments

import "time"

// Policy is one (department, resource, action) -> value rule.
type Policy struct {
	ID         int64     `json:"id"`
	TenantID   int64     `json:"tenant_id"`
	Department string    `json:"department"`
	Resource   string    `json:"resource"`
	Action     string    `json:"action"`
	Value      string    `json:"value"`
	CreatedAt  time.Time `json:"created_at"`
}

// PolicyInput carries a policy upsert.
type PolicyInput struct {
	Department string `json:"department" validate:"required,min=1"`
	Resource   string `json:"resource" validate:"required"`
	Action     string `json:"action" validate:"required"`
	Value      string `json:"value" validate:"required"`
}
