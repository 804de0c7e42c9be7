// Package permissions manages per-user overrides, the top tier of the
// cascade, and exposes the effective-permission listing that explains
// what a user can actually do once every layer is applied.
package permissions

import "time"

// Override is one per-user boolean grant.
type Override struct {
	ID        int64     `json:"id"`
	TenantID  int64     `json:"tenant_id"`
	UserID    int64     `json:"user_id"`
	Resource  string    `json:"resource"`
	Action    string    `json:"action"`
	Granted   bool      `json:"granted"`
	CreatedAt time.Time `json:"created_at"`
}

// OverrideInput carries an override upsert.
type OverrideInput struct {
	UserID   int64  `json:"user_id" validate:"required,gt=0"`
	Resource string `json:"resource" validate:"required"`
	Action   string `json:"action" validate:"required"`
	Granted  bool   `json:"granted"`
}

// EffectiveEntry is one resolved (resource, action) cell for a user.
type EffectiveEntry struct {
	Resource string `json:"resource"`
	Action   string `json:"action"`
	Value    string `json:"value"`
}
