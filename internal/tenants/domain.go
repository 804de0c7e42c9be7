// Package tenants exposes the per-tenant settings surface: veto flags
// and module toggles that the permission engine reads on every check.
package tenants

// Settings mirrors the tenant_settings row.
type Settings struct {
	TenantID                 int64    `json:"tenant_id"`
	AllowAdminUserCreate     bool     `json:"allow_admin_user_create"`
	AllowAdminUserDelete     bool     `json:"allow_admin_user_delete"`
	AllowAdminInvoiceApprove bool     `json:"allow_admin_invoice_approve"`
	AllowAdminSettingsUpdate bool     `json:"allow_admin_settings_update"`
	EnabledModules           []string `json:"enabled_modules"`
}

// UpdateInput carries partial settings changes.
type UpdateInput struct {
	AllowAdminUserCreate     *bool     `json:"allow_admin_user_create"`
	AllowAdminUserDelete     *bool     `json:"allow_admin_user_delete"`
	AllowAdminInvoiceApprove *bool     `json:"allow_admin_invoice_approve"`
	AllowAdminSettingsUpdate *bool     `json:"allow_admin_settings_update"`
	EnabledModules           *[]string `json:"enabled_modules"`
}
