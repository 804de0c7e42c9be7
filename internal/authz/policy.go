package authz

import "context"

// TenantSettings carries the per-tenant veto flags and module toggles.
// Absence of a settings row for a tenant means every veto is open; the
// store signals absence through the found return, not a nil struct.
type TenantSettings struct {
	TenantID                 int64
	AllowAdminUserCreate     bool
	AllowAdminUserDelete     bool
	AllowAdminInvoiceApprove bool
	AllowAdminSettingsUpdate bool
	EnabledModules           []string
}

// ModuleEnabled reports whether the named module is switched on for the
// tenant. An empty module list means nothing has been restricted.
func (s TenantSettings) ModuleEnabled(module string) bool {
	if len(s.EnabledModules) == 0 {
		return true
	}
	for _, enabled := range s.EnabledModules {
		if enabled == module {
			return true
		}
	}
	return false
}

// PolicyStore is the persistence boundary the engine reads through. The
// engine owns the contract; implementations live outside this package.
// Every method treats "no row" as a found=false result, never an error.
type PolicyStore interface {
	// FindUserOverride returns the boolean grant for a per-user override
	// row keyed by (userID, resource, action).
	FindUserOverride(ctx context.Context, tenantID, userID int64, resource Resource, action Action) (granted bool, found bool, err error)

	// FindDepartmentOverride returns the department policy value keyed by
	// (department, resource, action).
	FindDepartmentOverride(ctx context.Context, tenantID int64, department string, resource Resource, action Action) (value PermissionValue, found bool, err error)

	// FindTeamMembers returns the union of user IDs across every team the
	// user manages or belongs to. The user's own ID need not be present.
	FindTeamMembers(ctx context.Context, tenantID, userID int64) (map[int64]struct{}, error)

	// FindTenantSettings returns the tenant's veto/module settings.
	FindTenantSettings(ctx context.Context, tenantID int64) (TenantSettings, bool, error)
}
