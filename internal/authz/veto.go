package authz

// vetoKey identifies a veto-gated (resource, action) pair.
type vetoKey struct {
	resource Resource
	action   Action
}

// vetoFlags binds each gated pair to the tenant settings flag that
// controls it. Adding a gated action means adding an entry here; the
// accessor is a typed function, so a missing or renamed flag is a
// compile error rather than a silently ignored string key.
var vetoFlags = map[vetoKey]func(TenantSettings) bool{
	{ResourceUsers, ActionCreate}:     func(s TenantSettings) bool { return s.AllowAdminUserCreate },
	{ResourceUsers, ActionDelete}:     func(s TenantSettings) bool { return s.AllowAdminUserDelete },
	{ResourceInvoices, ActionApprove}: func(s TenantSettings) bool { return s.AllowAdminInvoiceApprove },
	{ResourceSettings, ActionUpdate}:  func(s TenantSettings) bool { return s.AllowAdminSettingsUpdate },
}

// VetoGated reports whether the combination is subject to a tenant veto.
func VetoGated(resource Resource, action Action) bool {
	_, ok := vetoFlags[vetoKey{resource, action}]
	return ok
}

// vetoed evaluates the gate against loaded tenant settings. It only has
// meaning when a settings row exists; the caller handles the permissive
// missing-row default.
func vetoed(settings TenantSettings, resource Resource, action Action) bool {
	flag, ok := vetoFlags[vetoKey{resource, action}]
	if !ok {
		return false
	}
	return !flag(settings)
}

// resourceModules maps resources to the tenant module that must be
// enabled for any non-superadmin access. Resources absent from the map
// are part of the always-on core.
var resourceModules = map[Resource]string{
	ResourceProjects:    "projects",
	ResourceTasks:       "projects",
	ResourceTimeEntries: "timesheets",
	ResourceInvoices:    "invoicing",
}

// moduleDisabled reports whether the resource belongs to a module the
// tenant has switched off.
func moduleDisabled(settings TenantSettings, resource Resource) bool {
	module, ok := resourceModules[resource]
	if !ok {
		return false
	}
	return !settings.ModuleEnabled(module)
}
