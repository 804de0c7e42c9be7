package authz

// roleGrants maps a role's granted (resource, action) pairs to their
// permission value. Combinations absent from the table are Denied; the
// matrix is total by construction, never "unspecified".
type roleGrants map[Resource]map[Action]PermissionValue

// roleMatrix is the baseline permission table. Department policies and
// per-user overrides layer on top of it but can never grant anything for
// a role the application does not know.
//
// Superadmin is deliberately absent: it bypasses every layer of the
// engine and is handled before the matrix is consulted.
var roleMatrix = map[Role]roleGrants{
	RoleAdmin: {
		ResourceUsers:       allActions(Allowed),
		ResourceProjects:    allActions(Allowed),
		ResourceTasks:       allActions(Allowed),
		ResourceTimeEntries: allActions(Allowed),
		ResourceInvoices:    allActions(Allowed),
		ResourceSettings:    allActions(Allowed),
		ResourcePermissions: allActions(Allowed),
		ResourceAudit: {
			ActionRead:   Allowed,
			ActionExport: Allowed,
		},
		ResourceDepartments: allActions(Allowed),
		ResourceTeams:       allActions(Allowed),
	},
	RoleManager: {
		ResourceUsers: {
			ActionRead:   Allowed,
			ActionUpdate: ScopedTeam,
		},
		ResourceProjects: {
			ActionCreate: Allowed,
			ActionRead:   Allowed,
			ActionUpdate: ScopedTeam,
			ActionDelete: ScopedTeam,
			ActionExport: Allowed,
		},
		ResourceTasks: {
			ActionCreate:  Allowed,
			ActionRead:    Allowed,
			ActionUpdate:  ScopedTeam,
			ActionDelete:  ScopedTeam,
			ActionApprove: ScopedTeam,
			ActionExport:  Allowed,
		},
		ResourceTimeEntries: {
			ActionCreate:  Allowed,
			ActionRead:    ScopedTeam,
			ActionUpdate:  ScopedTeam,
			ActionDelete:  ScopedOwn,
			ActionApprove: ScopedTeam,
			ActionExport:  ScopedTeam,
		},
		ResourceInvoices: {
			ActionCreate: Allowed,
			ActionRead:   Allowed,
			ActionUpdate: ScopedTeam,
			ActionExport: Allowed,
		},
		ResourceSettings: {
			ActionRead: Allowed,
		},
		ResourceDepartments: {
			ActionRead: Allowed,
		},
		ResourceTeams: {
			ActionRead:   Allowed,
			ActionUpdate: ScopedOwn,
		},
	},
	RoleWorker: {
		ResourceUsers: {
			ActionRead: Allowed,
		},
		ResourceProjects: {
			ActionRead: Allowed,
		},
		ResourceTasks: {
			ActionCreate: Allowed,
			ActionRead:   Allowed,
			ActionUpdate: ScopedOwn,
			ActionDelete: ScopedOwn,
		},
		ResourceTimeEntries: {
			ActionCreate: Allowed,
			ActionRead:   ScopedOwn,
			ActionUpdate: ScopedOwn,
			ActionDelete: ScopedOwn,
			ActionExport: ScopedOwn,
		},
		ResourceInvoices: {
			ActionRead: ScopedOwn,
		},
		ResourceTeams: {
			ActionRead: Allowed,
		},
	},
	RoleGuest: {
		ResourceProjects: {
			ActionRead: Allowed,
		},
		ResourceTasks: {
			ActionRead: Allowed,
		},
	},
}

func allActions(value PermissionValue) map[Action]PermissionValue {
	grants := make(map[Action]PermissionValue, len(Actions()))
	for _, action := range Actions() {
		grants[action] = value
	}
	return grants
}

// LookupBaseRule resolves the baseline matrix value for a combination.
// It is a pure, total function: any combination not present in the table
// resolves to Denied. Route-level allow lists use it to pre-filter
// navigation without a full request context.
func LookupBaseRule(role Role, resource Resource, action Action) PermissionValue {
	if role == RoleSuperadmin {
		return Allowed
	}
	grants, ok := roleMatrix[role]
	if !ok {
		return Denied
	}
	actions, ok := grants[resource]
	if !ok {
		return Denied
	}
	value, ok := actions[action]
	if !ok {
		return Denied
	}
	return value
}
