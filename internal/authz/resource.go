package authz

import (
	"fmt"
	"strings"
)

// Resource names a protected category of domain objects.
type Resource string

const (
	ResourceUsers       Resource = "users"
	ResourceProjects    Resource = "projects"
	ResourceTasks       Resource = "tasks"
	ResourceTimeEntries Resource = "timeentries"
	ResourceInvoices    Resource = "invoices"
	ResourceSettings    Resource = "settings"
	ResourcePermissions Resource = "permissions"
	ResourceAudit       Resource = "audit"
	ResourceDepartments Resource = "departments"
	ResourceTeams       Resource = "teams"
)

// Action is a kind of operation performed against a resource.
type Action string

const (
	ActionCreate  Action = "create"
	ActionRead    Action = "read"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionApprove Action = "approve"
	ActionExport  Action = "export"
)

// Resources lists every protected resource category.
func Resources() []Resource {
	return []Resource{
		ResourceUsers,
		ResourceProjects,
		ResourceTasks,
		ResourceTimeEntries,
		ResourceInvoices,
		ResourceSettings,
		ResourcePermissions,
		ResourceAudit,
		ResourceDepartments,
		ResourceTeams,
	}
}

// Actions lists every operation kind.
func Actions() []Action {
	return []Action{
		ActionCreate,
		ActionRead,
		ActionUpdate,
		ActionDelete,
		ActionApprove,
		ActionExport,
	}
}

// ParseResource validates a stored resource name.
func ParseResource(name string) (Resource, error) {
	candidate := Resource(strings.ToLower(strings.TrimSpace(name)))
	for _, resource := range Resources() {
		if resource == candidate {
			return resource, nil
		}
	}
	return "", fmt.Errorf("authz: unknown resource %q", name)
}

// ParseAction validates a stored action name.
func ParseAction(name string) (Action, error) {
	candidate := Action(strings.ToLower(strings.TrimSpace(name)))
	for _, action := range Actions() {
		if action == candidate {
			return action, nil
		}
	}
	return "", fmt.Errorf("authz: unknown action %q", name)
}
