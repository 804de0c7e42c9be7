// Package authz implements the layered permission-resolution engine:
// a static role matrix, department and per-user overrides, ownership
// scoping, tenant-level vetoes, and audit of every denial.
package authz

import (
	"fmt"
	"strings"
)

// Role is an ordered privilege level. Lower rank means more powerful.
type Role int

const (
	RoleSuperadmin Role = iota
	RoleAdmin
	RoleManager
	RoleWorker
	RoleGuest
)

var roleNames = map[Role]string{
	RoleSuperadmin: "superadmin",
	RoleAdmin:      "admin",
	RoleManager:    "manager",
	RoleWorker:     "worker",
	RoleGuest:      "guest",
}

// String returns the canonical lowercase name of the role.
func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("role(%d)", int(r))
}

// Valid reports whether the role is one of the defined levels.
func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

// IsAtLeast reports whether the role carries at least the privilege of
// required. Rank ordering is inverted: rank 0 is the most powerful.
func (r Role) IsAtLeast(required Role) bool {
	return r <= required
}

// ParseRole maps a stored role name to its Role value.
func ParseRole(name string) (Role, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for role, label := range roleNames {
		if label == normalized {
			return role, nil
		}
	}
	return RoleGuest, fmt.Errorf("authz: unknown role %q", name)
}
