package authz

import "fmt"

// PermissionValue is the resolved outcome of a matrix or override lookup.
// It stays a four-way tagged value through the whole pipeline; it never
// collapses to a plain boolean until scope has been checked.
type PermissionValue int

const (
	// Denied refuses the action outright.
	Denied PermissionValue = iota
	// Allowed grants the action on any target.
	Allowed
	// ScopedOwn grants the action only on objects the actor owns.
	ScopedOwn
	// ScopedTeam grants the action on objects owned by the actor's team.
	ScopedTeam
)

var permissionValueNames = map[PermissionValue]string{
	Denied:     "denied",
	Allowed:    "allowed",
	ScopedOwn:  "own",
	ScopedTeam: "team",
}

// String returns the storage name of the value.
func (v PermissionValue) String() string {
	if name, ok := permissionValueNames[v]; ok {
		return name
	}
	return fmt.Sprintf("permission(%d)", int(v))
}

// Grants reports whether the value grants anything at all, before scope
// enforcement.
func (v PermissionValue) Grants() bool {
	return v == Allowed || v == ScopedOwn || v == ScopedTeam
}

// Scoped reports whether the value requires an ownership check.
func (v PermissionValue) Scoped() bool {
	return v == ScopedOwn || v == ScopedTeam
}

// ParsePermissionValue maps a stored value name back to its tagged form.
func ParsePermissionValue(name string) (PermissionValue, error) {
	for value, label := range permissionValueNames {
		if label == name {
			return value, nil
		}
	}
	return Denied, fmt.Errorf("authz: unknown permission value %q", name)
}
