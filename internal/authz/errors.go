package authz

import (
	"errors"
	"fmt"
)

// ErrNotAuthenticated indicates no valid identity was supplied. It is
// always fatal to the calling operation.
var ErrNotAuthenticated = errors.New("authz: not authenticated")

// DenialReason classifies why a check failed. The engine returns
// structured reasons only; callers render user-facing messages.
type DenialReason string

const (
	// ReasonPermissionDenied means the matrix/override cascade resolved
	// to deny.
	ReasonPermissionDenied DenialReason = "permission_denied"
	// ReasonScopeViolation means a scoped grant exists but the target is
	// outside the actor's ownership. Partial access exists, which matters
	// for caller messaging.
	ReasonScopeViolation DenialReason = "scope_violation"
	// ReasonVetoRestricted means a tenant administrator explicitly
	// disabled the action for otherwise-privileged roles.
	ReasonVetoRestricted DenialReason = "veto_restricted"
)

// DenialError is the typed error raised by Assert when a check fails.
type DenialError struct {
	Resource Resource
	Action   Action
	Reason   DenialReason
}

func (e *DenialError) Error() string {
	return fmt.Sprintf("authz: %s %s:%s", e.Reason, e.Resource, e.Action)
}

// Deny builds a DenialError for the given combination.
func Deny(resource Resource, action Action, reason DenialReason) *DenialError {
	return &DenialError{Resource: resource, Action: action, Reason: reason}
}

// IsDenied reports whether err is a permission denial (of any reason).
func IsDenied(err error) bool {
	var denial *DenialError
	return errors.As(err, &denial)
}
