package authz

import "context"

// Identity describes the authenticated caller. The engine never reads
// ambient session state; callers resolve the identity once per request
// and pass it explicitly.
type Identity struct {
	UserID     int64
	TenantID   int64
	Role       Role
	Department string
}

// Authenticated reports whether the identity carries a real user.
func (id Identity) Authenticated() bool {
	return id.UserID > 0
}

type identityContextKey struct{}

// ContextWithIdentity stores the resolved identity for downstream handlers.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext extracts the identity placed by the middleware.
// The zero Identity is returned when none is present.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityContextKey{}).(Identity)
	return id, ok
}
