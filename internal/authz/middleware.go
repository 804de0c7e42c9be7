package authz

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/praxis-suite/praxis/internal/platform/httpx"
	"github.com/praxis-suite/praxis/internal/shared"
)

// Session value keys written at login and read back per request.
const (
	SessionKeyRole       = "role"
	SessionKeyDepartment = "department"
	SessionKeyTenant     = "tenant_id"
)

// Middleware translates session state into an explicit Identity and
// guards routes through the resolver.
type Middleware struct {
	Resolver *Resolver
	Logger   *slog.Logger
}

// WithIdentity resolves the caller's identity from the session once and
// stores it in the request context. Requests without a session continue
// unauthenticated; the guard layers decide what that means per route.
func (m Middleware) WithIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := m.identityFromSession(r); ok {
			r = r.WithContext(ContextWithIdentity(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

// Require asserts a route-level permission with no object target. Owner
// scoped checks belong in handlers that have loaded the target record.
func (m Middleware) Require(resource Resource, action Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFromContext(r.Context())
			if !ok {
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
				return
			}
			if err := m.Resolver.Assert(r.Context(), id, resource, action); err != nil {
				m.respondDenied(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole gates a route on the role hierarchy alone, for surfaces
// that pre-filter navigation without a full policy lookup.
func (m Middleware) RequireRole(required Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFromContext(r.Context())
			if !ok {
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
				return
			}
			if !id.Role.IsAtLeast(required) {
				httpx.Problem(w, http.StatusForbidden, "Forbidden", "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RespondDenied maps engine errors onto problem responses. Handlers that
// call Assert directly reuse it.
func RespondDenied(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotAuthenticated) {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
		return
	}
	var denial *DenialError
	if errors.As(err, &denial) {
		detail := string(denial.Reason)
		if denial.Reason == ReasonScopeViolation {
			detail = "you can only " + string(denial.Action) + " your own " + string(denial.Resource)
		}
		httpx.Problem(w, http.StatusForbidden, "Forbidden", detail)
		return
	}
	httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
}

func (m Middleware) respondDenied(w http.ResponseWriter, err error) {
	RespondDenied(w, err)
}

func (m Middleware) identityFromSession(r *http.Request) (Identity, bool) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		return Identity{}, false
	}
	rawUser := strings.TrimSpace(sess.User())
	if rawUser == "" {
		return Identity{}, false
	}
	userID, err := strconv.ParseInt(rawUser, 10, 64)
	if err != nil {
		if m.Logger != nil {
			m.Logger.Error("authz: parse session user id", slog.String("value", rawUser))
		}
		return Identity{}, false
	}
	role, err := ParseRole(sess.Get(SessionKeyRole))
	if err != nil {
		if m.Logger != nil {
			m.Logger.Error("authz: parse session role", slog.Any("error", err))
		}
		return Identity{}, false
	}
	tenantID, err := strconv.ParseInt(strings.TrimSpace(sess.Get(SessionKeyTenant)), 10, 64)
	if err != nil {
		if m.Logger != nil {
			m.Logger.Error("authz: parse session tenant", slog.Any("error", err))
		}
		return Identity{}, false
	}
	return Identity{
		UserID:     userID,
		TenantID:   tenantID,
		Role:       role,
		Department: strings.TrimSpace(sess.Get(SessionKeyDepartment)),
	}, true
}
