package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/praxis-suite/praxis/internal/audit"
	"github.com/praxis-suite/praxis/internal/auth"
	"github.com/praxis-suite/praxis/internal/authz"
	"github.com/praxis-suite/praxis/internal/departments"
	"github.com/praxis-suite/praxis/internal/invoices"
	"github.com/praxis-suite/praxis/internal/observability"
	"github.com/praxis-suite/praxis/internal/permissions"
	"github.com/praxis-suite/praxis/internal/platform/httpx"
	"github.com/praxis-suite/praxis/internal/projects"
	"github.com/praxis-suite/praxis/internal/shared"
	"github.com/praxis-suite/praxis/internal/tasks"
	"github.com/praxis-suite/praxis/internal/tenants"
	"github.com/praxis-suite/praxis/internal/timeentries"
	"github.com/praxis-suite/praxis/internal/users"
	"github.com/praxis-suite/praxis/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager
	Authz          authz.Middleware

	AuthHandler        *auth.Handler
	UsersHandler       *users.Handler
	TenantsHandler     *tenants.Handler
	DepartmentsHandler *departments.Handler
	PermissionsHandler *permissions.Handler
	AuditHandler       *audit.Handler
	ProjectsHandler    *projects.Handler
	TasksHandler       *tasks.Handler
	TimeEntriesHandler *timeentries.Handler
	InvoicesHandler    *invoices.Handler
	JobsHandler        *jobs.Handler

	Metrics *observability.Metrics
}

// NewRouter constructs the chi.Router with Praxis defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Authz:          params.Authz,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Navigation pre-filter: the base rule only, no override or scope
	// lookups. Clients still hit the full guard on every real request.
	r.Get("/navigation", func(w http.ResponseWriter, r *http.Request) {
		id, ok := authz.IdentityFromContext(r.Context())
		if !ok {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
			return
		}
		readable := make([]string, 0, len(authz.Resources()))
		for _, resource := range authz.Resources() {
			if authz.LookupBaseRule(id.Role, resource, authz.ActionRead).Grants() {
				readable = append(readable, string(resource))
			}
		}
		httpx.JSON(w, http.StatusOK, map[string]any{
			"role":      id.Role.String(),
			"resources": readable,
		})
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)
	if params.UsersHandler != nil {
		r.Route("/users", params.UsersHandler.MountRoutes)
	}
	if params.TenantsHandler != nil {
		r.Route("/tenant", params.TenantsHandler.MountRoutes)
	}
	if params.DepartmentsHandler != nil {
		r.Route("/departments", params.DepartmentsHandler.MountRoutes)
	}
	if params.PermissionsHandler != nil {
		r.Route("/permissions", params.PermissionsHandler.MountRoutes)
	}
	if params.AuditHandler != nil {
		r.Route("/audit", params.AuditHandler.MountRoutes)
	}
	if params.ProjectsHandler != nil {
		r.Route("/projects", params.ProjectsHandler.MountRoutes)
	}
	if params.TasksHandler != nil {
		r.Route("/tasks", params.TasksHandler.MountRoutes)
	}
	if params.TimeEntriesHandler != nil {
		r.Route("/timeentries", params.TimeEntriesHandler.MountRoutes)
	}
	if params.InvoicesHandler != nil {
		r.Route("/invoices", params.InvoicesHandler.MountRoutes)
	}
	if params.JobsHandler != nil {
		r.Route("/jobs", params.JobsHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
