package audit

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/praxis-suite/praxis/internal/authz"
	"github.com/praxis-suite/praxis/internal/platform/httpx"
)

// Handler serves the audit timeline to administrators.
type Handler struct {
	logger  *slog.Logger
	service *Service
	guard   authz.Middleware
}

// NewHandler builds the audit handler.
func NewHandler(logger *slog.Logger, service *Service, guard authz.Middleware) *Handler {
	return &Handler{logger: logger, service: service, guard: guard}
}

// MountRoutes registers audit routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.guard.Require(authz.ResourceAudit, authz.ActionRead)).Get("/", h.list)
	r.With(h.guard.Require(authz.ResourceAudit, authz.ActionExport)).Get("/export.csv", h.exportCSV)
}

type timelineRow struct {
	At       time.Time `json:"at"`
	ActorID  int64     `json:"actor_id"`
	Verb     string    `json:"verb"`
	Entity   string    `json:"entity"`
	EntityID string    `json:"entity_id,omitempty"`
	Detail   string    `json:"detail,omitempty"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	id, _ := authz.IdentityFromContext(r.Context())
	filters := h.filtersFromQuery(r, id.TenantID)

	result, err := h.service.Timeline(r.Context(), filters)
	if err != nil {
		h.logger.Error("audit timeline", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	rows := make([]timelineRow, 0, len(result.Rows))
	for _, record := range result.Rows {
		rows = append(rows, timelineRow{
			At:       record.At,
			ActorID:  record.ActorID,
			Verb:     record.Verb,
			Entity:   record.Entity,
			EntityID: record.EntityID,
			Detail:   record.Detail,
		})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"rows":   rows,
		"paging": result.Paging,
	})
}

func (h *Handler) exportCSV(w http.ResponseWriter, r *http.Request) {
	id, _ := authz.IdentityFromContext(r.Context())
	filters := h.filtersFromQuery(r, id.TenantID)
	filters.Page = 0
	filters.PageSize = 0

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="audit-`+uuid.NewString()+`.csv"`)
	if err := h.service.ExportCSV(r.Context(), filters, w); err != nil {
		h.logger.Error("audit export", slog.Any("error", err))
	}
}

func (h *Handler) filtersFromQuery(r *http.Request, tenantID int64) TimelineFilters {
	query := r.URL.Query()
	filters := TimelineFilters{
		TenantID: tenantID,
		Entity:   query.Get("entity"),
		Verb:     query.Get("verb"),
	}
	if raw := query.Get("actor_id"); raw != "" {
		if actorID, err := strconv.ParseInt(raw, 10, 64); err == nil {
			filters.ActorID = actorID
		}
	}
	if raw := query.Get("from"); raw != "" {
		if from, err := time.Parse(time.RFC3339, raw); err == nil {
			filters.From = from
		}
	}
	if raw := query.Get("to"); raw != "" {
		if to, err := time.Parse(time.RFC3339, raw); err == nil {
			filters.To = to
		}
	}
	if raw := query.Get("page"); raw != "" {
		if page, err := strconv.Atoi(raw); err == nil {
			filters.Page = page
		}
	}
	if raw := query.Get("page_size"); raw != "" {
		if size, err := strconv.Atoi(raw); err == nil {
			filters.PageSize = size
		}
	}
	return filters
}
