package departments

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/praxis-suite/praxis/internal/authz"
	"github.com/praxis-suite/praxis/internal/platform/httpx"
	"github.com/praxis-suite/praxis/internal/shared"
)

// Handler exposes department policy endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	guard     authz.Middleware
	validator *validator.Validate
}

// NewHandler constructs the handler.
func NewHandler(logger *slog.Logger, service *Service, guard authz.Middleware) *Handler {
	return &Handler{logger: logger, service: service, guard: guard, validator: validator.New()}
}

// MountRoutes registers department policy routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.guard.Require(authz.ResourceDepartments, authz.ActionRead)).Get("/policies", h.list)
	r.With(h.guard.Require(authz.ResourceDepartments, authz.ActionUpdate)).Put("/policies", h.upsert)
	r.With(h.guard.Require(authz.ResourceDepartments, authz.ActionDelete)).Delete("/policies/{id}", h.remove)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	id, _ := authz.IdentityFromContext(r.Context())
	policies, err := h.service.List(r.Context(), id, r.URL.Query().Get("department"))
	if err != nil {
		h.logger.Error("list department policies", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"rows": policies})
}

func (h *Handler) upsert(w http.ResponseWriter, r *http.Request) {
	id, _ := authz.IdentityFromContext(r.Context())
	var input PolicyInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(input); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	policy, err := h.service.Upsert(r.Context(), id, input)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, policy)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id, _ := authz.IdentityFromContext(r.Context())
	policyID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid policy id")
		return
	}
	if err := h.service.Delete(r.Context(), id, policyID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "policy not found")
			return
		}
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
