package vehicles

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/armada-fleet/armada/internal/platform/httpx"
	"github.com/armada-fleet/armada/internal/rbac"
	"github.com/armada-fleet/armada/internal/shared"
)

// Handler wires the vehicle endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	rbac      rbac.Middleware
	validator *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, guard rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, rbac: guard, validator: validator.New()}
}

// MountRoutes registers vehicle routes with their declared permission
// requirements.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.rbac.Require(rbac.ResourceVehicles, rbac.ActionRead)).Get("/", h.list)
	r.With(h.rbac.Require(rbac.ResourceVehicles, rbac.ActionRead)).Get("/{publicID}", h.get)
	r.With(h.rbac.Require(rbac.ResourceVehicles, rbac.ActionCreate)).Post("/", h.create)
	r.With(h.rbac.Require(rbac.ResourceVehicles, rbac.ActionUpdate)).Put("/{id}", h.update)
	r.With(h.rbac.Require(rbac.ResourceVehicles, rbac.ActionDelete)).Delete("/{id}", h.remove)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	items, page, err := h.service.List(r.Context(), shared.ListOptionsFromRequest(r))
	if err != nil {
		h.logger.Error("list vehicles", slog.Any("error", err))
		httpx.Error(w, err)
		return
	}
	if items == nil {
		items = []Vehicle{}
	}
	httpx.OKList(w, "Vehicles retrieved", items, page.Total, page.Page, page.PerPage, page.TotalPages)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	vehicle, err := h.service.Get(r.Context(), chi.URLParam(r, "publicID"))
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Vehicle retrieved", vehicle)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateVehicleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, shared.NewValidationError("request body must be valid JSON"))
		return
	}
	if err := shared.Validate(h.validator, req); err != nil {
		httpx.Error(w, err)
		return
	}
	created, err := h.service.Create(r.Context(), shared.IdentityFromContext(r.Context()), req)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.OK(w, http.StatusCreated, "Vehicle created", created)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, shared.NewValidationError("id must be a decimal integer"))
		return
	}
	var req UpdateVehicleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, shared.NewValidationError("request body must be valid JSON"))
		return
	}
	if err := shared.Validate(h.validator, req); err != nil {
		httpx.Error(w, err)
		return
	}
	updated, err := h.service.Update(r.Context(), shared.IdentityFromContext(r.Context()), id, req)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Vehicle updated", updated)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, shared.NewValidationError("id must be a decimal integer"))
		return
	}
	plate, err := h.service.Delete(r.Context(), shared.IdentityFromContext(r.Context()), id)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, fmt.Sprintf("Vehicle %q deleted", plate), nil)
}
