package rbac

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/armada-fleet/armada/internal/platform/httpx"
)

// PermissionsHandler exposes the read-only permission catalog.
type PermissionsHandler struct {
	logger  *slog.Logger
	service *Service
}

// NewPermissionsHandler constructs the handler.
func NewPermissionsHandler(logger *slog.Logger, service *Service) *PermissionsHandler {
	return &PermissionsHandler{logger: logger, service: service}
}

// MountRoutes registers the permissions routes.
func (h *PermissionsHandler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
}

func (h *PermissionsHandler) list(w http.ResponseWriter, r *http.Request) {
	perms, err := h.service.ListPermissions(r.Context())
	if err != nil {
		h.logger.Error("list permissions", slog.Any("error", err))
		httpx.Error(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Permissions retrieved", perms)
}
