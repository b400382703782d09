package auth

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"

	"github.com/armada-fleet/armada/internal/platform/httpx"
	"github.com/armada-fleet/armada/internal/shared"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger        *slog.Logger
	service       *Service
	authenticator *Authenticator
	validator     *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, authenticator *Authenticator) *Handler {
	return &Handler{
		logger:        logger,
		service:       service,
		authenticator: authenticator,
		validator:     validator.New(),
	}
}

// MountRoutes registers auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(httprate.LimitByIP(20, time.Minute))
		r.Post("/login", h.handleLogin)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authenticator.Middleware)
		r.Get("/profile", h.handleProfile)
	})
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, shared.NewValidationError("request body must be valid JSON"))
		return
	}
	if err := shared.Validate(h.validator, req); err != nil {
		httpx.Error(w, err)
		return
	}

	token, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Login successful", loginResponse{AccessToken: token})
}

func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	ident := shared.IdentityFromContext(r.Context())
	if ident == nil {
		httpx.Error(w, shared.ErrUnauthenticated)
		return
	}
	httpx.OK(w, http.StatusOK, "Profile retrieved", ident)
}
