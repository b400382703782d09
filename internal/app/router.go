package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/armada-fleet/armada/internal/auth"
	"github.com/armada-fleet/armada/internal/drivers"
	"github.com/armada-fleet/armada/internal/observability"
	"github.com/armada-fleet/armada/internal/rbac"
	"github.com/armada-fleet/armada/internal/roles"
	"github.com/armada-fleet/armada/internal/users"
	"github.com/armada-fleet/armada/internal/vehicles"
	"github.com/armada-fleet/armada/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger             *slog.Logger
	Config             *Config
	Authenticator      *auth.Authenticator
	AuthHandler        *auth.Handler
	RolesHandler       *roles.Handler
	UsersHandler       *users.Handler
	VehiclesHandler    *vehicles.Handler
	DriversHandler     *drivers.Handler
	PermissionsHandler *rbac.PermissionsHandler
	JobHandler         *jobs.Handler
	Metrics            *observability.Metrics
}

// NewRouter constructs the chi.Router. Resource routes sit behind the
// bearer-token middleware; permission checks live inside each handler's
// route declarations.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)

	r.Group(func(r chi.Router) {
		r.Use(params.Authenticator.Middleware)
		if params.RolesHandler != nil {
			r.Route("/roles", params.RolesHandler.MountRoutes)
		}
		if params.UsersHandler != nil {
			r.Route("/users", params.UsersHandler.MountRoutes)
		}
		if params.VehiclesHandler != nil {
			r.Route("/vehicles", params.VehiclesHandler.MountRoutes)
		}
		if params.DriversHandler != nil {
			r.Route("/drivers", params.DriversHandler.MountRoutes)
		}
		if params.PermissionsHandler != nil {
			r.Route("/permissions", params.PermissionsHandler.MountRoutes)
		}
	})

	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
