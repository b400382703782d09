package rbac

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/armada-fleet/armada/internal/platform/httpx"
	"github.com/armada-fleet/armada/internal/shared"
)

// Middleware wires declarative permission requirements onto HTTP handlers.
// Routes without a Require declaration are unconditionally permitted.
type Middleware struct {
	Checker Checker
	Logger  *slog.Logger
}

// Require declares the (resource, action) pair the wrapped operation
// needs. The check runs before the operation body: unauthenticated
// callers get 401, callers without a role or without the exact pair get
// 403 naming the missing permission.
func (m Middleware) Require(resource, action string) func(http.Handler) http.Handler {
	req := Requirement{Resource: resource, Action: action}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident := shared.IdentityFromContext(r.Context())
			if ident == nil {
				httpx.Error(w, fmt.Errorf("authentication required: %w", shared.ErrUnauthenticated))
				return
			}
			if !ident.HasRole() {
				httpx.Error(w, fmt.Errorf("no role assigned: %w", shared.ErrForbidden))
				return
			}
			granted, err := m.Checker.HasPermission(r.Context(), *ident.RoleID, req)
			if err != nil {
				if m.Logger != nil {
					m.Logger.Error("permission check", slog.String("permission", req.String()), slog.Any("error", err))
				}
				httpx.Error(w, err)
				return
			}
			if !granted {
				httpx.Error(w, fmt.Errorf("access denied, permission '%s' required: %w", req.String(), shared.ErrForbidden))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
