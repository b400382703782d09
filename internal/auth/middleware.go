package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/armada-fleet/armada/internal/platform/httpx"
	"github.com/armada-fleet/armada/internal/shared"
)

// Authenticator is the identity-resolution middleware: it verifies the
// bearer token and re-loads the user from the store on every request.
type Authenticator struct {
	Tokens  *TokenManager
	Service *Service
	Logger  *slog.Logger
}

// Middleware rejects requests without a valid, live identity and stores
// the resolved identity in the request context.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := bearerToken(r)
		if err != nil {
			httpx.Error(w, err)
			return
		}
		claims, err := a.Tokens.Verify(token)
		if err != nil {
			httpx.Error(w, err)
			return
		}
		userID, err := shared.ParseID(claims.Subject)
		if err != nil {
			httpx.Error(w, fmt.Errorf("malformed token subject: %w", shared.ErrUnauthenticated))
			return
		}
		ident, err := a.Service.Resolve(r.Context(), userID)
		if err != nil {
			if a.Logger != nil && !errors.Is(err, shared.ErrUnauthenticated) {
				a.Logger.Error("resolve identity", slog.Any("error", err))
			}
			httpx.Error(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(shared.ContextWithIdentity(r.Context(), ident)))
	})
}

func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", fmt.Errorf("missing authorization header: %w", shared.ErrUnauthenticated)
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", fmt.Errorf("malformed authorization header: %w", shared.ErrUnauthenticated)
	}
	return token, nil
}
