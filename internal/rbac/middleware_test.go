package rbac

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armada-fleet/armada/internal/shared"
	_ "github.com/armada-fleet/armada/testing"
)

type fakeChecker struct {
	granted map[string]bool
	err     error
	calls   int
}

func (f *fakeChecker) HasPermission(ctx context.Context, roleID shared.ID, req Requirement) (bool, error) {
	f.calls++
	if f.err != nil {
		return false, f.err
	}
	return f.granted[roleID.String()+"/"+req.String()], nil
}

func identityWithRole(roleID shared.ID) *shared.Identity {
	return &shared.Identity{ID: 1, Username: "ops", Status: shared.StatusActive, RoleID: &roleID}
}

func runGuarded(t *testing.T, checker Checker, ident *shared.Identity, resource, action string) *httptest.ResponseRecorder {
	t.Helper()
	m := Middleware{Checker: checker}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	req := httptest.NewRequest("GET", "/", nil)
	if ident != nil {
		req = req.WithContext(shared.ContextWithIdentity(req.Context(), ident))
	}
	rec := httptest.NewRecorder()
	m.Require(resource, action)(next).ServeHTTP(rec, req)
	return rec
}

func TestRequireWithoutIdentity(t *testing.T) {
	checker := &fakeChecker{}
	rec := runGuarded(t, checker, nil, ResourceRoles, ActionRead)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, checker.calls)
}

func TestRequireWithoutRole(t *testing.T) {
	checker := &fakeChecker{}
	ident := &shared.Identity{ID: 1, Username: "orphan", Status: shared.StatusActive}
	rec := runGuarded(t, checker, ident, ResourceRoles, ActionRead)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Zero(t, checker.calls)
}

func TestRequireDenied(t *testing.T) {
	checker := &fakeChecker{granted: map[string]bool{"7/roles:read": true}}
	rec := runGuarded(t, checker, identityWithRole(7), ResourceRoles, ActionDelete)

	assert.Equal(t, http.StatusForbidden, rec.Code)

	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Message, "roles:delete")
}

func TestRequireGranted(t *testing.T) {
	checker := &fakeChecker{granted: map[string]bool{"7/roles:read": true}}
	rec := runGuarded(t, checker, identityWithRole(7), ResourceRoles, ActionRead)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 1, checker.calls)
}

func TestRequireCheckerError(t *testing.T) {
	checker := &fakeChecker{err: errors.New("pool exhausted")}
	rec := runGuarded(t, checker, identityWithRole(7), ResourceRoles, ActionRead)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestCatalogCoversEveryPair(t *testing.T) {
	catalog := Catalog()
	assert.Len(t, catalog, 16)

	seen := map[string]bool{}
	for _, req := range catalog {
		seen[req.String()] = true
	}
	assert.True(t, seen["users:create"])
	assert.True(t, seen["drivers:delete"])
}
