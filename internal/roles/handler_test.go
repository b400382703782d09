package roles

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armada-fleet/armada/internal/platform/httpx"
	"github.com/armada-fleet/armada/internal/rbac"
	"github.com/armada-fleet/armada/internal/shared"
	_ "github.com/armada-fleet/armada/testing"
)

type staticChecker struct {
	granted bool
}

func (c staticChecker) HasPermission(ctx context.Context, roleID shared.ID, req rbac.Requirement) (bool, error) {
	return c.granted, nil
}

func newRouter(t *testing.T, repo Repository, granted bool, ident *shared.Identity) http.Handler {
	t.Helper()
	handler := NewHandler(nil, NewService(repo, nil, nil), rbac.Middleware{Checker: staticChecker{granted: granted}})

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if ident != nil {
				req = req.WithContext(shared.ContextWithIdentity(req.Context(), ident))
			}
			next.ServeHTTP(w, req)
		})
	})
	r.Route("/roles", handler.MountRoutes)
	return r
}

func operator() *shared.Identity {
	roleID := shared.ID(7)
	return &shared.Identity{ID: 1, Username: "ops", Status: shared.StatusActive, RoleID: &roleID}
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func envelope(t *testing.T, rec *httptest.ResponseRecorder) httpx.Envelope {
	t.Helper()
	var env httpx.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestListRolesEmpty(t *testing.T) {
	router := newRouter(t, newMockRepository(), true, operator())

	rec := doJSON(t, router, http.MethodGet, "/roles/", "")
	require.Equal(t, http.StatusOK, rec.Code)

	env := envelope(t, rec)
	assert.True(t, env.Success)
	// Empty page is [] rather than null.
	assert.Contains(t, rec.Body.String(), `"data":[]`)
	require.NotNil(t, env.Total)
	assert.Equal(t, 0, *env.Total)
}

func TestCreateRoleEndpoint(t *testing.T) {
	repo := newMockRepository()
	router := newRouter(t, repo, true, operator())

	rec := doJSON(t, router, http.MethodPost, "/roles/", `{"name":"Dispatcher","description":"fleet ops"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	env := envelope(t, rec)
	assert.True(t, env.Success)
	assert.Equal(t, "Role created", env.Message)
}

func TestCreateRoleValidation(t *testing.T) {
	router := newRouter(t, newMockRepository(), true, operator())

	rec := doJSON(t, router, http.MethodPost, "/roles/", `{"description":"missing name"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	env := envelope(t, rec)
	assert.Equal(t, "Validation failed", env.Message)
	require.NotEmpty(t, env.Errors)
	assert.Contains(t, env.Errors[0], "name")
}

func TestCreateRoleConflictEndpoint(t *testing.T) {
	repo := newMockRepository()
	repo.seed(Role{Name: "Admin", Status: shared.StatusActive})
	router := newRouter(t, repo, true, operator())

	rec := doJSON(t, router, http.MethodPost, "/roles/", `{"name":"Admin"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGetRoleByPublicID(t *testing.T) {
	repo := newMockRepository()
	seeded := repo.seed(Role{PublicID: "7c9e6679-7425-40de-944b-e07fc1f90ae7", Name: "Ops", Status: shared.StatusActive})
	router := newRouter(t, repo, true, operator())

	rec := doJSON(t, router, http.MethodGet, "/roles/"+seeded.PublicID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Ops"`)
}

func TestUpdateRoleRejectsNonNumericID(t *testing.T) {
	router := newRouter(t, newMockRepository(), true, operator())

	rec := doJSON(t, router, http.MethodPut, "/roles/not-a-number", `{"name":"X"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteRoleEndpoint(t *testing.T) {
	repo := newMockRepository()
	seeded := repo.seed(Role{Name: "Temp", Status: shared.StatusActive})
	router := newRouter(t, repo, true, operator())

	rec := doJSON(t, router, http.MethodDelete, "/roles/"+seeded.ID.String(), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, envelope(t, rec).Message, "Temp")
}

func TestRolesRequirePermission(t *testing.T) {
	router := newRouter(t, newMockRepository(), false, operator())

	rec := doJSON(t, router, http.MethodGet, "/roles/", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRolesRequireIdentity(t *testing.T) {
	router := newRouter(t, newMockRepository(), true, nil)

	rec := doJSON(t, router, http.MethodGet, "/roles/", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
