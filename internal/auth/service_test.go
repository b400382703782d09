package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/armada-fleet/armada/internal/shared"
	_ "github.com/armada-fleet/armada/testing"
)

type mockRepo struct {
	byUsername map[string]*User
	byID       map[shared.ID]*User
	findErr    error
}

func newMockRepo() *mockRepo {
	return &mockRepo{byUsername: map[string]*User{}, byID: map[shared.ID]*User{}}
}

func (m *mockRepo) add(u *User) {
	m.byUsername[u.Username] = u
	m.byID[u.ID] = u
}

func (m *mockRepo) FindByUsername(ctx context.Context, username string) (*User, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	u, ok := m.byUsername[username]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return u, nil
}

func (m *mockRepo) FindActiveByID(ctx context.Context, id shared.ID) (*User, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	u, ok := m.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return u, nil
}

func hash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func newLoginService(t *testing.T, repo Repository, maxFailures int64) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	guard := shared.NewLoginGuard(client, maxFailures, time.Minute)
	return NewService(repo, NewTokenManager("secret", "armada", time.Hour), guard)
}

func TestLoginSuccess(t *testing.T) {
	repo := newMockRepo()
	roleID := shared.ID(3)
	repo.add(&User{
		ID: 1, Username: "admin", PasswordHash: hash(t, "Admin123!"),
		Status: shared.StatusActive, RoleID: &roleID,
	})
	svc := newLoginService(t, repo, 10)

	token, err := svc.Login(context.Background(), "admin", "Admin123!")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := NewTokenManager("secret", "armada", time.Hour).Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "1", claims.Subject)
	assert.Equal(t, "3", claims.RoleID)
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newMockRepo()
	repo.add(&User{ID: 1, Username: "admin", PasswordHash: hash(t, "right"), Status: shared.StatusActive})
	svc := newLoginService(t, repo, 10)

	_, err := svc.Login(context.Background(), "admin", "wrong")
	assert.ErrorIs(t, err, shared.ErrUnauthenticated)
}

func TestLoginUnknownUserSameError(t *testing.T) {
	repo := newMockRepo()
	repo.add(&User{ID: 1, Username: "admin", PasswordHash: hash(t, "right"), Status: shared.StatusActive})
	svc := newLoginService(t, repo, 10)

	_, unknownErr := svc.Login(context.Background(), "ghost", "whatever")
	_, wrongErr := svc.Login(context.Background(), "admin", "wrong")
	require.Error(t, unknownErr)
	require.Error(t, wrongErr)
	// Same message regardless of which check failed.
	assert.Equal(t, wrongErr.Error(), unknownErr.Error())
}

func TestLoginInactiveUser(t *testing.T) {
	repo := newMockRepo()
	repo.add(&User{ID: 1, Username: "retired", PasswordHash: hash(t, "pass123"), Status: shared.StatusInactive})
	svc := newLoginService(t, repo, 10)

	_, err := svc.Login(context.Background(), "retired", "pass123")
	assert.ErrorIs(t, err, shared.ErrUnauthenticated)
}

func TestLoginThrottledAfterRepeatedFailures(t *testing.T) {
	repo := newMockRepo()
	repo.add(&User{ID: 1, Username: "admin", PasswordHash: hash(t, "right"), Status: shared.StatusActive})
	svc := newLoginService(t, repo, 2)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := svc.Login(ctx, "admin", "wrong")
		require.Error(t, err)
	}

	// Correct password is rejected too while locked out.
	_, err := svc.Login(ctx, "admin", "right")
	assert.ErrorIs(t, err, shared.ErrUnauthenticated)
}

func TestLoginResetsCounterOnSuccess(t *testing.T) {
	repo := newMockRepo()
	repo.add(&User{ID: 1, Username: "admin", PasswordHash: hash(t, "right"), Status: shared.StatusActive})
	svc := newLoginService(t, repo, 3)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := svc.Login(ctx, "admin", "wrong")
		require.Error(t, err)
	}
	_, err := svc.Login(ctx, "admin", "right")
	require.NoError(t, err)

	// The earlier failures no longer count toward the lockout.
	for i := 0; i < 2; i++ {
		_, err := svc.Login(ctx, "admin", "wrong")
		require.Error(t, err)
	}
	_, err = svc.Login(ctx, "admin", "right")
	assert.NoError(t, err)
}

func TestResolveLiveUser(t *testing.T) {
	repo := newMockRepo()
	roleID := shared.ID(2)
	repo.add(&User{
		ID: 5, PublicID: "7c9e6679-7425-40de-944b-e07fc1f90ae7", Username: "ops",
		Status: shared.StatusActive, RoleID: &roleID,
		Role: &shared.RoleSummary{ID: roleID, Name: "Operator", Status: shared.StatusActive},
	})
	svc := newLoginService(t, repo, 10)

	ident, err := svc.Resolve(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, shared.ID(5), ident.ID)
	assert.Equal(t, "ops", ident.Username)
	require.True(t, ident.HasRole())
	assert.Equal(t, "Operator", ident.Role.Name)
}

func TestResolveDeletedUser(t *testing.T) {
	svc := newLoginService(t, newMockRepo(), 10)

	_, err := svc.Resolve(context.Background(), 404)
	assert.ErrorIs(t, err, shared.ErrUnauthenticated)
}
