package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armada-fleet/armada/internal/shared"
)

func TestTokenRoundTrip(t *testing.T) {
	mgr := NewTokenManager("secret", "armada", time.Hour)

	roleID := shared.ID(7)
	token, err := mgr.Issue(9007199254740993, "admin", &roleID)
	require.NoError(t, err)

	claims, err := mgr.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "9007199254740993", claims.Subject)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, "7", claims.RoleID)
}

func TestTokenWithoutRole(t *testing.T) {
	mgr := NewTokenManager("secret", "armada", time.Hour)

	token, err := mgr.Issue(1, "orphan", nil)
	require.NoError(t, err)

	claims, err := mgr.Verify(token)
	require.NoError(t, err)
	assert.Empty(t, claims.RoleID)
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := NewTokenManager("secret-a", "armada", time.Hour).Issue(1, "admin", nil)
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b", "armada", time.Hour).Verify(token)
	assert.ErrorIs(t, err, shared.ErrUnauthenticated)
}

func TestTokenWrongIssuer(t *testing.T) {
	token, err := NewTokenManager("secret", "someone-else", time.Hour).Issue(1, "admin", nil)
	require.NoError(t, err)

	_, err = NewTokenManager("secret", "armada", time.Hour).Verify(token)
	assert.ErrorIs(t, err, shared.ErrUnauthenticated)
}

func TestTokenExpired(t *testing.T) {
	mgr := &TokenManager{secret: []byte("secret"), issuer: "armada", ttl: -time.Minute}
	token, err := mgr.Issue(1, "admin", nil)
	require.NoError(t, err)

	_, err = mgr.Verify(token)
	assert.ErrorIs(t, err, shared.ErrUnauthenticated)
}

func TestTokenGarbage(t *testing.T) {
	mgr := NewTokenManager("secret", "armada", time.Hour)
	_, err := mgr.Verify("not.a.token")
	assert.ErrorIs(t, err, shared.ErrUnauthenticated)
}
