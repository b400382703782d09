package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/armada-fleet/armada/internal/shared"
)

// Claims is the session token payload: subject id, username and role
// reference. Tokens are stateless and cannot be revoked before expiry.
type Claims struct {
	Username string `json:"username"`
	RoleID   string `json:"role_id,omitempty"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256 session tokens.
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewTokenManager constructs a TokenManager.
func NewTokenManager(secret, issuer string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TokenManager{secret: []byte(secret), issuer: issuer, ttl: ttl}
}

// TTL exposes the configured token lifetime.
func (m *TokenManager) TTL() time.Duration { return m.ttl }

// Issue signs a token for the given user. Stateless: nothing is persisted.
func (m *TokenManager) Issue(userID shared.ID, username string, roleID *shared.ID) (string, error) {
	now := time.Now()
	claims := Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	if roleID != nil {
		claims.RoleID = roleID.String()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify validates signature and expiry. It does not consult the store;
// existence of the subject is re-checked downstream on every request.
func (m *TokenManager) Verify(tokenStr string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithIssuer(m.issuer))
	if err != nil {
		return nil, fmt.Errorf("invalid or expired token: %w", shared.ErrUnauthenticated)
	}
	claims, ok := t.Claims.(*Claims)
	if !ok || !t.Valid {
		return nil, fmt.Errorf("invalid token claims: %w", shared.ErrUnauthenticated)
	}
	return claims, nil
}
