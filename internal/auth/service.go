package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/armada-fleet/armada/internal/shared"
)

// Service wraps authentication business rules.
type Service struct {
	repo   Repository
	tokens *TokenManager
	guard  *shared.LoginGuard
}

// NewService constructs a new Service.
func NewService(repo Repository, tokens *TokenManager, guard *shared.LoginGuard) *Service {
	return &Service{repo: repo, tokens: tokens, guard: guard}
}

// Login validates the credentials and issues a session token. Failures are
// deliberately indistinguishable between unknown username and wrong
// password; repeated failures for one username are throttled.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	if err := s.guard.Check(ctx, username); err != nil {
		return "", fmt.Errorf("%s: %w", err.Error(), shared.ErrUnauthenticated)
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.guard.RecordFailure(ctx, username)
			return "", invalidCredentials()
		}
		return "", err
	}
	if user.Status != shared.StatusActive {
		s.guard.RecordFailure(ctx, username)
		return "", invalidCredentials()
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.guard.RecordFailure(ctx, username)
		return "", invalidCredentials()
	}

	token, err := s.tokens.Issue(user.ID, user.Username, user.RoleID)
	if err != nil {
		return "", err
	}
	s.guard.Reset(ctx, username)
	return token, nil
}

// Resolve maps a verified token subject onto a live user record, rejecting
// subjects that have been soft-deleted since the token was issued.
func (s *Service) Resolve(ctx context.Context, userID shared.ID) (*shared.Identity, error) {
	user, err := s.repo.FindActiveByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, fmt.Errorf("user not found or token no longer valid: %w", shared.ErrUnauthenticated)
		}
		return nil, err
	}
	return user.Identity(), nil
}

func invalidCredentials() error {
	return fmt.Errorf("invalid username or password: %w", shared.ErrUnauthenticated)
}
