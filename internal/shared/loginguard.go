package shared

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrLoginThrottled indicates too many failed attempts for one username.
var ErrLoginThrottled = errors.New("too many failed login attempts")

// LoginGuard tracks failed login attempts per username in Redis and locks
// the username out once the threshold is reached.
type LoginGuard struct {
	client      *redis.Client
	maxFailures int64
	window      time.Duration
}

// NewLoginGuard constructs a LoginGuard.
func NewLoginGuard(client *redis.Client, maxFailures int64, window time.Duration) *LoginGuard {
	if maxFailures <= 0 {
		maxFailures = 10
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &LoginGuard{client: client, maxFailures: maxFailures, window: window}
}

// Check returns ErrLoginThrottled when the username is locked out. Redis
// unavailability does not block logins.
func (g *LoginGuard) Check(ctx context.Context, username string) error {
	if g == nil || g.client == nil {
		return nil
	}
	count, err := g.client.Get(ctx, g.key(username)).Int64()
	if err != nil {
		return nil
	}
	if count >= g.maxFailures {
		return ErrLoginThrottled
	}
	return nil
}

// RecordFailure increments the failure counter, starting the lockout
// window on the first failure.
func (g *LoginGuard) RecordFailure(ctx context.Context, username string) {
	if g == nil || g.client == nil {
		return
	}
	key := g.key(username)
	count, err := g.client.Incr(ctx, key).Result()
	if err != nil {
		return
	}
	if count == 1 {
		_ = g.client.Expire(ctx, key, g.window).Err()
	}
}

// Reset clears the counter after a successful login.
func (g *LoginGuard) Reset(ctx context.Context, username string) {
	if g == nil || g.client == nil {
		return
	}
	_ = g.client.Del(ctx, g.key(username)).Err()
}

func (g *LoginGuard) key(username string) string {
	return "login:failures:" + strings.ToLower(strings.TrimSpace(username))
}
