package shared

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGuard(t *testing.T, maxFailures int64) (*LoginGuard, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewLoginGuard(client, maxFailures, time.Minute), mr
}

func TestLoginGuardLocksAfterMaxFailures(t *testing.T) {
	guard, _ := newGuard(t, 3)
	ctx := context.Background()

	require.NoError(t, guard.Check(ctx, "driver1"))
	for i := 0; i < 3; i++ {
		guard.RecordFailure(ctx, "driver1")
	}
	assert.ErrorIs(t, guard.Check(ctx, "driver1"), ErrLoginThrottled)

	// Usernames differing only in case share one counter.
	assert.ErrorIs(t, guard.Check(ctx, "DRIVER1"), ErrLoginThrottled)
	require.NoError(t, guard.Check(ctx, "other"))
}

func TestLoginGuardResetClearsCounter(t *testing.T) {
	guard, _ := newGuard(t, 2)
	ctx := context.Background()

	guard.RecordFailure(ctx, "ops")
	guard.RecordFailure(ctx, "ops")
	require.ErrorIs(t, guard.Check(ctx, "ops"), ErrLoginThrottled)

	guard.Reset(ctx, "ops")
	assert.NoError(t, guard.Check(ctx, "ops"))
}

func TestLoginGuardWindowExpires(t *testing.T) {
	guard, mr := newGuard(t, 1)
	ctx := context.Background()

	guard.RecordFailure(ctx, "ops")
	require.ErrorIs(t, guard.Check(ctx, "ops"), ErrLoginThrottled)

	mr.FastForward(2 * time.Minute)
	assert.NoError(t, guard.Check(ctx, "ops"))
}

func TestLoginGuardFailsOpenWithoutRedis(t *testing.T) {
	guard, mr := newGuard(t, 1)
	ctx := context.Background()

	guard.RecordFailure(ctx, "ops")
	mr.Close()

	assert.NoError(t, guard.Check(ctx, "ops"))
}

func TestLoginGuardNilReceiver(t *testing.T) {
	var guard *LoginGuard
	ctx := context.Background()
	assert.NoError(t, guard.Check(ctx, "anyone"))
	guard.RecordFailure(ctx, "anyone")
	guard.Reset(ctx, "anyone")
}
