package jobs

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/armada-fleet/armada/testing"
)

type fakePruner struct {
	cutoff  time.Time
	removed int64
	err     error
	calls   int
}

func (f *fakePruner) Prune(ctx context.Context, olderThan time.Time) (int64, error) {
	f.calls++
	f.cutoff = olderThan
	return f.removed, f.err
}

func TestAuditPruneHandler(t *testing.T) {
	pruner := &fakePruner{removed: 42}
	handler := NewAuditPruneHandler(pruner, slog.Default())

	task, err := NewAuditPruneTask(AuditPrunePayload{RetainDays: 30})
	require.NoError(t, err)

	require.NoError(t, handler(context.Background(), task))
	assert.Equal(t, 1, pruner.calls)

	wantCutoff := time.Now().UTC().AddDate(0, 0, -30)
	assert.WithinDuration(t, wantCutoff, pruner.cutoff, time.Minute)
}

func TestAuditPruneHandlerBadPayload(t *testing.T) {
	pruner := &fakePruner{}
	handler := NewAuditPruneHandler(pruner, slog.Default())

	err := handler(context.Background(), asynq.NewTask(TaskAuditPrune, []byte("{not json")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
	assert.Zero(t, pruner.calls)
}

func TestAuditPruneHandlerNonPositiveRetention(t *testing.T) {
	pruner := &fakePruner{}
	handler := NewAuditPruneHandler(pruner, slog.Default())

	task, err := NewAuditPruneTask(AuditPrunePayload{RetainDays: 0})
	require.NoError(t, err)

	assert.ErrorIs(t, handler(context.Background(), task), asynq.SkipRetry)
	assert.Zero(t, pruner.calls)
}

func TestAuditPruneHandlerStoreError(t *testing.T) {
	pruner := &fakePruner{err: errors.New("pool exhausted")}
	handler := NewAuditPruneHandler(pruner, slog.Default())

	task, err := NewAuditPruneTask(AuditPrunePayload{RetainDays: 7})
	require.NoError(t, err)

	// Transient store failures must surface for retry.
	err = handler(context.Background(), task)
	require.Error(t, err)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
}
