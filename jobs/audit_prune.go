package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

// AuditPruner deletes audit records older than a cutoff and reports how
// many rows went away.
type AuditPruner interface {
	Prune(ctx context.Context, olderThan time.Time) (int64, error)
}

// NewAuditPruneHandler returns the handler for TaskAuditPrune tasks. A
// malformed or non-positive retention skips retry: re-running the same
// payload cannot succeed.
func NewAuditPruneHandler(pruner AuditPruner, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload AuditPrunePayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		if payload.RetainDays <= 0 {
			return asynq.SkipRetry
		}
		cutoff := time.Now().UTC().AddDate(0, 0, -payload.RetainDays)
		removed, err := pruner.Prune(ctx, cutoff)
		if err != nil {
			return err
		}
		logger.Info("audit prune",
			slog.Int("retain_days", payload.RetainDays),
			slog.Int64("removed", removed))
		return nil
	}
}
