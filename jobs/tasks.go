package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskAuditPrune is the task type for trimming the audit trail.
	TaskAuditPrune = "audit:prune"
)

// AuditPrunePayload carries the retention horizon for a prune run.
type AuditPrunePayload struct {
	RetainDays int `json:"retain_days"`
}

// NewAuditPruneTask constructs an audit-prune task.
func NewAuditPruneTask(payload AuditPrunePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAuditPrune, data), nil
}
