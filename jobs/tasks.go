package jobs

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/jaiminpanchal50/FeatureBaseAccess/internal/shared"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskAuditRecord writes one audit_logs row.
	TaskAuditRecord = "audit:record"
)

// AuditPayload is the queued form of shared.AuditLog.
type AuditPayload struct {
	ActorID  int64          `json:"actor_id"`
	Action   string         `json:"action"`
	Entity   string         `json:"entity"`
	EntityID string         `json:"entity_id"`
	Meta     map[string]any `json:"meta,omitempty"`
	At       time.Time      `json:"at"`
}

// NewAuditRecordTask constructs an Asynq task for log. A zero At is stamped
// with the enqueue time so retries keep the original occurrence time.
func NewAuditRecordTask(log shared.AuditLog) (*asynq.Task, error) {
	at := log.At
	if at.IsZero() {
		at = time.Now().UTC()
	}
	data, err := json.Marshal(AuditPayload{
		ActorID:  log.ActorID,
		Action:   log.Action,
		Entity:   log.Entity,
		EntityID: log.EntityID,
		Meta:     log.Meta,
		At:       at,
	})
	if err != nil {
		return nil, fmt.Errorf("jobs: encode audit payload: %w", err)
	}
	return asynq.NewTask(TaskAuditRecord, data, asynq.MaxRetry(10), asynq.Queue(QueueDefault)), nil
}

func (p AuditPayload) auditLog() shared.AuditLog {
	return shared.AuditLog{
		ActorID:  p.ActorID,
		Action:   p.Action,
		Entity:   p.Entity,
		EntityID: p.EntityID,
		Meta:     p.Meta,
		At:       p.At,
	}
}
