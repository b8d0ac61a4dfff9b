package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/jaiminpanchal50/FeatureBaseAccess/internal/shared"
)

// AuditStore persists audit entries. shared.AuditLogger satisfies it.
type AuditStore interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// AuditQueue records audit entries through the task queue. When the queue
// cannot accept a task the entry is written directly to the store.
type AuditQueue struct {
	queue  enqueuer
	direct AuditStore
	logger *slog.Logger
}

// NewAuditQueue constructs an AuditQueue. direct may be nil, in which case
// enqueue failures are returned to the caller.
func NewAuditQueue(client *Client, direct AuditStore, logger *slog.Logger) *AuditQueue {
	return newAuditQueue(client.client, direct, logger)
}

func newAuditQueue(queue enqueuer, direct AuditStore, logger *slog.Logger) *AuditQueue {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditQueue{queue: queue, direct: direct, logger: logger}
}

// Record enqueues log for the worker.
func (q *AuditQueue) Record(ctx context.Context, log shared.AuditLog) error {
	task, err := NewAuditRecordTask(log)
	if err != nil {
		return err
	}
	if _, err := q.queue.EnqueueContext(ctx, task); err != nil {
		if q.direct == nil {
			return fmt.Errorf("jobs: enqueue audit: %w", err)
		}
		q.logger.Warn("audit enqueue failed, writing directly", slog.Any("error", err), slog.String("action", log.Action))
		return q.direct.Record(ctx, log)
	}
	return nil
}

// AuditJob drains audit tasks into the store.
type AuditJob struct {
	store  AuditStore
	logger *slog.Logger
}

// NewAuditJob constructs the handler for TaskAuditRecord.
func NewAuditJob(store AuditStore, logger *slog.Logger) *AuditJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditJob{store: store, logger: logger}
}

// Handle processes one audit task. Malformed payloads are not retried.
func (j *AuditJob) Handle(ctx context.Context, task *asynq.Task) error {
	var payload AuditPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		j.logger.Error("audit task decode", slog.Any("error", err))
		return fmt.Errorf("jobs: decode audit payload: %v: %w", err, asynq.SkipRetry)
	}
	if err := j.store.Record(ctx, payload.auditLog()); err != nil {
		return fmt.Errorf("jobs: record audit %s: %w", payload.Action, err)
	}
	return nil
}
