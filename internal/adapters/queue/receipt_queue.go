// internal/adapters/queue/receipt_queue.go
package queue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ammerola/storefront/internal/core/domain"
	"github.com/ammerola/storefront/internal/core/ports"
	"github.com/ammerola/storefront/internal/pkg/logger"
	"github.com/ammerola/storefront/internal/workers"
)

// Enqueuer is the part of *asynq.Client the queue needs
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// ReceiptQueue enqueues checkout:receipt tasks on Asynq
type ReceiptQueue struct {
	client   Enqueuer
	queue    string
	maxRetry int
	logger   *slog.Logger
}

var _ ports.ReceiptQueue = (*ReceiptQueue)(nil)

// NewReceiptQueue creates an Asynq backed receipt queue
func NewReceiptQueue(client Enqueuer, maxRetry int, logger *slog.Logger) *ReceiptQueue {
	return &ReceiptQueue{
		client:   client,
		queue:    "default",
		maxRetry: maxRetry,
		logger:   logger.With(slog.String("component", "receipt_queue")),
	}
}

// EnqueueReceipt schedules background processing of a receipt
func (q *ReceiptQueue) EnqueueReceipt(ctx context.Context, receipt domain.Receipt) error {
	task, err := workers.NewReceiptTask(workers.ReceiptPayload{
		Receipt:   receipt,
		SessionID: logger.SessionID(ctx),
		RequestID: logger.RequestID(ctx),
	})
	if err != nil {
		return err
	}

	info, err := q.client.EnqueueContext(ctx, task,
		asynq.Queue(q.queue),
		asynq.MaxRetry(q.maxRetry),
		asynq.TaskID(receipt.ID.String()),
		asynq.Retention(24*time.Hour))
	if err != nil {
		q.logger.ErrorContext(ctx, "failed to enqueue receipt",
			slog.String("receipt_id", receipt.ID.String()),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to enqueue receipt: %w", err)
	}

	q.logger.InfoContext(ctx, "receipt enqueued",
		slog.String("task_id", info.ID),
		slog.String("queue", info.Queue))

	return nil
}

// Discard drops receipts. Used when background processing is disabled.
type Discard struct {
	Logger *slog.Logger
}

var _ ports.ReceiptQueue = Discard{}

// EnqueueReceipt logs and drops the receipt
func (d Discard) EnqueueReceipt(ctx context.Context, receipt domain.Receipt) error {
	if d.Logger != nil {
		d.Logger.DebugContext(ctx, "receipt processing disabled",
			slog.String("receipt_id", receipt.ID.String()),
			slog.String("summary", receipt.Summary()))
	}
	return nil
}
