// internal/workers/checkout_processor.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/ammerola/storefront/internal/core/ports"
	"github.com/ammerola/storefront/internal/pkg/logger"
)

// CheckoutProcessor handles receipts of finished checkouts
type CheckoutProcessor struct {
	receipts ports.ReceiptLog
	logger   *slog.Logger
}

// NewCheckoutProcessor creates a new checkout processor
func NewCheckoutProcessor(receipts ports.ReceiptLog, logger *slog.Logger) *CheckoutProcessor {
	return &CheckoutProcessor{
		receipts: receipts,
		logger:   logger.With(slog.String("processor", "checkout")),
	}
}

// ProcessReceipt records the receipt of a checkout
func (p *CheckoutProcessor) ProcessReceipt(ctx context.Context, t *asynq.Task) error {
	var payload ReceiptPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		// Retrying will not fix a malformed payload
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	if payload.RequestID != "" {
		ctx = context.WithValue(ctx, logger.ContextKeyRequestID, payload.RequestID)
	}
	if payload.SessionID != "" {
		ctx = context.WithValue(ctx, logger.ContextKeySessionID, payload.SessionID)
	}
	if id, ok := asynq.GetTaskID(ctx); ok {
		ctx = context.WithValue(ctx, logger.ContextKeyTaskID, id)
	}

	receipt := payload.Receipt
	if len(receipt.Items) == 0 {
		p.logger.WarnContext(ctx, "empty receipt skipped",
			slog.String("receipt_id", receipt.ID.String()))
		return nil
	}

	if err := p.receipts.Append(ctx, receipt); err != nil {
		return fmt.Errorf("failed to record receipt %s: %w", receipt.ID, err)
	}

	p.logger.InfoContext(ctx, "checkout receipt recorded",
		slog.String("receipt_id", receipt.ID.String()),
		slog.Int("items", len(receipt.Items)),
		slog.Int("total_amount", receipt.TotalAmount),
		slog.Bool("partial", receipt.Partial),
		slog.String("summary", receipt.Summary()))

	return nil
}
