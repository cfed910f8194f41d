// internal/adapters/redis_adapter/receipt_log.go
package redis_a

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/ammerola/storefront/internal/core/domain"
	"github.com/ammerola/storefront/internal/core/ports"
)

const (
	PrefixReceipts CacheKeyPrefix = "receipts"

	// DefaultReceiptCapacity is how many receipts are kept
	DefaultReceiptCapacity = 100
)

// ReceiptLog keeps the latest receipts in a capped Redis list
type ReceiptLog struct {
	client   *redis.Client
	capacity int64
	logger   *slog.Logger
}

var _ ports.ReceiptLog = (*ReceiptLog)(nil)

// NewReceiptLog creates a Redis backed receipt log
func NewReceiptLog(client *redis.Client, capacity int, logger *slog.Logger) *ReceiptLog {
	if capacity <= 0 {
		capacity = DefaultReceiptCapacity
	}
	return &ReceiptLog{
		client:   client,
		capacity: int64(capacity),
		logger:   logger.With(slog.String("component", "receipt_log")),
	}
}

// Append pushes a receipt to the head of the list and trims the tail
func (l *ReceiptLog) Append(ctx context.Context, receipt domain.Receipt) error {
	data, err := json.Marshal(receipt)
	if err != nil {
		return fmt.Errorf("marshal receipt: %w", err)
	}

	key := BuildKey(PrefixReceipts)
	pipe := l.client.TxPipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, l.capacity-1)
	if _, err := pipe.Exec(ctx); err != nil {
		l.logger.ErrorContext(ctx, "failed to append receipt",
			slog.String("receipt_id", receipt.ID.String()),
			slog.String("error", err.Error()))
		return fmt.Errorf("redis receipt append error: %w", err)
	}

	return nil
}

// Recent returns up to limit receipts, newest first
func (l *ReceiptLog) Recent(ctx context.Context, limit int) ([]domain.Receipt, error) {
	if limit <= 0 {
		return []domain.Receipt{}, nil
	}

	raw, err := l.client.LRange(ctx, BuildKey(PrefixReceipts), 0, int64(limit)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis receipt range error: %w", err)
	}

	receipts := make([]domain.Receipt, 0, len(raw))
	for _, r := range raw {
		var receipt domain.Receipt
		if err := json.Unmarshal([]byte(r), &receipt); err != nil {
			l.logger.WarnContext(ctx, "skipping malformed receipt", slog.String("error", err.Error()))
			continue
		}
		receipts = append(receipts, receipt)
	}

	return receipts, nil
}
