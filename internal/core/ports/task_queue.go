// internal/core/ports/task_queue.go
package ports

import (
	"context"

	"github.com/ammerola/storefront/internal/core/domain"
)

// ReceiptQueue hands finished checkouts to background processing
type ReceiptQueue interface {
	EnqueueReceipt(ctx context.Context, receipt domain.Receipt) error
}
