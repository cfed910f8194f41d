// internal/core/ports/receipt_log.go
package ports

import (
	"context"

	"github.com/ammerola/storefront/internal/core/domain"
)

// ReceiptLog records processed checkout receipts, newest first
type ReceiptLog interface {
	Append(ctx context.Context, receipt domain.Receipt) error
	Recent(ctx context.Context, limit int) ([]domain.Receipt, error)
}
