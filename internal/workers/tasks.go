// internal/workers/tasks.go
package workers

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/ammerola/storefront/internal/core/domain"
)

const (
	TypeCheckoutReceipt = "checkout:receipt"
)

// ReceiptPayload is the payload of a checkout:receipt task
type ReceiptPayload struct {
	Receipt   domain.Receipt `json:"receipt"`
	SessionID string         `json:"session_id,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
}

// NewReceiptTask builds the task for a finished checkout
func NewReceiptTask(payload ReceiptPayload) (*asynq.Task, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal receipt payload: %w", err)
	}
	return asynq.NewTask(TypeCheckoutReceipt, b), nil
}
