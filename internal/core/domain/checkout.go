// internal/core/domain/checkout.go
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DeleteOutcome is the result of deleting a single cart line during checkout
type DeleteOutcome struct {
	Item CartItem `json:"item"`
	OK   bool     `json:"ok"`
	Err  error    `json:"-"`
}

// CheckoutResult aggregates the per-line outcomes of a checkout, in cart order
type CheckoutResult struct {
	Outcomes []DeleteOutcome `json:"outcomes"`
}

// Deleted returns the lines confirmed deleted by the backend
func (r CheckoutResult) Deleted() []CartItem {
	var items []CartItem
	for _, o := range r.Outcomes {
		if o.OK {
			items = append(items, o.Item)
		}
	}
	return items
}

// Failed returns the lines whose delete did not succeed
func (r CheckoutResult) Failed() []CartItem {
	var items []CartItem
	for _, o := range r.Outcomes {
		if !o.OK {
			items = append(items, o.Item)
		}
	}
	return items
}

// Results mirrors the per-item success flags in cart order
func (r CheckoutResult) Results() []bool {
	flags := make([]bool, len(r.Outcomes))
	for i, o := range r.Outcomes {
		flags[i] = o.OK
	}
	return flags
}

// Complete reports whether every line was deleted
func (r CheckoutResult) Complete() bool {
	for _, o := range r.Outcomes {
		if !o.OK {
			return false
		}
	}
	return true
}

// Receipt describes a finished checkout for downstream processing
type Receipt struct {
	ID          uuid.UUID  `json:"id"`
	Items       []CartItem `json:"items"`
	TotalAmount int        `json:"total_amount"`
	Partial     bool       `json:"partial"`
	CreatedAt   time.Time  `json:"created_at"`
}

// NewReceipt builds a receipt from the deleted lines of a checkout
func NewReceipt(result CheckoutResult) Receipt {
	deleted := result.Deleted()
	total := 0
	for _, item := range deleted {
		total += item.Amount
	}
	return Receipt{
		ID:          uuid.New(),
		Items:       deleted,
		TotalAmount: total,
		Partial:     !result.Complete(),
		CreatedAt:   time.Now().UTC(),
	}
}

// Summary renders a one-line description of the receipt
func (r Receipt) Summary() string {
	parts := make([]string, 0, len(r.Items))
	for _, item := range r.Items {
		parts = append(parts, item.Label())
	}
	return fmt.Sprintf("%d item(s), %d unit(s): %s", len(r.Items), r.TotalAmount, strings.Join(parts, ", "))
}
