// internal/core/domain/cart.go
package domain

import (
	"errors"
	"fmt"
)

// ErrNegativeAmount is returned when a cart line carries an amount below zero
var ErrNegativeAmount = errors.New("amount cannot be negative")

// InventoryItem represents a purchasable catalog entry owned by the backend
type InventoryItem struct {
	ID      int    `json:"id"`
	Content string `json:"content"`
}

// CartItem represents a line in the cart. ID matches an InventoryItem ID.
type CartItem struct {
	ID      int    `json:"id"`
	Content string `json:"content"`
	Amount  int    `json:"amount"`
}

// AmountUpdate is the PATCH body sent to the backend for a cart line
type AmountUpdate struct {
	Amount int `json:"amount"`
}

// Validate performs domain validation on the cart item
func (c CartItem) Validate() error {
	if c.Amount < 0 {
		return fmt.Errorf("cart item %d: %w", c.ID, ErrNegativeAmount)
	}
	return nil
}

// Label returns the display label used for a cart row, e.g. "Apple (x3)"
func (c CartItem) Label() string {
	return fmt.Sprintf("%s (x%d)", c.Content, c.Amount)
}

// NewCartItem builds a cart line for an inventory item
func NewCartItem(item InventoryItem, amount int) CartItem {
	return CartItem{
		ID:      item.ID,
		Content: item.Content,
		Amount:  amount,
	}
}

// FindInventoryItem returns the inventory item with the given id
func FindInventoryItem(items []InventoryItem, id int) (InventoryItem, bool) {
	for _, item := range items {
		if item.ID == id {
			return item, true
		}
	}
	return InventoryItem{}, false
}

// FindCartItem returns the cart line with the given id
func FindCartItem(items []CartItem, id int) (CartItem, bool) {
	for _, item := range items {
		if item.ID == id {
			return item, true
		}
	}
	return CartItem{}, false
}
