// internal/core/ports/shop_api.go
package ports

import (
	"context"
	"errors"

	"github.com/ammerola/storefront/internal/core/domain"
)

// ErrNotFound is matched by backend errors for an id the backend does not know
var ErrNotFound = errors.New("not found")

// ShopAPI defines the port for the cart/inventory backend.
// This interface is implemented by the backend HTTP adapter.
type ShopAPI interface {
	GetCart(ctx context.Context) ([]domain.CartItem, error)
	GetInventory(ctx context.Context) ([]domain.InventoryItem, error)
	AddToCart(ctx context.Context, item domain.CartItem) (domain.CartItem, error)
	UpdateCart(ctx context.Context, id int, amount int) (domain.CartItem, error)
	DeleteFromCart(ctx context.Context, id int) error
	// Checkout fetches the cart and deletes every line concurrently.
	Checkout(ctx context.Context) (domain.CheckoutResult, error)
}
