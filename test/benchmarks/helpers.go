// test/benchmarks/helpers.go
package benchmarks

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ammerola/storefront/internal/adapters/memory"
	"github.com/ammerola/storefront/internal/adapters/queue"
	"github.com/ammerola/storefront/internal/core/domain"
	"github.com/ammerola/storefront/internal/core/services"
	"github.com/ammerola/storefront/internal/core/state"
	"github.com/ammerola/storefront/test/helpers"
)

// createLargeCart builds a cart with one line per inventory item
func createLargeCart(inventory []domain.InventoryItem) []domain.CartItem {
	cart := make([]domain.CartItem, len(inventory))
	for i, item := range inventory {
		cart[i] = domain.NewCartItem(item, i%5+1)
	}
	return cart
}

// createBenchmarkController wires a controller to an in-memory backend
// seeded with numItems inventory items
func createBenchmarkController(b *testing.B, numItems int) (*services.Controller, *helpers.TestBackend) {
	b.Helper()

	tb := helpers.SetupTestBackend(b, helpers.CreateTestInventory(numItems))
	sessions := memory.NewSessionStore(time.Hour, helpers.TestLogger())
	ctrl := services.NewController(tb.Client, state.New(), sessions, queue.Discard{}, helpers.TestLogger())
	require.NoError(b, ctrl.Init(context.Background()))

	return ctrl, tb
}
