// internal/core/state/state.go
package state

import (
	"sync"
	"sync/atomic"

	"github.com/ammerola/storefront/internal/core/domain"
)

// State holds the last lists fetched from the backend. Both lists are
// replaced wholesale on every fetch and are not cross-checked.
type State struct {
	Inventory *Store[[]domain.InventoryItem]
	Cart      *Store[[]domain.CartItem]

	cartRevision atomic.Uint64

	mu       sync.RWMutex
	onChange func()
}

// New creates an empty State
func New() *State {
	s := &State{
		Inventory: NewStore[[]domain.InventoryItem](nil),
		Cart:      NewStore[[]domain.CartItem](nil),
	}

	s.Inventory.Subscribe(func([]domain.InventoryItem) { s.changed() })
	s.Cart.Subscribe(func([]domain.CartItem) {
		s.cartRevision.Add(1)
		s.changed()
	})

	return s
}

// InventoryItems returns the current inventory list
func (s *State) InventoryItems() []domain.InventoryItem {
	return s.Inventory.Get()
}

// CartItems returns the current cart list
func (s *State) CartItems() []domain.CartItem {
	return s.Cart.Get()
}

// SetInventory replaces the inventory list
func (s *State) SetInventory(items []domain.InventoryItem) {
	s.Inventory.Set(items)
}

// SetCart replaces the cart list and bumps the cart revision
func (s *State) SetCart(items []domain.CartItem) {
	s.Cart.Set(items)
}

// CartRevision increases by one every time the cart is assigned
func (s *State) CartRevision() uint64 {
	return s.cartRevision.Load()
}

// Subscribe sets the single change handler. The last call wins; pass nil to clear.
func (s *State) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

func (s *State) changed() {
	s.mu.RLock()
	fn := s.onChange
	s.mu.RUnlock()

	if fn != nil {
		fn()
	}
}
