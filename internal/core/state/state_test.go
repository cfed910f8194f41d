package state_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ammerola/storefront/internal/core/domain"
	"github.com/ammerola/storefront/internal/core/state"
)

func TestStore_SetNotifiesInRegistrationOrder(t *testing.T) {
	s := state.NewStore(0)

	var calls []string
	s.Subscribe(func(v int) { calls = append(calls, "first") })
	s.Subscribe(func(v int) { calls = append(calls, "second") })
	s.Subscribe(func(v int) { calls = append(calls, "third") })

	s.Set(42)

	assert.Equal(t, []string{"first", "second", "third"}, calls)
	assert.Equal(t, 42, s.Get())
}

func TestStore_GetHasNoSideEffects(t *testing.T) {
	s := state.NewStore("a")
	called := 0
	s.Subscribe(func(string) { called++ })

	_ = s.Get()
	_ = s.Get()

	assert.Equal(t, 0, called)
}

func TestStore_Unsubscribe(t *testing.T) {
	s := state.NewStore(0)
	var got []int

	unsubscribe := s.Subscribe(func(v int) { got = append(got, v) })
	s.Set(1)
	unsubscribe()
	unsubscribe()
	s.Set(2)

	assert.Equal(t, []int{1}, got)
	assert.Equal(t, 0, s.Len())
}

func TestStore_ListenerMayReadStore(t *testing.T) {
	s := state.NewStore(0)
	var seen int
	s.Subscribe(func(int) { seen = s.Get() })

	s.Set(7)

	assert.Equal(t, 7, seen)
}

func TestStore_ConcurrentSet(t *testing.T) {
	s := state.NewStore(0)
	var mu sync.Mutex
	count := 0
	s.Subscribe(func(int) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(v int) {
			defer wg.Done()
			s.Set(v)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, count)
}

func TestState_SingleSlotOnChange(t *testing.T) {
	st := state.New()

	first, second := 0, 0
	st.Subscribe(func() { first++ })
	st.Subscribe(func() { second++ })

	st.SetInventory([]domain.InventoryItem{{ID: 1, Content: "Apple"}})
	st.SetCart([]domain.CartItem{{ID: 1, Content: "Apple", Amount: 1}})

	assert.Equal(t, 0, first, "last subscribe wins")
	assert.Equal(t, 2, second)
}

func TestState_CartRevision(t *testing.T) {
	st := state.New()
	assert.Equal(t, uint64(0), st.CartRevision())

	st.SetInventory(nil)
	assert.Equal(t, uint64(0), st.CartRevision(), "inventory assignment does not bump the cart revision")

	st.SetCart(nil)
	st.SetCart([]domain.CartItem{})
	assert.Equal(t, uint64(2), st.CartRevision())
}

func TestState_ListsAreReplacedWholesale(t *testing.T) {
	st := state.New()
	st.SetCart([]domain.CartItem{{ID: 1, Content: "Apple", Amount: 1}})
	st.SetCart([]domain.CartItem{{ID: 2, Content: "Pear", Amount: 2}})

	assert.Equal(t, []domain.CartItem{{ID: 2, Content: "Pear", Amount: 2}}, st.CartItems())
}

func TestState_NoReferentialIntegrity(t *testing.T) {
	st := state.New()
	st.SetInventory([]domain.InventoryItem{{ID: 1, Content: "Apple"}})
	st.SetCart([]domain.CartItem{{ID: 99, Content: "Gone", Amount: 1}})

	assert.Len(t, st.CartItems(), 1)
	assert.Len(t, st.InventoryItems(), 1)
}
