// internal/core/state/store.go
package state

import "sync"

// Listener is called with the new value after every Set
type Listener[T any] func(T)

type subscription[T any] struct {
	id uint64
	fn Listener[T]
}

// Store is an observable value holder. Set replaces the value wholesale and
// then notifies every listener synchronously, in registration order.
type Store[T any] struct {
	mu        sync.RWMutex
	value     T
	listeners []subscription[T]
	nextID    uint64
}

// NewStore creates a store holding initial
func NewStore[T any](initial T) *Store[T] {
	return &Store[T]{value: initial}
}

// Get returns the current value. It has no side effects.
func (s *Store[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set replaces the value and notifies listeners. Listeners run outside the lock
// so they may call Get.
func (s *Store[T]) Set(v T) {
	s.mu.Lock()
	s.value = v
	listeners := make([]subscription[T], len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, l := range listeners {
		l.fn(v)
	}
}

// Subscribe registers fn and returns a function that removes it
func (s *Store[T]) Subscribe(fn Listener[T]) (unsubscribe func()) {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, subscription[T]{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, l := range s.listeners {
				if l.id == id {
					s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// Len returns the number of registered listeners
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.listeners)
}
