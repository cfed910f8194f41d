// internal/handlers/events.go
package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ammerola/storefront/internal/core/state"
)

const (
	eventBuffer       = 8
	heartbeatInterval = 25 * time.Second
)

// StateEvent is pushed to every connected page when State changes
type StateEvent struct {
	Seq          uint64 `json:"seq"`
	CartRevision uint64 `json:"cart_revision"`
}

// EventHub fans the single State change handler out to any number of
// server-sent event streams
type EventHub struct {
	state  *state.State
	logger *slog.Logger

	seq     atomic.Uint64
	mu      sync.Mutex
	clients map[chan StateEvent]struct{}
	closed  bool
}

// NewEventHub creates a hub and installs it as the State change handler
func NewEventHub(st *state.State, logger *slog.Logger) *EventHub {
	h := &EventHub{
		state:   st,
		logger:  logger.With(slog.String("handler", "events")),
		clients: make(map[chan StateEvent]struct{}),
	}
	st.Subscribe(h.broadcast)
	return h
}

// Clients returns the number of open streams
func (h *EventHub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close ends every open stream and detaches from State
func (h *EventHub) Close() {
	h.state.Subscribe(nil)

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for ch := range h.clients {
		close(ch)
		delete(h.clients, ch)
	}
}

// ServeHTTP handles GET /events
func (h *EventHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rc := http.NewResponseController(w)

	ch, ok := h.subscribe()
	if !ok {
		http.Error(w, "Shutting down", http.StatusServiceUnavailable)
		return
	}
	defer h.unsubscribe(ch)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		h.logger.WarnContext(ctx, "streaming not supported",
			slog.String("error", err.Error()))
		return
	}

	h.logger.DebugContext(ctx, "event stream opened")

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			h.logger.DebugContext(ctx, "event stream closed")
			return
		case ev, open := <-ch:
			if !open {
				return
			}
			data, _ := json.Marshal(ev)
			if _, err := fmt.Fprintf(w, "id: %d\nevent: state\ndata: %s\n\n", ev.Seq, data); err != nil {
				return
			}
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}

func (h *EventHub) subscribe() (chan StateEvent, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, false
	}
	ch := make(chan StateEvent, eventBuffer)
	h.clients[ch] = struct{}{}
	return ch, true
}

func (h *EventHub) unsubscribe(ch chan StateEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[ch]; ok {
		delete(h.clients, ch)
		close(ch)
	}
}

// broadcast runs inside State's change notification and must not block
func (h *EventHub) broadcast() {
	ev := StateEvent{
		Seq:          h.seq.Add(1),
		CartRevision: h.state.CartRevision(),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.clients {
		select {
		case ch <- ev:
		default:
			// slow reader, it will catch up on the next event
		}
	}
}
