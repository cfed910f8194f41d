// internal/testbackend/server.go
// Package testbackend is an in-memory implementation of the cart/inventory
// REST backend. It follows json-server semantics closely enough for local
// development and tests.
package testbackend

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"sync"

	"github.com/ammerola/storefront/internal/core/domain"
)

// Request is a recorded call, kept for assertions in tests
type Request struct {
	Method string
	Path   string
	Body   []byte
}

// Server holds inventory and cart in memory
type Server struct {
	mu        sync.Mutex
	inventory []domain.InventoryItem
	cart      map[int]domain.CartItem
	requests  []Request
	failures  map[string]int // "METHOD /path" -> status to answer with
	logger    *slog.Logger
	mux       *http.ServeMux
}

// New creates a backend seeded with inventory and an empty cart
func New(inventory []domain.InventoryItem, logger *slog.Logger) *Server {
	s := &Server{
		inventory: append([]domain.InventoryItem(nil), inventory...),
		cart:      make(map[int]domain.CartItem),
		failures:  make(map[string]int),
		logger:    logger.With(slog.String("component", "testbackend")),
		mux:       http.NewServeMux(),
	}

	s.mux.HandleFunc("GET /inventory", s.listInventory)
	s.mux.HandleFunc("GET /cart", s.listCart)
	s.mux.HandleFunc("POST /cart", s.addCart)
	s.mux.HandleFunc("PATCH /cart/{id}", s.patchCart)
	s.mux.HandleFunc("DELETE /cart/{id}", s.deleteCart)

	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	key := r.Method + " " + r.URL.Path
	status, fail := s.failures[key]
	s.mu.Unlock()

	if fail {
		s.record(r, nil)
		http.Error(w, http.StatusText(status), status)
		return
	}

	s.mux.ServeHTTP(w, r)
}

// SeedCart replaces the cart contents
func (s *Server) SeedCart(items ...domain.CartItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = make(map[int]domain.CartItem, len(items))
	for _, item := range items {
		s.cart[item.ID] = item
	}
}

// Cart returns the cart ordered by id
func (s *Server) Cart() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartLocked()
}

// FailWith makes every request matching method and path answer with status
func (s *Server) FailWith(method, path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = status
}

// ClearFailures removes all injected failures
func (s *Server) ClearFailures() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = make(map[string]int)
}

// Requests returns the calls received so far
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// RequestsMatching returns the recorded calls with the given method and path
func (s *Server) RequestsMatching(method, path string) []Request {
	var out []Request
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

func (s *Server) listInventory(w http.ResponseWriter, r *http.Request) {
	s.record(r, nil)
	s.mu.Lock()
	items := append([]domain.InventoryItem{}, s.inventory...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) listCart(w http.ResponseWriter, r *http.Request) {
	s.record(r, nil)
	writeJSON(w, http.StatusOK, s.Cart())
}

func (s *Server) addCart(w http.ResponseWriter, r *http.Request) {
	var item domain.CartItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		s.record(r, nil)
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	body, _ := json.Marshal(item)
	s.record(r, body)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.cart[item.ID]; exists {
		// json-server refuses duplicate ids
		http.Error(w, "duplicate id", http.StatusInternalServerError)
		return
	}
	s.cart[item.ID] = item
	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) patchCart(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var patch domain.AmountUpdate
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		s.record(r, nil)
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	body, _ := json.Marshal(patch)
	s.record(r, body)

	s.mu.Lock()
	defer s.mu.Unlock()

	item, exists := s.cart[id]
	if !exists {
		http.NotFound(w, r)
		return
	}
	item.Amount = patch.Amount
	s.cart[id] = item
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) deleteCart(w http.ResponseWriter, r *http.Request) {
	s.record(r, nil)
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.cart[id]; !exists {
		http.NotFound(w, r)
		return
	}
	delete(s.cart, id)
	writeJSON(w, http.StatusOK, map[string]any{})
}

func (s *Server) record(r *http.Request, body []byte) {
	s.mu.Lock()
	s.requests = append(s.requests, Request{Method: r.Method, Path: r.URL.Path, Body: body})
	s.mu.Unlock()

	s.logger.Debug("request",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path))
}

func (s *Server) cartLocked() []domain.CartItem {
	items := make([]domain.CartItem, 0, len(s.cart))
	for _, item := range s.cart {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}

func parseID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
