// internal/handlers/storefront.go
package handlers

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ammerola/storefront/internal/core/domain"
	"github.com/ammerola/storefront/internal/core/ports"
	"github.com/ammerola/storefront/internal/core/services"
	"github.com/ammerola/storefront/internal/pkg/logger"
	"github.com/ammerola/storefront/internal/view"
)

const (
	defaultReceiptLimit = 20
	maxReceiptLimit     = 100
)

// StorefrontOptions tunes page rendering
type StorefrontOptions struct {
	Title      string
	LiveReload bool
}

// StorefrontHandler serves the page, the action endpoints and the JSON API
type StorefrontHandler struct {
	controller *services.Controller
	renderer   *view.Renderer
	receipts   ports.ReceiptLog
	opts       StorefrontOptions
	logger     *slog.Logger
}

// NewStorefrontHandler creates a storefront handler. receipts may be nil.
func NewStorefrontHandler(
	controller *services.Controller,
	renderer *view.Renderer,
	receipts ports.ReceiptLog,
	opts StorefrontOptions,
	logger *slog.Logger,
) *StorefrontHandler {
	return &StorefrontHandler{
		controller: controller,
		renderer:   renderer,
		receipts:   receipts,
		opts:       opts,
		logger:     logger.With(slog.String("handler", "storefront")),
	}
}

// Register mounts the storefront routes on mux
func (h *StorefrontHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.Page)
	mux.HandleFunc("GET /fragments/inventory", h.InventoryFragment)
	mux.HandleFunc("GET /fragments/cart", h.CartFragment)
	mux.HandleFunc("POST /actions/{region}/{action}", h.Action)
	mux.HandleFunc("GET /api/v1/state", h.State)
	mux.HandleFunc("GET /api/v1/commands", h.Commands)
	mux.HandleFunc("GET /api/v1/receipts", h.Receipts)
}

// StateResponse is the JSON view of State plus the caller's UI session
type StateResponse struct {
	Inventory    []domain.InventoryItem `json:"inventory"`
	Cart         []domain.CartItem      `json:"cart"`
	CartRevision uint64                 `json:"cart_revision"`
	Pending      map[int]int            `json:"pending"`
	Editing      map[int]domain.EditRow `json:"editing"`
}

// ActionResponse is returned to JSON clients after a command
type ActionResponse struct {
	services.Outcome
	State StateResponse `json:"state"`
}

// Page handles GET /
func (h *StorefrontHandler) Page(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := logger.SessionID(ctx)

	notice, err := h.controller.TakeNotice(ctx, sessionID)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to take notice",
			slog.String("error", err.Error()))
	}

	session, err := h.controller.Session(ctx, sessionID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load session",
			slog.String("error", err.Error()))
		http.Error(w, "Failed to load session", http.StatusInternalServerError)
		return
	}

	st := h.controller.State()
	var buf bytes.Buffer
	err = h.renderer.RenderPage(&buf, view.Page{
		Title:      h.opts.Title,
		Inventory:  st.InventoryItems(),
		Cart:       st.CartItems(),
		Pending:    session.Pending,
		Editing:    session.Editing,
		Revision:   st.CartRevision(),
		Notice:     notice,
		LiveReload: h.opts.LiveReload,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to render page",
			slog.String("error", err.Error()))
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}

	writeHTML(w, buf.Bytes())
}

// InventoryFragment handles GET /fragments/inventory
func (h *StorefrontHandler) InventoryFragment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session, err := h.controller.Session(ctx, logger.SessionID(ctx))
	if err != nil {
		http.Error(w, "Failed to load session", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := h.renderer.RenderInventory(&buf, h.controller.State().InventoryItems(), session.Pending); err != nil {
		h.logger.ErrorContext(ctx, "failed to render inventory",
			slog.String("error", err.Error()))
		http.Error(w, "Failed to render inventory", http.StatusInternalServerError)
		return
	}
	writeHTML(w, buf.Bytes())
}

// CartFragment handles GET /fragments/cart
func (h *StorefrontHandler) CartFragment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session, err := h.controller.Session(ctx, logger.SessionID(ctx))
	if err != nil {
		http.Error(w, "Failed to load session", http.StatusInternalServerError)
		return
	}

	st := h.controller.State()
	var buf bytes.Buffer
	if err := h.renderer.RenderCart(&buf, st.CartItems(), session.Editing, st.CartRevision()); err != nil {
		h.logger.ErrorContext(ctx, "failed to render cart",
			slog.String("error", err.Error()))
		http.Error(w, "Failed to render cart", http.StatusInternalServerError)
		return
	}
	writeHTML(w, buf.Bytes())
}

// Action handles POST /actions/{region}/{action}. Browsers are redirected
// back to the page, which shows the outcome as a notice. JSON clients get
// the outcome and the new state.
func (h *StorefrontHandler) Action(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cmd, err := services.ParseCommand(r.PathValue("region"), r.PathValue("action"), r.FormValue("id"))
	if err != nil {
		h.respondCommandError(w, r, err)
		return
	}

	ctx = context.WithValue(ctx, logger.ContextKeyRegion, string(cmd.Region))
	ctx = context.WithValue(ctx, logger.ContextKeyAction, string(cmd.Action))

	if !wantsJSON(r) {
		// The notice left on the session carries the result
		_, _ = h.controller.Dispatch(ctx, logger.SessionID(ctx), cmd)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	outcome, err := h.controller.Dispatch(ctx, logger.SessionID(ctx), cmd, services.ReportNoticeOnly())
	if err != nil {
		h.respondCommandError(w, r, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, ActionResponse{
		Outcome: outcome,
		State:   h.stateFor(outcome.Session),
	})
}

// State handles GET /api/v1/state
func (h *StorefrontHandler) State(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session, err := h.controller.Session(ctx, logger.SessionID(ctx))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load session",
			slog.String("error", err.Error()))
		respondError(w, h.logger, http.StatusInternalServerError, "Failed to load session")
		return
	}
	respondJSON(w, h.logger, http.StatusOK, h.stateFor(session))
}

// Commands handles GET /api/v1/commands
func (h *StorefrontHandler) Commands(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, h.logger, http.StatusOK, map[string]any{"commands": services.Commands()})
}

// Receipts handles GET /api/v1/receipts
func (h *StorefrontHandler) Receipts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.receipts == nil {
		respondError(w, h.logger, http.StatusServiceUnavailable, "Receipt log is not configured")
		return
	}

	limit := defaultReceiptLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(w, h.logger, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = min(n, maxReceiptLimit)
	}

	receipts, err := h.receipts.Recent(ctx, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list receipts",
			slog.String("error", err.Error()))
		respondError(w, h.logger, http.StatusInternalServerError, "Failed to list receipts")
		return
	}
	if receipts == nil {
		receipts = []domain.Receipt{}
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]any{
		"receipts": receipts,
		"count":    len(receipts),
	})
}

func (h *StorefrontHandler) stateFor(session *domain.Session) StateResponse {
	st := h.controller.State()
	resp := StateResponse{
		Inventory:    st.InventoryItems(),
		Cart:         st.CartItems(),
		CartRevision: st.CartRevision(),
		Pending:      map[int]int{},
		Editing:      map[int]domain.EditRow{},
	}
	if resp.Inventory == nil {
		resp.Inventory = []domain.InventoryItem{}
	}
	if resp.Cart == nil {
		resp.Cart = []domain.CartItem{}
	}
	if session != nil {
		resp.Pending = session.Pending
		resp.Editing = session.Editing
	}
	return resp
}

func (h *StorefrontHandler) respondCommandError(w http.ResponseWriter, r *http.Request, err error) {
	status := commandStatus(err)
	if status >= 500 {
		h.logger.ErrorContext(r.Context(), "command failed",
			slog.String("error", err.Error()))
	}

	if !wantsJSON(r) {
		http.Error(w, http.StatusText(status), status)
		return
	}
	respondError(w, h.logger, status, err.Error())
}

func commandStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrUnknownCommand):
		return http.StatusNotFound
	case errors.Is(err, services.ErrInvalidCommand):
		return http.StatusBadRequest
	case services.IsRejected(err):
		return http.StatusConflict
	default:
		return http.StatusBadGateway
	}
}

func writeHTML(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
