// internal/core/services/controller.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/ammerola/storefront/internal/core/domain"
	"github.com/ammerola/storefront/internal/core/ports"
	"github.com/ammerola/storefront/internal/core/state"
)

type commandHandler func(c *Controller, ctx context.Context, session *domain.Session, cmd Command, out *Outcome) error

// Controller turns user commands into backend calls and State updates.
// It is the only writer of State.
type Controller struct {
	api      ports.ShopAPI
	state    *state.State
	sessions ports.SessionStore
	receipts ports.ReceiptQueue
	logger   *slog.Logger

	// serializes commands that reach the backend
	mu sync.Mutex
	// serializes load, change and save of one session
	sessionMu *sessionLocks
}

// DispatchOption changes how Dispatch treats the session
type DispatchOption func(*dispatchConfig)

type dispatchConfig struct {
	reportOnly bool
}

// ReportNoticeOnly returns the command's notice in the Outcome without leaving
// it on the session. A notice already waiting on the session is kept.
func ReportNoticeOnly() DispatchOption {
	return func(cfg *dispatchConfig) {
		cfg.reportOnly = true
	}
}

// NewController creates a controller. receipts may be nil.
func NewController(api ports.ShopAPI, st *state.State, sessions ports.SessionStore, receipts ports.ReceiptQueue, logger *slog.Logger) *Controller {
	return &Controller{
		api:       api,
		state:     st,
		sessions:  sessions,
		receipts:  receipts,
		logger:    logger.With(slog.String("service", "controller")),
		sessionMu: newSessionLocks(),
	}
}

// State returns the state the controller writes to
func (c *Controller) State() *state.State {
	return c.state
}

// Init fetches inventory and cart and assigns both to State
func (c *Controller) Init(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.load(ctx)
}

// Refresh re-fetches inventory and cart
func (c *Controller) Refresh(ctx context.Context) error {
	return c.Init(ctx)
}

// Session loads the UI session for id, with edit rows from older cart
// revisions dropped
func (c *Controller) Session(ctx context.Context, id string) (*domain.Session, error) {
	session, err := c.sessions.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	session.PruneEdits(c.state.CartRevision())
	return session, nil
}

// TakeNotice returns and clears the session's flash notice
func (c *Controller) TakeNotice(ctx context.Context, id string) (*domain.Notice, error) {
	unlock := c.sessionMu.lock(id)
	defer unlock()

	session, err := c.sessions.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	notice := session.TakeNotice()
	if notice == nil {
		return nil, nil
	}
	if err := c.sessions.Save(ctx, session); err != nil {
		return notice, fmt.Errorf("failed to save session: %w", err)
	}
	return notice, nil
}

// Dispatch runs cmd for the given session. The session is saved even when the
// command fails so that pending counters survive, and a failure leaves an
// error notice on it.
func (c *Controller) Dispatch(ctx context.Context, sessionID string, cmd Command, opts ...DispatchOption) (Outcome, error) {
	out := Outcome{Command: cmd}

	var cfg dispatchConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	entry, ok := dispatchTable[commandKey{cmd.Region, cmd.Action}]
	if !ok {
		return out, &CommandError{Command: cmd, Err: ErrUnknownCommand}
	}
	if entry.needsItem && cmd.ItemID <= 0 {
		return out, &CommandError{Command: cmd, Err: fmt.Errorf("%w: missing id", ErrInvalidCommand)}
	}

	// Session lock first, then the backend lock
	unlock := c.sessionMu.lock(sessionID)
	defer unlock()

	if entry.mutates {
		c.mu.Lock()
		defer c.mu.Unlock()
	}

	session, err := c.Session(ctx, sessionID)
	if err != nil {
		return out, err
	}
	out.Session = session
	waiting := session.Notice

	herr := entry.handler(c, ctx, session, cmd, &out)

	// Any cart assignment above ends edit mode for rows opened earlier
	session.PruneEdits(c.state.CartRevision())

	if herr != nil {
		herr = &CommandError{Command: cmd, Err: herr}
		session.Flash(domain.NoticeError, noticeFor(herr))
		c.logger.WarnContext(ctx, "command failed",
			slog.String("command", cmd.String()),
			slog.Int("id", cmd.ItemID),
			slog.String("error", herr.Error()))
	} else {
		c.logger.DebugContext(ctx, "command handled",
			slog.String("command", cmd.String()),
			slog.Int("id", cmd.ItemID))
	}
	// Flash always installs a new notice, so a changed pointer is this command's
	if session.Notice != nil && session.Notice != waiting {
		n := *session.Notice
		out.Notice = &n
	}
	if cfg.reportOnly {
		session.Notice = waiting
	}

	if err := c.sessions.Save(ctx, session); err != nil {
		c.logger.ErrorContext(ctx, "failed to save session",
			slog.String("error", err.Error()))
		if herr == nil {
			return out, fmt.Errorf("failed to save session: %w", err)
		}
	}

	return out, herr
}

// load fetches both lists. Caller holds c.mu.
func (c *Controller) load(ctx context.Context) error {
	inventory, err := c.api.GetInventory(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch inventory: %w", err)
	}
	cart, err := c.api.GetCart(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch cart: %w", err)
	}

	c.state.SetInventory(inventory)
	c.state.SetCart(cart)

	c.logger.InfoContext(ctx, "state loaded",
		slog.Int("inventory", len(inventory)),
		slog.Int("cart", len(cart)))
	return nil
}

// reloadCart fetches the cart and assigns it to State. Caller holds c.mu.
func (c *Controller) reloadCart(ctx context.Context) error {
	cart, err := c.api.GetCart(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch cart: %w", err)
	}
	c.state.SetCart(cart)
	return nil
}

func (c *Controller) inventoryItem(id int) (domain.InventoryItem, error) {
	item, ok := domain.FindInventoryItem(c.state.InventoryItems(), id)
	if !ok {
		return domain.InventoryItem{}, ErrUnknownItem
	}
	return item, nil
}

func (c *Controller) incrementPending(_ context.Context, session *domain.Session, cmd Command, _ *Outcome) error {
	if _, err := c.inventoryItem(cmd.ItemID); err != nil {
		return err
	}
	session.AdjustPending(cmd.ItemID, 1)
	return nil
}

func (c *Controller) decrementPending(_ context.Context, session *domain.Session, cmd Command, _ *Outcome) error {
	if _, err := c.inventoryItem(cmd.ItemID); err != nil {
		return err
	}
	session.AdjustPending(cmd.ItemID, -1)
	return nil
}

// addToCart merges the pending amount into the cart: an existing line is
// patched to existing+pending, a new line is posted.
func (c *Controller) addToCart(ctx context.Context, session *domain.Session, cmd Command, _ *Outcome) error {
	item, err := c.inventoryItem(cmd.ItemID)
	if err != nil {
		return err
	}

	pending := session.PendingAmount(cmd.ItemID)
	if pending == 0 {
		return nil
	}

	cart, err := c.api.GetCart(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch cart: %w", err)
	}

	if existing, ok := domain.FindCartItem(cart, cmd.ItemID); ok {
		if _, err := c.api.UpdateCart(ctx, cmd.ItemID, existing.Amount+pending); err != nil {
			return fmt.Errorf("failed to update cart line: %w", err)
		}
	} else {
		if _, err := c.api.AddToCart(ctx, domain.NewCartItem(item, pending)); err != nil {
			return fmt.Errorf("failed to add cart line: %w", err)
		}
	}

	// The backend has the new amount; the counter is spent even if the reload fails
	session.ResetPending(cmd.ItemID)
	session.Flash(domain.NoticeSuccess, fmt.Sprintf("Added %d × %s to the cart", pending, item.Content))

	c.logger.InfoContext(ctx, "added to cart",
		slog.Int("id", item.ID),
		slog.Int("amount", pending))

	return c.reloadCart(ctx)
}

func (c *Controller) beginEdit(_ context.Context, session *domain.Session, cmd Command, _ *Outcome) error {
	line, ok := domain.FindCartItem(c.state.CartItems(), cmd.ItemID)
	if !ok {
		return ErrNotInCart
	}
	session.BeginEdit(line.ID, line.Amount, c.state.CartRevision())
	return nil
}

func (c *Controller) incrementEdit(_ context.Context, session *domain.Session, cmd Command, _ *Outcome) error {
	if _, ok := session.EditingRow(cmd.ItemID, c.state.CartRevision()); !ok {
		return ErrNotEditing
	}
	session.AdjustEdit(cmd.ItemID, 1)
	return nil
}

func (c *Controller) decrementEdit(_ context.Context, session *domain.Session, cmd Command, _ *Outcome) error {
	if _, ok := session.EditingRow(cmd.ItemID, c.state.CartRevision()); !ok {
		return ErrNotEditing
	}
	session.AdjustEdit(cmd.ItemID, -1)
	return nil
}

func (c *Controller) saveEdit(ctx context.Context, session *domain.Session, cmd Command, _ *Outcome) error {
	row, ok := session.EditingRow(cmd.ItemID, c.state.CartRevision())
	if !ok {
		return ErrNotEditing
	}

	updated, err := c.api.UpdateCart(ctx, cmd.ItemID, row.Amount)
	if errors.Is(err, ports.ErrNotFound) {
		session.EndEdit(cmd.ItemID)
		return c.lineGone(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to update cart line: %w", err)
	}
	session.EndEdit(cmd.ItemID)
	session.Flash(domain.NoticeSuccess, "Updated "+updated.Label())

	return c.reloadCart(ctx)
}

func (c *Controller) deleteLine(ctx context.Context, session *domain.Session, cmd Command, _ *Outcome) error {
	err := c.api.DeleteFromCart(ctx, cmd.ItemID)
	if errors.Is(err, ports.ErrNotFound) {
		session.EndEdit(cmd.ItemID)
		return c.lineGone(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to delete cart line: %w", err)
	}
	session.EndEdit(cmd.ItemID)

	return c.reloadCart(ctx)
}

// lineGone resyncs the cart after the backend reported a line missing.
// Caller holds c.mu.
func (c *Controller) lineGone(ctx context.Context) error {
	if err := c.reloadCart(ctx); err != nil {
		return err
	}
	return ErrNotInCart
}

// checkout deletes every cart line and keeps only the lines whose delete
// failed. There is no rollback and no retry.
func (c *Controller) checkout(ctx context.Context, session *domain.Session, _ Command, out *Outcome) error {
	result, err := c.api.Checkout(ctx)
	if err != nil {
		return fmt.Errorf("checkout failed: %w", err)
	}
	out.Checkout = &result

	failed := result.Failed()
	c.state.SetCart(failed)

	switch {
	case len(result.Outcomes) == 0:
		session.Flash(domain.NoticeWarning, "Your cart is empty")
	case len(failed) == 0:
		session.Flash(domain.NoticeSuccess, "Checkout complete")
	default:
		labels := make([]string, len(failed))
		for i, item := range failed {
			labels[i] = item.Label()
		}
		session.Flash(domain.NoticeWarning,
			fmt.Sprintf("Checkout incomplete, still in cart: %s", strings.Join(labels, ", ")))
	}

	deleted := result.Deleted()
	c.logger.InfoContext(ctx, "checkout finished",
		slog.Int("deleted", len(deleted)),
		slog.Int("failed", len(failed)))

	if len(deleted) == 0 {
		return nil
	}

	receipt := domain.NewReceipt(result)
	out.Receipt = &receipt
	if c.receipts != nil {
		if err := c.receipts.EnqueueReceipt(ctx, receipt); err != nil {
			// The checkout itself went through
			c.logger.ErrorContext(ctx, "failed to enqueue receipt",
				slog.String("receipt_id", receipt.ID.String()),
				slog.String("error", err.Error()))
		}
	}

	return nil
}

func (c *Controller) refresh(ctx context.Context, session *domain.Session, _ Command, _ *Outcome) error {
	if err := c.load(ctx); err != nil {
		return err
	}
	session.Flash(domain.NoticeSuccess, "Refreshed")
	return nil
}

func noticeFor(err error) string {
	switch {
	case errors.Is(err, ErrUnknownItem):
		return "That item is no longer in the inventory"
	case errors.Is(err, ErrNotInCart):
		return "That item is no longer in the cart"
	case errors.Is(err, ErrNotEditing):
		return "The cart changed, edit the row again"
	case IsRejected(err):
		return "That action is not available"
	default:
		return "The shop backend could not be reached, please try again"
	}
}
