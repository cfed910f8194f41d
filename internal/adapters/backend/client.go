// internal/adapters/backend/client.go
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/ammerola/storefront/internal/core/domain"
	"github.com/ammerola/storefront/internal/core/ports"
	"github.com/ammerola/storefront/internal/pkg/logger"
)

const (
	pathCart      = "/cart"
	pathInventory = "/inventory"

	// DefaultBaseURL is where the backend listens unless configured otherwise
	DefaultBaseURL = "http://localhost:3000"

	headerRequestID = "X-Request-ID"
	maxErrorBody    = 4 << 10
)

// Config holds backend client configuration
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit int // requests per second, 0 disables throttling
}

// Client talks to the cart/inventory REST backend
type Client struct {
	baseURL *url.URL
	http    *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// Statically assert that *Client implements the ShopAPI interface.
var _ ports.ShopAPI = (*Client)(nil)

// NewClient creates a backend client. The base URL is fixed for the lifetime of the client.
func NewClient(cfg Config, httpClient *http.Client, log *slog.Logger) (*Client, error) {
	raw := cfg.BaseURL
	if raw == "" {
		raw = DefaultBaseURL
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid backend base url %q: %w", raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid backend base url %q: scheme and host are required", raw)
	}

	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimit)
	}

	return &Client{
		baseURL: u,
		http:    httpClient,
		limiter: limiter,
		logger:  log.With(slog.String("component", "backend_client")),
	}, nil
}

// BaseURL returns the backend address
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// GetCart handles GET /cart
func (c *Client) GetCart(ctx context.Context) ([]domain.CartItem, error) {
	var items []domain.CartItem
	if err := c.doJSON(ctx, "get cart", 0, http.MethodGet, pathCart, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// GetInventory handles GET /inventory
func (c *Client) GetInventory(ctx context.Context) ([]domain.InventoryItem, error) {
	var items []domain.InventoryItem
	if err := c.doJSON(ctx, "get inventory", 0, http.MethodGet, pathInventory, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// AddToCart handles POST /cart
func (c *Client) AddToCart(ctx context.Context, item domain.CartItem) (domain.CartItem, error) {
	var created domain.CartItem
	if err := c.doJSON(ctx, "add to cart", item.ID, http.MethodPost, pathCart, item, &created); err != nil {
		return domain.CartItem{}, err
	}
	return created, nil
}

// UpdateCart handles PATCH /cart/{id}
func (c *Client) UpdateCart(ctx context.Context, id int, amount int) (domain.CartItem, error) {
	var updated domain.CartItem
	body := domain.AmountUpdate{Amount: amount}
	if err := c.doJSON(ctx, "update cart", id, http.MethodPatch, cartItemPath(id), body, &updated); err != nil {
		return domain.CartItem{}, err
	}
	return updated, nil
}

// DeleteFromCart handles DELETE /cart/{id}. It succeeds iff the backend answers 2xx.
func (c *Client) DeleteFromCart(ctx context.Context, id int) error {
	return c.doJSON(ctx, "delete from cart", id, http.MethodDelete, cartItemPath(id), nil, nil)
}

// Checkout fetches the cart and deletes every line concurrently, waiting for all
// of them. A failed delete is recorded in the result and does not stop the others.
func (c *Client) Checkout(ctx context.Context) (domain.CheckoutResult, error) {
	cart, err := c.GetCart(ctx)
	if err != nil {
		return domain.CheckoutResult{}, fmt.Errorf("checkout: %w", err)
	}

	outcomes := make([]domain.DeleteOutcome, len(cart))
	var mu sync.Mutex
	var g errgroup.Group

	for i, item := range cart {
		g.Go(func() error {
			err := c.DeleteFromCart(ctx, item.ID)

			mu.Lock()
			outcomes[i] = domain.DeleteOutcome{Item: item, OK: err == nil, Err: err}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	result := domain.CheckoutResult{Outcomes: outcomes}
	if failed := result.Failed(); len(failed) > 0 {
		c.logger.WarnContext(ctx, "checkout partially failed",
			slog.Int("deleted", len(cart)-len(failed)),
			slog.Int("failed", len(failed)))
	}

	return result, nil
}

// Ping checks that the backend answers on the inventory endpoint
func (c *Client) Ping(ctx context.Context) error {
	return c.doJSON(ctx, "ping", 0, http.MethodGet, pathInventory, nil, nil)
}

func (c *Client) doJSON(ctx context.Context, op string, id int, method, path string, in, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return networkError(op, id, err)
		}
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: marshal request: %w", op, err)
		}
		body = bytes.NewReader(data)
	}

	u := c.baseURL.ResolveReference(&url.URL{Path: path})
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if requestID, ok := ctx.Value(logger.ContextKeyRequestID).(string); ok && requestID != "" {
		req.Header.Set(headerRequestID, requestID)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.ErrorContext(ctx, "backend request failed",
			slog.String("op", op),
			slog.String("method", method),
			slog.String("path", path),
			slog.String("error", err.Error()))
		return networkError(op, id, err)
	}
	defer resp.Body.Close()

	c.logger.DebugContext(ctx, "backend request",
		slog.String("op", op),
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.WarnContext(ctx, "backend returned error status",
			slog.String("op", op),
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(snippet)))
		return statusError(op, id, resp.StatusCode)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logger.ErrorContext(ctx, "failed to decode backend response",
			slog.String("op", op),
			slog.String("error", err.Error()))
		return decodeError(op, id, err)
	}

	return nil
}

func cartItemPath(id int) string {
	return pathCart + "/" + strconv.Itoa(id)
}
