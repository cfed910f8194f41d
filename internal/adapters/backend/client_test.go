package backend_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/storefront/internal/adapters/backend"
	"github.com/ammerola/storefront/internal/core/domain"
	"github.com/ammerola/storefront/internal/core/ports"
	"github.com/ammerola/storefront/internal/pkg/logger"
	"github.com/ammerola/storefront/test/helpers"
)

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		want    string
		wantErr bool
	}{
		{name: "defaults_to_localhost", baseURL: "", want: backend.DefaultBaseURL},
		{name: "accepts_absolute_url", baseURL: "http://shop.internal:8081", want: "http://shop.internal:8081"},
		{name: "rejects_relative_url", baseURL: "/cart", wantErr: true},
		{name: "rejects_garbage", baseURL: "://nope", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := backend.NewClient(backend.Config{BaseURL: tt.baseURL}, nil, helpers.TestLogger())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.BaseURL())
		})
	}
}

func TestClient_Reads(t *testing.T) {
	tb := helpers.SetupTestBackend(t, helpers.SampleInventory())
	tb.SeedCart(domain.CartItem{ID: 2, Content: "Pear", Amount: 2})
	ctx := context.Background()

	inventory, err := tb.Client.GetInventory(ctx)
	require.NoError(t, err)
	assert.Equal(t, helpers.SampleInventory(), inventory)

	cart, err := tb.Client.GetCart(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.CartItem{{ID: 2, Content: "Pear", Amount: 2}}, cart)

	assert.NoError(t, tb.Client.Ping(ctx))
}

func TestClient_AddToCart(t *testing.T) {
	tb := helpers.SetupTestBackend(t, helpers.SampleInventory())
	ctx := context.Background()

	created, err := tb.Client.AddToCart(ctx, domain.CartItem{ID: 1, Content: "Apple", Amount: 3})
	require.NoError(t, err)
	assert.Equal(t, domain.CartItem{ID: 1, Content: "Apple", Amount: 3}, created)

	posts := tb.RequestsMatching(http.MethodPost, "/cart")
	require.Len(t, posts, 1)
	assert.JSONEq(t, `{"id":1,"content":"Apple","amount":3}`, string(posts[0].Body))

	_, err = tb.Client.AddToCart(ctx, domain.CartItem{ID: 1, Content: "Apple", Amount: 1})
	var be *backend.Error
	require.ErrorAs(t, err, &be)
	assert.Equal(t, http.StatusInternalServerError, be.StatusCode)
	assert.ErrorIs(t, err, backend.ErrStatus)
	assert.NotErrorIs(t, err, ports.ErrNotFound)
}

func TestClient_UpdateCart(t *testing.T) {
	tb := helpers.SetupTestBackend(t, helpers.SampleInventory())
	tb.SeedCart(domain.CartItem{ID: 1, Content: "Apple", Amount: 3})
	ctx := context.Background()

	updated, err := tb.Client.UpdateCart(ctx, 1, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Amount)

	patches := tb.RequestsMatching(http.MethodPatch, "/cart/1")
	require.Len(t, patches, 1)
	assert.JSONEq(t, `{"amount":4}`, string(patches[0].Body))

	_, err = tb.Client.UpdateCart(ctx, 9, 1)
	assert.ErrorIs(t, err, ports.ErrNotFound)
	assert.ErrorIs(t, err, backend.ErrStatus)
}

func TestClient_DeleteFromCart(t *testing.T) {
	tb := helpers.SetupTestBackend(t, helpers.SampleInventory())
	tb.SeedCart(domain.CartItem{ID: 1, Content: "Apple", Amount: 3})
	ctx := context.Background()

	require.NoError(t, tb.Client.DeleteFromCart(ctx, 1))
	assert.Empty(t, tb.Cart())

	err := tb.Client.DeleteFromCart(ctx, 1)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestClient_Checkout(t *testing.T) {
	tests := []struct {
		name        string
		cart        []domain.CartItem
		failPath    string
		wantResults []bool
		wantLeft    []domain.CartItem
	}{
		{
			name:        "empty_cart",
			cart:        nil,
			wantResults: []bool{},
			wantLeft:    []domain.CartItem{},
		},
		{
			name: "deletes_every_line",
			cart: []domain.CartItem{
				{ID: 1, Content: "Apple", Amount: 3},
				{ID: 2, Content: "Pear", Amount: 1},
			},
			wantResults: []bool{true, true},
			wantLeft:    []domain.CartItem{},
		},
		{
			name: "one_delete_fails",
			cart: []domain.CartItem{
				{ID: 1, Content: "Apple", Amount: 3},
				{ID: 2, Content: "Pear", Amount: 1},
				{ID: 3, Content: "Banana", Amount: 2},
			},
			failPath:    "/cart/2",
			wantResults: []bool{true, false, true},
			wantLeft:    []domain.CartItem{{ID: 2, Content: "Pear", Amount: 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tb := helpers.SetupTestBackend(t, helpers.SampleInventory())
			tb.SeedCart(tt.cart...)
			if tt.failPath != "" {
				tb.FailWith(http.MethodDelete, tt.failPath, http.StatusServiceUnavailable)
			}

			result, err := tb.Client.Checkout(context.Background())
			require.NoError(t, err)

			assert.Equal(t, tt.wantResults, result.Results())
			assert.Equal(t, tt.wantLeft, tb.Cart())
			assert.Len(t, tb.RequestsMatching(http.MethodGet, "/cart"), 1)
			for _, o := range result.Outcomes {
				if !o.OK {
					assert.ErrorIs(t, o.Err, backend.ErrStatus)
				}
			}
		})
	}
}

func TestClient_CheckoutFetchFails(t *testing.T) {
	tb := helpers.SetupTestBackend(t, helpers.SampleInventory())
	tb.FailWith(http.MethodGet, "/cart", http.StatusInternalServerError)

	_, err := tb.Client.Checkout(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, backend.ErrStatus)
	assert.Empty(t, tb.RequestsMatching(http.MethodDelete, "/cart/1"))
}

func TestClient_ErrorKinds(t *testing.T) {
	t.Run("network", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		c, err := backend.NewClient(backend.Config{BaseURL: url, Timeout: time.Second}, nil, helpers.TestLogger())
		require.NoError(t, err)

		_, err = c.GetInventory(context.Background())
		assert.ErrorIs(t, err, backend.ErrNetwork)
	})

	t.Run("decode", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"not":"a list"}`))
		}))
		defer srv.Close()

		c, err := backend.NewClient(backend.Config{BaseURL: srv.URL}, srv.Client(), helpers.TestLogger())
		require.NoError(t, err)

		_, err = c.GetCart(context.Background())
		assert.ErrorIs(t, err, backend.ErrDecode)
		assert.False(t, errors.Is(err, backend.ErrStatus))
	})
}

func TestClient_ForwardsRequestID(t *testing.T) {
	var seen atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen.Store(r.Header.Get("X-Request-ID"))
		_ = json.NewEncoder(w).Encode([]domain.InventoryItem{})
	}))
	defer srv.Close()

	c, err := backend.NewClient(backend.Config{BaseURL: srv.URL}, srv.Client(), helpers.TestLogger())
	require.NoError(t, err)

	ctx := context.WithValue(context.Background(), logger.ContextKeyRequestID, "req-42")
	_, err = c.GetInventory(ctx)
	require.NoError(t, err)
	assert.Equal(t, "req-42", seen.Load())
}

func TestClient_RateLimitHonoursContext(t *testing.T) {
	tb := helpers.SetupTestBackend(t, helpers.SampleInventory())
	c, err := backend.NewClient(backend.Config{BaseURL: tb.HTTP.URL, RateLimit: 1}, tb.HTTP.Client(), helpers.TestLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	_, err = c.GetInventory(ctx)
	require.NoError(t, err)

	cancel()
	_, err = c.GetInventory(ctx)
	assert.ErrorIs(t, err, backend.ErrNetwork)
}
