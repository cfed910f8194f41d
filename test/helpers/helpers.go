// test/helpers/helpers.go
package helpers

import (
	"fmt"
	"log/slog"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/storefront/internal/adapters/backend"
	"github.com/ammerola/storefront/internal/core/domain"
	"github.com/ammerola/storefront/internal/pkg/config"
	"github.com/ammerola/storefront/internal/testbackend"
)

// TestRedis represents a test Redis instance
type TestRedis struct {
	Client *redis.Client
	Server *miniredis.Miniredis
}

// TestBackend is an in-memory shop backend listening on a local port
type TestBackend struct {
	*testbackend.Server
	HTTP   *httptest.Server
	Client *backend.Client
}

// TestLogger returns a test logger
func TestLogger() *slog.Logger {
	if testing.Verbose() {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// SetupTestRedis starts a miniredis instance for the duration of the test
func SetupTestRedis(t *testing.T) *TestRedis {
	t.Helper()

	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	return &TestRedis{
		Client: client,
		Server: mr,
	}
}

// SetupTestBackend starts an in-memory backend seeded with inventory and
// returns a client pointed at it
func SetupTestBackend(t testing.TB, inventory []domain.InventoryItem) *TestBackend {
	t.Helper()

	srv := testbackend.New(inventory, TestLogger())
	hs := httptest.NewServer(srv)
	t.Cleanup(hs.Close)

	client, err := backend.NewClient(backend.Config{
		BaseURL: hs.URL,
		Timeout: 5 * time.Second,
	}, hs.Client(), TestLogger())
	require.NoError(t, err, "Failed to create backend client")

	return &TestBackend{
		Server: srv,
		HTTP:   hs,
		Client: client,
	}
}

// LoadTestConfig returns a test configuration
func LoadTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:        "storefront-test",
			Environment: "test",
			Version:     "test",
			LogLevel:    "debug",
			LogFormat:   "text",
			Debug:       true,
		},
		Backend: config.BackendConfig{
			BaseURL: "http://localhost:3000",
			Timeout: 5 * time.Second,
		},
		Redis: config.RedisConfig{
			Host:     "localhost",
			Port:     "6379",
			PoolSize: 10,
		},
		Session: config.SessionConfig{
			Backend:    config.SessionBackendMemory,
			TTL:        time.Hour,
			CookieName: "session_id",
		},
		Asynq: config.AsynqConfig{
			Enabled:  false,
			RetryMax: 3,
		},
		Security: config.SecurityConfig{
			RateLimitRequests: 100,
			RateLimitDuration: time.Minute,
			AllowedOrigins:    []string{"*"},
			SecureHeaders:     false,
		},
		Server: config.ServerConfig{
			Host:        "localhost",
			Port:        "8080",
			ReadTimeout: 15 * time.Second,
		},
	}
}

// SampleInventory returns the fruit catalog used across tests
func SampleInventory() []domain.InventoryItem {
	return []domain.InventoryItem{
		{ID: 1, Content: "Apple"},
		{ID: 2, Content: "Pear"},
		{ID: 3, Content: "Banana"},
	}
}

// CreateTestInventory returns count inventory items with ids 1..count
func CreateTestInventory(count int) []domain.InventoryItem {
	items := make([]domain.InventoryItem, count)
	for i := range items {
		items[i] = domain.InventoryItem{ID: i + 1, Content: fmt.Sprintf("Item %d", i+1)}
	}
	return items
}

// CreateTestCartItem creates a cart line, applying overrides in order
func CreateTestCartItem(overrides ...func(*domain.CartItem)) domain.CartItem {
	item := domain.CartItem{ID: 1, Content: "Apple", Amount: 1}
	for _, override := range overrides {
		override(&item)
	}
	return item
}

// AssertEventuallyWithTimeout asserts that a condition is met within a timeout
func AssertEventuallyWithTimeout(t *testing.T, condition func() bool, timeout time.Duration, msg string) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}

	t.Errorf("Condition not met within %v: %s", timeout, msg)
}
