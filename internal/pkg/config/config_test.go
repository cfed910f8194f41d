package config

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:     AppConfig{Environment: "development"},
		Backend: BackendConfig{BaseURL: "http://localhost:3000", Timeout: time.Second},
		Redis:   RedisConfig{PoolSize: 10},
		Session: SessionConfig{Backend: SessionBackendMemory, TTL: time.Hour, CookieName: "session_id"},
		Security: SecurityConfig{
			RateLimitRequests: 100,
			RateLimitDuration: time.Minute,
		},
		Server: ServerConfig{Port: "8080"},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing_backend_url", func(c *Config) { c.Backend.BaseURL = "" }, "Backend.BaseURL"},
		{"relative_backend_url", func(c *Config) { c.Backend.BaseURL = "/api" }, "not an absolute url"},
		{"missing_port", func(c *Config) { c.Server.Port = "" }, "Server.Port"},
		{"unknown_session_backend", func(c *Config) { c.Session.Backend = "disk" }, "unknown session backend"},
		{"zero_session_ttl", func(c *Config) { c.Session.TTL = 0 }, "session ttl"},
		{"negative_backend_rate", func(c *Config) { c.Backend.RateLimit = -1 }, "cannot be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestBasicValidator_MissingFieldIsWrapped(t *testing.T) {
	cfg := validConfig()
	cfg.Backend.BaseURL = ""

	err := (&BasicValidator{}).Validate(cfg)
	assert.ErrorIs(t, err, ErrMissingRequiredConfig)
}

func TestProductionValidator(t *testing.T) {
	prod := func() *Config {
		cfg := validConfig()
		cfg.App.Environment = "production"
		cfg.Backend.BaseURL = "https://shop-backend.internal"
		cfg.Session.Backend = SessionBackendRedis
		cfg.Session.Secure = true
		cfg.Security.SecureHeaders = true
		cfg.Security.AllowedOrigins = []string{"https://shop.example.com"}
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"memory_sessions", func(c *Config) { c.Session.Backend = SessionBackendMemory }, true},
		{"insecure_cookie", func(c *Config) { c.Session.Secure = false }, true},
		{"no_secure_headers", func(c *Config) { c.Security.SecureHeaders = false }, true},
		{"wildcard_origin", func(c *Config) { c.Security.AllowedOrigins = []string{"*"} }, true},
		{"localhost_backend", func(c *Config) { c.Backend.BaseURL = "http://localhost:3000" }, true},
		{"placeholder_redis_password", func(c *Config) { c.Redis.Password = "MISSING_REDIS" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := prod()
			tt.mutate(cfg)

			err := (&ProductionValidator{}).Validate(cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("SESSION_BACKEND", SessionBackendMemory)
	t.Setenv("BACKEND_URL", "http://localhost:3999")

	cfg, err := Load(slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:3999", cfg.Backend.BaseURL)
	assert.Equal(t, SessionBackendMemory, cfg.Session.Backend)
	assert.Equal(t, "session_id", cfg.Session.CookieName)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "0.0.0.0:8080", cfg.GetServerAddress())
	assert.False(t, cfg.IsProduction())
}

func TestParseQueues(t *testing.T) {
	assert.Equal(t, map[string]int{"critical": 6, "default": 3}, parseQueues("critical:6, default:3"))
	assert.Equal(t, map[string]int{"default": 1}, parseQueues("garbage"))
}
