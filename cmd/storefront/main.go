// cmd/storefront/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/ammerola/storefront/internal/adapters/backend"
	"github.com/ammerola/storefront/internal/adapters/memory"
	"github.com/ammerola/storefront/internal/adapters/queue"
	redis_a "github.com/ammerola/storefront/internal/adapters/redis_adapter"
	"github.com/ammerola/storefront/internal/core/ports"
	"github.com/ammerola/storefront/internal/core/services"
	"github.com/ammerola/storefront/internal/core/state"
	"github.com/ammerola/storefront/internal/handlers"
	"github.com/ammerola/storefront/internal/handlers/middleware"
	"github.com/ammerola/storefront/internal/pkg/config"
	"github.com/ammerola/storefront/internal/pkg/logger"
	"github.com/ammerola/storefront/internal/view"
)

// Build information injected at compile time
var (
	Version   = "dev"
	BuildTime = "unknown"
	GoVersion = "unknown"
)

func main() {
	slogger := logger.SetupLogger("debug", "json")

	slogger.Info("starting storefront",
		slog.String("version", Version),
		slog.String("build_time", BuildTime),
		slog.String("go_version", GoVersion),
	)

	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Reconfigure logger with loaded settings
	slogger = logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat)
	slogger.Info("configuration loaded",
		slog.String("environment", cfg.App.Environment),
		slog.String("log_level", cfg.App.LogLevel),
		slog.String("backend_url", cfg.Backend.BaseURL),
		slog.String("session_backend", cfg.Session.Backend),
	)

	ctx := context.Background()

	deps, err := initializeDependencies(ctx, cfg, slogger)
	if err != nil {
		slogger.Error("failed to initialize dependencies", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer deps.cleanup()

	// The page can still be served and refreshed when the backend is down at boot
	initCtx, cancel := context.WithTimeout(ctx, cfg.Backend.Timeout)
	if err := deps.controller.Init(initCtx); err != nil {
		slogger.Warn("initial load failed, serving empty lists",
			slog.String("error", err.Error()))
	}
	cancel()

	server := setupHTTPServer(cfg, deps, slogger)

	serverErrors := make(chan error, 1)
	go func() {
		slogger.Info("starting HTTP server",
			slog.String("address", cfg.GetServerAddress()),
		)
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slogger.Error("server error", slog.String("error", err.Error()))
		}
	case sig := <-shutdown:
		slogger.Info("shutdown signal received",
			slog.String("signal", sig.String()),
		)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
		defer shutdownCancel()

		// Event streams never finish on their own
		if deps.events != nil {
			deps.events.Close()
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slogger.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
			server.Close()
		}

		slogger.Info("server shutdown complete")
	}
}

// dependencies holds all application dependencies
type dependencies struct {
	redisClient    *redis.Client
	asynqClient    *asynq.Client
	asynqInspector *asynq.Inspector
	backend        *backend.Client
	sessions       ports.SessionStore
	receiptLog     ports.ReceiptLog
	controller     *services.Controller
	events         *handlers.EventHub
	storefront     *handlers.StorefrontHandler
	health         *handlers.HealthHandler
}

func (d *dependencies) cleanup() {
	if d.asynqClient != nil {
		d.asynqClient.Close()
	}
	if d.asynqInspector != nil {
		d.asynqInspector.Close()
	}
	if d.redisClient != nil {
		d.redisClient.Close()
	}
}

func initializeDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*dependencies, error) {
	deps := &dependencies{}

	needsRedis := cfg.Session.Backend == config.SessionBackendRedis || cfg.Asynq.Enabled
	if needsRedis {
		logger.Info("connecting to Redis",
			slog.String("host", cfg.Redis.Host),
			slog.String("port", cfg.Redis.Port),
		)

		redisClient := redis.NewClient(&redis.Options{
			Addr:            cfg.GetRedisAddress(),
			Password:        cfg.Redis.Password,
			DB:              cfg.Redis.DB,
			MaxRetries:      cfg.Redis.MaxRetries,
			MinRetryBackoff: cfg.Redis.MinRetryBackoff,
			MaxRetryBackoff: cfg.Redis.MaxRetryBackoff,
			DialTimeout:     cfg.Redis.DialTimeout,
			ReadTimeout:     cfg.Redis.ReadTimeout,
			WriteTimeout:    cfg.Redis.WriteTimeout,
			PoolSize:        cfg.Redis.PoolSize,
			MinIdleConns:    cfg.Redis.MinIdleConns,
			PoolTimeout:     cfg.Redis.PoolTimeout,
			ConnMaxIdleTime: cfg.Redis.IdleTimeout,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			redisClient.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		deps.redisClient = redisClient
		deps.receiptLog = redis_a.NewReceiptLog(redisClient, redis_a.DefaultReceiptCapacity, logger)
	}

	switch cfg.Session.Backend {
	case config.SessionBackendRedis:
		deps.sessions = redis_a.NewSessionStore(deps.redisClient, cfg.Session.TTL, logger)
	default:
		deps.sessions = memory.NewSessionStore(cfg.Session.TTL, logger)
	}

	client, err := backend.NewClient(backend.Config{
		BaseURL:   cfg.Backend.BaseURL,
		Timeout:   cfg.Backend.Timeout,
		RateLimit: cfg.Backend.RateLimit,
	}, nil, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create backend client: %w", err)
	}
	deps.backend = client

	var receipts ports.ReceiptQueue = queue.Discard{Logger: logger}
	if cfg.Asynq.Enabled {
		logger.Info("initializing Asynq client")

		asynqRedisOpt := asynq.RedisClientOpt{
			Addr:     cfg.Asynq.RedisAddr,
			Password: cfg.Asynq.RedisPassword,
			DB:       cfg.Asynq.RedisDB,
		}
		deps.asynqClient = asynq.NewClient(asynqRedisOpt)
		deps.asynqInspector = asynq.NewInspector(asynqRedisOpt)
		receipts = queue.NewReceiptQueue(deps.asynqClient, cfg.Asynq.RetryMax, logger)
	}

	st := state.New()
	deps.controller = services.NewController(client, st, deps.sessions, receipts, logger)

	renderer, err := view.NewRenderer()
	if err != nil {
		return nil, err
	}

	if cfg.Server.EnableEvents {
		deps.events = handlers.NewEventHub(st, logger)
	}

	deps.storefront = handlers.NewStorefrontHandler(deps.controller, renderer, deps.receiptLog, handlers.StorefrontOptions{
		Title:      cfg.Server.PageTitle,
		LiveReload: cfg.Server.EnableEvents,
	}, logger)

	var inspector handlers.QueueInspector
	if deps.asynqInspector != nil {
		inspector = deps.asynqInspector
	}
	deps.health = handlers.NewHealthHandler(client, deps.sessions, inspector, cfg, logger)

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

func setupHTTPServer(cfg *config.Config, deps *dependencies, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	registerRoutes(mux, deps, cfg)

	// First listed is outermost
	mws := []func(http.Handler) http.Handler{
		middleware.Recovery(logger),
		middleware.RequestID,
		middleware.Logger(logger),
	}
	if cfg.Security.RateLimitRequests > 0 {
		mws = append(mws, middleware.RateLimit(cfg.Security.RateLimitRequests, cfg.Security.RateLimitDuration))
	}
	if len(cfg.Security.AllowedOrigins) > 0 {
		mws = append(mws, middleware.CORS(cfg.Security.AllowedOrigins))
	}
	if cfg.Security.SecureHeaders {
		mws = append(mws, middleware.SecureHeaders)
	}
	if cfg.Server.EnableCompression {
		mws = append(mws, middleware.Compression)
	}
	mws = append(mws, middleware.Session(middleware.SessionConfig{
		CookieName: cfg.Session.CookieName,
		TTL:        cfg.Session.TTL,
		Secure:     cfg.Session.Secure,
	}))

	return &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           middleware.Chain(mux, mws...),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		MaxHeaderBytes:    cfg.Server.MaxHeaderBytes,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}
}

func registerRoutes(mux *http.ServeMux, deps *dependencies, cfg *config.Config) {
	if cfg.Server.EnableHealthCheck {
		deps.health.Register(mux)
		mux.HandleFunc("GET /api/v1/health", deps.health.Health)
	}

	deps.storefront.Register(mux)

	if deps.events != nil {
		mux.Handle("GET /events", deps.events)
	}
}
