// cmd/devbackend/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ammerola/storefront/internal/core/domain"
	"github.com/ammerola/storefront/internal/handlers/middleware"
	"github.com/ammerola/storefront/internal/pkg/logger"
	"github.com/ammerola/storefront/internal/testbackend"
)

// seedFile mirrors the db.json layout of json-server
type seedFile struct {
	Inventory []domain.InventoryItem `json:"inventory"`
	Cart      []domain.CartItem      `json:"cart"`
}

var defaultInventory = []domain.InventoryItem{
	{ID: 1, Content: "Apple"},
	{ID: 2, Content: "Pear"},
	{ID: 3, Content: "Banana"},
	{ID: 4, Content: "Orange"},
	{ID: 5, Content: "Cherry"},
}

func main() {
	var (
		addr     = flag.String("addr", ":3000", "Address to listen on")
		seedPath = flag.String("seed", "", "Path to a db.json style seed file")
		logLevel = flag.String("log-level", "info", "Log level")
		format   = flag.String("log-format", "text", "Log format (json, text)")
	)
	flag.Parse()

	slogger := logger.SetupLogger(*logLevel, *format)

	seed, err := loadSeed(*seedPath)
	if err != nil {
		slogger.Error("failed to load seed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	srv := testbackend.New(seed.Inventory, slogger)
	srv.SeedCart(seed.Cart...)

	server := &http.Server{
		Addr:              *addr,
		Handler:           middleware.Chain(srv, middleware.Recovery(slogger), middleware.RequestID, middleware.Logger(slogger)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slogger.Info("dev backend listening",
			slog.String("address", *addr),
			slog.Int("inventory", len(seed.Inventory)),
			slog.Int("cart", len(seed.Cart)))
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slogger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case sig := <-shutdown:
		slogger.Info("shutdown signal received", slog.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slogger.Error("failed to shutdown", slog.String("error", err.Error()))
		}
	}
}

func loadSeed(path string) (seedFile, error) {
	if path == "" {
		return seedFile{Inventory: defaultInventory}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return seedFile{}, fmt.Errorf("failed to read seed file: %w", err)
	}

	var seed seedFile
	if err := json.Unmarshal(data, &seed); err != nil {
		return seedFile{}, fmt.Errorf("failed to parse seed file: %w", err)
	}
	for _, item := range seed.Cart {
		if err := item.Validate(); err != nil {
			return seedFile{}, fmt.Errorf("invalid seed cart: %w", err)
		}
	}
	return seed, nil
}
