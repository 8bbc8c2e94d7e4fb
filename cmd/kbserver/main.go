// Package main is the entry point for the IT support knowledge-base server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kiatsakul2905/it-support-FAQ/internal/cache"
	"github.com/kiatsakul2905/it-support-FAQ/internal/config"
	"github.com/kiatsakul2905/it-support-FAQ/internal/database"
	"github.com/kiatsakul2905/it-support-FAQ/internal/handlers"
	"github.com/kiatsakul2905/it-support-FAQ/internal/middleware"
	"github.com/kiatsakul2905/it-support-FAQ/internal/router"
	"github.com/kiatsakul2905/it-support-FAQ/internal/store"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	if cfg.AdminKey == "" {
		slog.Warn("ADMIN_PASSWORD not set, admin endpoints will reject every request")
	}

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed the category taxonomy in development (no-op once present).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey (Redis-compatible cache for the list endpoints).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	listCache := cache.NewListCache(valkeyClient, cache.DefaultListTTL)

	// Initialize data stores.
	problemStore := store.NewProblemStore(db)
	categoryStore := store.NewCategoryStore(db)
	tagStore := store.NewTagStore(db)

	// Rate limiter for the write endpoints (ratings and admin mutations).
	limiter := middleware.NewRateLimiter(cfg.RateLimit, time.Minute)
	defer limiter.Stop()

	// Create handler groups with their dependencies.
	problemHandlers := handlers.NewProblems(problemStore, listCache)
	categoryHandlers := handlers.NewCategories(categoryStore, listCache)
	tagHandlers := handlers.NewTags(tagStore, listCache)
	authHandlers := handlers.NewAuth(cfg.AdminKey)

	// Set up the Chi router with all middleware and routes.
	r := router.New(cfg.AdminKey, limiter, problemHandlers, categoryHandlers, tagHandlers, authHandlers)

	// Create the HTTP server with sensible timeouts.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
