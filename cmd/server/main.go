package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	clinsight "github.com/verdant-health/clinsight"
	"github.com/verdant-health/clinsight/internal/capture"
	"github.com/verdant-health/clinsight/internal/config"
	"github.com/verdant-health/clinsight/internal/handler"
	"github.com/verdant-health/clinsight/internal/identity"
	"github.com/verdant-health/clinsight/internal/inference"
	"github.com/verdant-health/clinsight/internal/interpret"
	"github.com/verdant-health/clinsight/internal/ledger"
	"github.com/verdant-health/clinsight/internal/middleware"
	"github.com/verdant-health/clinsight/internal/orchestrator"
	"github.com/verdant-health/clinsight/internal/questionnaire"
	"github.com/verdant-health/clinsight/internal/repository"
	"github.com/verdant-health/clinsight/internal/service"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Run migrations
	migrationsFS, err := fs.Sub(clinsight.MigrationsFS, "migrations")
	if err != nil {
		slog.Error("failed to load embedded migrations", "error", err)
		os.Exit(1)
	}
	if err := repository.RunMigrations(cfg.DatabaseURL, migrationsFS); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Load questionnaire content
	questions, err := questionnaire.LoadQuestions()
	if err != nil {
		slog.Error("failed to load questionnaire", "error", err)
		os.Exit(1)
	}

	// Shared services
	dispatcher := inference.NewDispatcher(config.DispatchTimeout)
	interpreter := interpret.NewService(cfg.GenerateEndpoint, config.GenerateTimeout)
	intakes := repository.NewIntakeRepository(pool)

	// Per-browser-session component set. Each session owns its own capture
	// unit, orchestrator, questionnaire engine and history ledger.
	registry := service.NewRegistry(config.SessionTTL, func(id string) *service.Session {
		bridge := capture.NewBridge()
		unit := capture.NewUnit(bridge)
		lg := ledger.New()
		return &service.Session{
			ID:           id,
			Orchestrator: orchestrator.New(unit, dispatcher, interpreter, identity.Ambient{}, lg),
			Engine:       questionnaire.NewEngine(questions, intakes),
			Ledger:       lg,
			Bridge:       bridge,
		}
	})
	go registry.Run(ctx, config.SessionSweepInterval)

	// Initialize handler
	h := handler.New(handler.Deps{
		Cfg:       cfg,
		Registry:  registry,
		Interpret: interpreter,
		Intakes:   intakes,
	})

	mux := http.NewServeMux()
	h.Register(mux)

	var root http.Handler = mux
	root = middleware.IdentityLoader()(root)
	root = middleware.RateLimit(cfg.RateLimitPerMinute)(root)
	root = middleware.Logging()(root)
	root = middleware.Recover()(root)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           root,
		ReadHeaderTimeout: config.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", "error", err)
	}
	slog.Info("server stopped gracefully")
}
