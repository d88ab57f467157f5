package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"finanza/internal/app"
	"finanza/internal/backend"
	"finanza/internal/config"
	"finanza/internal/events"
	apphttp "finanza/internal/http"
	"finanza/internal/insight"
	applog "finanza/internal/log"
	"finanza/internal/session"
)

func main() {
	// Load .env file for local development (ignore errors elsewhere)
	_ = godotenv.Load()

	logger := applog.New("finanza", applog.ParseLevel(os.Getenv("LOG_LEVEL")))
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	// Storage: fatal when the store cannot be opened, nothing works without it
	result, err := backend.NewFactory(logger.Logger).Create(cfg)
	if err != nil {
		logger.Error("Failed to initialize storage backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer func() {
		if err := result.Cleanup(); err != nil {
			logger.Error("Storage cleanup failed", "error", err)
		}
	}()

	// Optional snapshot event publishing
	var notifier app.Notifier
	if cfg.AMQPURL != "" {
		publisher, err := events.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP publisher, continuing without events", "error", err)
		} else {
			defer publisher.Close()
			notifier = publisher
			logger.Info("Initialized AMQP publisher", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	sessions := session.NewManager(cfg.SessionPath)
	container := app.NewContainer(result.Store, sessions, app.Config{
		Debounce: cfg.AutosaveDebounce,
		Notifier: notifier,
	})

	// Resolve identity before serving so the first request already sees
	// the restored snapshot
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cred := container.Restore(ctx); cred != nil {
		logger.Info("Restored previous session", "email", cred.Email)
	}

	insights := insight.New(insight.Config{
		APIKey:  cfg.InsightAPIKey,
		BaseURL: cfg.InsightBaseURL,
		Model:   cfg.InsightModel,
	})

	srv := apphttp.NewServer(":"+cfg.Port, container, insights)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting finanza server", "port", cfg.Port, "backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
		case <-gctx.Done():
			return gctx.Err()
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Flush the pending snapshot so the debounce window cannot eat
		// the last edits
		if err := container.Flush(shutdownCtx); err != nil {
			logger.Error("Final snapshot flush failed", "error", err)
		}

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}

	logger.Info("Server stopped gracefully")
}
