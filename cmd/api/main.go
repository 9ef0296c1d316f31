package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/saturnino-fabrica-de-software/scenefinder/internal/api"
	"github.com/saturnino-fabrica-de-software/scenefinder/internal/audit"
	"github.com/saturnino-fabrica-de-software/scenefinder/internal/command"
	"github.com/saturnino-fabrica-de-software/scenefinder/internal/config"
	"github.com/saturnino-fabrica-de-software/scenefinder/internal/render"
	"github.com/saturnino-fabrica-de-software/scenefinder/internal/scene"
	"github.com/saturnino-fabrica-de-software/scenefinder/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg)
	slog.SetDefault(logger)

	logger.Info("starting SceneFinder API",
		slog.String("environment", cfg.Environment),
		slog.Int("port", cfg.Port),
		slog.String("provider", cfg.ProviderType),
	)

	sceneProvider, err := scene.NewSceneProvider(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create scene provider: %w", err)
	}
	defer func() {
		if err := sceneProvider.Close(); err != nil {
			logger.Error("provider close error", slog.Any("error", err))
		}
	}()

	// The provider opens its session lazily, so there is nothing to check at
	// startup; ready only flips to false when shutdown begins.
	var ready atomic.Bool
	ready.Store(true)

	sceneService := service.NewSceneService(sceneProvider, render.Options{
		MaxResults:    cfg.MaxResults,
		EnablePreview: cfg.EnablePreview,
		PreviewKind:   cfg.Preview(),
	}, logger)
	dispatcher := command.NewDispatcher(sceneService, cfg, cfg.CommandPrefix, logger).
		WithAuditor(audit.NewSlogLogger(logger))

	// Setup router
	router := api.NewRouter(logger, &api.Dependencies{
		Dispatcher:    dispatcher,
		WebhookToken:  cfg.WebhookToken,
		WebhookSecret: cfg.WebhookSecret,
		Ready:         ready.Load,
	})
	router.Setup()

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logger.Info("server listening", slog.String("addr", addr))
		if err := router.Listen(addr); err != nil {
			errChan <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}

	ready.Store(false)

	logger.Info("shutting down server...")
	if err := router.Shutdown(); err != nil {
		logger.Error("shutdown error", slog.Any("error", err))
	}

	logger.Info("server stopped")

	return nil
}
