package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"techknowledgepills/infrastructure/config"
	"techknowledgepills/infrastructure/di"
	"techknowledgepills/pkg/observability"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize dependency container
	container, cleanup, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer cleanup()

	logger := container.Logger
	defer func() { _ = logger.Sync() }()

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfig{
		Enabled:     cfg.EnableTracing,
		Endpoint:    cfg.OTLPEndpoint,
		ServiceName: "techknowledgepills",
		Environment: cfg.Environment,
	})
	if err != nil {
		logger.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	if cfg.SeedContent {
		seeded, err := container.Seeder.Run(ctx)
		if err != nil {
			logger.Fatal("Failed to seed content", zap.Error(err))
		}
		logger.Info("Content seed finished", zap.Int("inserted", seeded))
	}

	if cfg.ConfigFile != "" {
		watcher, err := config.NewWatcher(cfg.ConfigFile, logger, func(s config.RuntimeSettings) {
			if config.ApplyLogLevel(container.LogLevel, s.LogLevel) {
				logger.Info("Log level changed", zap.String("level", s.LogLevel))
			}
		})
		if err != nil {
			logger.Warn("Config hot reload disabled", zap.String("path", cfg.ConfigFile), zap.Error(err))
		} else {
			watcher.Start()
			defer watcher.Stop()
		}
	}

	srv := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      container.Router.Setup(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting server",
			zap.String("address", cfg.ServerAddress),
			zap.String("environment", cfg.Environment),
			zap.String("storage", cfg.StorageDriver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", zap.Error(err))
		}
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn("Tracer shutdown error", zap.Error(err))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server failed", zap.Error(err))
	}
	logger.Info("Server stopped")
}
