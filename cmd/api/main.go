package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"pet-adoption-catalog/internal/adapters/storage"
	"pet-adoption-catalog/internal/config"
	"pet-adoption-catalog/internal/platform/logger"
	"pet-adoption-catalog/internal/platform/metrics"
	"pet-adoption-catalog/internal/router"

	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// .env es opcional; las variables reales tienen prioridad.
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Logging.Level),
		Format: logger.ParseFormat(cfg.Logging.Format),
		App:    cfg.Logging.App,
	})
	defer func() { _ = log.Sync() }()

	if envErr != nil {
		log.Debug("no .env file, using environment only", nil)
	}
	log.Info("configuration loaded", map[string]any{"config": cfg.String()})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend, err := storage.Open(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			log.Warn("store close failed", map[string]any{"error": err})
		}
	}()
	log.Info("store ready", map[string]any{"driver": backend.Driver})

	h := router.NewRouter(router.Options{
		Provider:      backend.Provider,
		Logger:        log,
		Metrics:       metrics.New(),
		PageSize:      cfg.Catalog.PageSize,
		FeaturedCount: cfg.Catalog.FeaturedCount,
		MaxSample:     cfg.Catalog.MaxSample,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      h,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
