// @title Smart File Storage API
// @version 1.0
// @description Upload files to local disk or S3-compatible storage and list their metadata.
// @BasePath /
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

	"golang.org/x/sync/errgroup"

	"github.com/rohits-web03/smartstore/internal/api"
	"github.com/rohits-web03/smartstore/internal/config"
	"github.com/rohits-web03/smartstore/internal/repositories"
	"github.com/rohits-web03/smartstore/internal/services"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("Server stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := config.SetupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	storage, err := repositories.NewStorage(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("init storage backend: %w", err)
	}

	files, closeDB, err := repositories.OpenFileRepository(cfg.Database)
	if err != nil {
		return fmt.Errorf("init metadata store: %w", err)
	}
	defer closeDB()

	fileService, err := services.NewFileService(storage, files, cfg.CacheSize, logger)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: api.SetupRouter(cfg, fileService),
		// Uploads stream for as long as the client sends, so only the
		// header read is bounded.
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting server",
			slog.String("app", cfg.AppName),
			slog.String("port", cfg.Port),
			slog.String("storage_backend", storage.Name()),
			slog.String("metadata_store", cfg.Database.Driver),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen on port %s: %w", cfg.Port, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("Shutting down server")
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
