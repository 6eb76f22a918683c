// Package main runs the development task store: the /todos REST contract
// over a memory, SQLite or MySQL repository.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"todoctl/internal/commands"
	"todoctl/internal/config"
	"todoctl/internal/observability/logging"
	"todoctl/internal/observability/tracing"
	"todoctl/internal/server"
	"todoctl/internal/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "todostore: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.LoadServer()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger, err := logging.NewServer(cfg.Debug)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("loaded config",
		zap.String("addr", cfg.Addr),
		zap.String("backend", cfg.Backend),
		zap.Duration("request_timeout", cfg.RequestTimeout),
		zap.Bool("trace", cfg.Trace),
	)

	provider, err := tracing.NewProvider(tracing.Config{
		ServiceName:    "todostore",
		ServiceVersion: commands.Version,
		Enabled:        cfg.Trace,
		Writer:         os.Stdout,
	})
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Warn("failed to shut down tracer provider", zap.Error(err))
		}
	}()

	repo, err := openRepository(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer repo.Close()

	return server.New(repo, logger, cfg.RequestTimeout).ListenAndServe(ctx, cfg.Addr)
}

func openRepository(ctx context.Context, cfg *config.ServerConfig, logger *zap.Logger) (storage.Repository, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		repo, err := storage.OpenSQLite(ctx, cfg.SQLitePath, logger)
		if err != nil {
			return nil, fmt.Errorf("sqlite: %w", err)
		}
		logger.Info("using sqlite", zap.String("path", cfg.SQLitePath))
		return repo, nil
	case config.BackendMySQL:
		repo, err := storage.OpenMySQL(ctx, cfg.MySQL, logger)
		if err != nil {
			return nil, fmt.Errorf("mysql: %w", err)
		}
		logger.Info("connected to MySQL",
			zap.String("addr", cfg.MySQL.Addr),
			zap.String("db", cfg.MySQL.Database),
		)
		return repo, nil
	default:
		logger.Info("using in-memory store")
		return storage.NewMemoryRepository(), nil
	}
}
