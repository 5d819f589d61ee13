// Command server runs the coursewise REST API.
//
// Configuration is layered: built-in defaults, an optional YAML file
// (-config flag, COURSEWISE_CONFIG, ./config.yaml, /etc/coursewise/config.yaml),
// then environment variable overrides such as COURSEWISE_PORT,
// COURSEWISE_STORAGE, COURSEWISE_DSN, and ENABLE_GLOBAL_ERROR_LOGGING.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/coursewise/coursewise/pkg/auth/password"
	"github.com/coursewise/coursewise/pkg/config"
	"github.com/coursewise/coursewise/pkg/observability"
	"github.com/coursewise/coursewise/pkg/storage"
	"github.com/coursewise/coursewise/pkg/storage/memory"
	"github.com/coursewise/coursewise/pkg/storage/postgres"
	"github.com/coursewise/coursewise/pkg/transport"
	transporthttp "github.com/coursewise/coursewise/pkg/transport/http"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx := context.Background()

	// Create the store.
	var store storage.Store
	switch cfg.Storage.Type {
	case "postgres":
		pg, err := postgres.New(ctx, postgres.Config{
			DSN:            cfg.Storage.Postgres.DSN,
			MaxConns:       cfg.Storage.Postgres.MaxConns,
			MigrateOnStart: cfg.Storage.Postgres.MigrateOnStart,
		})
		if err != nil {
			return fmt.Errorf("creating postgres store: %w", err)
		}
		defer pg.Close()
		store = pg
		slog.Info("storage enabled", "type", "postgres")
	default:
		store = memory.New()
		slog.Info("storage enabled", "type", "memory")
	}

	// Password hashing lane, with its depth exported as a gauge.
	hasher := password.NewHasher(cfg.Auth.HashCost, cfg.Auth.HashSlots)
	observability.RegisterHashLaneDepth(func() float64 {
		return float64(hasher.InFlight())
	})

	failure := &transport.FailureHandler{
		Logger:    slog.Default(),
		LogErrors: cfg.Logging.EnableGlobalErrorLogging,
	}

	adapter := transporthttp.NewAdapter(store, hasher, failure, transporthttp.DefaultConfig())

	srv := transporthttp.NewServer(adapter, transporthttp.ServerConfig{
		Addr:            fmt.Sprintf(":%d", cfg.Server.Port),
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: transporthttp.DefaultServerConfig().ShutdownTimeout,
		MetricsEnabled:  cfg.Observability.Metrics.Enabled,
		MetricsPath:     cfg.Observability.Metrics.Path,
		Logger:          slog.Default(),
	})

	return srv.ListenAndServe()
}
