// Command sweeper periodically removes expired sessions from the table. It is
// a safety net behind DynamoDB's best-effort TTL eviction: the sweep keeps the
// expiry index small and bounds how long an expired session stays physically
// present.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/dynastore/pkg/config"
	"github.com/dmitrymomot/dynastore/pkg/dynamo"
	"github.com/dmitrymomot/dynastore/pkg/dynastore"
	"github.com/dmitrymomot/dynastore/pkg/logger"
)

type sweeperConfig struct {
	Environment string        `env:"ENVIRONMENT" envDefault:"development"`
	Interval    time.Duration `env:"SWEEP_INTERVAL" envDefault:"5m"`
}

func main() {
	var cfg sweeperConfig
	config.MustLoad(&cfg)

	log := logger.New(logger.WithEnvironment(cfg.Environment, "sweeper"))
	logger.SetAsDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var dynCfg dynamo.Config
	config.MustLoad(&dynCfg)

	client, err := dynamo.New(ctx, dynCfg)
	if err != nil {
		log.Error("failed to build dynamodb client", "error", err)
		os.Exit(1)
	}

	var storeCfg dynastore.Config
	config.MustLoad(&storeCfg)

	store, err := dynastore.New(client, storeCfg, dynastore.WithLogger(log))
	if err != nil {
		log.Error("failed to build session store", "error", err)
		os.Exit(1)
	}

	if err := dynamo.Healthcheck(client, storeCfg.Table)(ctx); err != nil {
		log.Error("table is unreachable", "table", storeCfg.Table, "error", err)
		os.Exit(1)
	}

	log.Info("sweeper started", "table", storeCfg.Table, "interval", cfg.Interval)

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	sweep(ctx, log, store)
	for {
		select {
		case <-ticker.C:
			sweep(ctx, log, store)
		case <-ctx.Done():
			log.Info("sweeper stopped")
			return
		}
	}
}

func sweep(ctx context.Context, log *slog.Logger, store *dynastore.Store) {
	runID := uuid.NewString()
	start := time.Now()

	if err := store.DeleteExpiredSessions(ctx); err != nil {
		log.Error("sweep failed", "run_id", runID, "duration", time.Since(start), "error", err)
		return
	}
	log.Info("sweep completed", "run_id", runID, "duration", time.Since(start))
}
