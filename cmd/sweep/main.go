// Command sweep runs one full ingestion sweep across the configured
// term/region matrix and exits. Useful for cron-less deployments and
// for backfilling a fresh database.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/openboard/api/internal/config"
	"github.com/openboard/api/internal/database"
	"github.com/openboard/api/internal/jobs"
	"github.com/openboard/api/internal/jsearch"
	"github.com/openboard/api/internal/repository"
	"github.com/openboard/api/internal/service"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	db := database.NewSurrealDB(database.Config{
		Host:      cfg.Database.Host,
		Port:      cfg.Database.Port,
		User:      cfg.Database.User,
		Password:  cfg.Database.Password,
		Namespace: cfg.Database.Namespace,
		Database:  cfg.Database.Database,
	})

	ctx := context.Background()
	if err := db.Connect(ctx); err != nil {
		slog.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	if err := db.EnsureSchema(ctx); err != nil {
		slog.Error("failed to ensure database schema", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var guard service.IngestGuard
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			slog.Error("invalid REDIS_URL", slog.String("error", err.Error()))
			os.Exit(1)
		}
		redisClient := redis.NewClient(opts)
		defer func() { _ = redisClient.Close() }()
		guard = service.NewRedisGuard(redisClient, cfg.Ingest.GuardTTL)
	} else {
		guard = service.NewMemoryGuard(cfg.Ingest.GuardTTL)
	}

	ingestService := service.NewIngestService(service.IngestServiceConfig{
		Client: jsearch.NewClient(jsearch.Config{
			APIKey:  cfg.JSearch.APIKey,
			BaseURL: cfg.JSearch.BaseURL,
			Timeout: cfg.JSearch.Timeout,
		}),
		JobRepo: repository.NewJobRepository(db),
		Guard:   guard,
		Pace:    cfg.Ingest.Pace,
	})

	sweep := jobs.NewSweep(ingestService, jobs.SweepConfig{
		Terms:       cfg.Sweep.Terms,
		Regions:     cfg.Sweep.Regions,
		MaxPages:    cfg.Sweep.MaxPages,
		MaxAPICalls: cfg.Sweep.MaxAPICalls,
	})

	runCtx, cancel := context.WithTimeout(ctx, 2*time.Hour)
	defer cancel()

	start := time.Now()
	totals := sweep.RunOnce(runCtx)

	slog.Info("sweep finished",
		slog.Duration("elapsed", time.Since(start)),
		slog.Int("pairs_run", totals.PairsRun),
		slog.Int("pairs_skipped", totals.PairsSkipped),
		slog.Int("pairs_failed", totals.PairsFailed),
		slog.Int("inserted", totals.Inserted),
		slog.Int("duplicates", totals.Duplicates),
		slog.Int("total", totals.Total),
		slog.Int("api_calls_used", totals.APICallsUsed),
	)

	if totals.PairsFailed > 0 && totals.PairsRun == 0 {
		os.Exit(1)
	}
}
