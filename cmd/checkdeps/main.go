package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/passbi/passbi_planner/internal/cache"
	"github.com/passbi/passbi_planner/internal/config"
	"github.com/passbi/passbi_planner/internal/db"
	applog "github.com/passbi/passbi_planner/internal/logger"
	"github.com/passbi/passbi_planner/internal/middleware"
	"github.com/rs/zerolog/log"
)

func main() {
	envFile := flag.String("env", ".env", "Optional .env file to load")
	skipDB := flag.Bool("skip-db", false, "Do not check PostgreSQL")
	skipRedis := flag.Bool("skip-redis", false, "Do not check Redis")
	migrate := flag.Bool("migrate", false, "Create the request_log table if missing")
	resetClient := flag.String("reset-client", "", "Clear the rate limit counters of this client IP")

	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	applog.Setup("development", cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	failed := false

	if !*skipDB {
		if err := checkDatabase(ctx, cfg.Database, *migrate); err != nil {
			log.Error().Err(err).Msg("PostgreSQL check failed")
			failed = true
		}
	}

	if !*skipRedis {
		if err := checkRedis(ctx, cfg.Redis, *resetClient); err != nil {
			log.Error().Err(err).Msg("Redis check failed")
			failed = true
		}
	}

	if failed {
		os.Exit(1)
	}
	log.Info().Msg("All dependency checks passed")
}

func checkDatabase(ctx context.Context, cfg db.Config, migrate bool) error {
	log.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.Database).
		Str("user", cfg.User).
		Msg("Testing PostgreSQL connection...")

	pool, err := db.InitPoolWithConfig(cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	version, err := db.ServerVersion(ctx, pool)
	if err != nil {
		log.Warn().Err(err).Msg("Could not get PostgreSQL version")
	} else {
		log.Info().Str("version", version).Msg("PostgreSQL connection successful")
	}

	if migrate {
		if err := db.EnsureSchema(ctx, pool); err != nil {
			return fmt.Errorf("failed to create analytics schema: %w", err)
		}
		log.Info().Msg("Analytics schema ready")
	}

	since := time.Now().UTC().AddDate(0, 0, -1)
	stats, err := db.DailyStats(ctx, pool, since)
	if err != nil {
		log.Warn().Err(err).Msg("request_log not readable (run with --migrate to create it)")
		return nil
	}
	for _, s := range stats {
		log.Info().
			Str("date", s.Date).
			Int64("requests", s.TotalRequests).
			Float64("avg_response_ms", s.AvgResponseMs).
			Msg("Recent planner traffic")
	}

	return nil
}

func checkRedis(ctx context.Context, cfg cache.Config, resetClient string) error {
	log.Info().Str("addr", cfg.Addr()).Msg("Testing Redis connection...")

	cache.Configure(cfg)
	rdb, err := cache.GetClient()
	if err != nil {
		return err
	}
	defer cache.Close()

	if err := cache.HealthCheck(ctx); err != nil {
		return err
	}

	if resetClient != "" {
		for _, window := range []string{"second", "minute"} {
			if err := middleware.ResetRateLimit(ctx, rdb, resetClient, window); err != nil {
				return fmt.Errorf("failed to reset %s window for %s: %w", window, resetClient, err)
			}
		}
		log.Info().Str("client", resetClient).Msg("Rate limit counters cleared")
	}

	stats, err := cache.Stats(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Could not read Redis stats")
		return nil
	}
	log.Info().Interface("stats", stats).Msg("Redis connection successful")

	return nil
}
