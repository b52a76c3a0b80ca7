package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/passbi/passbi_planner/internal/api"
	"github.com/passbi/passbi_planner/internal/cache"
	"github.com/passbi/passbi_planner/internal/config"
	"github.com/passbi/passbi_planner/internal/db"
	applog "github.com/passbi/passbi_planner/internal/logger"
	"github.com/passbi/passbi_planner/internal/middleware"
	"github.com/passbi/passbi_planner/internal/planner"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	applog.Setup(cfg.Environment, cfg.LogLevel)

	log.Info().Str("environment", cfg.Environment).Msg("Starting PassBi Planner server...")

	// Analytics storage is optional
	var pool *pgxpool.Pool
	if cfg.EnableAnalytics {
		db.Configure(cfg.Database)
		pool, err = db.GetDB()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer db.Close()

		if err := db.EnsureSchema(context.Background(), pool); err != nil {
			log.Fatal().Err(err).Msg("Failed to prepare analytics schema")
		}
		log.Info().Msg("Database connection established")
	}

	// Redis backs rate limiting only
	var rdb *redis.Client
	if cfg.EnableRateLimit {
		cache.Configure(cfg.Redis)
		rdb, err = cache.GetClient()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer cache.Close()
		log.Info().Msg("Redis connection established")
	}

	app := fiber.New(fiber.Config{
		AppName:      "PassBi Planner",
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.PlanTimeout + 5*time.Second,
		IdleTimeout:  120 * time.Second,
		BodyLimit:    cfg.BodyLimit,
		ErrorHandler: api.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${method} ${path} | ${respHeader:X-Request-ID}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))
	app.Use(middleware.MetricsMiddleware())

	if rdb != nil {
		app.Use(middleware.RateLimitMiddleware(rdb, middleware.RateLimits{
			PerSecond: cfg.RateLimitPerSecond,
			PerMinute: cfg.RateLimitPerMinute,
		}))
	}
	if pool != nil {
		app.Use(middleware.AnalyticsMiddleware(pool))
	}

	// Routes
	handler := api.NewHandler(api.Options{
		Planner: planner.New(planner.Options{
			MaxTasks:       cfg.MaxTasks,
			MaxConnections: cfg.MaxConnections,
			MaxStations:    cfg.MaxStations,
		}),
		PlanTimeout: cfg.PlanTimeout,
		DB:          pool,
		Redis:       rdb,
	})
	handler.Register(app)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "endpoint not found",
		})
	})

	addr := fmt.Sprintf(":%s", cfg.Port)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", addr).Msg("Server listening")
		log.Info().Msgf("Planner: POST http://localhost%s/princess-diaries", addr)
		log.Info().Msgf("Health check: http://localhost%s/health", addr)
		return app.Listen(addr)
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down gracefully...")
		return app.ShutdownWithTimeout(shutdownTimeout)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("Server stopped with error")
	}
	log.Info().Msg("Server stopped")
}
