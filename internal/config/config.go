package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/passbi/passbi_planner/internal/cache"
	"github.com/passbi/passbi_planner/internal/db"
	"github.com/spf13/viper"
)

// Config holds the service configuration.
// Values come from the environment, optionally seeded by a local .env file.
type Config struct {
	Environment string
	LogLevel    string
	Port        string
	BodyLimit   int

	PlanTimeout    time.Duration
	MaxTasks       int
	MaxConnections int
	MaxStations    int

	EnableRateLimit    bool
	RateLimitPerSecond int
	RateLimitPerMinute int
	EnableAnalytics    bool

	Database db.Config
	Redis    cache.Config
}

var defaults = map[string]any{
	"ENVIRONMENT":   "development",
	"LOG_LEVEL":     "info",
	"API_PORT":      "8080",
	"BODY_LIMIT_MB": 8,

	"PLAN_TIMEOUT":    "10s",
	"MAX_TASKS":       2000,
	"MAX_CONNECTIONS": 20000,
	"MAX_STATIONS":    1500,

	"ENABLE_RATE_LIMIT":     false,
	"RATE_LIMIT_PER_SECOND": 20,
	"RATE_LIMIT_PER_MINUTE": 600,
	"ENABLE_ANALYTICS":      false,

	"DB_HOST":      "localhost",
	"DB_PORT":      5432,
	"DB_NAME":      "passbi",
	"DB_USER":      "postgres",
	"DB_PASSWORD":  "",
	"DB_SSLMODE":   "disable",
	"DB_MIN_CONNS": 2,
	"DB_MAX_CONNS": 10,

	"REDIS_HOST":        "localhost",
	"REDIS_PORT":        6379,
	"REDIS_PASSWORD":    "",
	"REDIS_DB":          0,
	"REDIS_TLS_ENABLED": false,
}

// Load reads configuration from the environment.
// envFiles are loaded first when present; existing variables win.
func Load(envFiles ...string) (*Config, error) {
	for _, file := range envFiles {
		// A missing .env is normal outside development
		_ = godotenv.Load(file)
	}

	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	timeout, err := time.ParseDuration(v.GetString("PLAN_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("invalid PLAN_TIMEOUT: %w", err)
	}

	cfg := &Config{
		Environment: v.GetString("ENVIRONMENT"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		Port:        v.GetString("API_PORT"),
		BodyLimit:   v.GetInt("BODY_LIMIT_MB") * 1024 * 1024,

		PlanTimeout:    timeout,
		MaxTasks:       v.GetInt("MAX_TASKS"),
		MaxConnections: v.GetInt("MAX_CONNECTIONS"),
		MaxStations:    v.GetInt("MAX_STATIONS"),

		EnableRateLimit:    v.GetBool("ENABLE_RATE_LIMIT"),
		RateLimitPerSecond: v.GetInt("RATE_LIMIT_PER_SECOND"),
		RateLimitPerMinute: v.GetInt("RATE_LIMIT_PER_MINUTE"),
		EnableAnalytics:    v.GetBool("ENABLE_ANALYTICS"),

		Database: db.Config{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			Database: v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			SSLMode:  v.GetString("DB_SSLMODE"),
			MinConns: v.GetInt32("DB_MIN_CONNS"),
			MaxConns: v.GetInt32("DB_MAX_CONNS"),
		},
		Redis: cache.Config{
			Host:       v.GetString("REDIS_HOST"),
			Port:       v.GetInt("REDIS_PORT"),
			Password:   v.GetString("REDIS_PASSWORD"),
			DB:         v.GetInt("REDIS_DB"),
			TLSEnabled: v.GetBool("REDIS_TLS_ENABLED"),
		},
	}

	if cfg.PlanTimeout <= 0 {
		return nil, fmt.Errorf("PLAN_TIMEOUT must be positive, got %s", cfg.PlanTimeout)
	}
	if cfg.BodyLimit <= 0 {
		return nil, fmt.Errorf("BODY_LIMIT_MB must be positive")
	}

	return cfg, nil
}

// IsDevelopment reports whether the service runs locally
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
