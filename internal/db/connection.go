package db

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	pool     *pgxpool.Pool
	poolOnce sync.Once
	poolErr  error
)

var configMu sync.Mutex

var poolConfig = DefaultConfig()

// Config holds database configuration
type Config struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
	SSLMode  string
	MinConns int32
	MaxConns int32
}

// DefaultConfig returns a local development configuration
func DefaultConfig() Config {
	return Config{
		Host:     "localhost",
		Port:     5432,
		Database: "passbi",
		User:     "postgres",
		SSLMode:  "disable",
		MinConns: 2,
		MaxConns: 10,
	}
}

// ConnString renders the config as a pgx keyword/value connection string
func (c Config) ConnString() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		quoteValue(c.Host),
		c.Port,
		quoteValue(c.Database),
		quoteValue(c.User),
		quoteValue(c.Password),
		quoteValue(c.SSLMode),
	)
}

// quoteValue quotes empty values and values with spaces, quotes or backslashes
func quoteValue(v string) string {
	if v != "" && !strings.ContainsAny(v, " '\\") {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

// Configure sets the configuration used by the first GetDB call
func Configure(config Config) {
	configMu.Lock()
	defer configMu.Unlock()
	poolConfig = config
}

// GetDB returns the global database connection pool (singleton pattern)
func GetDB() (*pgxpool.Pool, error) {
	poolOnce.Do(func() {
		configMu.Lock()
		config := poolConfig
		configMu.Unlock()

		pool, poolErr = initPool(config)
	})
	return pool, poolErr
}

// InitPoolWithConfig opens a standalone pool outside the singleton. The caller closes it.
func InitPoolWithConfig(config Config) (*pgxpool.Pool, error) {
	return initPool(config)
}

// initPool creates and initializes a new pgxpool.Pool
func initPool(config Config) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(config.ConnString())
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	cfg.MinConns = config.MinConns
	cfg.MaxConns = config.MaxConns
	cfg.MaxConnLifetime = time.Hour
	cfg.MaxConnIdleTime = 30 * time.Minute
	cfg.HealthCheckPeriod = time.Minute

	// Transaction-mode poolers (pgbouncer, Supabase) reject prepared statements
	if config.Port == 6543 {
		cfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	p, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := p.Ping(ctx); err != nil {
		p.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return p, nil
}

// Close closes the database connection pool
func Close() {
	if pool != nil {
		pool.Close()
	}
}

// HealthCheck performs a health check on the database connection
func HealthCheck(ctx context.Context) error {
	db, err := GetDB()
	if err != nil {
		return fmt.Errorf("database connection not initialized: %w", err)
	}

	if err := db.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	return nil
}

// ServerVersion returns the PostgreSQL version string
func ServerVersion(ctx context.Context, db *pgxpool.Pool) (string, error) {
	var version string
	if err := db.QueryRow(ctx, "SELECT version()").Scan(&version); err != nil {
		return "", fmt.Errorf("failed to query server version: %w", err)
	}
	return version, nil
}
