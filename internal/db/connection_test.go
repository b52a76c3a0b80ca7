package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnString(t *testing.T) {
	cfg := Config{
		Host:     "db.internal",
		Port:     6543,
		Database: "planner",
		User:     "svc",
		Password: "secret",
		SSLMode:  "require",
	}

	assert.Equal(t,
		"host=db.internal port=6543 dbname=planner user=svc password=secret sslmode=require",
		cfg.ConnString())
}

func TestConnStringQuoting(t *testing.T) {
	tests := []struct {
		name     string
		password string
		expected string
	}{
		{"Empty", "", "password=''"},
		{"Space", "two words", "password='two words'"},
		{"Quote", `it's`, `password='it\'s'`},
		{"Backslash", `a\b`, `password='a\\b'`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Password = tt.password
			assert.Contains(t, cfg.ConnString(), tt.expected+" sslmode=disable")
		})
	}
}

func TestInitPoolWithConfigUnreachable(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = 1
	cfg.MinConns = 0

	pool, err := InitPoolWithConfig(cfg)
	require.Error(t, err)
	assert.Nil(t, pool)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 5432, cfg.Port)
	assert.Equal(t, "disable", cfg.SSLMode)
	assert.LessOrEqual(t, cfg.MinConns, cfg.MaxConns)
}
