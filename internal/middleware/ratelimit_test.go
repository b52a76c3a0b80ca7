package middleware

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitKey(t *testing.T) {
	now := time.Unix(1700000065, 0)

	tests := []struct {
		window   string
		expected string
	}{
		{"second", "rl:client:10.0.0.1:second:1700000065"},
		{"minute", "rl:client:10.0.0.1:minute:28333334"},
	}

	for _, tt := range tests {
		t.Run(tt.window, func(t *testing.T) {
			assert.Equal(t, tt.expected, RateLimitKey("10.0.0.1", tt.window, now))
		})
	}
}

func TestRateLimitFailsOpen(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	app := fiber.New()
	app.Use(RateLimitMiddleware(rdb, RateLimits{PerSecond: 1, PerMinute: 1}))
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil), 5000)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestResetRateLimitRejectsUnknownWindow(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	defer rdb.Close()

	err := ResetRateLimit(context.Background(), rdb, "10.0.0.1", "fortnight")
	assert.Error(t, err)
}
