package middleware

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RateLimits configures per-client request windows. Zero disables a window.
type RateLimits struct {
	PerSecond int
	PerMinute int
}

type rateWindow struct {
	name   string
	header string
	limit  int
	ttl    time.Duration
	reset  time.Time
}

// RateLimitMiddleware enforces fixed-window limits per client IP using Redis counters.
// Redis failures let the request through.
func RateLimitMiddleware(rdb *redis.Client, limits RateLimits) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		now := time.Now()
		client := c.IP()

		windows := []rateWindow{
			{
				name:   "second",
				header: "Second",
				limit:  limits.PerSecond,
				ttl:    2 * time.Second,
				reset:  now.Truncate(time.Second).Add(time.Second),
			},
			{
				name:   "minute",
				header: "Minute",
				limit:  limits.PerMinute,
				ttl:    2 * time.Minute,
				reset:  now.Truncate(time.Minute).Add(time.Minute),
			},
		}

		for _, w := range windows {
			if w.limit <= 0 {
				continue
			}

			count, err := incrWindow(ctx, rdb, RateLimitKey(client, w.name, now), w.ttl)
			if err != nil {
				log.Warn().Err(err).Str("client", client).Msg("rate limiter unavailable, allowing request")
				return c.Next()
			}

			remaining := int64(w.limit) - count
			if remaining < 0 {
				remaining = 0
			}
			c.Set("X-RateLimit-Limit-"+w.header, strconv.Itoa(w.limit))
			c.Set("X-RateLimit-Remaining-"+w.header, strconv.FormatInt(remaining, 10))

			if count > int64(w.limit) {
				retryAfter := int64(math.Ceil(w.reset.Sub(now).Seconds()))
				if retryAfter < 1 {
					retryAfter = 1
				}
				c.Set("X-RateLimit-Reset-"+w.header, strconv.FormatInt(w.reset.Unix(), 10))
				c.Set("Retry-After", strconv.FormatInt(retryAfter, 10))

				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
					"error":       "rate_limit_exceeded",
					"message":     fmt.Sprintf("Too many requests per %s", w.name),
					"limit_type":  "per_" + w.name,
					"limit":       w.limit,
					"retry_after": retryAfter,
				})
			}
		}

		return c.Next()
	}
}

// incrWindow bumps a window counter and refreshes its expiry atomically
func incrWindow(ctx context.Context, rdb *redis.Client, key string, ttl time.Duration) (int64, error) {
	pipe := rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// RateLimitKey returns the Redis counter key for a client and window
func RateLimitKey(client, window string, now time.Time) string {
	var bucket int64
	switch window {
	case "minute":
		bucket = now.Unix() / 60
	default:
		bucket = now.Unix()
	}
	return fmt.Sprintf("rl:client:%s:%s:%d", client, window, bucket)
}

// ResetRateLimit clears the current window counter for a client
func ResetRateLimit(ctx context.Context, rdb *redis.Client, client, window string) error {
	switch window {
	case "second", "minute":
	default:
		return fmt.Errorf("invalid window: %s", window)
	}
	return rdb.Del(ctx, RateLimitKey(client, window, time.Now())).Err()
}
