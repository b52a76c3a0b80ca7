package middleware

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsEndpoint(t *testing.T) {
	app := fiber.New()
	app.Use(MetricsMiddleware())
	app.Get("/metrics", MetricsHandler())
	app.Get("/ping", func(c *fiber.Ctx) error {
		return c.SendString("pong")
	})

	_, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
	require.NoError(t, err)
	ObserveSolve("ok", 12, 3*time.Millisecond)

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "planner_http_requests_total")
	assert.Contains(t, string(body), `route="/ping"`)
	assert.Contains(t, string(body), `planner_solves_total{outcome="ok"}`)
	assert.Contains(t, string(body), "planner_solve_duration_seconds")
}
