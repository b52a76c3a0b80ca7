package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/passbi/passbi_planner/internal/db"
	"github.com/passbi/passbi_planner/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRequestLog(t *testing.T) {
	var captured *db.RequestLog

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		err := c.Next()
		captured = BuildRequestLog(c, 42*time.Millisecond, err)
		return err
	})
	app.Post("/plan", func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderXRequestID, "req-1")
		c.Locals(PlanStatsKey, models.PlanStats{
			TaskCount:       4,
			StationCount:    3,
			ConnectionCount: 2,
			SelectedCount:   1,
		})
		return c.Status(201).SendString("done")
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTeapot, "short and stout")
	})

	t.Run("Successful solve", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/plan", nil)
		req.Header.Set("User-Agent", "planner-test")
		_, err := app.Test(req)
		require.NoError(t, err)

		require.NotNil(t, captured)
		assert.Equal(t, "req-1", captured.RequestID)
		assert.Equal(t, "/plan", captured.Endpoint)
		assert.Equal(t, "POST", captured.Method)
		assert.Equal(t, 201, captured.ResponseStatus)
		assert.Equal(t, 42, captured.ResponseTimeMs)
		assert.Equal(t, "planner-test", captured.UserAgent)
		assert.Equal(t, 4, captured.TaskCount)
		assert.Equal(t, 3, captured.StationCount)
		assert.Equal(t, 2, captured.ConnectionCount)
		assert.Equal(t, 1, captured.SelectedCount)
	})

	t.Run("Handler error", func(t *testing.T) {
		_, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
		require.NoError(t, err)

		require.NotNil(t, captured)
		assert.Equal(t, fiber.StatusTeapot, captured.ResponseStatus)
		assert.Zero(t, captured.TaskCount)
	})
}
