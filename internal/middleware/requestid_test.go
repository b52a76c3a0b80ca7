package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	t.Run("Generated", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)

		id := resp.Header.Get(fiber.HeaderXRequestID)
		_, err = uuid.Parse(id)
		assert.NoError(t, err, id)
	})

	t.Run("Propagated", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set(fiber.HeaderXRequestID, "client-supplied")
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, "client-supplied", resp.Header.Get(fiber.HeaderXRequestID))
	})
}
