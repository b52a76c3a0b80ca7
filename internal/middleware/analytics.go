package middleware

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/passbi/passbi_planner/internal/db"
	"github.com/passbi/passbi_planner/internal/models"
	"github.com/rs/zerolog/log"
)

// PlanStatsKey is the fiber Locals key handlers use to expose solve figures
const PlanStatsKey = "plan_stats"

// AnalyticsMiddleware logs every API request to Postgres for usage reporting
func AnalyticsMiddleware(pool *pgxpool.Pool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()
		if path == "/metrics" || path == "/health" {
			return c.Next()
		}

		start := time.Now()
		err := c.Next()
		responseTime := time.Since(start)

		requestLog := BuildRequestLog(c, responseTime, err)

		// Log asynchronously (non-blocking)
		go logRequest(pool, requestLog)

		c.Set("X-Response-Time", responseTime.String())

		return err
	}
}

// BuildRequestLog snapshots the request into a log row.
// Strings are copied since fiber reuses its buffers after the handler returns.
func BuildRequestLog(c *fiber.Ctx, responseTime time.Duration, err error) *db.RequestLog {
	status := c.Response().StatusCode()
	if err != nil {
		status = fiber.StatusInternalServerError
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
	}

	reqLog := &db.RequestLog{
		RequestID:      utils.CopyString(c.GetRespHeader(fiber.HeaderXRequestID)),
		Endpoint:       utils.CopyString(c.Path()),
		Method:         utils.CopyString(c.Method()),
		ResponseStatus: status,
		ResponseTimeMs: int(responseTime.Milliseconds()),
		IPAddress:      utils.CopyString(c.IP()),
		UserAgent:      utils.CopyString(c.Get(fiber.HeaderUserAgent)),
		Timestamp:      time.Now(),
	}

	if stats, ok := c.Locals(PlanStatsKey).(models.PlanStats); ok {
		reqLog.TaskCount = stats.TaskCount
		reqLog.StationCount = stats.StationCount
		reqLog.ConnectionCount = stats.ConnectionCount
		reqLog.SelectedCount = stats.SelectedCount
	}

	return reqLog
}

// logRequest writes a request log row
func logRequest(pool *pgxpool.Pool, reqLog *db.RequestLog) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.InsertRequestLog(ctx, pool, reqLog); err != nil {
		log.Error().Err(err).Str("request_id", reqLog.RequestID).Msg("Failed to log request")
	}
}
