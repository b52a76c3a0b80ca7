package api

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/passbi/passbi_planner/internal/db"
	"github.com/rs/zerolog/log"
)

// StatsResponse is the response for the usage stats endpoint
type StatsResponse struct {
	Stats   []db.DailyStat `json:"stats"`
	Summary StatsSummary   `json:"summary"`
}

// StatsSummary aggregates the per-day stats
type StatsSummary struct {
	TotalRequests   int64   `json:"total_requests"`
	TotalSuccessful int64   `json:"total_successful"`
	TotalFailed     int64   `json:"total_failed"`
	SuccessRate     float64 `json:"success_rate"`
	AvgResponseMs   float64 `json:"avg_response_ms"`
	MaxTaskCount    int     `json:"max_task_count"`
	DaysAnalyzed    int     `json:"days_analyzed"`
}

// Stats handles GET /v1/stats?days=N
func (h *Handler) Stats(c *fiber.Ctx) error {
	days := 7
	if daysStr := c.Query("days"); daysStr != "" {
		parsed, err := strconv.Atoi(daysStr)
		if err != nil || parsed < 1 || parsed > 90 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid days (must be between 1 and 90)",
			})
		}
		days = parsed
	}

	since := time.Now().UTC().AddDate(0, 0, -days)
	stats, err := db.DailyStats(c.UserContext(), h.db, since)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load usage stats")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	return c.JSON(StatsResponse{
		Stats:   stats,
		Summary: summarize(stats),
	})
}

// summarize calculates aggregate statistics
func summarize(stats []db.DailyStat) StatsSummary {
	summary := StatsSummary{DaysAnalyzed: len(stats)}
	if len(stats) == 0 {
		return summary
	}

	var weightedResponse float64
	for _, s := range stats {
		summary.TotalRequests += s.TotalRequests
		summary.TotalSuccessful += s.Successful
		summary.TotalFailed += s.Failed
		weightedResponse += s.AvgResponseMs * float64(s.TotalRequests)
		if s.MaxTaskCount > summary.MaxTaskCount {
			summary.MaxTaskCount = s.MaxTaskCount
		}
	}

	if summary.TotalRequests > 0 {
		summary.SuccessRate = float64(summary.TotalSuccessful) / float64(summary.TotalRequests) * 100
		summary.AvgResponseMs = weightedResponse / float64(summary.TotalRequests)
	}

	return summary
}
