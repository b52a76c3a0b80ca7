package api

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/passbi/passbi_planner/internal/middleware"
	"github.com/passbi/passbi_planner/internal/planner"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const defaultPlanTimeout = 10 * time.Second

// Options wires the handler to its collaborators. DB and Redis are optional.
type Options struct {
	Planner     *planner.Planner
	PlanTimeout time.Duration
	DB          *pgxpool.Pool
	Redis       *redis.Client
}

// Handler serves the planner HTTP API
type Handler struct {
	planner *planner.Planner
	timeout time.Duration
	db      *pgxpool.Pool
	redis   *redis.Client
}

// NewHandler creates a handler, filling in defaults for unset options
func NewHandler(opts Options) *Handler {
	if opts.Planner == nil {
		opts.Planner = planner.New(planner.Options{})
	}
	if opts.PlanTimeout <= 0 {
		opts.PlanTimeout = defaultPlanTimeout
	}
	return &Handler{
		planner: opts.Planner,
		timeout: opts.PlanTimeout,
		db:      opts.DB,
		redis:   opts.Redis,
	}
}

// Register mounts all routes on the app
func (h *Handler) Register(app *fiber.App) {
	app.Get("/", h.Root)
	app.Get("/health", h.Health)
	app.Get("/metrics", middleware.MetricsHandler())
	app.Post("/princess-diaries", h.PrincessDiaries)

	if h.db != nil {
		app.Get("/v1/stats", h.Stats)
	}
}

// Root handles GET /
func (h *Handler) Root(c *fiber.Ctx) error {
	return c.SendString("PassBi Planner")
}

// PrincessDiaries handles POST /princess-diaries
func (h *Handler) PrincessDiaries(c *fiber.Ctx) error {
	contentType := c.Get(fiber.HeaderContentType)
	if !strings.HasPrefix(contentType, fiber.MIMEApplicationJSON) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Content-Type must be application/json",
		})
	}

	req, err := ParsePlanRequest(c.Body())
	if err != nil {
		var reqErr *RequestError
		if errors.As(err, &reqErr) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": reqErr.Message,
			})
		}
		return err
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	defer cancel()

	start := time.Now()
	sol, err := h.planner.Plan(ctx, req)
	elapsed := time.Since(start)

	if err != nil {
		status, message, outcome := classifyPlanError(err)
		middleware.ObserveSolve(outcome, len(req.Tasks), elapsed)

		if status == fiber.StatusInternalServerError {
			log.Error().Err(err).Int("tasks", len(req.Tasks)).Msg("Error in princess_diaries")
		} else {
			log.Warn().Err(err).Int("tasks", len(req.Tasks)).Msg("Rejected plan request")
		}

		return c.Status(status).JSON(fiber.Map{
			"error": message,
		})
	}

	middleware.ObserveSolve("ok", sol.Stats.TaskCount, elapsed)
	c.Locals(middleware.PlanStatsKey, sol.Stats)

	log.Info().
		Float64("max_score", sol.Result.MaxScore).
		Float64("min_fee", sol.Result.MinFee).
		Int("tasks", sol.Stats.TaskCount).
		Int("stations", sol.Stats.StationCount).
		Int("selected", sol.Stats.SelectedCount).
		Int("unreachable", sol.Stats.UnreachableCount).
		Dur("elapsed", elapsed).
		Msg("Solved princess diaries")

	return c.JSON(sol.Result)
}

// classifyPlanError maps planner errors to an HTTP status, a client message and a metrics outcome
func classifyPlanError(err error) (int, string, string) {
	switch {
	case errors.Is(err, planner.ErrInvalidInterval),
		errors.Is(err, planner.ErrDuplicateTask),
		errors.Is(err, planner.ErrInvalidConnection):
		return fiber.StatusBadRequest, err.Error(), "rejected"
	case errors.Is(err, planner.ErrTooLarge):
		return fiber.StatusRequestEntityTooLarge, err.Error(), "rejected"
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusServiceUnavailable, "Schedule computation timed out", "timeout"
	default:
		return fiber.StatusInternalServerError, "Internal server error", "error"
	}
}

// Health handles the /health endpoint
func (h *Handler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
	defer cancel()

	healthy := true

	dbStatus := "disabled"
	if h.db != nil {
		dbStatus = "ok"
		if err := h.db.Ping(ctx); err != nil {
			dbStatus = err.Error()
			healthy = false
		}
	}

	redisStatus := "disabled"
	if h.redis != nil {
		redisStatus = "ok"
		if err := h.redis.Ping(ctx).Err(); err != nil {
			redisStatus = err.Error()
			healthy = false
		}
	}

	status := "healthy"
	httpStatus := fiber.StatusOK
	if !healthy {
		status = "unhealthy"
		httpStatus = fiber.StatusServiceUnavailable
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status": status,
		"checks": fiber.Map{
			"planner":  "ok",
			"database": dbStatus,
			"redis":    redisStatus,
		},
	})
}

// ErrorHandler renders errors returned from handlers as JSON
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	if code >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("Request failed")
	}

	return c.Status(code).JSON(fiber.Map{
		"error": message,
	})
}
