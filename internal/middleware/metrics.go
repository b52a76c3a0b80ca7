package middleware

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planner_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "planner_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "planner_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	solveDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "planner_solve_duration_seconds",
			Help:    "Time spent computing a schedule",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		},
	)

	solveTaskCount = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "planner_solve_tasks",
			Help:    "Number of tasks per solve request",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
	)

	solvesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planner_solves_total",
			Help: "Solve requests by outcome",
		},
		[]string{"outcome"}, // ok, rejected, timeout, error
	)
)

// MetricsMiddleware records request counts and latency per route
func MetricsMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()
		if path == "/metrics" || path == "/health" {
			return c.Next()
		}

		httpRequestsInFlight.Inc()
		start := time.Now()

		err := c.Next()

		httpRequestsInFlight.Dec()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}

		route := c.Route().Path
		method := c.Method()
		httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())

		return err
	}
}

// MetricsHandler serves the Prometheus exposition format
func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}

// ObserveSolve records the outcome of one planner run
func ObserveSolve(outcome string, taskCount int, elapsed time.Duration) {
	solvesTotal.WithLabelValues(outcome).Inc()
	solveTaskCount.Observe(float64(taskCount))
	if outcome == "ok" {
		solveDuration.Observe(elapsed.Seconds())
	}
}
