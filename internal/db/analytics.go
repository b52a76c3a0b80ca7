package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS request_log (
	id                BIGSERIAL PRIMARY KEY,
	request_id        TEXT NOT NULL,
	endpoint          TEXT NOT NULL,
	method            TEXT NOT NULL,
	response_status   INTEGER NOT NULL,
	response_time_ms  INTEGER NOT NULL,
	task_count        INTEGER NOT NULL DEFAULT 0,
	station_count     INTEGER NOT NULL DEFAULT 0,
	connection_count  INTEGER NOT NULL DEFAULT 0,
	selected_count    INTEGER NOT NULL DEFAULT 0,
	ip_address        TEXT,
	user_agent        TEXT,
	timestamp         TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_request_log_timestamp ON request_log (timestamp);
`

// RequestLog is one analytics row. Schedules are never stored.
type RequestLog struct {
	RequestID       string
	Endpoint        string
	Method          string
	ResponseStatus  int
	ResponseTimeMs  int
	TaskCount       int
	StationCount    int
	ConnectionCount int
	SelectedCount   int
	IPAddress       string
	UserAgent       string
	Timestamp       time.Time
}

// DailyStat aggregates one day of request logs
type DailyStat struct {
	Date            string  `json:"date"`
	TotalRequests   int64   `json:"total_requests"`
	Successful      int64   `json:"successful"`
	Failed          int64   `json:"failed"`
	AvgResponseMs   float64 `json:"avg_response_ms"`
	MaxResponseMs   int     `json:"max_response_ms"`
	AvgTaskCount    float64 `json:"avg_task_count"`
	MaxTaskCount    int     `json:"max_task_count"`
	UniqueClientIPs int64   `json:"unique_ips"`
}

// EnsureSchema creates the analytics tables if they do not exist
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create analytics schema: %w", err)
	}
	return nil
}

// InsertRequestLog stores one request log row
func InsertRequestLog(ctx context.Context, db *pgxpool.Pool, reqLog *RequestLog) error {
	query := `
		INSERT INTO request_log (
			request_id,
			endpoint,
			method,
			response_status,
			response_time_ms,
			task_count,
			station_count,
			connection_count,
			selected_count,
			ip_address,
			user_agent,
			timestamp
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := db.Exec(ctx, query,
		reqLog.RequestID,
		reqLog.Endpoint,
		reqLog.Method,
		reqLog.ResponseStatus,
		reqLog.ResponseTimeMs,
		reqLog.TaskCount,
		reqLog.StationCount,
		reqLog.ConnectionCount,
		reqLog.SelectedCount,
		reqLog.IPAddress,
		reqLog.UserAgent,
		reqLog.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to insert request log: %w", err)
	}
	return nil
}

// DailyStats returns per-day aggregates since the given time, newest first
func DailyStats(ctx context.Context, db *pgxpool.Pool, since time.Time) ([]DailyStat, error) {
	query := `
		SELECT
			DATE(timestamp) AS date,
			COUNT(*) AS total_requests,
			COUNT(*) FILTER (WHERE response_status >= 200 AND response_status < 300) AS successful,
			COUNT(*) FILTER (WHERE response_status >= 400) AS failed,
			AVG(response_time_ms)::float8 AS avg_response_time,
			MAX(response_time_ms) AS max_response_time,
			AVG(task_count)::float8 AS avg_task_count,
			MAX(task_count) AS max_task_count,
			COUNT(DISTINCT ip_address) AS unique_ips
		FROM request_log
		WHERE timestamp >= $1
		GROUP BY DATE(timestamp)
		ORDER BY date DESC
	`

	rows, err := db.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily stats: %w", err)
	}
	defer rows.Close()

	stats := []DailyStat{}
	for rows.Next() {
		var (
			date time.Time
			s    DailyStat
		)
		if err := rows.Scan(&date, &s.TotalRequests, &s.Successful, &s.Failed,
			&s.AvgResponseMs, &s.MaxResponseMs, &s.AvgTaskCount, &s.MaxTaskCount, &s.UniqueClientIPs); err != nil {
			return nil, fmt.Errorf("failed to scan daily stats: %w", err)
		}
		s.Date = date.Format("2006-01-02")
		stats = append(stats, s)
	}

	return stats, rows.Err()
}
