package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Station identifies a node of the subway network.
// JSON ids may be strings or numbers; numbers keep their literal text.
type Station string

// UnmarshalJSON accepts both `"A"` and `12` as station ids
func (s *Station) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return fmt.Errorf("station id must not be null")
	}

	if data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = Station(str)
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("station id must be a string or number: %w", err)
	}
	*s = Station(num.String())
	return nil
}

// Connection is an undirected subway link between two stations
type Connection struct {
	Stations []Station `json:"connection" validate:"len=2,dive,required"`
	Fee      float64   `json:"fee" validate:"min=0"`
}

// Endpoints returns both ends of the connection
func (c Connection) Endpoints() (Station, Station) {
	return c.Stations[0], c.Stations[1]
}

// Task is a time-windowed activity anchored to a station.
// The window is half-open: [Start, End).
type Task struct {
	Name    string  `json:"name" validate:"required"`
	Station Station `json:"station" validate:"required"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Score   float64 `json:"score"`
}

// Overlaps reports whether two task windows intersect
func (t Task) Overlaps(o Task) bool {
	return t.Start < o.End && o.Start < t.End
}

// PlanRequest is the typed input of one planning request
type PlanRequest struct {
	StartingStation Station      `json:"starting_station" validate:"required"`
	Tasks           []Task       `json:"tasks" validate:"dive"`
	Subway          []Connection `json:"subway" validate:"dive"`
}

// PlanResult is the optimal schedule for a request
type PlanResult struct {
	MaxScore float64  `json:"max_score"`
	MinFee   float64  `json:"min_fee"`
	Schedule []string `json:"schedule"`
}

// EmptyResult is returned when there is nothing to schedule
func EmptyResult() *PlanResult {
	return &PlanResult{
		MaxScore: 0,
		MinFee:   0,
		Schedule: []string{},
	}
}

// PlanStats summarizes a solve for logging and analytics.
// It never carries the schedule itself.
type PlanStats struct {
	TaskCount        int
	StationCount     int
	ConnectionCount  int
	SelectedCount    int
	UnreachableCount int
}
