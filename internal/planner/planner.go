package planner

import (
	"context"
	"errors"
	"fmt"

	"github.com/passbi/passbi_planner/internal/graph"
	"github.com/passbi/passbi_planner/internal/models"
)

var (
	// ErrInvalidInterval rejects a request containing a task with end <= start
	ErrInvalidInterval = errors.New("task end must be after its start")
	// ErrDuplicateTask rejects a request where two tasks share a name
	ErrDuplicateTask = errors.New("duplicate task name")
	// ErrInvalidConnection rejects a connection that is not a two-station link with a non-negative fee
	ErrInvalidConnection = errors.New("invalid connection")
	// ErrTooLarge rejects requests above the configured limits
	ErrTooLarge = errors.New("request exceeds planner limits")
)

const (
	defaultMaxTasks       = 2000
	defaultMaxConnections = 20000
	defaultMaxStations    = 1500
)

// Options bounds the size of a single request.
// MaxStations caps the all-pairs fee matrix, which grows with the cube of the station count.
type Options struct {
	MaxTasks       int
	MaxConnections int
	MaxStations    int
}

// Planner selects the best non-overlapping task schedule for a request.
// It holds configuration only; every call builds and discards its own tables.
type Planner struct {
	opts Options
}

// Solution is a plan result plus the figures used for logging and analytics
type Solution struct {
	Result *models.PlanResult
	Stats  models.PlanStats
}

// New creates a planner, falling back to defaults for unset limits
func New(opts Options) *Planner {
	if opts.MaxTasks <= 0 {
		opts.MaxTasks = defaultMaxTasks
	}
	if opts.MaxConnections <= 0 {
		opts.MaxConnections = defaultMaxConnections
	}
	if opts.MaxStations <= 0 {
		opts.MaxStations = defaultMaxStations
	}
	return &Planner{opts: opts}
}

// Plan computes the maximum total score, the minimum round-trip fee among
// schedules reaching it, and the chosen task names in time order.
func (p *Planner) Plan(ctx context.Context, req *models.PlanRequest) (*Solution, error) {
	if req == nil {
		return nil, fmt.Errorf("nil plan request")
	}

	if len(req.Tasks) == 0 {
		return &Solution{
			Result: models.EmptyResult(),
			Stats:  models.PlanStats{ConnectionCount: len(req.Subway)},
		}, nil
	}

	if err := p.validate(req); err != nil {
		return nil, err
	}

	stations := graph.CollectStations(req.StartingStation, req.Tasks, req.Subway)
	if len(stations) > p.opts.MaxStations {
		return nil, fmt.Errorf("%w: %d stations (max %d)", ErrTooLarge, len(stations), p.opts.MaxStations)
	}

	dm, err := graph.BuildDistanceMatrix(ctx, stations, req.Subway)
	if err != nil {
		return nil, fmt.Errorf("failed to build fee matrix: %w", err)
	}

	unreachable := 0
	for _, task := range req.Tasks {
		if !dm.Reachable(req.StartingStation, task.Station) {
			unreachable++
		}
	}

	tasks := SortTasks(req.Tasks)
	next := NextCompatible(tasks)

	trace, err := Optimize(ctx, tasks, dm, next, req.StartingStation)
	if err != nil {
		return nil, fmt.Errorf("failed to optimize schedule: %w", err)
	}

	schedule := Reconstruct(trace)

	return &Solution{
		Result: &models.PlanResult{
			MaxScore: trace.MaxScore(),
			MinFee:   trace.MinFee(),
			Schedule: schedule,
		},
		Stats: models.PlanStats{
			TaskCount:        len(tasks),
			StationCount:     dm.Len(),
			ConnectionCount:  len(req.Subway),
			SelectedCount:    len(schedule),
			UnreachableCount: unreachable,
		},
	}, nil
}

// validate enforces limits and the task contract for a non-empty request
func (p *Planner) validate(req *models.PlanRequest) error {
	if len(req.Tasks) > p.opts.MaxTasks {
		return fmt.Errorf("%w: %d tasks (max %d)", ErrTooLarge, len(req.Tasks), p.opts.MaxTasks)
	}
	if len(req.Subway) > p.opts.MaxConnections {
		return fmt.Errorf("%w: %d connections (max %d)", ErrTooLarge, len(req.Subway), p.opts.MaxConnections)
	}

	names := make(map[string]bool, len(req.Tasks))
	for _, task := range req.Tasks {
		if task.End <= task.Start {
			return fmt.Errorf("%w: task %q has window [%v, %v)", ErrInvalidInterval, task.Name, task.Start, task.End)
		}
		if names[task.Name] {
			return fmt.Errorf("%w: %q", ErrDuplicateTask, task.Name)
		}
		names[task.Name] = true
	}

	for i, conn := range req.Subway {
		if len(conn.Stations) != 2 {
			return fmt.Errorf("%w: connection %d has %d stations", ErrInvalidConnection, i, len(conn.Stations))
		}
		if conn.Fee < 0 {
			return fmt.Errorf("%w: connection %d has negative fee %v", ErrInvalidConnection, i, conn.Fee)
		}
	}

	return nil
}
