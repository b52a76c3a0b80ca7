package planner

import (
	"context"
	"fmt"
	"math"

	"github.com/passbi/passbi_planner/internal/graph"
	"github.com/passbi/passbi_planner/internal/models"
)

// Decision is the choice recorded for one DP state
type Decision uint8

const (
	Skip Decision = iota
	Take
)

func (d Decision) String() string {
	if d == Take {
		return "take"
	}
	return "skip"
}

// cell is the best (score, cost) reachable from a state and the decision that achieved it
type cell struct {
	score    float64
	cost     float64
	decision Decision
}

// Trace is the memo table of a single solve.
// Rows are task indices 0..n, columns are positions: the starting station
// followed by each distinct task station. A traveler can only ever stand at a position.
type Trace struct {
	tasks     []models.Task
	next      []int
	positions []models.Station
	taskPos   []int
	cells     []cell
	width     int
}

// startPos is the column of the starting station
const startPos = 0

// Optimize fills the DP table bottom-up, from the last task back to the first.
// State (i, p) means tasks before i are decided and the traveler stands at position p.
// tasks must be sorted by start and next must come from NextCompatible.
func Optimize(ctx context.Context, tasks []models.Task, dm *graph.DistanceMatrix, next []int, start models.Station) (*Trace, error) {
	if len(next) != len(tasks) {
		return nil, fmt.Errorf("compatibility index has %d entries for %d tasks", len(next), len(tasks))
	}

	t := &Trace{
		tasks:   tasks,
		next:    next,
		taskPos: make([]int, len(tasks)),
	}

	// Map positions to matrix indices
	posOf := make(map[models.Station]int)
	var matrixIdx []int
	addPosition := func(s models.Station) (int, error) {
		if p, ok := posOf[s]; ok {
			return p, nil
		}
		idx, ok := dm.Index(s)
		if !ok {
			return 0, fmt.Errorf("station %q is not part of the network", s)
		}
		p := len(t.positions)
		posOf[s] = p
		t.positions = append(t.positions, s)
		matrixIdx = append(matrixIdx, idx)
		return p, nil
	}

	if _, err := addPosition(start); err != nil {
		return nil, err
	}
	for i, task := range tasks {
		p, err := addPosition(task.Station)
		if err != nil {
			return nil, err
		}
		t.taskPos[i] = p
	}

	n := len(tasks)
	t.width = len(t.positions)
	t.cells = make([]cell, (n+1)*t.width)

	fee := func(from, to int) float64 {
		return dm.FeeAt(matrixIdx[from], matrixIdx[to])
	}

	// Base row: everything decided, travel home
	base := t.row(n)
	for p := range base {
		base[p] = cell{cost: fee(p, startPos), decision: Skip}
	}

	for i := n - 1; i >= 0; i-- {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		task := tasks[i]
		tp := t.taskPos[i]
		future := t.at(next[i], tp)
		skipRow := t.row(i + 1)
		row := t.row(i)

		for p := range row {
			best := skipRow[p]
			best.decision = Skip

			// An infinite fee means the task cannot be reached from here
			cost := fee(p, tp) + future.cost
			if !math.IsInf(cost, 1) {
				score := task.Score + future.score
				if score > best.score || (score == best.score && cost < best.cost) {
					best = cell{score: score, cost: cost, decision: Take}
				}
			}

			row[p] = best
		}
	}

	return t, nil
}

func (t *Trace) row(i int) []cell {
	return t.cells[i*t.width : (i+1)*t.width]
}

func (t *Trace) at(i, p int) cell {
	return t.cells[i*t.width+p]
}

// MaxScore is the best total score from the initial state
func (t *Trace) MaxScore() float64 {
	return t.at(0, startPos).score
}

// MinFee is the cheapest round-trip fee among schedules achieving MaxScore
func (t *Trace) MinFee() float64 {
	return t.at(0, startPos).cost
}

// Len returns the number of tasks covered by the trace
func (t *Trace) Len() int {
	return len(t.tasks)
}

// Decision returns the recorded choice for task i with the traveler at station s
func (t *Trace) Decision(i int, s models.Station) (Decision, bool) {
	if i < 0 || i >= len(t.tasks) {
		return Skip, false
	}
	for p, pos := range t.positions {
		if pos == s {
			return t.at(i, p).decision, true
		}
	}
	return Skip, false
}
