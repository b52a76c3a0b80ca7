package planner

import (
	"context"
	"testing"

	"github.com/passbi/passbi_planner/internal/graph"
	"github.com/passbi/passbi_planner/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func conn(u, v string, fee float64) models.Connection {
	return models.Connection{Stations: []models.Station{models.Station(u), models.Station(v)}, Fee: fee}
}

func task(name, station string, start, end, score float64) models.Task {
	return models.Task{Name: name, Station: models.Station(station), Start: start, End: end, Score: score}
}

func optimize(t *testing.T, start string, tasks []models.Task, conns []models.Connection) *Trace {
	t.Helper()
	sorted := SortTasks(tasks)
	stations := graph.CollectStations(models.Station(start), sorted, conns)
	dm, err := graph.BuildDistanceMatrix(context.Background(), stations, conns)
	require.NoError(t, err)
	trace, err := Optimize(context.Background(), sorted, dm, NextCompatible(sorted), models.Station(start))
	require.NoError(t, err)
	return trace
}

func TestOptimizeDependsOnCurrentStation(t *testing.T) {
	// P and Q overlap; R follows both. P is cheaper to reach but far from R.
	conns := []models.Connection{
		conn("A", "B", 1),
		conn("A", "C", 2),
		conn("B", "D", 100),
		conn("C", "D", 1),
	}
	tasks := []models.Task{
		task("P", "B", 0, 10, 5),
		task("Q", "C", 0, 10, 5),
		task("R", "D", 10, 20, 5),
	}

	trace := optimize(t, "A", tasks, conns)

	assert.Equal(t, 10.0, trace.MaxScore())
	assert.Equal(t, 6.0, trace.MinFee()) // A->C 2, C->D 1, D->C->A 3
	assert.Equal(t, []string{"Q", "R"}, Reconstruct(trace))

	fromA, ok := trace.Decision(0, "A")
	require.True(t, ok)
	assert.Equal(t, Skip, fromA)

	qFromA, ok := trace.Decision(1, "A")
	require.True(t, ok)
	assert.Equal(t, Take, qFromA)
}

func TestDecisionVariesWithStation(t *testing.T) {
	conns := []models.Connection{
		conn("A", "B", 1),
		conn("A", "C", 1),
	}
	tasks := []models.Task{
		task("P", "B", 0, 10, 5),
		task("Q", "C", 0, 10, 5),
	}

	trace := optimize(t, "A", tasks, conns)

	fromB, ok := trace.Decision(0, "B")
	require.True(t, ok)
	assert.Equal(t, Take, fromB)

	fromC, ok := trace.Decision(0, "C")
	require.True(t, ok)
	assert.Equal(t, Skip, fromC)

	_, ok = trace.Decision(0, "Nowhere")
	assert.False(t, ok)
	_, ok = trace.Decision(5, "A")
	assert.False(t, ok)
}

func TestOptimizeTieKeepsSkip(t *testing.T) {
	// Same score and same cost: the earlier task is skipped in favour of the later one
	tasks := []models.Task{
		task("First", "A", 0, 10, 4),
		task("Second", "A", 5, 15, 4),
	}

	trace := optimize(t, "A", tasks, nil)

	assert.Equal(t, 4.0, trace.MaxScore())
	assert.Equal(t, 0.0, trace.MinFee())
	assert.Equal(t, []string{"Second"}, Reconstruct(trace))
}

func TestOptimizeUnreachableTaskNeverTaken(t *testing.T) {
	tasks := []models.Task{
		task("Island", "Z", 0, 10, 1000),
		task("Home", "A", 20, 30, 1),
	}

	trace := optimize(t, "A", tasks, []models.Connection{conn("A", "B", 2)})

	assert.Equal(t, 1.0, trace.MaxScore())
	assert.Equal(t, 0.0, trace.MinFee())
	assert.Equal(t, []string{"Home"}, Reconstruct(trace))
}

func TestOptimizeRejectsMismatchedIndex(t *testing.T) {
	tasks := []models.Task{task("T", "A", 0, 1, 1)}
	dm, err := graph.BuildDistanceMatrix(context.Background(), []models.Station{"A"}, nil)
	require.NoError(t, err)

	_, err = Optimize(context.Background(), tasks, dm, []int{}, "A")
	assert.Error(t, err)

	_, err = Optimize(context.Background(), tasks, dm, []int{1}, "Nowhere")
	assert.Error(t, err)
}

func TestDecisionString(t *testing.T) {
	assert.Equal(t, "skip", Skip.String())
	assert.Equal(t, "take", Take.String())
}
