package planner

import (
	"testing"

	"github.com/passbi/passbi_planner/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestReconstruct(t *testing.T) {
	conns := []models.Connection{
		conn("A", "B", 2),
		conn("B", "C", 3),
	}

	t.Run("Chronological order", func(t *testing.T) {
		tasks := []models.Task{
			task("third", "A", 40, 50, 1),
			task("first", "B", 0, 10, 1),
			task("second", "C", 20, 30, 1),
		}
		trace := optimize(t, "A", tasks, conns)
		assert.Equal(t, []string{"first", "second", "third"}, Reconstruct(trace))
	})

	t.Run("Empty when nothing pays", func(t *testing.T) {
		tasks := []models.Task{
			task("loss", "B", 0, 10, -3),
			task("nothing", "C", 20, 30, 0),
		}
		trace := optimize(t, "A", tasks, conns)
		schedule := Reconstruct(trace)
		assert.NotNil(t, schedule)
		assert.Empty(t, schedule)
	})

	t.Run("Jumps past overlapping tasks after a take", func(t *testing.T) {
		tasks := []models.Task{
			task("long", "A", 0, 100, 10),
			task("short-1", "B", 10, 20, 3),
			task("short-2", "B", 30, 40, 3),
			task("after", "A", 100, 110, 1),
		}
		trace := optimize(t, "A", tasks, conns)
		assert.Equal(t, []string{"long", "after"}, Reconstruct(trace))
		assert.Equal(t, 11.0, trace.MaxScore())
		assert.Equal(t, 0.0, trace.MinFee())
	})
}
