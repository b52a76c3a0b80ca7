package planner

import (
	"sort"

	"github.com/passbi/passbi_planner/internal/models"
)

// SortTasks returns a copy of tasks ordered by start time.
// Equal starts keep their input order so results are reproducible.
func SortTasks(tasks []models.Task) []models.Task {
	sorted := make([]models.Task, len(tasks))
	copy(sorted, tasks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})
	return sorted
}

// NextCompatible computes, for tasks sorted by start, the index of the first
// later task that starts no earlier than task i ends. len(tasks) means none.
func NextCompatible(tasks []models.Task) []int {
	n := len(tasks)
	next := make([]int, n)

	for i, task := range tasks {
		lo := i + 1
		next[i] = lo + sort.Search(n-lo, func(k int) bool {
			return tasks[lo+k].Start >= task.End
		})
	}

	return next
}
