package planner

import (
	"testing"

	"github.com/passbi/passbi_planner/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestSortTasks(t *testing.T) {
	tasks := []models.Task{
		{Name: "late", Start: 20, End: 30},
		{Name: "first-tie", Start: 5, End: 10},
		{Name: "early", Start: 0, End: 5},
		{Name: "second-tie", Start: 5, End: 8},
	}

	sorted := SortTasks(tasks)

	names := make([]string, len(sorted))
	for i, task := range sorted {
		names[i] = task.Name
	}
	assert.Equal(t, []string{"early", "first-tie", "second-tie", "late"}, names)

	t.Run("Input is not modified", func(t *testing.T) {
		assert.Equal(t, "late", tasks[0].Name)
	})
}

func TestNextCompatible(t *testing.T) {
	tests := []struct {
		name     string
		tasks    []models.Task
		expected []int
	}{
		{
			name:     "No tasks",
			tasks:    []models.Task{},
			expected: []int{},
		},
		{
			name: "Touching windows are compatible",
			tasks: []models.Task{
				{Start: 0, End: 10},
				{Start: 10, End: 20},
				{Start: 20, End: 30},
			},
			expected: []int{1, 2, 3},
		},
		{
			name: "Overlaps are skipped",
			tasks: []models.Task{
				{Start: 0, End: 15},
				{Start: 5, End: 8},
				{Start: 9, End: 12},
				{Start: 15, End: 20},
			},
			expected: []int{3, 2, 3, 4},
		},
		{
			name: "Everything overlaps",
			tasks: []models.Task{
				{Start: 0, End: 100},
				{Start: 1, End: 100},
				{Start: 2, End: 100},
			},
			expected: []int{3, 3, 3},
		},
		{
			name: "Same start never follows itself",
			tasks: []models.Task{
				{Start: 0, End: 1},
				{Start: 0, End: 1},
				{Start: 1, End: 2},
			},
			expected: []int{2, 2, 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NextCompatible(tt.tasks))
		})
	}
}
