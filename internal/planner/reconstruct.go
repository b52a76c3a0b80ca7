package planner

// Reconstruct walks the recorded decisions from the initial state and returns
// the names of the selected tasks in chronological order.
func Reconstruct(t *Trace) []string {
	schedule := []string{}

	i, p := 0, startPos
	for i < len(t.tasks) {
		if t.at(i, p).decision == Take {
			schedule = append(schedule, t.tasks[i].Name)
			p = t.taskPos[i]
			i = t.next[i]
			continue
		}
		i++
	}

	return schedule
}
