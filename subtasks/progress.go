package subtasks

import (
	"math"

	"goal-planner/planner-service/models"
)

// TaskProgress izračunava procenat završenosti jednog taska (0-100).
// Ako task ima stablo podzadataka, procenat je odnos završenih i svih čvorova
// stabla (broje se SVI čvorovi, ne samo listovi). Bez podzadataka, procenat
// se izvodi iz statusa.
func TaskProgress(task models.Task) int {
	env := Decode(task.Description)
	total := CountTotal(env.Subtasks)
	if total > 0 {
		return int(math.Round(100 * float64(CountCompleted(env.Subtasks)) / float64(total)))
	}

	switch task.Status {
	case models.StatusCompleted:
		return 100
	case models.StatusInProgress:
		return 50
	default:
		return 0
	}
}

// GoalProgress je neponderisani prosek procenata svih taskova jednog cilja
// (taskovi svih milestone-a zajedno), zaokružen. Cilj bez taskova ima 0.
func GoalProgress(tasks []models.Task) int {
	if len(tasks) == 0 {
		return 0
	}

	sum := 0
	for _, t := range tasks {
		sum += TaskProgress(t)
	}
	return int(math.Round(float64(sum) / float64(len(tasks))))
}
