package planner

import (
	"fmt"
	"strings"

	"goal-planner/planner-service/models"
	"goal-planner/planner-service/subtasks"
)

// GoalContext spaja jedan cilj sa njegovim taskovima (svi milestone-i zajedno)
// za potrebe renderovanja konteksta u system promptu.
type GoalContext struct {
	Goal  models.Goal
	Tasks []models.Task
}

// Zajednička pravila za sve tri varijante asistenta. Asistent planira
// isključivo za sutra, nikad se ne pretvara da izvršava taskove i drži
// odgovore kratkim.
const assistantRules = `Rules you must always follow:
- You are a planning assistant. You help the user think, you never claim to be executing or completing tasks yourself.
- Every schedule you discuss is for TOMORROW. Do not plan for today or any other day.
- Keep responses short and focused: a few sentences of reasoning plus the proposed blocks. No long essays.
- Respect the user's stated priorities and due dates when ordering blocks.`

// BuildContextBlock renderuje stanje ciljeva u tekstualni blok za prompt:
// ciljevi sa prioritetom i procentom, milestone-i, i checklist stanje svakog
// taska.
func BuildContextBlock(goals []GoalContext) string {
	if len(goals) == 0 {
		return "The user has no goals defined yet."
	}

	var b strings.Builder
	for _, gc := range goals {
		b.WriteString(fmt.Sprintf("Goal: %s (priority %s, %d%% complete)\n", gc.Goal.Title, gc.Goal.Priority, subtasks.GoalProgress(gc.Tasks)))
		if gc.Goal.TargetDate != nil {
			b.WriteString(fmt.Sprintf("  Target date: %s\n", gc.Goal.TargetDate.Format("2006-01-02")))
		}
		if gc.Goal.Description != "" {
			b.WriteString(fmt.Sprintf("  Notes: %s\n", gc.Goal.Description))
		}

		for _, m := range gc.Goal.Milestones {
			b.WriteString(fmt.Sprintf("  Milestone: %s\n", m.Title))
			for _, t := range gc.Tasks {
				if t.MilestoneID == m.ID {
					writeTask(&b, t, "    ")
				}
			}
		}
		// Taskovi bez milestone-a
		for _, t := range gc.Tasks {
			if t.MilestoneID == "" {
				writeTask(&b, t, "  ")
			}
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeTask(b *strings.Builder, t models.Task, indent string) {
	mark := " "
	if t.Status == models.StatusCompleted {
		mark = "x"
	}
	b.WriteString(fmt.Sprintf("%s- [%s] %s (%s, %s priority, %d%%)\n", indent, mark, t.Title, t.Status, t.Priority, subtasks.TaskProgress(t)))
	if t.DueDate != nil {
		b.WriteString(fmt.Sprintf("%s  due: %s\n", indent, t.DueDate.Format("2006-01-02")))
	}

	env := subtasks.Decode(t.Description)
	for _, n := range subtasks.Flatten(env.Subtasks) {
		check := " "
		if n.Completed {
			check = "x"
		}
		b.WriteString(fmt.Sprintf("%s    [%s] %s\n", indent, check, n.Title))
	}
}

// SuggestPrompt je varijanta za predlog sutrašnjeg rasporeda od nule.
func SuggestPrompt(contextBlock string) string {
	return fmt.Sprintf(`You are a personal productivity assistant helping the user plan tomorrow.

Current state of the user's goals:
%s

Suggest a realistic schedule for tomorrow as a short list of time blocks. Pick the tasks that move the most important goals forward. For each block give a start time, an end time and the task it serves.

%s`, contextBlock, assistantRules)
}

// TweakPrompt je varijanta za doradu već predloženog plana kroz razgovor.
func TweakPrompt(contextBlock string) string {
	return fmt.Sprintf(`You are a personal productivity assistant refining tomorrow's draft schedule with the user.

Current state of the user's goals:
%s

The conversation so far contains a draft schedule. Apply the user's requested adjustments to it. Keep everything they did not ask to change, and point out conflicts (overlapping blocks, impossible times) instead of silently resolving them.

%s`, contextBlock, assistantRules)
}

// FinalizePrompt je varijanta za poslednji korak pre ekstrakcije: sažmi
// dogovoreni plan bez novih izmena.
func FinalizePrompt(contextBlock string) string {
	return fmt.Sprintf(`You are a personal productivity assistant finalizing tomorrow's schedule.

Current state of the user's goals:
%s

The conversation contains an agreed schedule. Restate it precisely as discussed. Do not add, remove or reorder blocks.

%s`, contextBlock, assistantRules)
}
