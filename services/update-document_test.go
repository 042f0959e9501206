package services

import (
	"testing"
	"time"

	"goal-planner/planner-service/models"
)

func TestTaskUpdateDocumentSkipsUnsetFields(t *testing.T) {
	set := taskUpdateDocument(models.Task{Title: "novi naslov"})

	if set["title"] != "novi naslov" {
		t.Errorf("title = %v, want %q", set["title"], "novi naslov")
	}
	for _, field := range []string{"description", "dueDate", "priority", "status", "milestoneId"} {
		if _, ok := set[field]; ok {
			t.Errorf("title-only update must not touch %q, got %v", field, set[field])
		}
	}
}

func TestTaskUpdateDocumentSetsProvidedFields(t *testing.T) {
	due := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	set := taskUpdateDocument(models.Task{
		Description: `{"text":"note","subtasks":[]}`,
		DueDate:     &due,
		Status:      models.StatusCompleted,
	})

	if set["description"] != `{"text":"note","subtasks":[]}` {
		t.Errorf("description = %v", set["description"])
	}
	if set["dueDate"] != &due {
		t.Errorf("dueDate = %v, want %v", set["dueDate"], due)
	}
	if set["status"] != models.StatusCompleted {
		t.Errorf("status = %v", set["status"])
	}
	if _, ok := set["title"]; ok {
		t.Error("empty title must be skipped")
	}
}

func TestTaskUpdateDocumentEmpty(t *testing.T) {
	if set := taskUpdateDocument(models.Task{}); len(set) != 0 {
		t.Errorf("zero-value update should produce an empty document, got %v", set)
	}
}

func TestGoalUpdateDocumentSkipsUnsetFields(t *testing.T) {
	set := goalUpdateDocument(models.Goal{Title: "maraton"})

	if set["title"] != "maraton" {
		t.Errorf("title = %v, want %q", set["title"], "maraton")
	}
	for _, field := range []string{"description", "targetDate", "priority"} {
		if _, ok := set[field]; ok {
			t.Errorf("title-only update must not touch %q, got %v", field, set[field])
		}
	}
}

func TestGoalUpdateDocumentSetsProvidedFields(t *testing.T) {
	target := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
	set := goalUpdateDocument(models.Goal{Description: "trči svaki dan", TargetDate: &target})

	if set["description"] != "trči svaki dan" {
		t.Errorf("description = %v", set["description"])
	}
	if set["targetDate"] != &target {
		t.Errorf("targetDate = %v, want %v", set["targetDate"], target)
	}
}
