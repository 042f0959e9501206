package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in progress"
	StatusCompleted  TaskStatus = "completed"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// Task je atomarna jedinica posla unutar jednog milestone-a.
// Description nosi ili običan tekst ili JSON envelope sa stablom podzadataka
// (vidi paket subtasks).
type Task struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	GoalID      string             `json:"goalId" bson:"goalId"`
	MilestoneID string             `json:"milestoneId,omitempty" bson:"milestoneId,omitempty"`
	Username    string             `json:"username" bson:"username"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	DueDate     *time.Time         `json:"dueDate,omitempty" bson:"dueDate,omitempty"`
	Priority    TaskPriority       `json:"priority" bson:"priority"`
	Status      TaskStatus         `json:"status" bson:"status"`
}

// SubtaskNode je rekurzivni čvor checkliste ugrađen u Description polje taska.
// ID je jedinstven na nivou celog stabla, ne samo među braćom.
type SubtaskNode struct {
	ID        string        `json:"id" bson:"id"`
	Title     string        `json:"title" bson:"title"`
	Completed bool          `json:"completed" bson:"completed"`
	Children  []SubtaskNode `json:"children,omitempty" bson:"children,omitempty"`
}
