package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Goal je korisnikov cilj najvišeg nivoa, sa ugrađenim milestone-ima.
// Taskovi žive u posebnoj kolekciji i referenciraju goalId/milestoneId.
type Goal struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Username    string             `json:"username" bson:"username"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	TargetDate  *time.Time         `json:"targetDate,omitempty" bson:"targetDate,omitempty"`
	Priority    TaskPriority       `json:"priority" bson:"priority"`
	Milestones  []Milestone        `json:"milestones" bson:"milestones"`
}

type Milestone struct {
	ID    string `json:"id" bson:"id"`
	Title string `json:"title" bson:"title"`
}
