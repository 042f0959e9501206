package services

import (
	"context"
	"errors"
	"fmt"

	"goal-planner/planner-service/logging"
	"goal-planner/planner-service/models"
	"goal-planner/planner-service/subtasks"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrGoalNotFound = errors.New("goal not found")

type GoalService struct {
	goalsCollection *mongo.Collection
	tasksCollection *mongo.Collection
}

func NewGoalService(goalsCollection, tasksCollection *mongo.Collection) *GoalService {
	return &GoalService{
		goalsCollection: goalsCollection,
		tasksCollection: tasksCollection,
	}
}

// CreateGoal upisuje novi cilj. Prioritet podrazumevano medium.
func (s *GoalService) CreateGoal(goal models.Goal) (*models.Goal, error) {
	if goal.Title == "" {
		return nil, fmt.Errorf("goal title is required")
	}
	if goal.Priority == "" {
		goal.Priority = models.PriorityMedium
	}
	if goal.Milestones == nil {
		goal.Milestones = []models.Milestone{}
	}
	goal.ID = primitive.NewObjectID()

	if _, err := s.goalsCollection.InsertOne(context.Background(), goal); err != nil {
		return nil, fmt.Errorf("failed to create goal: %v", err)
	}

	logging.Logger.Infof("Event ID: GOAL_CREATED, Description: Goal '%s' created for user %s.", goal.Title, goal.Username)
	return &goal, nil
}

// GetGoalsByUser vraća sve ciljeve jednog korisnika.
func (s *GoalService) GetGoalsByUser(username string) ([]*models.Goal, error) {
	cursor, err := s.goalsCollection.Find(context.Background(), bson.M{"username": username})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve goals: %v", err)
	}
	defer cursor.Close(context.Background())

	goals := []*models.Goal{}
	for cursor.Next(context.Background()) {
		var goal models.Goal
		if err := cursor.Decode(&goal); err != nil {
			return nil, fmt.Errorf("failed to decode goal: %v", err)
		}
		goals = append(goals, &goal)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}

	return goals, nil
}

func (s *GoalService) GetGoalByID(goalID primitive.ObjectID, username string) (*models.Goal, error) {
	var goal models.Goal
	err := s.goalsCollection.FindOne(context.Background(), bson.M{"_id": goalID, "username": username}).Decode(&goal)
	if err == mongo.ErrNoDocuments {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve goal: %v", err)
	}
	return &goal, nil
}

// goalUpdateDocument gradi $set dokument za delimičan update: samo poslata
// polja se menjaju, prazna/izostavljena se preskaču.
func goalUpdateDocument(update models.Goal) bson.M {
	set := bson.M{}
	if update.Title != "" {
		set["title"] = update.Title
	}
	if update.Description != "" {
		set["description"] = update.Description
	}
	if update.Priority != "" {
		set["priority"] = update.Priority
	}
	if update.TargetDate != nil {
		set["targetDate"] = update.TargetDate
	}
	return set
}

// UpdateGoal menja poslata polja cilja, ostala ostaju netaknuta. Milestone-i
// se menjaju kroz posebne operacije.
func (s *GoalService) UpdateGoal(goalID primitive.ObjectID, username string, update models.Goal) (*models.Goal, error) {
	set := goalUpdateDocument(update)
	if len(set) == 0 {
		return s.GetGoalByID(goalID, username)
	}

	result, err := s.goalsCollection.UpdateOne(
		context.Background(),
		bson.M{"_id": goalID, "username": username},
		bson.M{"$set": set},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update goal: %v", err)
	}
	if result.MatchedCount == 0 {
		return nil, ErrGoalNotFound
	}

	return s.GetGoalByID(goalID, username)
}

// DeleteGoal briše cilj i kaskadno sve njegove taskove (sa stablima
// podzadataka - ona žive samo u description polju).
func (s *GoalService) DeleteGoal(goalID primitive.ObjectID, username string) error {
	result, err := s.goalsCollection.DeleteOne(context.Background(), bson.M{"_id": goalID, "username": username})
	if err != nil {
		return fmt.Errorf("failed to delete goal: %v", err)
	}
	if result.DeletedCount == 0 {
		return ErrGoalNotFound
	}

	if _, err := s.tasksCollection.DeleteMany(context.Background(), bson.M{"goalId": goalID.Hex()}); err != nil {
		return fmt.Errorf("failed to delete tasks for goal: %v", err)
	}

	logging.Logger.Infof("Event ID: GOAL_DELETED, Description: Goal %s and its tasks deleted.", goalID.Hex())
	return nil
}

// AddMilestone dodaje milestone sa serverski generisanim id-em.
func (s *GoalService) AddMilestone(goalID primitive.ObjectID, username, title string) (*models.Milestone, error) {
	if title == "" {
		return nil, fmt.Errorf("milestone title is required")
	}

	milestone := models.Milestone{
		ID:    uuid.New().String(),
		Title: title,
	}

	result, err := s.goalsCollection.UpdateOne(
		context.Background(),
		bson.M{"_id": goalID, "username": username},
		bson.M{"$push": bson.M{"milestones": milestone}},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to add milestone: %v", err)
	}
	if result.MatchedCount == 0 {
		return nil, ErrGoalNotFound
	}

	return &milestone, nil
}

// RemoveMilestone uklanja milestone i kaskadno briše njegove taskove.
func (s *GoalService) RemoveMilestone(goalID primitive.ObjectID, username, milestoneID string) error {
	result, err := s.goalsCollection.UpdateOne(
		context.Background(),
		bson.M{"_id": goalID, "username": username},
		bson.M{"$pull": bson.M{"milestones": bson.M{"id": milestoneID}}},
	)
	if err != nil {
		return fmt.Errorf("failed to remove milestone: %v", err)
	}
	if result.MatchedCount == 0 {
		return ErrGoalNotFound
	}

	if _, err := s.tasksCollection.DeleteMany(context.Background(), bson.M{"goalId": goalID.Hex(), "milestoneId": milestoneID}); err != nil {
		return fmt.Errorf("failed to delete tasks for milestone: %v", err)
	}

	return nil
}

// GetTasksForGoal vraća sve taskove cilja, kroz sve milestone-e.
func (s *GoalService) GetTasksForGoal(goalID primitive.ObjectID) ([]models.Task, error) {
	cursor, err := s.tasksCollection.Find(context.Background(), bson.M{"goalId": goalID.Hex()})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve tasks: %v", err)
	}
	defer cursor.Close(context.Background())

	tasks := []models.Task{}
	for cursor.Next(context.Background()) {
		var task models.Task
		if err := cursor.Decode(&task); err != nil {
			return nil, fmt.Errorf("failed to decode task: %v", err)
		}
		tasks = append(tasks, task)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}

	return tasks, nil
}

// GoalProgress izračunava procenat cilja kao prosek procenata njegovih
// taskova.
func (s *GoalService) GoalProgress(goalID primitive.ObjectID, username string) (int, error) {
	if _, err := s.GetGoalByID(goalID, username); err != nil {
		return 0, err
	}

	tasks, err := s.GetTasksForGoal(goalID)
	if err != nil {
		return 0, err
	}

	return subtasks.GoalProgress(tasks), nil
}
