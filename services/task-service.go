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

var ErrTaskNotFound = errors.New("task not found")

type TaskService struct {
	tasksCollection *mongo.Collection
	goalsCollection *mongo.Collection
}

func NewTaskService(tasksCollection, goalsCollection *mongo.Collection) *TaskService {
	return &TaskService{
		tasksCollection: tasksCollection,
		goalsCollection: goalsCollection,
	}
}

// CreateTask upisuje novi task. Cilj mora da postoji i da pripada korisniku;
// status je podrazumevano pending, prioritet medium.
func (s *TaskService) CreateTask(task models.Task) (*models.Task, error) {
	if task.Title == "" {
		return nil, fmt.Errorf("task title is required")
	}

	goalObjectID, err := primitive.ObjectIDFromHex(task.GoalID)
	if err != nil {
		return nil, fmt.Errorf("invalid goal ID format: %v", err)
	}
	count, err := s.goalsCollection.CountDocuments(context.Background(), bson.M{"_id": goalObjectID, "username": task.Username})
	if err != nil {
		return nil, fmt.Errorf("failed to check goal: %v", err)
	}
	if count == 0 {
		return nil, ErrGoalNotFound
	}

	if task.Status == "" {
		task.Status = models.StatusPending
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	task.ID = primitive.NewObjectID()

	if _, err := s.tasksCollection.InsertOne(context.Background(), task); err != nil {
		return nil, fmt.Errorf("failed to create task: %v", err)
	}

	logging.Logger.Infof("Event ID: TASK_CREATED, Description: Task '%s' created in goal %s.", task.Title, task.GoalID)
	return &task, nil
}

func (s *TaskService) GetTaskByID(taskID primitive.ObjectID, username string) (*models.Task, error) {
	var task models.Task
	err := s.tasksCollection.FindOne(context.Background(), bson.M{"_id": taskID, "username": username}).Decode(&task)
	if err == mongo.ErrNoDocuments {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve task: %v", err)
	}
	return &task, nil
}

// GetTasksByGoal vraća taskove jednog cilja.
func (s *TaskService) GetTasksByGoal(goalID, username string) ([]*models.Task, error) {
	cursor, err := s.tasksCollection.Find(context.Background(), bson.M{"goalId": goalID, "username": username})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve tasks: %v", err)
	}
	defer cursor.Close(context.Background())

	tasks := []*models.Task{}
	for cursor.Next(context.Background()) {
		var task models.Task
		if err := cursor.Decode(&task); err != nil {
			return nil, fmt.Errorf("failed to decode task: %v", err)
		}
		tasks = append(tasks, &task)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}

	return tasks, nil
}

// taskUpdateDocument gradi $set dokument za delimičan update: samo poslata
// polja se menjaju. Prazna/izostavljena polja se preskaču, pa update naslova
// ne može da obriše description (i stablo podzadataka u njemu) ili rok.
func taskUpdateDocument(update models.Task) bson.M {
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
	if update.Status != "" {
		set["status"] = update.Status
	}
	if update.DueDate != nil {
		set["dueDate"] = update.DueDate
	}
	if update.MilestoneID != "" {
		set["milestoneId"] = update.MilestoneID
	}
	return set
}

// UpdateTask menja poslata polja taska, ostala ostaju netaknuta.
// Description se prosleđuje kakav stigne - UI šalje već enkodiran envelope.
func (s *TaskService) UpdateTask(taskID primitive.ObjectID, username string, update models.Task) (*models.Task, error) {
	set := taskUpdateDocument(update)
	if len(set) == 0 {
		return s.GetTaskByID(taskID, username)
	}

	result, err := s.tasksCollection.UpdateOne(
		context.Background(),
		bson.M{"_id": taskID, "username": username},
		bson.M{"$set": set},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %v", err)
	}
	if result.MatchedCount == 0 {
		return nil, ErrTaskNotFound
	}

	return s.GetTaskByID(taskID, username)
}

func (s *TaskService) DeleteTask(taskID primitive.ObjectID, username string) error {
	result, err := s.tasksCollection.DeleteOne(context.Background(), bson.M{"_id": taskID, "username": username})
	if err != nil {
		return fmt.Errorf("failed to delete task: %v", err)
	}
	if result.DeletedCount == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// ChangeTaskStatus menja status taska.
func (s *TaskService) ChangeTaskStatus(taskID primitive.ObjectID, username string, status models.TaskStatus) (*models.Task, error) {
	if status != models.StatusPending && status != models.StatusInProgress && status != models.StatusCompleted {
		return nil, fmt.Errorf("invalid task status: %s", status)
	}

	result, err := s.tasksCollection.UpdateOne(
		context.Background(),
		bson.M{"_id": taskID, "username": username},
		bson.M{"$set": bson.M{"status": status}},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update task status: %v", err)
	}
	if result.MatchedCount == 0 {
		return nil, ErrTaskNotFound
	}

	return s.GetTaskByID(taskID, username)
}

// AddSubtask dodaje podzadatak u stablo taska. Prazan parentID znači koren
// stabla. Ako klijent nije poslao id čvora, server dodeljuje UUID.
func (s *TaskService) AddSubtask(taskID primitive.ObjectID, username, parentID string, node models.SubtaskNode) (*models.Task, error) {
	if node.Title == "" {
		return nil, fmt.Errorf("subtask title is required")
	}
	if node.ID == "" {
		node.ID = uuid.New().String()
	}

	return s.mutateTree(taskID, username, func(tree []models.SubtaskNode) []models.SubtaskNode {
		if parentID == "" {
			return append(append([]models.SubtaskNode{}, tree...), node)
		}
		return subtasks.AddChild(tree, parentID, node)
	})
}

// ToggleSubtask invertuje completed na čvoru stabla.
func (s *TaskService) ToggleSubtask(taskID primitive.ObjectID, username, subtaskID string) (*models.Task, error) {
	return s.mutateTree(taskID, username, func(tree []models.SubtaskNode) []models.SubtaskNode {
		return subtasks.ToggleByID(tree, subtaskID)
	})
}

// RemoveSubtask uklanja čvor sa celim podstablom.
func (s *TaskService) RemoveSubtask(taskID primitive.ObjectID, username, subtaskID string) (*models.Task, error) {
	return s.mutateTree(taskID, username, func(tree []models.SubtaskNode) []models.SubtaskNode {
		return subtasks.RemoveByID(tree, subtaskID)
	})
}

// mutateTree je zajednička putanja za sve operacije nad stablom:
// decode -> čista operacija -> encode -> $set.
func (s *TaskService) mutateTree(taskID primitive.ObjectID, username string, op func([]models.SubtaskNode) []models.SubtaskNode) (*models.Task, error) {
	task, err := s.GetTaskByID(taskID, username)
	if err != nil {
		return nil, err
	}

	env := subtasks.Decode(task.Description)
	newTree := op(env.Subtasks)
	task.Description = subtasks.Encode(env.Text, newTree)

	_, err = s.tasksCollection.UpdateOne(
		context.Background(),
		bson.M{"_id": taskID, "username": username},
		bson.M{"$set": bson.M{"description": task.Description}},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update subtask tree: %v", err)
	}

	return task, nil
}

// TaskProgress vraća procenat završenosti jednog taska.
func (s *TaskService) TaskProgress(taskID primitive.ObjectID, username string) (int, error) {
	task, err := s.GetTaskByID(taskID, username)
	if err != nil {
		return 0, err
	}
	return subtasks.TaskProgress(*task), nil
}
