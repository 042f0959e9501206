package services

import (
	"context"
	"fmt"

	"goal-planner/planner-service/models"
	"goal-planner/planner-service/planner"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChatClient je chat sposobnost koju planner koristi: blokirajuća i streaming
// varijanta. Implementira je ai.Client.
type ChatClient interface {
	Complete(ctx context.Context, messages []models.ChatMessage, systemPrompt string, thinking bool) (string, error)
	CompleteStream(ctx context.Context, messages []models.ChatMessage, systemPrompt string, thinking bool, sink func(chunk string) error) (string, error)
}

// GoalStore je deo GoalService-a koji planner čita pri izgradnji prompta.
type GoalStore interface {
	GetGoalsByUser(username string) ([]*models.Goal, error)
	GetTasksForGoal(goalID primitive.ObjectID) ([]models.Task, error)
}

// PlannerService spaja stanje ciljeva sa chat sposobnošću: rendruje kontekst,
// bira prompt varijantu po operaciji i parsira finalni raspored.
type PlannerService struct {
	chat  ChatClient
	goals GoalStore
}

func NewPlannerService(chat ChatClient, goals GoalStore) *PlannerService {
	return &PlannerService{chat: chat, goals: goals}
}

// contextBlock skuplja sve ciljeve korisnika sa njihovim taskovima i rendruje
// blok za system prompt.
func (s *PlannerService) contextBlock(username string) (string, error) {
	goals, err := s.goals.GetGoalsByUser(username)
	if err != nil {
		return "", fmt.Errorf("failed to load goals for prompt: %v", err)
	}

	contexts := make([]planner.GoalContext, 0, len(goals))
	for _, g := range goals {
		tasks, err := s.goals.GetTasksForGoal(g.ID)
		if err != nil {
			return "", fmt.Errorf("failed to load tasks for prompt: %v", err)
		}
		contexts = append(contexts, planner.GoalContext{Goal: *g, Tasks: tasks})
	}

	return planner.BuildContextBlock(contexts), nil
}

// Suggest strimuje predlog sutrašnjeg rasporeda.
func (s *PlannerService) Suggest(ctx context.Context, username string, messages []models.ChatMessage, thinking bool, sink func(chunk string) error) (string, error) {
	block, err := s.contextBlock(username)
	if err != nil {
		return "", err
	}
	return s.chat.CompleteStream(ctx, messages, planner.SuggestPrompt(block), thinking, sink)
}

// Tweak strimuje doradu plana kroz razgovor.
func (s *PlannerService) Tweak(ctx context.Context, username string, messages []models.ChatMessage, thinking bool, sink func(chunk string) error) (string, error) {
	block, err := s.contextBlock(username)
	if err != nil {
		return "", err
	}
	return s.chat.CompleteStream(ctx, messages, planner.TweakPrompt(block), thinking, sink)
}

// Finalize izvlači dogovoreni raspored iz transkripta kao strukturirane
// unose. Greška parsiranja se prosleđuje pozivaocu (planner.ErrScheduleParse).
func (s *PlannerService) Finalize(ctx context.Context, transcript []models.ChatMessage) ([]models.ScheduleEntry, error) {
	return planner.ExtractSchedule(ctx, s.chat, transcript)
}
