package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"goal-planner/planner-service/logging"
	"goal-planner/planner-service/models"
	"goal-planner/planner-service/services"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type GoalHandler struct {
	service *services.GoalService
}

func NewGoalHandler(service *services.GoalService) *GoalHandler {
	return &GoalHandler{service: service}
}

// requestUsername čita korisničko ime koje je JWT middleware upisao u header.
func requestUsername(r *http.Request) string {
	return r.Header.Get("Username")
}

func goalIDFromRequest(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	vars := mux.Vars(r)
	goalID, err := primitive.ObjectIDFromHex(vars["goalId"])
	if err != nil {
		http.Error(w, "Invalid goal ID format", http.StatusBadRequest)
		return primitive.NilObjectID, false
	}
	return goalID, true
}

func (h *GoalHandler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	var goal models.Goal
	if err := json.NewDecoder(r.Body).Decode(&goal); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	goal.Username = requestUsername(r)

	created, err := h.service.CreateGoal(goal)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

func (h *GoalHandler) GetAllGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := h.service.GetGoalsByUser(requestUsername(r))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(goals)
}

func (h *GoalHandler) GetGoal(w http.ResponseWriter, r *http.Request) {
	goalID, ok := goalIDFromRequest(w, r)
	if !ok {
		return
	}

	goal, err := h.service.GetGoalByID(goalID, requestUsername(r))
	if errors.Is(err, services.ErrGoalNotFound) {
		http.Error(w, "Goal not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(goal)
}

// UpdateGoal radi delimičan update: polja izostavljena iz tela zahteva
// ostaju netaknuta.
func (h *GoalHandler) UpdateGoal(w http.ResponseWriter, r *http.Request) {
	goalID, ok := goalIDFromRequest(w, r)
	if !ok {
		return
	}

	var update models.Goal
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	goal, err := h.service.UpdateGoal(goalID, requestUsername(r), update)
	if errors.Is(err, services.ErrGoalNotFound) {
		http.Error(w, "Goal not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(goal)
}

func (h *GoalHandler) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	goalID, ok := goalIDFromRequest(w, r)
	if !ok {
		return
	}

	err := h.service.DeleteGoal(goalID, requestUsername(r))
	if errors.Is(err, services.ErrGoalNotFound) {
		http.Error(w, "Goal not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "Goal deleted successfully"}`))
}

// GoalProgressHandler vraća procenat cilja u obliku {"progress": N}.
func (h *GoalHandler) GoalProgressHandler(w http.ResponseWriter, r *http.Request) {
	goalID, ok := goalIDFromRequest(w, r)
	if !ok {
		return
	}

	progress, err := h.service.GoalProgress(goalID, requestUsername(r))
	if errors.Is(err, services.ErrGoalNotFound) {
		http.Error(w, "Goal not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int{"progress": progress})
}

func (h *GoalHandler) AddMilestone(w http.ResponseWriter, r *http.Request) {
	goalID, ok := goalIDFromRequest(w, r)
	if !ok {
		return
	}

	var request struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	milestone, err := h.service.AddMilestone(goalID, requestUsername(r), request.Title)
	if errors.Is(err, services.ErrGoalNotFound) {
		http.Error(w, "Goal not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	logging.Logger.Infof("Event ID: MILESTONE_ADDED, Description: Milestone '%s' added to goal %s.", milestone.Title, goalID.Hex())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(milestone)
}

func (h *GoalHandler) RemoveMilestone(w http.ResponseWriter, r *http.Request) {
	goalID, ok := goalIDFromRequest(w, r)
	if !ok {
		return
	}
	milestoneID := mux.Vars(r)["milestoneId"]

	err := h.service.RemoveMilestone(goalID, requestUsername(r), milestoneID)
	if errors.Is(err, services.ErrGoalNotFound) {
		http.Error(w, "Goal not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "Milestone removed successfully"}`))
}
