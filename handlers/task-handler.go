package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"goal-planner/planner-service/models"
	"goal-planner/planner-service/services"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskHandler struct {
	service *services.TaskService
}

func NewTaskHandler(service *services.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

func taskIDFromRequest(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	vars := mux.Vars(r)
	taskID, err := primitive.ObjectIDFromHex(vars["taskID"])
	if err != nil {
		http.Error(w, "Invalid task ID format", http.StatusBadRequest)
		return primitive.NilObjectID, false
	}
	return taskID, true
}

func (h *TaskHandler) writeTaskError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		http.Error(w, "Task not found", http.StatusNotFound)
	case errors.Is(err, services.ErrGoalNotFound):
		http.Error(w, "Goal not found", http.StatusNotFound)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var task models.Task
	if err := json.NewDecoder(r.Body).Decode(&task); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	task.Username = requestUsername(r)

	created, err := h.service.CreateTask(task)
	if errors.Is(err, services.ErrGoalNotFound) {
		http.Error(w, "Goal not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	taskID, ok := taskIDFromRequest(w, r)
	if !ok {
		return
	}

	task, err := h.service.GetTaskByID(taskID, requestUsername(r))
	if err != nil {
		h.writeTaskError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(task)
}

func (h *TaskHandler) GetTasksByGoal(w http.ResponseWriter, r *http.Request) {
	goalID := mux.Vars(r)["goalId"]
	if goalID == "" {
		http.Error(w, "Missing goal ID", http.StatusBadRequest)
		return
	}

	tasks, err := h.service.GetTasksByGoal(goalID, requestUsername(r))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(tasks)
}

// UpdateTask radi delimičan update: polja izostavljena iz tela zahteva
// ostaju netaknuta, uključujući description sa stablom podzadataka.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	taskID, ok := taskIDFromRequest(w, r)
	if !ok {
		return
	}

	var update models.Task
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	task, err := h.service.UpdateTask(taskID, requestUsername(r), update)
	if err != nil {
		h.writeTaskError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(task)
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	taskID, ok := taskIDFromRequest(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteTask(taskID, requestUsername(r)); err != nil {
		h.writeTaskError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "Task deleted successfully"}`))
}

// ChangeTaskStatus menja status taska.
func (h *TaskHandler) ChangeTaskStatus(w http.ResponseWriter, r *http.Request) {
	var request struct {
		TaskID string            `json:"taskId"`
		Status models.TaskStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	taskObjectID, err := primitive.ObjectIDFromHex(request.TaskID)
	if err != nil {
		http.Error(w, "Invalid task ID format", http.StatusBadRequest)
		return
	}

	updated, err := h.service.ChangeTaskStatus(taskObjectID, requestUsername(r), request.Status)
	if errors.Is(err, services.ErrTaskNotFound) {
		http.Error(w, "Task not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

// AddSubtask dodaje čvor u stablo podzadataka. parentId prazan ili izostavljen
// znači koren stabla.
func (h *TaskHandler) AddSubtask(w http.ResponseWriter, r *http.Request) {
	taskID, ok := taskIDFromRequest(w, r)
	if !ok {
		return
	}

	var request struct {
		ParentID string `json:"parentId"`
		ID       string `json:"id"`
		Title    string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	task, err := h.service.AddSubtask(taskID, requestUsername(r), request.ParentID, models.SubtaskNode{
		ID:    request.ID,
		Title: request.Title,
	})
	if errors.Is(err, services.ErrTaskNotFound) {
		http.Error(w, "Task not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(task)
}

func (h *TaskHandler) ToggleSubtask(w http.ResponseWriter, r *http.Request) {
	taskID, ok := taskIDFromRequest(w, r)
	if !ok {
		return
	}
	subtaskID := mux.Vars(r)["subtaskID"]

	task, err := h.service.ToggleSubtask(taskID, requestUsername(r), subtaskID)
	if err != nil {
		h.writeTaskError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(task)
}

func (h *TaskHandler) RemoveSubtask(w http.ResponseWriter, r *http.Request) {
	taskID, ok := taskIDFromRequest(w, r)
	if !ok {
		return
	}
	subtaskID := mux.Vars(r)["subtaskID"]

	task, err := h.service.RemoveSubtask(taskID, requestUsername(r), subtaskID)
	if err != nil {
		h.writeTaskError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(task)
}

// TaskProgressHandler vraća procenat taska u obliku {"progress": N}.
func (h *TaskHandler) TaskProgressHandler(w http.ResponseWriter, r *http.Request) {
	taskID, ok := taskIDFromRequest(w, r)
	if !ok {
		return
	}

	progress, err := h.service.TaskProgress(taskID, requestUsername(r))
	if err != nil {
		h.writeTaskError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int{"progress": progress})
}
