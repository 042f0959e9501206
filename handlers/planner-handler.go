package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"goal-planner/planner-service/logging"
	"goal-planner/planner-service/models"
	"goal-planner/planner-service/planner"
	"goal-planner/planner-service/services"
)

type PlannerHandler struct {
	service *services.PlannerService
}

func NewPlannerHandler(service *services.PlannerService) *PlannerHandler {
	return &PlannerHandler{service: service}
}

// assistantRequest je telo za sve tri asistent operacije.
type assistantRequest struct {
	Messages []models.ChatMessage `json:"messages"`
	Thinking bool                 `json:"thinking"`
}

// SuggestHandler strimuje predlog sutrašnjeg rasporeda kao SSE.
func (h *PlannerHandler) SuggestHandler(w http.ResponseWriter, r *http.Request) {
	h.stream(w, r, h.service.Suggest)
}

// TweakHandler strimuje doradu plana kao SSE.
func (h *PlannerHandler) TweakHandler(w http.ResponseWriter, r *http.Request) {
	h.stream(w, r, h.service.Tweak)
}

type streamOp func(ctx context.Context, username string, messages []models.ChatMessage, thinking bool, sink func(chunk string) error) (string, error)

func (h *PlannerHandler) stream(w http.ResponseWriter, r *http.Request, op streamOp) {
	var request assistantRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	full, err := op(r.Context(), requestUsername(r), request.Messages, request.Thinking, func(chunk string) error {
		payload, err := json.Marshal(map[string]string{"content": chunk})
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	})
	if err != nil {
		// Headeri su već poslati; greška ide kao poseban SSE event.
		logging.Logger.Errorf("Event ID: ASSISTANT_STREAM_FAILED, Description: Assistant streaming failed: %v", err)
		fmt.Fprintf(w, "event: error\ndata: %s\n\n", jsonMessage("assistant is unavailable"))
		flusher.Flush()
		return
	}

	donePayload, _ := json.Marshal(map[string]string{"fullText": full})
	fmt.Fprintf(w, "event: done\ndata: %s\n\n", donePayload)
	flusher.Flush()
}

// FinalizeHandler izvlači dogovoreni raspored iz transkripta.
func (h *PlannerHandler) FinalizeHandler(w http.ResponseWriter, r *http.Request) {
	var request assistantRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	entries, err := h.service.Finalize(r.Context(), request.Messages)
	if errors.Is(err, planner.ErrScheduleParse) {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if err != nil {
		http.Error(w, "Assistant is unavailable", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"schedule": entries})
}

func jsonMessage(msg string) []byte {
	out, _ := json.Marshal(map[string]string{"message": msg})
	return out
}
