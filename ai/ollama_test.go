package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"goal-planner/planner-service/models"
)

func TestCompleteReturnsAssistantContent(t *testing.T) {
	var gotReq chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(chatChunk{
			Message: models.ChatMessage{Role: "assistant", Content: "plan for tomorrow"},
			Done:    true,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "llama3", NewBreaker("test-cb"))
	out, err := client.Complete(context.Background(), []models.ChatMessage{
		{Role: "user", Content: "help me plan"},
	}, "you are a planner", true)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if out != "plan for tomorrow" {
		t.Errorf("content = %q, want %q", out, "plan for tomorrow")
	}

	if gotReq.Stream {
		t.Error("Complete must request stream:false")
	}
	if !gotReq.Think {
		t.Error("thinking flag not forwarded")
	}
	if gotReq.Model != "llama3" {
		t.Errorf("model = %q, want llama3", gotReq.Model)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" {
		t.Errorf("system prompt should be the first message, got %+v", gotReq.Messages)
	}
}

func TestCompleteNoSystemPrompt(t *testing.T) {
	var gotReq chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotReq)
		json.NewEncoder(w).Encode(chatChunk{Message: models.ChatMessage{Role: "assistant", Content: "ok"}, Done: true})
	}))
	defer server.Close()

	client := NewClient(server.URL, "llama3", NewBreaker("test-cb"))
	if _, err := client.Complete(context.Background(), []models.ChatMessage{{Role: "user", Content: "hi"}}, "", false); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Role != "user" {
		t.Errorf("empty system prompt must not inject a message, got %+v", gotReq.Messages)
	}
}

func TestCompleteServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, "missing", NewBreaker("test-cb"))
	_, err := client.Complete(context.Background(), nil, "", false)
	if err == nil {
		t.Fatal("expected error on non-200 response")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("error should carry the status code, got %v", err)
	}
}

func TestCompleteStream(t *testing.T) {
	chunks := []string{"Good ", "morning", "!"}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		json.NewDecoder(r.Body).Decode(&req)
		if !req.Stream {
			t.Error("CompleteStream must request stream:true")
		}
		flusher := w.(http.Flusher)
		for i, c := range chunks {
			json.NewEncoder(w).Encode(chatChunk{
				Message: models.ChatMessage{Role: "assistant", Content: c},
				Done:    i == len(chunks)-1,
			})
			flusher.Flush()
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, "llama3", NewBreaker("test-cb"))
	var received []string
	full, err := client.CompleteStream(context.Background(), []models.ChatMessage{{Role: "user", Content: "hi"}}, "", false, func(chunk string) error {
		received = append(received, chunk)
		return nil
	})
	if err != nil {
		t.Fatalf("CompleteStream: %v", err)
	}
	if full != "Good morning!" {
		t.Errorf("accumulated text = %q, want %q", full, "Good morning!")
	}
	if len(received) != len(chunks) {
		t.Errorf("sink received %d chunks, want %d", len(received), len(chunks))
	}
}

func TestCompleteStreamSinkAbort(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for i := 0; i < 5; i++ {
			json.NewEncoder(w).Encode(chatChunk{
				Message: models.ChatMessage{Role: "assistant", Content: "x"},
				Done:    i == 4,
			})
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, "llama3", NewBreaker("test-cb"))
	calls := 0
	_, err := client.CompleteStream(context.Background(), nil, "", false, func(chunk string) error {
		calls++
		return fmt.Errorf("client went away")
	})
	if err == nil {
		t.Fatal("expected error when sink aborts")
	}
	if calls != 1 {
		t.Errorf("sink called %d times after abort, want 1", calls)
	}
}

func TestSinkAbortDoesNotOpenBreaker(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		json.NewDecoder(r.Body).Decode(&req)
		if !req.Stream {
			json.NewEncoder(w).Encode(chatChunk{Message: models.ChatMessage{Role: "assistant", Content: "still here"}, Done: true})
			return
		}
		for i := 0; i < 3; i++ {
			json.NewEncoder(w).Encode(chatChunk{
				Message: models.ChatMessage{Role: "assistant", Content: "x"},
				Done:    i == 2,
			})
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, "llama3", NewBreaker("test-cb"))

	// Ollama radi normalno, ali klijenti redom zatvaraju konekciju usred
	// stream-a. To ne sme da otvori breaker za ostale korisnike.
	for i := 0; i < 5; i++ {
		_, err := client.CompleteStream(context.Background(), nil, "", false, func(chunk string) error {
			return fmt.Errorf("client went away")
		})
		if err == nil {
			t.Fatal("expected error when sink aborts")
		}
		if strings.Contains(err.Error(), "circuit breaker") {
			t.Fatalf("breaker tripped after %d sink aborts: %v", i, err)
		}
	}

	out, err := client.Complete(context.Background(), []models.ChatMessage{{Role: "user", Content: "hi"}}, "", false)
	if err != nil {
		t.Fatalf("Complete after sink aborts: %v", err)
	}
	if out != "still here" {
		t.Errorf("content = %q, want %q", out, "still here")
	}
}

func TestDecodeFailureStillCountsAsBreakerFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "llama3", NewBreaker("test-cb"))
	var lastErr error
	for i := 0; i < 6; i++ {
		_, lastErr = client.Complete(context.Background(), nil, "", false)
	}
	if lastErr == nil || !strings.Contains(lastErr.Error(), "circuit breaker") {
		t.Errorf("breaker should open after repeated decode failures, got %v", lastErr)
	}
}

func TestCompleteOllamaErrorField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(chatChunk{Error: "out of memory"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "llama3", NewBreaker("test-cb"))
	_, err := client.Complete(context.Background(), nil, "", false)
	if err == nil || !strings.Contains(err.Error(), "out of memory") {
		t.Errorf("expected ollama error to surface, got %v", err)
	}
}
