package planner

import (
	"context"
	"errors"
	"strings"
	"testing"

	"goal-planner/planner-service/models"
)

// fakeCompleter vraća fiksni odgovor i pamti poslednji poziv.
type fakeCompleter struct {
	response string
	err      error
	messages []models.ChatMessage
}

func (f *fakeCompleter) Complete(ctx context.Context, messages []models.ChatMessage, systemPrompt string, thinking bool) (string, error) {
	f.messages = messages
	return f.response, f.err
}

func TestExtractScheduleSuccess(t *testing.T) {
	fake := &fakeCompleter{
		response: `Here is your plan: [{"title":"Write report","description":"Draft section 1","startTime":"09:00","endTime":"10:30","estimatedMins":90}] Let me know!`,
	}

	entries, err := ExtractSchedule(context.Background(), fake, []models.ChatMessage{
		{Role: "user", Content: "let's lock it in"},
	})
	if err != nil {
		t.Fatalf("ExtractSchedule: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}

	want := models.ScheduleEntry{
		Title:         "Write report",
		Description:   "Draft section 1",
		StartTime:     "09:00",
		EndTime:       "10:30",
		EstimatedMins: 90,
	}
	if entries[0] != want {
		t.Errorf("entry = %+v, want %+v", entries[0], want)
	}
}

func TestExtractScheduleAppendsInstruction(t *testing.T) {
	fake := &fakeCompleter{response: `[]`}
	transcript := []models.ChatMessage{
		{Role: "user", Content: "plan my day"},
		{Role: "assistant", Content: "here is a draft"},
	}

	if _, err := ExtractSchedule(context.Background(), fake, transcript); err != nil {
		t.Fatalf("ExtractSchedule: %v", err)
	}

	if len(fake.messages) != len(transcript)+1 {
		t.Fatalf("sent %d messages, want transcript plus instruction", len(fake.messages))
	}
	last := fake.messages[len(fake.messages)-1]
	if last.Role != "user" || !strings.Contains(last.Content, "ONLY a JSON array") {
		t.Errorf("last message should be the extraction instruction, got %+v", last)
	}
	if len(transcript) != 2 {
		t.Error("input transcript was mutated")
	}
}

func TestExtractScheduleNoArray(t *testing.T) {
	fake := &fakeCompleter{response: "Sorry, I could not come up with a schedule."}

	_, err := ExtractSchedule(context.Background(), fake, nil)
	if !errors.Is(err, ErrScheduleParse) {
		t.Fatalf("expected ErrScheduleParse, got %v", err)
	}
}

func TestExtractScheduleInvalidJSON(t *testing.T) {
	fake := &fakeCompleter{response: `Here you go: [{"title": "broken",]`}

	_, err := ExtractSchedule(context.Background(), fake, nil)
	if !errors.Is(err, ErrScheduleParse) {
		t.Fatalf("expected ErrScheduleParse, got %v", err)
	}
}

func TestExtractScheduleChatFailure(t *testing.T) {
	fake := &fakeCompleter{err: errors.New("breaker open")}

	_, err := ExtractSchedule(context.Background(), fake, nil)
	if err == nil {
		t.Fatal("expected error when chat capability fails")
	}
	if errors.Is(err, ErrScheduleParse) {
		t.Error("transport failure must not be reported as a parse failure")
	}
}

func TestExtractScheduleCodeFences(t *testing.T) {
	fake := &fakeCompleter{response: "```json\n[{\"title\":\"Gym\",\"startTime\":\"07:00\",\"endTime\":\"08:00\",\"estimatedMins\":60}]\n```"}

	entries, err := ExtractSchedule(context.Background(), fake, nil)
	if err != nil {
		t.Fatalf("ExtractSchedule: %v", err)
	}
	if len(entries) != 1 || entries[0].Title != "Gym" {
		t.Errorf("entries = %+v, want single Gym entry", entries)
	}
}

func TestExtractScheduleEmptyArray(t *testing.T) {
	fake := &fakeCompleter{response: `[]`}

	entries, err := ExtractSchedule(context.Background(), fake, nil)
	if err != nil {
		t.Fatalf("an explicit empty array is a valid extraction: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("entries = %+v, want none", entries)
	}
}
