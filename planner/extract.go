package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"goal-planner/planner-service/models"
)

// ErrScheduleParse se vraća kada u odgovoru modela nema parsabilnog JSON
// niza. Za razliku od dekodera podzadataka, ovde NE postoji tihi fallback:
// korisnik mora da vidi da ekstrakcija nije uspela.
var ErrScheduleParse = errors.New("failed to parse schedule from AI response")

// ChatCompleter je deo chat sposobnosti koji ekstraktor koristi.
type ChatCompleter interface {
	Complete(ctx context.Context, messages []models.ChatMessage, systemPrompt string, thinking bool) (string, error)
}

// Instrukcija koja se dodaje na kraj transkripta: model mora da vrati samo
// JSON niz, bez proze i bez markdown ograda.
const extractionInstruction = `Extract the final agreed schedule from this conversation as JSON.

Return ONLY a JSON array with this exact structure, no markdown and no explanation:
[
  {
    "title": "Short task title",
    "description": "What will be done in this block",
    "startTime": "09:00",
    "endTime": "10:30",
    "estimatedMins": 90
  }
]`

// ExtractSchedule dodaje extract-as-JSON instrukciju na transkript, zove chat
// sposobnost bez streaminga i parsira prvi [...] segment odgovora. Nepostojeći
// ili nevalidan JSON je tvrda greška, nikad podrazumevani raspored.
func ExtractSchedule(ctx context.Context, client ChatCompleter, transcript []models.ChatMessage) ([]models.ScheduleEntry, error) {
	messages := append(append([]models.ChatMessage{}, transcript...), models.ChatMessage{
		Role:    "user",
		Content: extractionInstruction,
	})

	response, err := client.Complete(ctx, messages, "", false)
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}

	return parseScheduleArray(response)
}

// parseScheduleArray izvlači prvi kontinualni [...] podstring iz slobodnog
// teksta i parsira ga kao niz unosa rasporeda. Polja unosa se ovde namerno ne
// validiraju; to je posao pozivaoca.
func parseScheduleArray(response string) ([]models.ScheduleEntry, error) {
	cleaned := stripCodeFences(response)

	start := strings.Index(cleaned, "[")
	end := strings.LastIndex(cleaned, "]")
	if start == -1 || end == -1 || start >= end {
		return nil, fmt.Errorf("%w: no JSON array found in response", ErrScheduleParse)
	}

	var entries []models.ScheduleEntry
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScheduleParse, err)
	}

	return entries, nil
}

// stripCodeFences skida markdown ograde koje modeli vole da dodaju oko JSON-a.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if cut, found := strings.CutPrefix(s, "```json"); found {
		s = cut
	} else if cut, found := strings.CutPrefix(s, "```"); found {
		s = cut
	}
	if cut, found := strings.CutSuffix(s, "```"); found {
		s = cut
	}
	return strings.TrimSpace(s)
}
