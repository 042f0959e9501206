package subtasks

import (
	"encoding/json"

	"goal-planner/planner-service/models"
)

// Envelope je dekodirani oblik Description polja jednog taska.
// Structured označava da li je polje zaista nosilo JSON envelope ili je
// tretirano kao običan tekst (legacy zapisi).
type Envelope struct {
	Text       string               `json:"text"`
	Subtasks   []models.SubtaskNode `json:"subtasks"`
	Structured bool                 `json:"-"`
}

// envelopeDoc je wire oblik: {"text": "...", "subtasks": [...]}.
type envelopeDoc struct {
	Text     string                `json:"text"`
	Subtasks *[]models.SubtaskNode `json:"subtasks"`
}

// Decode parsira Description polje. Ako je sadržaj validan JSON objekat sa
// nizom "subtasks", vraća strukturirani envelope; u svakom drugom slučaju ceo
// ulaz se tretira kao običan tekst. Funkcija nikad ne vraća grešku - stariji
// zapisi drže čist tekst i moraju da prođu.
func Decode(description string) Envelope {
	if description == "" {
		return Envelope{}
	}

	var doc envelopeDoc
	if err := json.Unmarshal([]byte(description), &doc); err != nil || doc.Subtasks == nil {
		return Envelope{Text: description}
	}

	return Envelope{Text: doc.Text, Subtasks: *doc.Subtasks, Structured: true}
}

// Encode vraća oblik za upis u Description polje: prazan string kada nema ni
// teksta ni podzadataka (polje se tada uopšte ne upisuje, omitempty), čist
// tekst kada nema podzadataka, inače JSON envelope.
func Encode(text string, nodes []models.SubtaskNode) string {
	if len(nodes) == 0 {
		return text
	}

	doc := struct {
		Text     string               `json:"text"`
		Subtasks []models.SubtaskNode `json:"subtasks"`
	}{Text: text, Subtasks: nodes}

	out, err := json.Marshal(doc)
	if err != nil {
		// Marshal nad ovim tipovima ne može da padne; fallback čuva bar tekst.
		return text
	}
	return string(out)
}
