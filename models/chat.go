package models

// ChatMessage je jedna poruka u razgovoru sa asistentom.
// Role je "user", "assistant" ili "system".
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ScheduleEntry je jedan vremenski blok izvučen iz finalizovanog plana.
// Polja dolaze iz LLM odgovora i namerno se ne validiraju ovde; UI sloj
// odlučuje šta radi sa nepotpunim unosima.
type ScheduleEntry struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	StartTime     string `json:"startTime"`
	EndTime       string `json:"endTime"`
	EstimatedMins int    `json:"estimatedMins"`
}
