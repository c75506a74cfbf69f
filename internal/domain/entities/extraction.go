package entities

// Decision is a single decision captured from the discussion.
type Decision struct {
	Text    string `json:"text"`
	Context string `json:"context,omitempty"`
}

// Action is a task assigned during the meeting. DueDate is an
// ISO date (YYYY-MM-DD) when known, empty otherwise.
type Action struct {
	Text     string `json:"text"`
	Assignee string `json:"assignee,omitempty"`
	DueDate  string `json:"due_date,omitempty"`
	Context  string `json:"context,omitempty"`
}

// ExtractionResult holds the facts pulled from one transcript chunk.
type ExtractionResult struct {
	Summary   string     `json:"summary"`
	Decisions []Decision `json:"decisions"`
	Actions   []Action   `json:"actions"`
}

// ConsolidatedFacts is the deduplicated union of per-chunk
// extraction results, in chunk order.
type ConsolidatedFacts struct {
	Summary   string     `json:"summary"`
	Decisions []Decision `json:"decisions"`
	Actions   []Action   `json:"actions"`
}
