package schema

import "github.com/google/uuid"

// RefinedQuery is the mutable working copy of a single user turn.
// It is owned by the pipeline invocation that created it and must
// never be shared across requests.
type RefinedQuery struct {
	QueryID      uuid.UUID
	WorkspaceID  uuid.UUID
	SessionID    string
	OriginalText string
	Text         string // current text, possibly translated/paraphrased

	// Empty until the language rail has run.
	Language string
	Script   string

	GenerateAnswer bool
	GenerateSpeech bool
}

// NewRefinedQuery seeds the working copy from the raw user text.
func NewRefinedQuery(workspaceID uuid.UUID, sessionID, text string, generateAnswer, generateSpeech bool) *RefinedQuery {
	return &RefinedQuery{
		QueryID:        uuid.New(),
		WorkspaceID:    workspaceID,
		SessionID:      sessionID,
		OriginalText:   text,
		Text:           text,
		GenerateAnswer: generateAnswer,
		GenerateSpeech: generateSpeech,
	}
}

// Candidate is one retrieved knowledge snippet. Candidates are ranked by
// Distance ascending (lower = closer).
type Candidate struct {
	ContentID string  `json:"content_id"`
	Title     string  `json:"title"`
	Text      string  `json:"text"`
	Distance  float64 `json:"distance"`
}
