package schema

import "github.com/google/uuid"

// UrgencyRule is tenant-defined text describing a condition that should
// flag a message as urgent. Embedding is precomputed at rule creation and
// only used by the cosine-distance classifier.
type UrgencyRule struct {
	ID          uuid.UUID
	WorkspaceID uuid.UUID
	Text        string
	Embedding   []float32
}

// RuleScore is the per-rule outcome of a classification run. Score is a
// cosine distance for the distance classifier and an entailment
// probability for the LLM classifier.
type RuleScore struct {
	Rule   string  `json:"rule"`
	Score  float64 `json:"score"`
	Reason string  `json:"reason,omitempty"`
}

// UrgencyResult is the classifier-agnostic outcome shape: both
// implementations fill exactly these fields.
type UrgencyResult struct {
	IsUrgent     bool              `json:"is_urgent"`
	MatchedRules []string          `json:"matched_rules"`
	Details      map[int]RuleScore `json:"details"`
}
