package alignment

import (
	"context"
	"encoding/json"
	"fmt"

	"ai-helpdesk-be/pkg/llm"
	"ai-helpdesk-be/pkg/schema"
)

const judgePrompt = `You are a factual-consistency judge.
Given EVIDENCE and a CLAIM, rate how well the claim is supported by the evidence.

Respond ONLY with a JSON object: {"score": <number between 0.0 and 1.0>, "reason": "<one sentence>"}
A score of 1.0 means every statement in the claim is entailed by the evidence; 0.0 means none are.`

type judgeVerdict struct {
	Score  *float64 `json:"score"`
	Reason string   `json:"reason"`
}

// LLMScorer judges alignment with a completion call in JSON mode.
type LLMScorer struct {
	provider llm.Provider
}

func NewLLMScorer(provider llm.Provider) *LLMScorer {
	return &LLMScorer{provider: provider}
}

func (s *LLMScorer) Score(ctx context.Context, evidence, claim string) (float64, string, error) {
	user := fmt.Sprintf("EVIDENCE:\n%s\n\nCLAIM:\n%s", evidence, claim)
	raw, err := s.provider.Chat(ctx, []llm.Message{
		{Role: schema.RoleSystem, Content: judgePrompt},
		{Role: schema.RoleUser, Content: user},
	}, llm.WithJSONMode(), llm.WithTemperature(0))
	if err != nil {
		return 0, "", err
	}

	var verdict judgeVerdict
	if err := json.Unmarshal([]byte(raw), &verdict); err != nil {
		return 0, "", fmt.Errorf("malformed judge reply %q: %w", raw, err)
	}
	// A reply without a numeric score is a configuration problem, not a
	// low score.
	if verdict.Score == nil {
		return 0, "", fmt.Errorf("judge reply %q carries no score", raw)
	}
	if *verdict.Score < 0 || *verdict.Score > 1 {
		return 0, "", fmt.Errorf("judge score %f out of range", *verdict.Score)
	}
	return *verdict.Score, verdict.Reason, nil
}
