package urgency

import (
	"context"
	"fmt"
	"math"

	"ai-helpdesk-be/pkg/embedding"
	"ai-helpdesk-be/pkg/schema"
)

const CosineClassifierName = "cosine_distance"

// CosineClassifier embeds the message once and compares it against the
// precomputed rule embeddings. A message is urgent when any rule's
// cosine distance falls below the configured maximum.
type CosineClassifier struct {
	embedder    embedding.Provider
	maxDistance float64
}

var _ Classifier = &CosineClassifier{}

func NewCosineClassifier(embedder embedding.Provider, maxDistance float64) *CosineClassifier {
	return &CosineClassifier{embedder: embedder, maxDistance: maxDistance}
}

func (c *CosineClassifier) Name() string { return CosineClassifierName }

func (c *CosineClassifier) Classify(ctx context.Context, message string, rules []schema.UrgencyRule) (*schema.UrgencyResult, error) {
	result := &schema.UrgencyResult{
		MatchedRules: []string{},
		Details:      map[int]schema.RuleScore{},
	}
	if len(rules) == 0 {
		return result, nil
	}

	messageVector, err := c.embedder.Embed(ctx, message)
	if err != nil {
		return nil, fmt.Errorf("embed message: %w", err)
	}

	for i, rule := range rules {
		distance, err := cosineDistance(messageVector, rule.Embedding)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		result.Details[i] = schema.RuleScore{Rule: rule.Text, Score: distance}
		if distance < c.maxDistance {
			result.IsUrgent = true
			result.MatchedRules = append(result.MatchedRules, rule.Text)
		}
	}
	return result, nil
}

func cosineDistance(a, b []float32) (float64, error) {
	if len(a) != len(b) || len(a) == 0 {
		return 0, fmt.Errorf("vector dimensions mismatch: %d vs %d", len(a), len(b))
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0, fmt.Errorf("zero vector")
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB)), nil
}
