package alignment

import (
	"context"
	"fmt"
	"strings"

	"ai-helpdesk-be/internal/pkg/logger"
	"ai-helpdesk-be/pkg/schema"
)

const (
	MethodLLM        = "LLM"
	MethodAlignScore = "ALIGN_SCORE"
	MethodDisabled   = "OFF"
)

// ValidMethod reports whether a configured alignment method is one of
// the known values. Callers should reject anything else at startup; a
// checker built with an unknown method has no scorer to run.
func ValidMethod(method string) bool {
	switch method {
	case MethodLLM, MethodAlignScore, MethodDisabled:
		return true
	}
	return false
}

// Scorer produces a factual-consistency score in [0,1] for a claim
// against evidence, plus a short rationale.
type Scorer interface {
	Score(ctx context.Context, evidence, claim string) (float64, string, error)
}

// Checker is the output rail: it rejects answers whose alignment score
// against the retrieved evidence falls below the threshold.
type Checker struct {
	method    string
	scorer    Scorer
	threshold float64
	logger    logger.ILogger
}

func NewChecker(method string, scorer Scorer, threshold float64, log logger.ILogger) *Checker {
	return &Checker{
		method:    method,
		scorer:    scorer,
		threshold: threshold,
		logger:    log,
	}
}

// Check scores the generated answer against the concatenated candidate
// texts. No-op on a rejected response, when disabled, or when there is
// nothing to score. A malformed scorer reply is an infrastructure error.
func (c *Checker) Check(ctx context.Context, resp *schema.QueryResponse) error {
	if c.method == MethodDisabled {
		return nil
	}
	if resp.IsError() || resp.Answer == nil || len(resp.SearchResults) == 0 {
		return nil
	}

	evidence := buildEvidence(resp.SearchResults)
	claim := *resp.Answer

	score, reason, err := c.scorer.Score(ctx, evidence, claim)
	if err != nil {
		return fmt.Errorf("alignment score: %w", err)
	}

	resp.Trace("factual_consistency", map[string]interface{}{
		"method": c.method,
		"score":  score,
		"reason": reason,
	})

	if score < c.threshold {
		c.logger.Info("alignment", "answer rejected", map[string]interface{}{
			"query_id":  resp.QueryID.String(),
			"score":     score,
			"threshold": c.threshold,
		})
		// Search results are deliberately preserved so the caller can
		// still show the sources.
		resp.Answer = nil
		resp.Fail(schema.ErrorKindAlignmentTooLow, "the generated answer is not sufficiently supported by the content")
	}
	return nil
}

func buildEvidence(candidates []schema.Candidate) string {
	parts := make([]string, len(candidates))
	for i, c := range candidates {
		parts[i] = c.Text
	}
	return strings.Join(parts, "\n")
}
