package urgency

import (
	"context"
	"encoding/json"
	"fmt"

	"ai-helpdesk-be/pkg/llm"
	"ai-helpdesk-be/pkg/schema"

	"golang.org/x/sync/errgroup"
)

const EntailmentClassifierName = "llm_entailment"

const entailmentPrompt = `You are an entailment judge for a helpdesk triage system.
Given a USER MESSAGE and a RULE describing an urgent condition, estimate
the probability that the message entails the condition.

Respond ONLY with a JSON object: {"probability": <number between 0.0 and 1.0>, "statement": "<one sentence explaining your judgement>"}`

type entailmentVerdict struct {
	Probability *float64 `json:"probability"`
	Statement   string   `json:"statement"`
}

// EntailmentClassifier judges every rule with an independent completion
// call. All per-rule calls for one message are issued concurrently and
// awaited together; a failing call fails the whole batch.
type EntailmentClassifier struct {
	provider       llm.Provider
	minProbability float64
}

var _ Classifier = &EntailmentClassifier{}

func NewEntailmentClassifier(provider llm.Provider, minProbability float64) *EntailmentClassifier {
	return &EntailmentClassifier{provider: provider, minProbability: minProbability}
}

func (c *EntailmentClassifier) Name() string { return EntailmentClassifierName }

func (c *EntailmentClassifier) Classify(ctx context.Context, message string, rules []schema.UrgencyRule) (*schema.UrgencyResult, error) {
	result := &schema.UrgencyResult{
		MatchedRules: []string{},
		Details:      map[int]schema.RuleScore{},
	}
	if len(rules) == 0 {
		return result, nil
	}

	verdicts := make([]entailmentVerdict, len(rules))
	g, gctx := errgroup.WithContext(ctx)
	for i, rule := range rules {
		g.Go(func() error {
			verdict, err := c.judgeRule(gctx, message, rule.Text)
			if err != nil {
				return fmt.Errorf("rule %d: %w", i, err)
			}
			verdicts[i] = verdict
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	worst := -1.0
	for i, rule := range rules {
		probability := *verdicts[i].Probability
		result.Details[i] = schema.RuleScore{
			Rule:   rule.Text,
			Score:  probability,
			Reason: verdicts[i].Statement,
		}
		if probability > c.minProbability {
			result.IsUrgent = true
			// Keep the worst-case rule first so callers can surface its
			// statement directly.
			if probability > worst {
				worst = probability
				result.MatchedRules = append([]string{rule.Text}, result.MatchedRules...)
			} else {
				result.MatchedRules = append(result.MatchedRules, rule.Text)
			}
		}
	}
	return result, nil
}

func (c *EntailmentClassifier) judgeRule(ctx context.Context, message, rule string) (entailmentVerdict, error) {
	user := fmt.Sprintf("USER MESSAGE:\n%s\n\nRULE:\n%s", message, rule)
	raw, err := c.provider.Chat(ctx, []llm.Message{
		{Role: schema.RoleSystem, Content: entailmentPrompt},
		{Role: schema.RoleUser, Content: user},
	}, llm.WithJSONMode(), llm.WithTemperature(0))
	if err != nil {
		return entailmentVerdict{}, err
	}

	var verdict entailmentVerdict
	if err := json.Unmarshal([]byte(raw), &verdict); err != nil {
		return entailmentVerdict{}, fmt.Errorf("malformed entailment reply %q: %w", raw, err)
	}
	if verdict.Probability == nil {
		return entailmentVerdict{}, fmt.Errorf("entailment reply %q carries no probability", raw)
	}
	return verdict, nil
}
