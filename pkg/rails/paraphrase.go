package rails

import (
	"context"
	"fmt"

	"ai-helpdesk-be/pkg/llm"
	"ai-helpdesk-be/pkg/schema"
)

const paraphrasePromptTemplate = `You are a query refinement engine for a question-answering service.
Rewrite the user message so that only the actual question remains:
- drop greetings, irrelevant framing and offensive wording
- keep the meaning and every detail needed to answer
- do not answer the question
If there is no recoverable question in the message, respond with exactly %s and nothing else.
Respond with the rewritten question only.`

// ParaphraseRail strips irrelevant or offensive framing from the query
// while preserving the question itself.
type ParaphraseRail struct {
	provider llm.Provider
}

func NewParaphraseRail(provider llm.Provider) *ParaphraseRail {
	return &ParaphraseRail{provider: provider}
}

func (r *ParaphraseRail) Name() string { return "paraphrase" }

func (r *ParaphraseRail) Apply(ctx context.Context, query *schema.RefinedQuery, resp *schema.QueryResponse) error {
	if resp.IsError() {
		return nil
	}

	prompt := fmt.Sprintf(paraphrasePromptTemplate, llm.FailureMarker)
	result, err := llm.GuardedChat(ctx, r.provider, []llm.Message{
		{Role: schema.RoleSystem, Content: prompt},
		{Role: schema.RoleUser, Content: query.Text},
	}, llm.WithTemperature(0))
	if err != nil {
		return fmt.Errorf("paraphrase: %w", err)
	}

	if result.Failed {
		resp.Trace("paraphrase", "failed")
		resp.Fail(schema.ErrorKindParaphraseFailed, "unable to paraphrase the message")
		return nil
	}

	resp.Trace("pre_paraphrase_text", query.Text)
	resp.Trace("paraphrase", result.Text)
	query.Text = result.Text
	return nil
}
