package rails

import (
	"context"
	"fmt"
	"strings"

	"ai-helpdesk-be/pkg/llm"
	"ai-helpdesk-be/pkg/schema"
)

const translatePromptTemplate = `You are a translation engine. Translate the user message from %s into %s.
Preserve the meaning and intent exactly; do not answer the message.
If the message cannot be translated, respond with exactly %s and nothing else.
Respond with the translation only, no commentary.`

// TranslateRail rewrites the query into the pipeline's working language.
// It requires the language rail to have run first: calling it on an
// unidentified query is a programming error, not a user-facing one.
type TranslateRail struct {
	provider       llm.Provider
	targetLanguage string
}

func NewTranslateRail(provider llm.Provider, targetLanguage string) *TranslateRail {
	return &TranslateRail{
		provider:       provider,
		targetLanguage: strings.ToUpper(targetLanguage),
	}
}

func (r *TranslateRail) Name() string { return "translate" }

func (r *TranslateRail) Apply(ctx context.Context, query *schema.RefinedQuery, resp *schema.QueryResponse) error {
	if resp.IsError() {
		return nil
	}
	if query.Language == "" {
		panic("translate rail invoked before language identification")
	}

	if query.Language == r.targetLanguage {
		resp.Trace("translation", "no-op, already in "+r.targetLanguage)
		return nil
	}

	prompt := fmt.Sprintf(translatePromptTemplate, query.Language, r.targetLanguage, llm.FailureMarker)
	result, err := llm.GuardedChat(ctx, r.provider, []llm.Message{
		{Role: schema.RoleSystem, Content: prompt},
		{Role: schema.RoleUser, Content: query.Text},
	}, llm.WithTemperature(0))
	if err != nil {
		return fmt.Errorf("translate: %w", err)
	}

	if result.Failed {
		resp.Trace("translation", "failed")
		resp.Fail(schema.ErrorKindTranslationFailed, "unable to translate the message")
		return nil
	}

	resp.Trace("pre_translation_text", query.Text)
	resp.Trace("translation", result.Text)
	query.Text = result.Text
	return nil
}
