package rails

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"ai-helpdesk-be/pkg/llm"
	"ai-helpdesk-be/pkg/schema"
)

const languageUnknown = "UNKNOWN"

const identifyLanguagePrompt = `You are a language identification engine.
Identify the language and the writing script of the user message.

Respond ONLY with a JSON object of the form:
{"language": "<UPPERCASE ENGLISH NAME>", "script": "<UPPERCASE SCRIPT NAME>"}

Examples: {"language": "ENGLISH", "script": "LATIN"}, {"language": "HINDI", "script": "DEVANAGARI"}.
If the message is gibberish or you cannot identify the language, use "UNKNOWN" for that field.
Do not include any other text.`

type identifiedLanguage struct {
	Language string `json:"language"`
	Script   string `json:"script"`
}

// LanguageRail identifies the language/script of the query and rejects
// anything outside the configured supported sets.
type LanguageRail struct {
	provider           llm.Provider
	supportedLanguages map[string]bool
	supportedScripts   map[string]bool
}

func NewLanguageRail(provider llm.Provider, languages, scripts []string) *LanguageRail {
	supportedLanguages := make(map[string]bool, len(languages))
	for _, l := range languages {
		supportedLanguages[strings.ToUpper(l)] = true
	}
	supportedScripts := make(map[string]bool, len(scripts))
	for _, s := range scripts {
		supportedScripts[strings.ToUpper(s)] = true
	}
	return &LanguageRail{
		provider:           provider,
		supportedLanguages: supportedLanguages,
		supportedScripts:   supportedScripts,
	}
}

func (r *LanguageRail) Name() string { return "identify_language" }

func (r *LanguageRail) Apply(ctx context.Context, query *schema.RefinedQuery, resp *schema.QueryResponse) error {
	if resp.IsError() {
		return nil
	}

	raw, err := r.provider.Chat(ctx, []llm.Message{
		{Role: schema.RoleSystem, Content: identifyLanguagePrompt},
		{Role: schema.RoleUser, Content: query.Text},
	}, llm.WithJSONMode(), llm.WithTemperature(0))
	if err != nil {
		return fmt.Errorf("identify language: %w", err)
	}

	var identified identifiedLanguage
	if err := json.Unmarshal([]byte(raw), &identified); err != nil {
		return fmt.Errorf("identify language: malformed reply %q: %w", raw, err)
	}

	query.Language = strings.ToUpper(strings.TrimSpace(identified.Language))
	query.Script = strings.ToUpper(strings.TrimSpace(identified.Script))

	// The identification is recorded regardless of the verdict below.
	resp.Trace("identified_language", query.Language)
	resp.Trace("identified_script", query.Script)

	switch {
	case query.Language == "" || query.Language == languageUnknown:
		resp.Fail(schema.ErrorKindUnintelligible, "unable to identify the language of the message")
	// Unknown or unsupported script outranks an unsupported language in
	// the message shown to the user.
	case query.Script == "" || query.Script == languageUnknown || !r.supportedScripts[query.Script]:
		resp.Fail(schema.ErrorKindUnsupportedScript, fmt.Sprintf("script %s is not supported", query.Script))
	case !r.supportedLanguages[query.Language]:
		resp.Fail(schema.ErrorKindUnsupportedLang, fmt.Sprintf("language %s is not supported", query.Language))
	}
	return nil
}
