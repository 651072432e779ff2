package llm

import (
	"context"
	"strings"
)

// FailureMarker is the reserved token our prompts instruct the model to
// emit when it cannot produce the requested output (no grounded answer,
// untranslatable input, etc). It never reaches callers: GuardedChat maps
// it to GuardedResult.Failed so downstream code branches on a value
// instead of comparing magic strings.
const FailureMarker = "<<FAILED>>"

// GuardedResult is the outcome of a completion call whose prompt carries
// the failure marker protocol.
type GuardedResult struct {
	Text   string
	Failed bool
}

// Guard maps a raw model reply onto the explicit result.
func Guard(raw string) GuardedResult {
	text := strings.TrimSpace(raw)
	if strings.Contains(text, FailureMarker) {
		return GuardedResult{Failed: true}
	}
	return GuardedResult{Text: text}
}

// GuardedChat runs Chat and translates the failure marker into an
// explicit result. The returned error is reserved for infrastructure
// failures (network, provider) only.
func GuardedChat(ctx context.Context, p Provider, history []Message, options ...Option) (GuardedResult, error) {
	raw, err := p.Chat(ctx, history, options...)
	if err != nil {
		return GuardedResult{}, err
	}
	return Guard(raw), nil
}

// GuardedGenerate is the single-prompt convenience form of GuardedChat.
func GuardedGenerate(ctx context.Context, p Provider, prompt string, options ...Option) (GuardedResult, error) {
	return GuardedChat(ctx, p, []Message{{Role: "user", Content: prompt}}, options...)
}
