package chathistory

import "ai-helpdesk-be/pkg/schema"

// TokenCounter estimates the token cost of text for a given model.
type TokenCounter interface {
	CountTokens(model, text string) int
}

// turnOverheadTokens covers role/name framing per chat turn.
const turnOverheadTokens = 4

// HeuristicCounter approximates at four characters per token, which
// tracks the common BPE vocabularies closely enough for budgeting. No
// tokenizer library exists for the models we target.
type HeuristicCounter struct{}

func (HeuristicCounter) CountTokens(model, text string) int {
	if text == "" {
		return 0
	}
	return (len([]rune(text)) + 3) / 4
}

func turnTokens(counter TokenCounter, model string, turn schema.ChatTurn) int {
	tokens := turnOverheadTokens
	if turn.Content != nil {
		tokens += counter.CountTokens(model, *turn.Content)
	}
	return tokens
}

func historyTokens(counter TokenCounter, model string, turns []schema.ChatTurn) int {
	total := 0
	for _, turn := range turns {
		total += turnTokens(counter, model, turn)
	}
	return total
}
