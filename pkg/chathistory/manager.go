package chathistory

import (
	"context"
	"fmt"

	"ai-helpdesk-be/pkg/llm"
	"ai-helpdesk-be/pkg/schema"
)

// Manager owns the per-session token-budgeted turn log.
//
// Concurrency note: Append is read-modify-write against the shared
// store with no per-session locking. Two concurrent requests for the
// same session may interleave and the last writer wins. This mirrors
// the documented behavior of the system; see DESIGN.md.
type Manager struct {
	store        Store
	registry     ModelRegistry
	counter      TokenCounter
	model        string
	systemPrompt string
}

func NewManager(store Store, registry ModelRegistry, counter TokenCounter, model, systemPrompt string) *Manager {
	return &Manager{
		store:        store,
		registry:     registry,
		counter:      counter,
		model:        model,
		systemPrompt: systemPrompt,
	}
}

// Init loads the session state from the cache, or creates a fresh one
// seeded with exactly one system turn when absent or when reset is
// requested. Fresh states cache the model's current context limits.
func (m *Manager) Init(ctx context.Context, sessionID string, reset bool) (*schema.ChatState, error) {
	if !reset {
		state, err := m.store.Get(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		if state != nil {
			return state, nil
		}
	}

	limits, err := m.registry.GetLimits(ctx, m.model)
	if err != nil {
		return nil, fmt.Errorf("model limits: %w", err)
	}

	state := &schema.ChatState{
		SessionID:       sessionID,
		Turns:           []schema.ChatTurn{schema.NewChatTurn(schema.RoleSystem, m.systemPrompt)},
		Model:           m.model,
		MaxInputTokens:  limits.MaxInputTokens,
		MaxOutputTokens: limits.MaxOutputTokens,
	}
	if err := m.store.Set(ctx, state); err != nil {
		return nil, err
	}
	return state, nil
}

// Append adds a turn and writes the state back to the cache. With
// truncate, whole oldest non-system turns are removed first until the
// history plus the generation reserve fits the context length.
func (m *Manager) Append(ctx context.Context, state *schema.ChatState, turn schema.ChatTurn, truncate bool) error {
	state.Turns = append(state.Turns, turn)
	if truncate {
		m.truncate(state)
	}
	return m.store.Set(ctx, state)
}

// Reset drops the cached state for a session.
func (m *Manager) Reset(ctx context.Context, sessionID string) error {
	return m.store.Delete(ctx, sessionID)
}

// Messages renders the turn log in provider format, skipping turns whose
// content is still unresolved.
func (m *Manager) Messages(state *schema.ChatState) []llm.Message {
	messages := make([]llm.Message, 0, len(state.Turns))
	for _, turn := range state.Turns {
		if turn.Content == nil {
			continue
		}
		messages = append(messages, llm.Message{Role: turn.Role, Content: *turn.Content})
	}
	return messages
}

// truncate removes oldest turns, never the leading system turn, keeping
// the running total exact: the cost of each removed turn is subtracted
// and the budget re-checked before the next removal. An empty history is
// left untouched.
func (m *Manager) truncate(state *schema.ChatState) {
	if len(state.Turns) == 0 {
		return
	}

	budget := state.MaxInputTokens - state.MaxOutputTokens
	total := historyTokens(m.counter, state.Model, state.Turns)

	for total > budget {
		oldest := 0
		if state.Turns[oldest].Role == schema.RoleSystem {
			oldest = 1
		}
		if oldest >= len(state.Turns) {
			break
		}
		total -= turnTokens(m.counter, state.Model, state.Turns[oldest])
		state.Turns = append(state.Turns[:oldest], state.Turns[oldest+1:]...)
	}
}
