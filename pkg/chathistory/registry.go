package chathistory

import (
	"context"
	"fmt"
)

// Limits are the context-length parameters of one model.
type Limits struct {
	MaxInputTokens  int
	MaxOutputTokens int
}

// ModelRegistry resolves the context-length limits of a model.
type ModelRegistry interface {
	GetLimits(ctx context.Context, model string) (Limits, error)
}

// ConfigRegistry serves limits from configuration with optional
// per-model overrides.
type ConfigRegistry struct {
	defaults  Limits
	overrides map[string]Limits
}

func NewConfigRegistry(defaults Limits, overrides map[string]Limits) *ConfigRegistry {
	if overrides == nil {
		overrides = map[string]Limits{}
	}
	return &ConfigRegistry{defaults: defaults, overrides: overrides}
}

func (r *ConfigRegistry) GetLimits(ctx context.Context, model string) (Limits, error) {
	if limits, ok := r.overrides[model]; ok {
		return limits, nil
	}
	if r.defaults.MaxInputTokens <= 0 {
		return Limits{}, fmt.Errorf("no context limits configured for model %s", model)
	}
	return r.defaults, nil
}
