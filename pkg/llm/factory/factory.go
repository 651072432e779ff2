package factory

import (
	"fmt"

	"ai-helpdesk-be/pkg/llm"
	"ai-helpdesk-be/pkg/llm/ollama"
	"ai-helpdesk-be/pkg/llm/openai"
)

// NewProvider selects the LLM backend by name.
// Supported: "openai" (any OpenAI-compatible endpoint), "ollama".
func NewProvider(providerName, modelName, apiKey, baseURL string) (llm.Provider, error) {
	switch providerName {
	case "openai":
		return openai.NewOpenAIProvider(apiKey, baseURL, modelName), nil
	case "ollama":
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", providerName)
	}
}
