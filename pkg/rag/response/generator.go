package response

import (
	"context"
	"encoding/json"
	"fmt"

	"ai-helpdesk-be/internal/pkg/logger"
	"ai-helpdesk-be/pkg/llm"
	"ai-helpdesk-be/pkg/rag/prompt"
	"ai-helpdesk-be/pkg/schema"
)

type generatedAnswer struct {
	ExtractedInfo []string `json:"extracted_info"`
	Answer        string   `json:"answer"`
}

// Generator produces the grounded answer from the retrieved candidates.
type Generator struct {
	provider llm.Provider
	logger   logger.ILogger
}

func NewGenerator(provider llm.Provider, log logger.ILogger) *Generator {
	return &Generator{provider: provider, logger: log}
}

// Generate invokes the completion capability over the candidate context
// and parses the structured answer. No-op on a rejected response or when
// no answer was requested. A guarded failure in the model output becomes
// a generation-failure rejection; extracted snippets are still traced.
func (g *Generator) Generate(ctx context.Context, query *schema.RefinedQuery, resp *schema.QueryResponse, history []llm.Message) error {
	if resp.IsError() || !query.GenerateAnswer {
		return nil
	}

	builder := prompt.NewContextualBuilder(query, resp.SearchResults, history)
	raw, err := g.provider.Chat(ctx, builder.BuildMessages(), llm.WithJSONMode())
	if err != nil {
		return fmt.Errorf("generate answer: %w", err)
	}

	var parsed generatedAnswer
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return fmt.Errorf("generate answer: malformed reply %q: %w", raw, err)
	}

	resp.Trace("extracted_info", parsed.ExtractedInfo)

	if result := llm.Guard(parsed.Answer); result.Failed {
		g.logger.Info("rag", "no grounded answer", map[string]interface{}{
			"query_id": query.QueryID.String(),
		})
		resp.Fail(schema.ErrorKindGenerationFailed, "unable to generate an answer from the available content")
		return nil
	}

	answer := parsed.Answer
	resp.Answer = &answer
	return nil
}
