package prompt

import (
	"fmt"
	"strings"

	"ai-helpdesk-be/pkg/llm"
	"ai-helpdesk-be/pkg/schema"
)

// ContextualBuilder assembles the grounded-answer prompt for one query:
// retrieved candidates in rank order, optional prior chat turns, and the
// fixed system instruction.
type ContextualBuilder struct {
	query      *schema.RefinedQuery
	candidates []schema.Candidate
	history    []llm.Message
}

func NewContextualBuilder(query *schema.RefinedQuery, candidates []schema.Candidate, history []llm.Message) *ContextualBuilder {
	return &ContextualBuilder{
		query:      query,
		candidates: candidates,
		history:    history,
	}
}

// BuildSystem creates the system instruction demanding grounded answers
// phrased in the detected language.
func (b *ContextualBuilder) BuildSystem() string {
	var prompt strings.Builder

	prompt.WriteString("<task>\n")
	prompt.WriteString("You are a helpful assistant answering user questions from a knowledge base.\n")
	prompt.WriteString("Answer ONLY from the reference material below. Never use outside knowledge.\n")
	prompt.WriteString(fmt.Sprintf("Phrase your answer in %s.\n", b.query.Language))
	prompt.WriteString("</task>\n\n")

	b.writeReferenceMaterial(&prompt)

	prompt.WriteString("<output_format>\n")
	prompt.WriteString("Respond ONLY with a JSON object:\n")
	prompt.WriteString(`{"extracted_info": ["<verbatim snippets from the material that support the answer>"], "answer": "<your answer>"}`)
	prompt.WriteString("\n")
	prompt.WriteString(fmt.Sprintf("If the material does not contain the answer, set \"answer\" to exactly %q.\n", llm.FailureMarker))
	prompt.WriteString("</output_format>")

	return prompt.String()
}

// BuildMessages returns the full message list: system instruction, prior
// chat turns (oldest first), then the current question.
func (b *ContextualBuilder) BuildMessages() []llm.Message {
	messages := make([]llm.Message, 0, len(b.history)+2)
	messages = append(messages, llm.Message{Role: schema.RoleSystem, Content: b.BuildSystem()})
	messages = append(messages, b.history...)
	messages = append(messages, llm.Message{Role: schema.RoleUser, Content: b.query.Text})
	return messages
}

func (b *ContextualBuilder) writeReferenceMaterial(prompt *strings.Builder) {
	prompt.WriteString("<reference_material>\n")
	for i, c := range b.candidates {
		prompt.WriteString(fmt.Sprintf("[%d] %s\n", i+1, c.Title))
		prompt.WriteString(c.Text)
		prompt.WriteString("\n\n")
	}
	prompt.WriteString("</reference_material>\n\n")
}
