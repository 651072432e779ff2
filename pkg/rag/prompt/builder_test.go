package prompt

import (
	"strings"
	"testing"

	"ai-helpdesk-be/pkg/llm"
	"ai-helpdesk-be/pkg/schema"

	"github.com/google/uuid"
)

func TestBuildSystem(t *testing.T) {
	q := schema.NewRefinedQuery(uuid.New(), "s1", "when do widgets ship", true, false)
	q.Language = "ENGLISH"
	candidates := []schema.Candidate{
		{ContentID: "c1", Title: "Shipping Policy", Text: "Widgets ship within five business days."},
		{ContentID: "c2", Title: "Returns", Text: "Returns are accepted within 30 days."},
	}

	system := NewContextualBuilder(q, candidates, nil).BuildSystem()

	if !strings.Contains(system, "Phrase your answer in ENGLISH") {
		t.Error("system prompt must demand the detected language")
	}
	if !strings.Contains(system, "[1] Shipping Policy") || !strings.Contains(system, "[2] Returns") {
		t.Error("candidates must be numbered in rank order")
	}
	if !strings.Contains(system, llm.FailureMarker) {
		t.Error("system prompt must carry the failure marker protocol")
	}
}

func TestBuildMessagesOrder(t *testing.T) {
	q := schema.NewRefinedQuery(uuid.New(), "s1", "current question", true, false)
	q.Language = "ENGLISH"
	history := []llm.Message{
		{Role: schema.RoleUser, Content: "earlier question"},
		{Role: schema.RoleAssistant, Content: "earlier answer"},
	}

	messages := NewContextualBuilder(q, nil, history).BuildMessages()

	if len(messages) != 4 {
		t.Fatalf("len(messages) = %d, want 4", len(messages))
	}
	if messages[0].Role != schema.RoleSystem {
		t.Error("first message must be the system instruction")
	}
	if messages[1].Content != "earlier question" || messages[2].Content != "earlier answer" {
		t.Error("history must appear between system and the current question")
	}
	if messages[3].Role != schema.RoleUser || messages[3].Content != "current question" {
		t.Error("the current question must come last")
	}
}
