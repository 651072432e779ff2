package response

import (
	"context"
	"fmt"
	"testing"

	"ai-helpdesk-be/pkg/llm"
	"ai-helpdesk-be/pkg/schema"

	"github.com/google/uuid"
)

type stubProvider struct {
	reply string
	calls int
}

func (p *stubProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	p.calls++
	return p.reply, nil
}

func (p *stubProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: schema.RoleUser, Content: prompt}}, options...)
}

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

func retrievedQuery() (*schema.RefinedQuery, *schema.QueryResponse) {
	q := schema.NewRefinedQuery(uuid.New(), "s1", "when do widgets ship", true, false)
	q.Language = "ENGLISH"
	resp := schema.NewQueryResponse(q.QueryID)
	resp.SearchResults = []schema.Candidate{
		{ContentID: "c1", Title: "Shipping", Text: "Widgets ship within five business days.", Distance: 0.1},
	}
	return q, resp
}

func TestGenerateSetsAnswer(t *testing.T) {
	provider := &stubProvider{reply: `{"extracted_info": ["Widgets ship within five business days."], "answer": "They ship within five business days."}`}
	g := NewGenerator(provider, nopLogger{})
	q, resp := retrievedQuery()

	if err := g.Generate(context.Background(), q, resp, nil); err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	if resp.Answer == nil || *resp.Answer != "They ship within five business days." {
		t.Fatalf("Answer = %v, want the parsed answer", resp.Answer)
	}
	if _, ok := resp.DebugInfo["extracted_info"]; !ok {
		t.Error("extracted_info must be traced")
	}
}

func TestGenerateFailureMarkerRejects(t *testing.T) {
	provider := &stubProvider{reply: fmt.Sprintf(`{"extracted_info": ["partial snippet"], "answer": %q}`, llm.FailureMarker)}
	g := NewGenerator(provider, nopLogger{})
	q, resp := retrievedQuery()

	if err := g.Generate(context.Background(), q, resp, nil); err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	if !resp.IsError() || resp.Err.Kind != schema.ErrorKindGenerationFailed {
		t.Fatalf("Err = %+v, want kind %s", resp.Err, schema.ErrorKindGenerationFailed)
	}
	if resp.Answer != nil {
		t.Error("no answer may be set on a guarded failure")
	}
	if _, ok := resp.DebugInfo["extracted_info"]; !ok {
		t.Error("extracted_info must still be traced on failure")
	}
}

func TestGenerateMalformedReplyIsInfrastructureError(t *testing.T) {
	provider := &stubProvider{reply: "not json at all"}
	g := NewGenerator(provider, nopLogger{})
	q, resp := retrievedQuery()

	if err := g.Generate(context.Background(), q, resp, nil); err == nil {
		t.Error("a malformed reply must surface as an error, not a rejection")
	}
	if resp.IsError() {
		t.Error("infrastructure faults must not set a domain rejection")
	}
}

func TestGenerateSkipsWhenNotRequested(t *testing.T) {
	provider := &stubProvider{reply: `{"answer": "x"}`}
	g := NewGenerator(provider, nopLogger{})
	q, resp := retrievedQuery()
	q.GenerateAnswer = false

	if err := g.Generate(context.Background(), q, resp, nil); err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	if provider.calls != 0 {
		t.Error("generation must be skipped when no answer was requested")
	}
}

func TestGenerateSkipsRejectedResponse(t *testing.T) {
	provider := &stubProvider{reply: `{"answer": "x"}`}
	g := NewGenerator(provider, nopLogger{})
	q, resp := retrievedQuery()
	resp.Fail(schema.ErrorKindUnsafeInput, "rejected upstream")

	if err := g.Generate(context.Background(), q, resp, nil); err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	if provider.calls != 0 {
		t.Error("generation must be skipped on a rejected response")
	}
	if resp.Err.Kind != schema.ErrorKindUnsafeInput {
		t.Error("the earlier rejection must stand")
	}
}
