package alignment

import (
	"context"
	"testing"

	"ai-helpdesk-be/pkg/schema"

	"github.com/google/uuid"
)

type stubScorer struct {
	score  float64
	reason string
	calls  int
}

func (s *stubScorer) Score(ctx context.Context, evidence, claim string) (float64, string, error) {
	s.calls++
	return s.score, s.reason, nil
}

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

func answeredResponse() *schema.QueryResponse {
	resp := schema.NewQueryResponse(uuid.New())
	answer := "Widgets ship in five days."
	resp.Answer = &answer
	resp.SearchResults = []schema.Candidate{
		{ContentID: "c1", Title: "Shipping", Text: "Widgets ship within five business days.", Distance: 0.1},
	}
	return resp
}

func TestCheckRejectsLowScore(t *testing.T) {
	scorer := &stubScorer{score: 0.4, reason: "claim not supported"}
	checker := NewChecker(MethodLLM, scorer, 0.7, nopLogger{})
	resp := answeredResponse()

	if err := checker.Check(context.Background(), resp); err != nil {
		t.Fatalf("Check returned error: %v", err)
	}

	if !resp.IsError() || resp.Err.Kind != schema.ErrorKindAlignmentTooLow {
		t.Fatalf("Err = %+v, want kind %s", resp.Err, schema.ErrorKindAlignmentTooLow)
	}
	if resp.Answer != nil {
		t.Error("a rejected answer must be cleared")
	}
	if len(resp.SearchResults) == 0 {
		t.Error("search results must survive the rejection")
	}
	if _, ok := resp.DebugInfo["factual_consistency"]; !ok {
		t.Error("factual_consistency must be traced")
	}
}

func TestCheckAcceptsHighScore(t *testing.T) {
	scorer := &stubScorer{score: 0.9, reason: "fully supported"}
	checker := NewChecker(MethodAlignScore, scorer, 0.7, nopLogger{})
	resp := answeredResponse()

	if err := checker.Check(context.Background(), resp); err != nil {
		t.Fatalf("Check returned error: %v", err)
	}

	if resp.IsError() {
		t.Fatalf("unexpected rejection: %+v", resp.Err)
	}
	if resp.Answer == nil {
		t.Error("an accepted answer must stand")
	}
}

func TestCheckScoreAtThresholdPasses(t *testing.T) {
	scorer := &stubScorer{score: 0.7}
	checker := NewChecker(MethodLLM, scorer, 0.7, nopLogger{})
	resp := answeredResponse()

	if err := checker.Check(context.Background(), resp); err != nil {
		t.Fatalf("Check returned error: %v", err)
	}
	if resp.IsError() {
		t.Error("a score equal to the threshold must pass")
	}
}

func TestCheckDisabledSkipsScorer(t *testing.T) {
	scorer := &stubScorer{score: 0.0}
	checker := NewChecker(MethodDisabled, scorer, 0.7, nopLogger{})
	resp := answeredResponse()

	if err := checker.Check(context.Background(), resp); err != nil {
		t.Fatalf("Check returned error: %v", err)
	}

	if scorer.calls != 0 {
		t.Error("disabled checker must not invoke the scorer")
	}
	if resp.IsError() {
		t.Error("disabled checker must not reject")
	}
}

func TestCheckNoOpWithoutAnswerOrResults(t *testing.T) {
	scorer := &stubScorer{score: 0.0}
	checker := NewChecker(MethodLLM, scorer, 0.7, nopLogger{})

	noAnswer := schema.NewQueryResponse(uuid.New())
	noAnswer.SearchResults = []schema.Candidate{{ContentID: "c1"}}
	if err := checker.Check(context.Background(), noAnswer); err != nil {
		t.Fatalf("Check returned error: %v", err)
	}

	noResults := schema.NewQueryResponse(uuid.New())
	answer := "unsupported claim"
	noResults.Answer = &answer
	if err := checker.Check(context.Background(), noResults); err != nil {
		t.Fatalf("Check returned error: %v", err)
	}

	if scorer.calls != 0 {
		t.Error("nothing to score, scorer must not be invoked")
	}
}

func TestValidMethod(t *testing.T) {
	tests := []struct {
		method string
		want   bool
	}{
		{MethodLLM, true},
		{MethodAlignScore, true},
		{MethodDisabled, true},
		{"llm", false},
		{"ALIGNSCORE", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := ValidMethod(tt.method); got != tt.want {
			t.Errorf("ValidMethod(%q) = %v, want %v", tt.method, got, tt.want)
		}
	}
}

func TestCheckNoOpOnRejectedResponse(t *testing.T) {
	scorer := &stubScorer{score: 0.0}
	checker := NewChecker(MethodLLM, scorer, 0.7, nopLogger{})
	resp := answeredResponse()
	resp.Fail(schema.ErrorKindUnsafeInput, "already rejected")

	if err := checker.Check(context.Background(), resp); err != nil {
		t.Fatalf("Check returned error: %v", err)
	}

	if scorer.calls != 0 {
		t.Error("an already rejected response must not be scored")
	}
	if resp.Err.Kind != schema.ErrorKindUnsafeInput {
		t.Error("the earlier rejection must stand")
	}
}
