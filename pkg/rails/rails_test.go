package rails

import (
	"context"
	"testing"

	"ai-helpdesk-be/pkg/llm"
	"ai-helpdesk-be/pkg/schema"

	"github.com/google/uuid"
)

type stubProvider struct {
	replies []string
	calls   int
}

func (p *stubProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	reply := p.replies[p.calls%len(p.replies)]
	p.calls++
	return reply, nil
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

func newTestQuery(text string) (*schema.RefinedQuery, *schema.QueryResponse) {
	q := schema.NewRefinedQuery(uuid.New(), "session-1", text, true, false)
	return q, schema.NewQueryResponse(q.QueryID)
}

func TestLanguageRail(t *testing.T) {
	tests := []struct {
		name         string
		reply        string
		wantKind     schema.ErrorKind
		wantLanguage string
		wantScript   string
	}{
		{
			name:         "supported language and script",
			reply:        `{"language": "ENGLISH", "script": "LATIN"}`,
			wantLanguage: "ENGLISH",
			wantScript:   "LATIN",
		},
		{
			name:         "unknown language is unintelligible",
			reply:        `{"language": "UNKNOWN", "script": "UNKNOWN"}`,
			wantKind:     schema.ErrorKindUnintelligible,
			wantLanguage: "UNKNOWN",
			wantScript:   "UNKNOWN",
		},
		{
			name:         "unsupported script outranks unsupported language",
			reply:        `{"language": "HINDI", "script": "DEVANAGARI"}`,
			wantKind:     schema.ErrorKindUnsupportedScript,
			wantLanguage: "HINDI",
			wantScript:   "DEVANAGARI",
		},
		{
			name:         "unsupported language in supported script",
			reply:        `{"language": "FRENCH", "script": "LATIN"}`,
			wantKind:     schema.ErrorKindUnsupportedLang,
			wantLanguage: "FRENCH",
			wantScript:   "LATIN",
		},
		{
			name:         "missing script is unsupported",
			reply:        `{"language": "ENGLISH", "script": ""}`,
			wantKind:     schema.ErrorKindUnsupportedScript,
			wantLanguage: "ENGLISH",
		},
		{
			name:         "lowercase reply is normalized",
			reply:        `{"language": "english", "script": "latin"}`,
			wantLanguage: "ENGLISH",
			wantScript:   "LATIN",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rail := NewLanguageRail(&stubProvider{replies: []string{tt.reply}}, []string{"ENGLISH"}, []string{"LATIN"})
			q, resp := newTestQuery("hello")

			if err := rail.Apply(context.Background(), q, resp); err != nil {
				t.Fatalf("Apply returned error: %v", err)
			}

			if q.Language != tt.wantLanguage {
				t.Errorf("Language = %q, want %q", q.Language, tt.wantLanguage)
			}
			if q.Script != tt.wantScript {
				t.Errorf("Script = %q, want %q", q.Script, tt.wantScript)
			}
			if tt.wantKind == "" {
				if resp.IsError() {
					t.Fatalf("unexpected rejection: %+v", resp.Err)
				}
			} else {
				if !resp.IsError() || resp.Err.Kind != tt.wantKind {
					t.Fatalf("Err = %+v, want kind %s", resp.Err, tt.wantKind)
				}
			}
			if _, ok := resp.DebugInfo["identified_language"]; !ok {
				t.Error("identified_language must be traced regardless of verdict")
			}
		})
	}
}

func TestSafetyRail(t *testing.T) {
	tests := []struct {
		name       string
		reply      string
		wantReject bool
	}{
		{
			name:  "safe message passes",
			reply: `{"classification": "SAFE"}`,
		},
		{
			name:       "prompt injection rejected",
			reply:      `{"classification": "PROMPT_INJECTION"}`,
			wantReject: true,
		},
		{
			name:       "inappropriate language rejected",
			reply:      `{"classification": "INAPPROPRIATE_LANGUAGE"}`,
			wantReject: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rail := NewSafetyRail(&stubProvider{replies: []string{tt.reply}})
			q, resp := newTestQuery("how do I reset my password")

			if err := rail.Apply(context.Background(), q, resp); err != nil {
				t.Fatalf("Apply returned error: %v", err)
			}

			if tt.wantReject {
				if !resp.IsError() || resp.Err.Kind != schema.ErrorKindUnsafeInput {
					t.Fatalf("Err = %+v, want kind %s", resp.Err, schema.ErrorKindUnsafeInput)
				}
			} else if resp.IsError() {
				t.Fatalf("unexpected rejection: %+v", resp.Err)
			}
			if _, ok := resp.DebugInfo["safety_classification"]; !ok {
				t.Error("safety_classification must be traced regardless of verdict")
			}
		})
	}
}

func TestTranslateRailNoOpWhenAlreadyTarget(t *testing.T) {
	provider := &stubProvider{replies: []string{"should not be called"}}
	rail := NewTranslateRail(provider, "ENGLISH")
	q, resp := newTestQuery("hello")
	q.Language = "ENGLISH"

	if err := rail.Apply(context.Background(), q, resp); err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}

	if provider.calls != 0 {
		t.Error("translate must not call the model when already in the target language")
	}
	if q.Text != "hello" {
		t.Errorf("Text = %q, want unchanged", q.Text)
	}
}

func TestTranslateRailRewritesText(t *testing.T) {
	rail := NewTranslateRail(&stubProvider{replies: []string{"hello"}}, "ENGLISH")
	q, resp := newTestQuery("hallo")
	q.Language = "GERMAN"

	if err := rail.Apply(context.Background(), q, resp); err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}

	if q.Text != "hello" {
		t.Errorf("Text = %q, want %q", q.Text, "hello")
	}
	if resp.DebugInfo["pre_translation_text"] != "hallo" {
		t.Error("pre_translation_text must record the original text")
	}
}

func TestTranslateRailFailureMarker(t *testing.T) {
	rail := NewTranslateRail(&stubProvider{replies: []string{llm.FailureMarker}}, "ENGLISH")
	q, resp := newTestQuery("???")
	q.Language = "GERMAN"

	if err := rail.Apply(context.Background(), q, resp); err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}

	if !resp.IsError() || resp.Err.Kind != schema.ErrorKindTranslationFailed {
		t.Fatalf("Err = %+v, want kind %s", resp.Err, schema.ErrorKindTranslationFailed)
	}
	if q.Text != "???" {
		t.Errorf("Text = %q, a failed translation must not rewrite the query", q.Text)
	}
}

func TestTranslateRailPanicsWithoutLanguage(t *testing.T) {
	rail := NewTranslateRail(&stubProvider{replies: []string{"x"}}, "ENGLISH")
	q, resp := newTestQuery("hello")

	defer func() {
		if recover() == nil {
			t.Error("expected panic when translate runs before language identification")
		}
	}()
	_ = rail.Apply(context.Background(), q, resp)
}

func TestParaphraseRail(t *testing.T) {
	tests := []struct {
		name     string
		reply    string
		wantText string
		wantKind schema.ErrorKind
	}{
		{
			name:     "question is refined",
			reply:    "How do I reset my password?",
			wantText: "How do I reset my password?",
		},
		{
			name:     "no recoverable question",
			reply:    llm.FailureMarker,
			wantText: "hi there!!",
			wantKind: schema.ErrorKindParaphraseFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rail := NewParaphraseRail(&stubProvider{replies: []string{tt.reply}})
			q, resp := newTestQuery("hi there!!")
			q.Language = "ENGLISH"

			if err := rail.Apply(context.Background(), q, resp); err != nil {
				t.Fatalf("Apply returned error: %v", err)
			}

			if q.Text != tt.wantText {
				t.Errorf("Text = %q, want %q", q.Text, tt.wantText)
			}
			if tt.wantKind != "" && (!resp.IsError() || resp.Err.Kind != tt.wantKind) {
				t.Fatalf("Err = %+v, want kind %s", resp.Err, tt.wantKind)
			}
		})
	}
}

type recordingRail struct {
	name    string
	invoked bool
	reject  schema.ErrorKind
}

func (r *recordingRail) Name() string { return r.name }

func (r *recordingRail) Apply(ctx context.Context, q *schema.RefinedQuery, resp *schema.QueryResponse) error {
	r.invoked = true
	if resp.IsError() {
		return nil
	}
	if r.reject != "" {
		resp.Fail(r.reject, r.name+" rejected")
	}
	return nil
}

func TestRunnerInvokesAllRailsAfterRejection(t *testing.T) {
	first := &recordingRail{name: "first", reject: schema.ErrorKindUnsafeInput}
	second := &recordingRail{name: "second", reject: schema.ErrorKindOffTopic}
	runner := NewRunner(nopLogger{}, first, second)
	q, resp := newTestQuery("hello")

	if err := runner.Run(context.Background(), q, resp); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if !second.invoked {
		t.Error("later rails must still be invoked after a rejection")
	}
	if resp.Err.Kind != schema.ErrorKindUnsafeInput {
		t.Errorf("Kind = %s, the first rejection must stand", resp.Err.Kind)
	}
}
