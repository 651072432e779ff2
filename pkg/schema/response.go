package schema

import "github.com/google/uuid"

// ErrorKind enumerates the user-facing domain failures a query can end in.
type ErrorKind string

const (
	ErrorKindUnsafeInput       ErrorKind = "query_unsafe"
	ErrorKindOffTopic          ErrorKind = "off_topic"
	ErrorKindUnintelligible    ErrorKind = "unintelligible_input"
	ErrorKindUnsupportedLang   ErrorKind = "unsupported_language"
	ErrorKindUnsupportedScript ErrorKind = "unsupported_script"
	ErrorKindTranslationFailed ErrorKind = "translation_failed"
	ErrorKindParaphraseFailed  ErrorKind = "paraphrase_failed"
	ErrorKindGenerationFailed  ErrorKind = "unable_to_generate_response"
	ErrorKindAlignmentTooLow   ErrorKind = "alignment_too_low"
	ErrorKindSpeechSynthFailed ErrorKind = "unable_to_synthesize_speech"
)

// ResponseError carries the terminal domain failure of a query.
type ResponseError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// QueryResponse is the result object threaded through the rail pipeline.
// It is an Answer while Err is nil and an Error afterwards; once Err is
// set no stage may clear it or change its kind.
type QueryResponse struct {
	QueryID       uuid.UUID              `json:"query_id"`
	SearchResults []Candidate            `json:"search_results,omitempty"`
	Answer        *string                `json:"llm_response,omitempty"`
	TTSFilePath   *string                `json:"tts_file_path,omitempty"`
	DebugInfo     map[string]interface{} `json:"debug_info"`
	Err           *ResponseError         `json:"error,omitempty"`
}

// NewQueryResponse creates an Answer-variant response for a query.
func NewQueryResponse(queryID uuid.UUID) *QueryResponse {
	return &QueryResponse{
		QueryID:   queryID,
		DebugInfo: map[string]interface{}{},
	}
}

// IsError reports whether the response has already been rejected.
func (r *QueryResponse) IsError() bool {
	return r.Err != nil
}

// Fail converts the response to the Error variant. The first failure wins:
// later calls are ignored so a request carries exactly one terminal error.
func (r *QueryResponse) Fail(kind ErrorKind, message string) {
	if r.Err != nil {
		return
	}
	r.Err = &ResponseError{Kind: kind, Message: message}
}

// Trace records a debug entry. Stages record their decision here
// regardless of outcome so every rail verdict is auditable.
func (r *QueryResponse) Trace(key string, value interface{}) {
	if r.DebugInfo == nil {
		r.DebugInfo = map[string]interface{}{}
	}
	r.DebugInfo[key] = value
}
