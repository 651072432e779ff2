package dto

import (
	"ai-helpdesk-be/pkg/schema"

	"github.com/google/uuid"
)

type SearchRequest struct {
	Query          string    `json:"query" validate:"required"`
	WorkspaceId    uuid.UUID `json:"workspace_id" validate:"required"`
	SessionId      string    `json:"session_id"`
	GenerateAnswer *bool     `json:"generate_answer"`
	GenerateSpeech bool      `json:"generate_speech"`
	ResetChat      bool      `json:"reset_chat"`
}

// WantsAnswer defaults to true when the flag is omitted.
func (r *SearchRequest) WantsAnswer() bool {
	return r.GenerateAnswer == nil || *r.GenerateAnswer
}

type SearchResponse struct {
	QueryId       uuid.UUID              `json:"query_id"`
	SearchResults []schema.Candidate     `json:"search_results"`
	Answer        *string                `json:"llm_response,omitempty"`
	TTSFilePath   *string                `json:"tts_file_path,omitempty"`
	DebugInfo     map[string]interface{} `json:"debug_info"`
	Error         *schema.ResponseError  `json:"error,omitempty"`
}

func NewSearchResponse(resp *schema.QueryResponse) *SearchResponse {
	return &SearchResponse{
		QueryId:       resp.QueryID,
		SearchResults: resp.SearchResults,
		Answer:        resp.Answer,
		TTSFilePath:   resp.TTSFilePath,
		DebugInfo:     resp.DebugInfo,
		Error:         resp.Err,
	}
}

type ResetChatRequest struct {
	SessionId string `json:"session_id" validate:"required"`
}
