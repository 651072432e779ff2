package service

import (
	"context"
	"time"

	"ai-helpdesk-be/internal/dto"
	"ai-helpdesk-be/internal/entity"
	"ai-helpdesk-be/internal/pkg/logger"
	"ai-helpdesk-be/internal/repository/contract"
	"ai-helpdesk-be/pkg/alignment"
	"ai-helpdesk-be/pkg/chathistory"
	"ai-helpdesk-be/pkg/events"
	"ai-helpdesk-be/pkg/llm"
	"ai-helpdesk-be/pkg/nats"
	"ai-helpdesk-be/pkg/rag/response"
	"ai-helpdesk-be/pkg/rag/search"
	"ai-helpdesk-be/pkg/rails"
	"ai-helpdesk-be/pkg/schema"
	"ai-helpdesk-be/pkg/voice"

	"github.com/google/uuid"
)

type IQueryService interface {
	Search(ctx context.Context, req *dto.SearchRequest) (*dto.SearchResponse, error)
	ResetChat(ctx context.Context, sessionId string) error
}

type queryService struct {
	railRunner   *rails.Runner
	retriever    *search.Retriever
	generator    *response.Generator
	checker      *alignment.Checker
	chatManager  *chathistory.Manager
	synthesizer  voice.Synthesizer
	queryLogRepo contract.QueryLogRepository
	natsPub      *nats.Publisher
	logger       logger.ILogger
}

func NewQueryService(
	railRunner *rails.Runner,
	retriever *search.Retriever,
	generator *response.Generator,
	checker *alignment.Checker,
	chatManager *chathistory.Manager,
	synthesizer voice.Synthesizer,
	queryLogRepo contract.QueryLogRepository,
	natsPub *nats.Publisher,
	sysLogger logger.ILogger,
) IQueryService {
	return &queryService{
		railRunner:   railRunner,
		retriever:    retriever,
		generator:    generator,
		checker:      checker,
		chatManager:  chatManager,
		synthesizer:  synthesizer,
		queryLogRepo: queryLogRepo,
		natsPub:      natsPub,
		logger:       sysLogger,
	}
}

// Search runs the full pipeline for one user turn: input rails, retrieval,
// answer generation, the alignment output rail, optional speech synthesis,
// then history bookkeeping and the audit log. Domain failures travel inside
// the response object; a returned error is an infrastructure fault.
func (s *queryService) Search(ctx context.Context, req *dto.SearchRequest) (*dto.SearchResponse, error) {
	query := schema.NewRefinedQuery(req.WorkspaceId, req.SessionId, req.Query, req.WantsAnswer(), req.GenerateSpeech)
	resp := schema.NewQueryResponse(query.QueryID)

	var state *schema.ChatState
	if req.SessionId != "" {
		var err error
		state, err = s.chatManager.Init(ctx, req.SessionId, req.ResetChat)
		if err != nil {
			return nil, err
		}
	}

	if err := s.railRunner.Run(ctx, query, resp); err != nil {
		return nil, err
	}

	if err := s.retriever.Retrieve(ctx, query, resp); err != nil {
		return nil, err
	}

	if err := s.generator.Generate(ctx, query, resp, s.conversationTurns(state)); err != nil {
		return nil, err
	}

	if err := s.checker.Check(ctx, resp); err != nil {
		return nil, err
	}

	s.synthesizeSpeech(ctx, query, resp)
	s.recordChatTurns(ctx, query, resp, state)
	s.persistQueryLog(ctx, query, resp)
	s.publishProcessed(ctx, query, resp)

	return dto.NewSearchResponse(resp), nil
}

func (s *queryService) ResetChat(ctx context.Context, sessionId string) error {
	return s.chatManager.Reset(ctx, sessionId)
}

// conversationTurns renders the prior history without the session's system
// turn; the prompt builder supplies its own system instruction.
func (s *queryService) conversationTurns(state *schema.ChatState) []llm.Message {
	if state == nil {
		return nil
	}
	all := s.chatManager.Messages(state)
	turns := make([]llm.Message, 0, len(all))
	for _, m := range all {
		if m.Role == schema.RoleSystem {
			continue
		}
		turns = append(turns, m)
	}
	return turns
}

func (s *queryService) synthesizeSpeech(ctx context.Context, query *schema.RefinedQuery, resp *schema.QueryResponse) {
	if !query.GenerateSpeech || resp.IsError() || resp.Answer == nil {
		return
	}

	path, err := s.synthesizer.Synthesize(ctx, *resp.Answer, query.Language)
	if err != nil {
		s.logger.Error("query", "speech synthesis failed", map[string]interface{}{
			"query_id": query.QueryID.String(),
			"error":    err.Error(),
		})
		resp.Answer = nil
		resp.Fail(schema.ErrorKindSpeechSynthFailed, "unable to synthesize speech for the answer")
		return
	}
	resp.TTSFilePath = &path
}

// recordChatTurns appends the refined user turn and the assistant answer
// once the pipeline succeeded. Rejected queries leave the history
// untouched. Truncation runs on the final append so the stored history
// always fits the model's context budget.
func (s *queryService) recordChatTurns(ctx context.Context, query *schema.RefinedQuery, resp *schema.QueryResponse, state *schema.ChatState) {
	if state == nil || resp.Answer == nil {
		return
	}

	userTurn := schema.NewChatTurn(schema.RoleUser, query.Text)
	if err := s.chatManager.Append(ctx, state, userTurn, false); err != nil {
		s.logger.Warn("query", "failed to persist user turn", map[string]interface{}{
			"session_id": state.SessionID,
			"error":      err.Error(),
		})
		return
	}

	assistantTurn := schema.NewChatTurn(schema.RoleAssistant, *resp.Answer)
	if err := s.chatManager.Append(ctx, state, assistantTurn, true); err != nil {
		s.logger.Warn("query", "failed to persist assistant turn", map[string]interface{}{
			"session_id": state.SessionID,
			"error":      err.Error(),
		})
	}
}

func (s *queryService) persistQueryLog(ctx context.Context, query *schema.RefinedQuery, resp *schema.QueryResponse) {
	record := &entity.QueryLog{
		Id:          uuid.New(),
		QueryId:     query.QueryID,
		WorkspaceId: query.WorkspaceID,
		SessionId:   query.SessionID,
		QueryText:   query.OriginalText,
		DebugInfo:   resp.DebugInfo,
		CreatedAt:   time.Now(),
	}
	if resp.Answer != nil {
		record.ResponseText = *resp.Answer
	}
	if resp.Err != nil {
		record.ErrorKind = string(resp.Err.Kind)
	}

	if err := s.queryLogRepo.Create(ctx, record); err != nil {
		s.logger.Error("query", "failed to persist query log", map[string]interface{}{
			"query_id": query.QueryID.String(),
			"error":    err.Error(),
		})
	}
}

func (s *queryService) publishProcessed(ctx context.Context, query *schema.RefinedQuery, resp *schema.QueryResponse) {
	if s.natsPub == nil {
		return
	}
	errorKind := ""
	if resp.Err != nil {
		errorKind = string(resp.Err.Kind)
	}
	event := events.NewQueryProcessed(query.QueryID.String(), query.WorkspaceID.String(), errorKind)
	if err := s.natsPub.Publish(ctx, event); err != nil {
		s.logger.Warn("query", "failed to publish query event", map[string]interface{}{
			"query_id": query.QueryID.String(),
			"error":    err.Error(),
		})
	}
}
