package service

import (
	"context"
	"encoding/json"
	"fmt"

	"ai-helpdesk-be/internal/dto"
	"ai-helpdesk-be/internal/pkg/logger"
	"ai-helpdesk-be/internal/repository/contract"
	"ai-helpdesk-be/pkg/events"
	"ai-helpdesk-be/pkg/nats"
	"ai-helpdesk-be/pkg/schema"
	"ai-helpdesk-be/pkg/urgency"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

const UrgencyAlertTopic = "urgency_alert"

type IUrgencyService interface {
	Detect(ctx context.Context, req *dto.DetectUrgencyRequest) (*dto.DetectUrgencyResponse, error)
}

type urgencyService struct {
	ruleRepo       contract.UrgencyRuleRepository
	registry       *urgency.Registry
	classifierName string
	ruleCache      *gocache.Cache
	pubSub         *gochannel.GoChannel
	natsPub        *nats.Publisher
	logger         logger.ILogger
}

func NewUrgencyService(
	ruleRepo contract.UrgencyRuleRepository,
	registry *urgency.Registry,
	classifierName string,
	ruleCache *gocache.Cache,
	pubSub *gochannel.GoChannel,
	natsPub *nats.Publisher,
	sysLogger logger.ILogger,
) IUrgencyService {
	return &urgencyService{
		ruleRepo:       ruleRepo,
		registry:       registry,
		classifierName: classifierName,
		ruleCache:      ruleCache,
		pubSub:         pubSub,
		natsPub:        natsPub,
		logger:         sysLogger,
	}
}

// Detect runs the configured classifier over the workspace's rules. An
// urgent verdict fans out an alert on the internal bus (mail consumer)
// and an event on NATS; both are fire-and-forget.
func (s *urgencyService) Detect(ctx context.Context, req *dto.DetectUrgencyRequest) (*dto.DetectUrgencyResponse, error) {
	classifier, err := s.registry.Get(s.classifierName)
	if err != nil {
		return nil, err
	}

	rules, err := s.workspaceRules(ctx, req.WorkspaceId)
	if err != nil {
		return nil, fmt.Errorf("load urgency rules: %w", err)
	}

	result, err := classifier.Classify(ctx, req.Message, rules)
	if err != nil {
		return nil, fmt.Errorf("classify urgency: %w", err)
	}

	if result.IsUrgent {
		s.logger.Info("urgency", "urgent message detected", map[string]interface{}{
			"workspace_id":  req.WorkspaceId.String(),
			"classifier":    classifier.Name(),
			"matched_rules": result.MatchedRules,
		})
		s.publishAlert(ctx, req, result)
	}

	return &dto.DetectUrgencyResponse{
		Classifier: classifier.Name(),
		Result:     result,
	}, nil
}

// workspaceRules memoizes the rule set per workspace so repeated detection
// calls don't hammer the database.
func (s *urgencyService) workspaceRules(ctx context.Context, workspaceId uuid.UUID) ([]schema.UrgencyRule, error) {
	cacheKey := "urgency_rules:" + workspaceId.String()
	if cached, found := s.ruleCache.Get(cacheKey); found {
		return cached.([]schema.UrgencyRule), nil
	}

	stored, err := s.ruleRepo.FindByWorkspace(ctx, workspaceId)
	if err != nil {
		return nil, err
	}

	rules := make([]schema.UrgencyRule, len(stored))
	for i, r := range stored {
		rules[i] = schema.UrgencyRule{
			ID:          r.Id,
			WorkspaceID: r.WorkspaceId,
			Text:        r.RuleText,
			Embedding:   r.Embedding,
		}
	}

	s.ruleCache.Set(cacheKey, rules, gocache.DefaultExpiration)
	return rules, nil
}

func (s *urgencyService) publishAlert(ctx context.Context, req *dto.DetectUrgencyRequest, result *schema.UrgencyResult) {
	payload, err := json.Marshal(dto.UrgencyAlertMessage{
		WorkspaceId:  req.WorkspaceId,
		Message:      req.Message,
		MatchedRules: result.MatchedRules,
	})
	if err != nil {
		s.logger.Error("urgency", "failed to marshal alert", map[string]interface{}{"error": err.Error()})
		return
	}

	if err := s.pubSub.Publish(UrgencyAlertTopic, message.NewMessage(watermill.NewUUID(), payload)); err != nil {
		s.logger.Error("urgency", "failed to publish alert", map[string]interface{}{"error": err.Error()})
	}

	if s.natsPub != nil {
		event := events.NewUrgentMessageDetected(req.WorkspaceId.String(), req.Message, result.MatchedRules)
		if err := s.natsPub.Publish(ctx, event); err != nil {
			s.logger.Warn("urgency", "failed to publish urgency event", map[string]interface{}{"error": err.Error()})
		}
	}
}
