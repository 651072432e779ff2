package mapper

import (
	"time"

	"ai-helpdesk-be/internal/entity"
	"ai-helpdesk-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type UrgencyRuleMapper struct{}

func NewUrgencyRuleMapper() *UrgencyRuleMapper {
	return &UrgencyRuleMapper{}
}

func (m *UrgencyRuleMapper) ToEntity(e *model.UrgencyRule) *entity.UrgencyRule {
	if e == nil {
		return nil
	}

	var updatedAt *time.Time
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		updatedAt = &t
	}

	return &entity.UrgencyRule{
		Id:          e.Id,
		WorkspaceId: e.WorkspaceId,
		RuleText:    e.RuleText,
		Embedding:   e.Embedding.Slice(),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *UrgencyRuleMapper) ToModel(e *entity.UrgencyRule) *model.UrgencyRule {
	if e == nil {
		return nil
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	return &model.UrgencyRule{
		Id:          e.Id,
		WorkspaceId: e.WorkspaceId,
		RuleText:    e.RuleText,
		Embedding:   pgvector.NewVector(e.Embedding),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *UrgencyRuleMapper) ToEntities(rules []*model.UrgencyRule) []*entity.UrgencyRule {
	entities := make([]*entity.UrgencyRule, len(rules))
	for i, e := range rules {
		entities[i] = m.ToEntity(e)
	}
	return entities
}
