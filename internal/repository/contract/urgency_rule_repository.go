package contract

import (
	"context"

	"ai-helpdesk-be/internal/entity"
	"ai-helpdesk-be/internal/repository/specification"

	"github.com/google/uuid"
)

type UrgencyRuleRepository interface {
	Create(ctx context.Context, rule *entity.UrgencyRule) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UrgencyRule, error)
	FindByWorkspace(ctx context.Context, workspaceId uuid.UUID) ([]*entity.UrgencyRule, error)
}
