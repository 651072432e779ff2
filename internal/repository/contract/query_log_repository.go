package contract

import (
	"context"

	"ai-helpdesk-be/internal/entity"
	"ai-helpdesk-be/internal/repository/specification"
)

type QueryLogRepository interface {
	Create(ctx context.Context, log *entity.QueryLog) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.QueryLog, error)
}
