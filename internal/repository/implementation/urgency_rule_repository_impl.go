package implementation

import (
	"context"

	"ai-helpdesk-be/internal/entity"
	"ai-helpdesk-be/internal/mapper"
	"ai-helpdesk-be/internal/model"
	"ai-helpdesk-be/internal/repository/contract"
	"ai-helpdesk-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UrgencyRuleRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UrgencyRuleMapper
}

func NewUrgencyRuleRepository(db *gorm.DB) contract.UrgencyRuleRepository {
	return &UrgencyRuleRepositoryImpl{
		db:     db,
		mapper: mapper.NewUrgencyRuleMapper(),
	}
}

func (r *UrgencyRuleRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *UrgencyRuleRepositoryImpl) Create(ctx context.Context, rule *entity.UrgencyRule) error {
	m := r.mapper.ToModel(rule)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*rule = *r.mapper.ToEntity(m)
	return nil
}

func (r *UrgencyRuleRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UrgencyRule, error) {
	var models []*model.UrgencyRule
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *UrgencyRuleRepositoryImpl) FindByWorkspace(ctx context.Context, workspaceId uuid.UUID) ([]*entity.UrgencyRule, error) {
	return r.FindAll(ctx,
		specification.ByWorkspaceID{WorkspaceID: workspaceId},
		specification.OrderBy{Field: "created_at"},
	)
}
