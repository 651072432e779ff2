package implementation

import (
	"context"
	"encoding/json"
	"fmt"

	"ai-helpdesk-be/internal/entity"
	"ai-helpdesk-be/internal/model"
	"ai-helpdesk-be/internal/repository/contract"
	"ai-helpdesk-be/internal/repository/specification"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QueryLogRepositoryImpl struct {
	db *gorm.DB
}

func NewQueryLogRepository(db *gorm.DB) contract.QueryLogRepository {
	return &QueryLogRepositoryImpl{db: db}
}

func (r *QueryLogRepositoryImpl) Create(ctx context.Context, log *entity.QueryLog) error {
	debugJSON, err := json.Marshal(log.DebugInfo)
	if err != nil {
		return fmt.Errorf("marshal debug info: %w", err)
	}

	m := &model.QueryLog{
		Id:           log.Id,
		QueryId:      log.QueryId,
		WorkspaceId:  log.WorkspaceId,
		SessionId:    log.SessionId,
		QueryText:    log.QueryText,
		ResponseText: log.ResponseText,
		ErrorKind:    log.ErrorKind,
		DebugInfo:    datatypes.JSON(debugJSON),
		CreatedAt:    log.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	log.Id = m.Id
	log.CreatedAt = m.CreatedAt
	return nil
}

func (r *QueryLogRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.QueryLog, error) {
	query := r.db.WithContext(ctx)
	for _, spec := range specs {
		query = spec.Apply(query)
	}

	var models []*model.QueryLog
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	logs := make([]*entity.QueryLog, len(models))
	for i, m := range models {
		var debug map[string]interface{}
		if len(m.DebugInfo) > 0 {
			_ = json.Unmarshal(m.DebugInfo, &debug)
		}
		logs[i] = &entity.QueryLog{
			Id:           m.Id,
			QueryId:      m.QueryId,
			WorkspaceId:  m.WorkspaceId,
			SessionId:    m.SessionId,
			QueryText:    m.QueryText,
			ResponseText: m.ResponseText,
			ErrorKind:    m.ErrorKind,
			DebugInfo:    debug,
			CreatedAt:    m.CreatedAt,
		}
	}
	return logs, nil
}
