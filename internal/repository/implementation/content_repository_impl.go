package implementation

import (
	"context"
	"errors"

	"ai-helpdesk-be/internal/entity"
	"ai-helpdesk-be/internal/mapper"
	"ai-helpdesk-be/internal/model"
	"ai-helpdesk-be/internal/repository/contract"
	"ai-helpdesk-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type ContentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ContentMapper
}

func NewContentRepository(db *gorm.DB) contract.ContentRepository {
	return &ContentRepositoryImpl{
		db:     db,
		mapper: mapper.NewContentMapper(),
	}
}

func (r *ContentRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ContentRepositoryImpl) Create(ctx context.Context, snippet *entity.ContentSnippet) error {
	m := r.mapper.ToModel(snippet)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*snippet = *r.mapper.ToEntity(m)
	return nil
}

func (r *ContentRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ContentSnippet, error) {
	var m model.ContentSnippet
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ContentRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ContentSnippet, error) {
	var models []*model.ContentSnippet
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ContentRepositoryImpl) SearchSimilar(ctx context.Context, embedding []float32, limit int, workspaceId uuid.UUID) ([]*contract.ScoredSnippet, error) {
	if limit <= 0 {
		limit = 5
	}

	// Raw select to surface the cosine distance alongside the row.
	// pgvector: embedding <=> vector is cosine distance (0 = identical).
	type result struct {
		model.ContentSnippet
		Distance float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("content_snippets").
		Select("content_snippets.*, embedding <=> ? as distance", queryVector).
		Where("workspace_id = ?", workspaceId).
		Where("deleted_at IS NULL").
		Order("distance ASC").
		Limit(limit).
		Scan(&results).Error

	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredSnippet, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredSnippet{
			Snippet:  r.mapper.ToEntity(&res.ContentSnippet),
			Distance: res.Distance,
		}
	}
	return scored, nil
}
