package mapper

import (
	"time"

	"ai-helpdesk-be/internal/entity"
	"ai-helpdesk-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type ContentMapper struct{}

func NewContentMapper() *ContentMapper {
	return &ContentMapper{}
}

func (m *ContentMapper) ToEntity(e *model.ContentSnippet) *entity.ContentSnippet {
	if e == nil {
		return nil
	}

	var deletedAt *time.Time
	if e.DeletedAt.Valid {
		t := e.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		updatedAt = &t
	}

	return &entity.ContentSnippet{
		Id:          e.Id,
		WorkspaceId: e.WorkspaceId,
		Title:       e.Title,
		Text:        e.Text,
		Embedding:   e.Embedding.Slice(),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   updatedAt,
		DeletedAt:   deletedAt,
		IsDeleted:   e.DeletedAt.Valid,
	}
}

func (m *ContentMapper) ToModel(e *entity.ContentSnippet) *model.ContentSnippet {
	if e == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if e.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *e.DeletedAt, Valid: true}
	} else if e.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	return &model.ContentSnippet{
		Id:          e.Id,
		WorkspaceId: e.WorkspaceId,
		Title:       e.Title,
		Text:        e.Text,
		Embedding:   pgvector.NewVector(e.Embedding),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   updatedAt,
		DeletedAt:   deletedAt,
	}
}

func (m *ContentMapper) ToEntities(snippets []*model.ContentSnippet) []*entity.ContentSnippet {
	entities := make([]*entity.ContentSnippet, len(snippets))
	for i, e := range snippets {
		entities[i] = m.ToEntity(e)
	}
	return entities
}
