package entity

import (
	"time"

	"github.com/google/uuid"
)

// ContentSnippet is one workspace knowledge snippet served to the RAG
// pipeline. Embedding is precomputed at ingestion time.
type ContentSnippet struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey"`
	WorkspaceId uuid.UUID `gorm:"type:uuid;index"`
	Title       string
	Text        string
	Embedding   []float32
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	DeletedAt   *time.Time
	IsDeleted   bool
}
