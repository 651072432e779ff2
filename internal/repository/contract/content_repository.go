package contract

import (
	"context"

	"ai-helpdesk-be/internal/entity"
	"ai-helpdesk-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ScoredSnippet pairs a snippet with its vector distance to the query
// (cosine distance, lower = closer).
type ScoredSnippet struct {
	Snippet  *entity.ContentSnippet
	Distance float64
}

type ContentRepository interface {
	Create(ctx context.Context, snippet *entity.ContentSnippet) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ContentSnippet, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ContentSnippet, error)

	// SearchSimilar returns the top-N snippets of a workspace ranked by
	// cosine distance to the query vector, ascending.
	SearchSimilar(ctx context.Context, embedding []float32, limit int, workspaceId uuid.UUID) ([]*ScoredSnippet, error)
}
