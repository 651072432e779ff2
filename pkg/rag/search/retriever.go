package search

import (
	"context"
	"fmt"

	"ai-helpdesk-be/internal/repository/contract"
	"ai-helpdesk-be/pkg/embedding"
	"ai-helpdesk-be/pkg/schema"
)

// Retriever turns the refined query into ranked candidates: embed once,
// then cosine-distance search scoped to the workspace.
type Retriever struct {
	embedder    embedding.Provider
	contentRepo contract.ContentRepository
	topN        int
}

func NewRetriever(embedder embedding.Provider, contentRepo contract.ContentRepository, topN int) *Retriever {
	if topN <= 0 {
		topN = 4
	}
	return &Retriever{
		embedder:    embedder,
		contentRepo: contentRepo,
		topN:        topN,
	}
}

// Retrieve populates resp.SearchResults in rank order. No-op when the
// response is already rejected.
func (r *Retriever) Retrieve(ctx context.Context, query *schema.RefinedQuery, resp *schema.QueryResponse) error {
	if resp.IsError() {
		return nil
	}

	vector, err := r.embedder.Embed(ctx, query.Text)
	if err != nil {
		return fmt.Errorf("embed query: %w", err)
	}

	scored, err := r.contentRepo.SearchSimilar(ctx, vector, r.topN, query.WorkspaceID)
	if err != nil {
		return fmt.Errorf("vector search: %w", err)
	}

	candidates := make([]schema.Candidate, len(scored))
	titles := make([]string, len(scored))
	for i, s := range scored {
		candidates[i] = schema.Candidate{
			ContentID: s.Snippet.Id.String(),
			Title:     s.Snippet.Title,
			Text:      s.Snippet.Text,
			Distance:  s.Distance,
		}
		titles[i] = s.Snippet.Title
	}

	resp.SearchResults = candidates
	resp.Trace("retrieved_titles", titles)
	return nil
}
