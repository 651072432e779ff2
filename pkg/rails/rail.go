package rails

import (
	"context"
	"fmt"

	"ai-helpdesk-be/internal/pkg/logger"
	"ai-helpdesk-be/pkg/schema"
)

// Rail is one input guardrail stage. A rail may mutate the refined query,
// reject the response, and record trace entries; it must be a pass-through
// when the response is already rejected. Returned errors are
// infrastructure failures only and abort the pipeline.
type Rail interface {
	Name() string
	Apply(ctx context.Context, query *schema.RefinedQuery, resp *schema.QueryResponse) error
}

// Runner drives an explicit ordered list of rails. The order of the slice
// is the only cross-stage coupling: rails communicate exclusively through
// the RefinedQuery/QueryResponse pair.
type Runner struct {
	rails  []Rail
	logger logger.ILogger
}

func NewRunner(log logger.ILogger, stages ...Rail) *Runner {
	return &Runner{rails: stages, logger: log}
}

// Run invokes every rail in order. Rails after a rejection are still
// invoked (they no-op), so each one gets the chance to merge its own
// debug entries without resurrecting the answer.
func (r *Runner) Run(ctx context.Context, query *schema.RefinedQuery, resp *schema.QueryResponse) error {
	for _, rail := range r.rails {
		if err := rail.Apply(ctx, query, resp); err != nil {
			return fmt.Errorf("rail %s: %w", rail.Name(), err)
		}
		if resp.IsError() {
			r.logger.Info("rails", "query rejected", map[string]interface{}{
				"rail":     rail.Name(),
				"kind":     string(resp.Err.Kind),
				"query_id": query.QueryID.String(),
			})
		}
	}
	return nil
}
