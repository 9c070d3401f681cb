package driving

import (
	"context"

	"github.com/custodia-labs/quarry-cli/internal/core/domain"
)

// QueryService answers similarity queries over the indexed corpus.
// It is a pure read path and safe to run concurrently with other reads.
type QueryService interface {
	// Answer embeds the query, searches the index, optionally
	// reranks, and assembles results with snippets.
	Answer(ctx context.Context, query string, opts domain.QueryOptions) ([]domain.QueryResult, error)
}
