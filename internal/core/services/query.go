package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/quarry-cli/internal/core/domain"
	"github.com/custodia-labs/quarry-cli/internal/core/ports/driven"
	"github.com/custodia-labs/quarry-cli/internal/core/ports/driving"
	"github.com/custodia-labs/quarry-cli/internal/logger"
)

// Ensure QueryService implements the interface.
var _ driving.QueryService = (*QueryService)(nil)

// DefaultSnippetLength is the snippet budget in runes.
const DefaultSnippetLength = 200

// rerankOverfetch is the candidate pool multiplier handed to a
// reranker, so it can reorder beyond the final cut.
const rerankOverfetch = 3

// QueryService runs the read path of the pipeline.
type QueryService struct {
	store         driven.ChunkStore
	embedder      driven.Embedder
	index         driven.VectorIndex
	snippetLength int
}

// NewQueryService creates a query service. snippetLength bounds
// snippets in runes; non-positive means DefaultSnippetLength.
func NewQueryService(store driven.ChunkStore, embedder driven.Embedder, index driven.VectorIndex, snippetLength int) *QueryService {
	if snippetLength <= 0 {
		snippetLength = DefaultSnippetLength
	}
	return &QueryService{
		store:         store,
		embedder:      embedder,
		index:         index,
		snippetLength: snippetLength,
	}
}

// Answer embeds the query, searches the index, optionally reranks and
// assembles results. An embedder failure is fatal for the query; a
// chunk ID the store no longer knows is skipped, not an error.
func (s *QueryService) Answer(ctx context.Context, query string, opts domain.QueryOptions) ([]domain.QueryResult, error) {
	if opts.K <= 0 {
		return nil, fmt.Errorf("%w: k must be positive", domain.ErrInvalidInput)
	}

	logger.Section("Query")
	logger.Debug("Query: %q, k=%d", query, opts.K)

	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.QueryResult{}, nil
	}

	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	fetchK := opts.K
	if opts.Reranker != nil {
		fetchK = opts.K * rerankOverfetch
	}

	hits, err := s.index.Search(ctx, embedding.Vector, fetchK, opts.Filter)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}
	logger.Debug("Index returned %d candidates", len(hits))

	candidates := make([]domain.RerankCandidate, 0, len(hits))
	for _, hit := range hits {
		if hit.Score < opts.MinScore {
			continue
		}
		chunk, err := s.store.GetChunk(ctx, hit.ChunkID)
		if errors.Is(err, domain.ErrNotFound) {
			// The index is ahead of the store; a missing chunk
			// yields fewer results, never a failure.
			logger.Warn("Chunk %s in index but not in store", hit.ChunkID)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load chunk %s: %w", hit.ChunkID, err)
		}
		candidates = append(candidates, domain.RerankCandidate{
			ChunkID:  hit.ChunkID,
			Text:     chunk.Text,
			Score:    hit.Score,
			Metadata: hit.Metadata,
		})
	}

	if opts.Reranker != nil {
		reranked, err := opts.Reranker(ctx, query, candidates, opts.K)
		if err != nil {
			return nil, fmt.Errorf("rerank: %w", err)
		}
		candidates = reranked
	}

	if len(candidates) > opts.K {
		candidates = candidates[:opts.K]
	}

	results := make([]domain.QueryResult, 0, len(candidates))
	for _, c := range candidates {
		results = append(results, domain.QueryResult{
			ChunkID:  c.ChunkID,
			Score:    c.Score,
			Snippet:  s.snippet(c.Text),
			Metadata: c.Metadata,
		})
	}
	logger.Info("Returning %d results", len(results))
	return results, nil
}

// snippet bounds text to the snippet budget in runes, never splitting
// a multi-byte sequence.
func (s *QueryService) snippet(text string) string {
	if utf8.RuneCountInString(text) <= s.snippetLength {
		return text
	}
	runes := []rune(text)
	return string(runes[:s.snippetLength]) + "…"
}
