package domain

import "context"

// MetadataFilter is a predicate over stored chunk metadata. A nil
// filter admits everything. Filtering happens before ranking and
// truncation so a result limit always refers to post-filter results.
type MetadataFilter func(metadata map[string]any) bool

// RerankCandidate is one entry of the candidate pool handed to a
// reranker: the chunk's identity, its full text, the similarity score
// from the index, and the stored metadata snapshot.
type RerankCandidate struct {
	ChunkID  string
	Text     string
	Score    float64
	Metadata map[string]any
}

// Reranker reorders and narrows a candidate pool using a signal other
// than the initial similarity score. It must return a subset of the
// candidates of size at most k. Ranking heuristics live outside the
// core; this is the injection point.
type Reranker func(ctx context.Context, query string, candidates []RerankCandidate, k int) ([]RerankCandidate, error)

// QueryOptions configures a similarity query.
type QueryOptions struct {
	// K is the maximum number of results. Must be positive.
	K int

	// Filter restricts candidates by stored metadata. Optional.
	Filter MetadataFilter

	// MinScore drops candidates scoring below the threshold.
	// Zero keeps the raw ranking contract.
	MinScore float64

	// Reranker, when set, receives an over-fetched candidate pool
	// and decides the final ordering. Optional.
	Reranker Reranker
}

// QueryResult is a single answer to a similarity query. Ephemeral:
// produced per query and never persisted.
type QueryResult struct {
	// ChunkID identifies the matched chunk.
	ChunkID string

	// Score is the cosine similarity in [-1, 1].
	Score float64

	// Snippet is a bounded excerpt of the chunk text for human
	// inspection.
	Snippet string

	// Metadata is the stored metadata snapshot for the chunk.
	Metadata map[string]any
}
