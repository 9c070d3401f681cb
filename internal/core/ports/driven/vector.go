package driven

import (
	"context"

	"github.com/custodia-labs/quarry-cli/internal/core/domain"
)

// VectorIndex stores chunk vectors with a metadata snapshot and
// answers exact cosine-similarity queries.
//
// Contract:
//   - The first Add fixes the index dimension; later vectors of a
//     different dimension fail with domain.ErrDimensionMismatch and
//     leave state untouched.
//   - Re-adding an existing chunk ID replaces its entry atomically;
//     concurrent readers observe either the old or the new entry,
//     never a partial one.
//   - Add/Remove are serialised (single writer); Search calls may run
//     concurrently and observe the most recently committed write set.
type VectorIndex interface {
	// Add inserts or atomically replaces the entry for a chunk ID.
	Add(ctx context.Context, chunkID string, embedding domain.Embedding, metadata map[string]any) error

	// Remove deletes an entry. Unknown IDs fail with domain.ErrNotFound.
	Remove(ctx context.Context, chunkID string) error

	// Search returns up to k entries ranked by cosine similarity,
	// highest first. filter is applied before ranking and truncation,
	// so k always refers to post-filter results. Exact score ties are
	// broken by ascending chunk ID for determinism.
	Search(ctx context.Context, query []float32, k int, filter domain.MetadataFilter) ([]VectorHit, error)

	// Len returns the number of stored entries.
	Len() int

	// Dimensions returns the established dimension, or 0 when empty.
	Dimensions() int

	// ModelID returns the model identifier recorded by the first Add.
	ModelID() string
}

// VectorHit is a single similarity search result.
type VectorHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// Score is the cosine similarity in [-1, 1].
	Score float64

	// Metadata is the stored metadata snapshot for the entry.
	Metadata map[string]any
}
