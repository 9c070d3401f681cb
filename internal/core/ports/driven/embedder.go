package driven

import (
	"context"

	"github.com/custodia-labs/quarry-cli/internal/core/domain"
)

// Embedder maps text to a fixed-dimension vector. It is a capability
// interface: concrete models are interchangeable implementations
// selected by configuration, never a class hierarchy.
//
// Implementations must be deterministic for identical input text under
// a given model version, so repeated calls produce vectors the index
// can treat as stable for dimension checking.
type Embedder interface {
	// Embed generates an embedding for the given text.
	Embed(ctx context.Context, text string) (domain.Embedding, error)

	// EmbedBatch generates embeddings for multiple texts.
	// More efficient than calling Embed in a loop for large batches.
	EmbedBatch(ctx context.Context, texts []string) ([]domain.Embedding, error)

	// Dimensions returns the fixed output vector size.
	// This must match the vector index's established dimension.
	Dimensions() int

	// ModelName returns the embedder/model identifier.
	ModelName() string

	// Close releases resources.
	Close() error
}
