package driven

import (
	"context"

	"github.com/custodia-labs/quarry-cli/internal/core/domain"
)

// ChunkStore persists documents and their chunks. Chunk IDs stored in
// the vector index are weak back-references resolved here at query
// time (lookup only, no ownership).
type ChunkStore interface {
	// SaveDocument stores a document record.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// FindDocumentByHash retrieves a document by content hash.
	// Returns domain.ErrNotFound when absent.
	FindDocumentByHash(ctx context.Context, hash string) (*domain.Document, error)

	// FindDocumentByPath retrieves a document by source path.
	// Returns domain.ErrNotFound when absent.
	FindDocumentByPath(ctx context.Context, path string) (*domain.Document, error)

	// ListDocuments returns all documents ordered by path.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// DeleteDocument removes a document and its chunks.
	DeleteDocument(ctx context.Context, id string) error

	// SaveChunks stores a document's ordered chunk sequence.
	SaveChunks(ctx context.Context, chunks []domain.Chunk) error

	// GetChunk retrieves a chunk by ID.
	GetChunk(ctx context.Context, id string) (*domain.Chunk, error)

	// GetChunks returns a document's chunks in sequence order.
	GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// CountChunks returns the total number of stored chunks.
	CountChunks(ctx context.Context) (int, error)
}
