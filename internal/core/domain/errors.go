package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEncoding indicates a document's bytes could not be decoded
	// under the declared encoding. The document is skipped; corpus
	// ingestion continues.
	ErrEncoding = errors.New("undecodable document content")

	// ErrChunkConfig indicates invalid chunking parameters.
	// Fatal to the ingestion invocation; raised before any chunk
	// is emitted.
	ErrChunkConfig = errors.New("invalid chunking configuration")

	// ErrDimensionMismatch indicates a vector's dimension disagrees
	// with the index's established dimension. The operation fails
	// and index state is unchanged.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrCorruptSnapshot indicates an index snapshot failed structural
	// validation on load. Fatal: no partial index is produced and the
	// caller must treat the index as absent.
	ErrCorruptSnapshot = errors.New("corrupt index snapshot")

	// ErrEmbedderUnavailable indicates the embedding capability failed.
	// Fatal for the enclosing pipeline call; never silently retried.
	ErrEmbedderUnavailable = errors.New("embedder unavailable")

	// ErrUnsupportedKind indicates an unknown document kind reached
	// the normaliser registry.
	ErrUnsupportedKind = errors.New("unsupported document kind")
)
