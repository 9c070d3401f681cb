package driving

import (
	"context"

	"github.com/custodia-labs/quarry-cli/internal/core/domain"
)

// IngestReport summarises one ingestion invocation.
type IngestReport struct {
	// RunID identifies the ingestion run.
	RunID string

	// Ingested is the number of documents added to the corpus.
	Ingested int

	// Replaced is the number of documents whose previous version was
	// removed because the file changed.
	Replaced int

	// Skipped is the number of documents already present (same
	// content hash).
	Skipped int

	// Failed is the number of documents dropped by per-document
	// errors (undecodable bytes). Failures never abort the batch.
	Failed int

	// Chunks is the number of chunks produced by this run.
	Chunks int
}

// IngestService ingests a corpus of text documents: normalise, chunk,
// embed, index.
type IngestService interface {
	// Ingest processes the file or directory at path with the given
	// strategy. Invalid strategy parameters fail with
	// domain.ErrChunkConfig before any document is touched.
	Ingest(ctx context.Context, path string, strategy domain.ChunkStrategy) (*IngestReport, error)
}
