package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/quarry-cli/internal/chunker"
	"github.com/custodia-labs/quarry-cli/internal/core/domain"
	"github.com/custodia-labs/quarry-cli/internal/core/ports/driven"
	"github.com/custodia-labs/quarry-cli/internal/core/ports/driving"
	"github.com/custodia-labs/quarry-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// DefaultIngestWorkers bounds the normalise/chunk/embed parallelism
// when no worker count is configured.
const DefaultIngestWorkers = 4

// IngestService runs the write path of the pipeline.
type IngestService struct {
	source      driven.CorpusSource
	normalisers driven.NormaliserRegistry
	store       driven.ChunkStore
	embedder    driven.Embedder
	index       driven.VectorIndex
	workers     int
}

// NewIngestService creates an ingest service.
func NewIngestService(
	source driven.CorpusSource,
	normalisers driven.NormaliserRegistry,
	store driven.ChunkStore,
	embedder driven.Embedder,
	index driven.VectorIndex,
	workers int,
) *IngestService {
	if workers <= 0 {
		workers = DefaultIngestWorkers
	}
	return &IngestService{
		source:      source,
		normalisers: normalisers,
		store:       store,
		embedder:    embedder,
		index:       index,
		workers:     workers,
	}
}

// docResult is one worker's outcome for a single path, merged into the
// report in path order so re-runs aggregate identically.
type docResult struct {
	outcome string // "ingested", "replaced", "skipped", "failed"
	chunks  int
	err     error
	fatal   bool
}

// Ingest processes the file or directory at path with the given
// strategy. Documents run through the pipeline concurrently; failures
// are isolated per document and never abort the batch, except an
// unavailable embedder, which cannot make progress.
func (s *IngestService) Ingest(ctx context.Context, path string, strategy domain.ChunkStrategy) (*driving.IngestReport, error) {
	if err := strategy.Validate(); err != nil {
		return nil, err
	}

	logger.Section("Ingestion")
	logger.Debug("Corpus root: %s", path)

	paths, err := s.source.Collect(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("collect corpus: %w", err)
	}
	logger.Info("Collected %d files", len(paths))

	report := &driving.IngestReport{RunID: uuid.NewString()}
	results := make([]docResult, len(paths))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < s.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = s.ingestOne(ctx, paths[i], strategy)
			}
		}()
	}

	for i := range paths {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for i, r := range results {
		if r.fatal {
			return nil, r.err
		}
		switch r.outcome {
		case "ingested":
			report.Ingested++
		case "replaced":
			report.Replaced++
		case "skipped":
			report.Skipped++
		case "failed":
			report.Failed++
			logger.Warn("Failed %s: %v", paths[i], r.err)
		}
		report.Chunks += r.chunks
	}

	logger.Info("Run %s: %d ingested, %d replaced, %d skipped, %d failed, %d chunks",
		report.RunID, report.Ingested, report.Replaced, report.Skipped, report.Failed, report.Chunks)
	return report, nil
}

// ingestOne runs one document through the full write path.
func (s *IngestService) ingestOne(ctx context.Context, path string, strategy domain.ChunkStrategy) docResult {
	if err := ctx.Err(); err != nil {
		return docResult{err: err, fatal: true}
	}

	content, err := s.source.Load(ctx, path)
	if err != nil {
		return docResult{outcome: "failed", err: err}
	}

	hash := domain.ContentHash(content)
	outcome := "ingested"

	previous, err := s.store.FindDocumentByPath(ctx, path)
	switch {
	case err == nil && previous.Hash == hash:
		// Unchanged since the last run.
		logger.Debug("Skipping unchanged %s", path)
		return docResult{outcome: "skipped"}
	case err == nil:
		if err := s.evict(ctx, previous); err != nil {
			return docResult{outcome: "failed", err: err}
		}
		outcome = "replaced"
	case !errors.Is(err, domain.ErrNotFound):
		return docResult{outcome: "failed", err: err}
	}

	kind, err := domain.KindFromPath(path)
	if err != nil {
		return docResult{outcome: "failed", err: err}
	}

	doc := &domain.Document{
		ID:         uuid.NewString(),
		Path:       path,
		Kind:       kind,
		Encoding:   "utf-8",
		Content:    content,
		Hash:       hash,
		IngestedAt: time.Now().UTC(),
	}

	normaliser, err := s.normalisers.ForKind(kind)
	if err != nil {
		return docResult{outcome: "failed", err: err}
	}
	norm, err := normaliser.Normalise(ctx, doc)
	if err != nil {
		return docResult{outcome: "failed", err: err}
	}

	chunks, err := chunker.Chunk(doc, norm, strategy)
	if err != nil {
		return docResult{outcome: "failed", err: err}
	}

	if err := s.indexChunks(ctx, chunks); err != nil {
		if errors.Is(err, domain.ErrEmbedderUnavailable) {
			return docResult{err: err, fatal: true}
		}
		return docResult{outcome: "failed", err: err}
	}

	if err := s.store.SaveDocument(ctx, doc); err != nil {
		return docResult{outcome: "failed", err: err}
	}
	if err := s.store.SaveChunks(ctx, chunks); err != nil {
		return docResult{outcome: "failed", err: err}
	}

	logger.Debug("Ingested %s: %d chunks", path, len(chunks))
	return docResult{outcome: outcome, chunks: len(chunks)}
}

// indexChunks embeds chunk texts in one batch and adds them to the
// vector index.
func (s *IngestService) indexChunks(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed chunks: %w", err)
	}
	if len(embeddings) != len(chunks) {
		return fmt.Errorf("%w: %d embeddings for %d chunks", domain.ErrInvalidInput, len(embeddings), len(chunks))
	}

	for i, chunk := range chunks {
		if err := s.index.Add(ctx, chunk.ID, embeddings[i], chunk.Metadata); err != nil {
			return fmt.Errorf("index chunk %s: %w", chunk.ID, err)
		}
	}
	return nil
}

// evict removes a stale document version: index entries first, then
// the store record with its chunk sequence.
func (s *IngestService) evict(ctx context.Context, doc *domain.Document) error {
	chunks, err := s.store.GetChunks(ctx, doc.ID)
	if err != nil {
		return fmt.Errorf("load stale chunks: %w", err)
	}
	for _, chunk := range chunks {
		if err := s.index.Remove(ctx, chunk.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("remove stale index entry %s: %w", chunk.ID, err)
		}
	}
	if err := s.store.DeleteDocument(ctx, doc.ID); err != nil {
		return fmt.Errorf("delete stale document: %w", err)
	}
	return nil
}
