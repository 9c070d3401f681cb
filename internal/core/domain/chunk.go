package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ChunkStrategyKind tags the segmentation strategy that produced a chunk.
type ChunkStrategyKind string

const (
	// StrategyFixedWindow slides a fixed-size window with overlap.
	StrategyFixedWindow ChunkStrategyKind = "fixed"

	// StrategyStructureAware splits at Markdown heading boundaries.
	StrategyStructureAware ChunkStrategyKind = "structured"
)

// ChunkStrategy is the closed set of segmentation strategies.
// Exactly one variant is selected by Kind; the remaining fields are
// the variant's parameters.
type ChunkStrategy struct {
	// Kind selects the variant.
	Kind ChunkStrategyKind

	// Size is the window size in bytes (FixedWindow).
	Size int

	// Overlap is the shared span between consecutive windows in
	// bytes (FixedWindow). Must be smaller than Size.
	Overlap int

	// MaxSize is the largest section emitted as a single chunk
	// before fixed-window splitting kicks in (StructureAware).
	MaxSize int
}

// FixedWindowStrategy builds a fixed-window strategy.
func FixedWindowStrategy(size, overlap int) ChunkStrategy {
	return ChunkStrategy{Kind: StrategyFixedWindow, Size: size, Overlap: overlap}
}

// StructureAwareStrategy builds a structure-aware strategy.
func StructureAwareStrategy(maxSize int) ChunkStrategy {
	return ChunkStrategy{Kind: StrategyStructureAware, MaxSize: maxSize}
}

// Validate checks the strategy parameters. It must pass before any
// chunk is emitted for an ingestion invocation.
func (s ChunkStrategy) Validate() error {
	switch s.Kind {
	case StrategyFixedWindow:
		if s.Size <= 0 {
			return fmt.Errorf("%w: window size %d must be positive", ErrChunkConfig, s.Size)
		}
		if s.Overlap < 0 || s.Overlap >= s.Size {
			return fmt.Errorf("%w: overlap %d must be in [0, size)", ErrChunkConfig, s.Overlap)
		}
		return nil
	case StrategyStructureAware:
		if s.MaxSize <= 0 {
			return fmt.Errorf("%w: max section size %d must be positive", ErrChunkConfig, s.MaxSize)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown strategy %q", ErrChunkConfig, s.Kind)
	}
}

// Chunk is a provenance-tagged contiguous span of a document's
// normalised text. Chunks are immutable after creation; re-chunking
// produces new IDs.
type Chunk struct {
	// ID is the deterministic chunk identifier.
	ID string

	// DocumentID links to the owning Document.
	DocumentID string

	// Strategy tags the segmentation strategy that produced the chunk.
	Strategy ChunkStrategyKind

	// Start is the byte offset into the NormalizedText.
	Start int

	// End is the byte offset one past the span.
	End int

	// Text is the raw chunk text, exactly the normalised text slice
	// [Start:End].
	Text string

	// Metadata carries provenance: document path, paragraph range,
	// strategy parameters, dedup flags. Values are strings or numbers.
	Metadata map[string]any
}

// ChunkID derives the deterministic identifier for a span. It is
// anchored on the document content hash rather than the document's
// run-scoped UUID so re-ingesting identical content reproduces the
// same chunk IDs.
func ChunkID(documentHash string, strategy ChunkStrategyKind, start, end int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%s:%d:%d", documentHash, strategy, start, end)))
	return hex.EncodeToString(sum[:16])
}
