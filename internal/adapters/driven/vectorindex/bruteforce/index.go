// Package bruteforce implements the vector index as an exact linear
// scan over all entries (O(n·d) per query). This is a deliberate
// simplicity/correctness tradeoff for the Stage-1 corpus sizes; an
// approximate index may replace it later only if it preserves the same
// observable ranking contract within a documented tolerance.
package bruteforce

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/quarry-cli/internal/core/domain"
	"github.com/custodia-labs/quarry-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index is an in-memory brute-force vector index with a
// single-writer/multi-reader discipline: writes serialise on the
// mutex, searches run concurrently and observe the most recently
// committed write set.
type Index struct {
	mu      sync.RWMutex
	dims    int
	model   string
	entries map[string]entry
}

type entry struct {
	vector   []float32
	metadata map[string]any
}

// New creates an empty index. The first Add fixes its dimension.
func New() *Index {
	return &Index{entries: make(map[string]entry)}
}

// Add inserts or atomically replaces the entry for a chunk ID.
// The vector and metadata are copied, so later caller mutations never
// leak into stored state.
func (ix *Index) Add(_ context.Context, chunkID string, embedding domain.Embedding, metadata map[string]any) error {
	if chunkID == "" || !embedding.Valid() {
		return domain.ErrInvalidInput
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.dims != 0 && embedding.Dimensions != ix.dims {
		return fmt.Errorf("%w: index dimension %d, vector dimension %d",
			domain.ErrDimensionMismatch, ix.dims, embedding.Dimensions)
	}
	if ix.dims == 0 {
		ix.dims = embedding.Dimensions
		ix.model = embedding.Model
	}

	vector := make([]float32, len(embedding.Vector))
	copy(vector, embedding.Vector)
	ix.entries[chunkID] = entry{vector: vector, metadata: copyMetadata(metadata)}
	return nil
}

// Remove deletes an entry.
func (ix *Index) Remove(_ context.Context, chunkID string) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if _, ok := ix.entries[chunkID]; !ok {
		return fmt.Errorf("%w: chunk %s", domain.ErrNotFound, chunkID)
	}
	delete(ix.entries, chunkID)
	return nil
}

// Search scans every entry, filters, ranks by cosine similarity and
// returns the top k. Exact score ties break by ascending chunk ID.
func (ix *Index) Search(_ context.Context, query []float32, k int, filter domain.MetadataFilter) ([]driven.VectorHit, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive", domain.ErrInvalidInput)
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if ix.dims != 0 && len(query) != ix.dims {
		return nil, fmt.Errorf("%w: index dimension %d, query dimension %d",
			domain.ErrDimensionMismatch, ix.dims, len(query))
	}

	hits := make([]driven.VectorHit, 0, len(ix.entries))
	for chunkID, e := range ix.entries {
		if filter != nil && !filter(e.metadata) {
			continue
		}
		hits = append(hits, driven.VectorHit{
			ChunkID:  chunkID,
			Score:    cosine(query, e.vector),
			Metadata: copyMetadata(e.metadata),
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].ChunkID < hits[j].ChunkID
	})

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Len returns the number of stored entries.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.entries)
}

// Dimensions returns the established dimension, or 0 when empty.
func (ix *Index) Dimensions() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.dims
}

// ModelID returns the model identifier recorded by the first Add.
func (ix *Index) ModelID() string {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.model
}

// cosine computes dot(a,b)/(|a||b|) in float64 for stability.
// Two zero vectors are trivially proportional and score 1.0; a zero
// vector against a non-zero one scores 0.0.
func cosine(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		av, bv := float64(a[i]), float64(b[i])
		dot += av * bv
		normA += av * av
		normB += bv * bv
	}
	if normA == 0 && normB == 0 {
		return 1.0
	}
	if normA == 0 || normB == 0 {
		return 0.0
	}
	score := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	// Clamp floating drift so scores stay within [-1, 1].
	return math.Max(-1.0, math.Min(1.0, score))
}

// copyMetadata creates a shallow copy of metadata.
func copyMetadata(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
