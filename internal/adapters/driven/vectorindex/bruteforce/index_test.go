package bruteforce

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quarry-cli/internal/core/domain"
)

func embedding(vector ...float32) domain.Embedding {
	return domain.Embedding{Vector: vector, Dimensions: len(vector), Model: "test-model"}
}

func TestIndex_AddAndSearch_SelfSimilarity(t *testing.T) {
	ix := New()
	ctx := context.Background()

	require.NoError(t, ix.Add(ctx, "chunk-a", embedding(0.3, 0.7, 0.1), nil))

	hits, err := ix.Search(ctx, []float32{0.3, 0.7, 0.1}, 1, nil)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "chunk-a", hits[0].ChunkID)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-9)
}

func TestIndex_Search_NearTieRanking(t *testing.T) {
	// A=[1,0,0,0], B=[0,1,0,0], C=[1,0,0,0.001]: querying [1,0,0,0]
	// with k=2 returns C's near-tie and A, both outranking B.
	ix := New()
	ctx := context.Background()

	require.NoError(t, ix.Add(ctx, "A", embedding(1, 0, 0, 0), nil))
	require.NoError(t, ix.Add(ctx, "B", embedding(0, 1, 0, 0), nil))
	require.NoError(t, ix.Add(ctx, "C", embedding(1, 0, 0, 0.001), nil))

	hits, err := ix.Search(ctx, []float32{1, 0, 0, 0}, 2, nil)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "A", hits[0].ChunkID)
	assert.Equal(t, "C", hits[1].ChunkID)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-9)
	assert.InDelta(t, 1.0, hits[1].Score, 1e-5)
	assert.Greater(t, hits[1].Score, 0.9)
}

func TestIndex_Search_TieBreaksByAscendingChunkID(t *testing.T) {
	ix := New()
	ctx := context.Background()

	// Identical vectors: exact score tie.
	require.NoError(t, ix.Add(ctx, "zeta", embedding(1, 0), nil))
	require.NoError(t, ix.Add(ctx, "alpha", embedding(1, 0), nil))
	require.NoError(t, ix.Add(ctx, "mike", embedding(1, 0), nil))

	hits, err := ix.Search(ctx, []float32{1, 0}, 3, nil)
	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, "alpha", hits[0].ChunkID)
	assert.Equal(t, "mike", hits[1].ChunkID)
	assert.Equal(t, "zeta", hits[2].ChunkID)
}

func TestIndex_Add_DimensionMismatchLeavesStateUntouched(t *testing.T) {
	ix := New()
	ctx := context.Background()

	require.NoError(t, ix.Add(ctx, "chunk-a", embedding(1, 0, 0), nil))

	err := ix.Add(ctx, "chunk-b", embedding(1, 0), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)

	// State-before == state-after, verified by an unaffected search.
	assert.Equal(t, 1, ix.Len())
	hits, err := ix.Search(ctx, []float32{1, 0, 0}, 10, nil)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "chunk-a", hits[0].ChunkID)
}

func TestIndex_Search_DimensionMismatch(t *testing.T) {
	ix := New()
	ctx := context.Background()
	require.NoError(t, ix.Add(ctx, "chunk-a", embedding(1, 0, 0), nil))

	_, err := ix.Search(ctx, []float32{1, 0}, 1, nil)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestIndex_Add_ReplacesExistingEntry(t *testing.T) {
	ix := New()
	ctx := context.Background()

	require.NoError(t, ix.Add(ctx, "chunk-a", embedding(1, 0), map[string]any{"v": 1}))
	require.NoError(t, ix.Add(ctx, "chunk-a", embedding(0, 1), map[string]any{"v": 2}))

	assert.Equal(t, 1, ix.Len())
	hits, err := ix.Search(ctx, []float32{0, 1}, 1, nil)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-9)
	assert.Equal(t, 2, hits[0].Metadata["v"])
}

func TestIndex_Remove(t *testing.T) {
	ix := New()
	ctx := context.Background()

	require.NoError(t, ix.Add(ctx, "chunk-a", embedding(1, 0), nil))
	require.NoError(t, ix.Remove(ctx, "chunk-a"))
	assert.Equal(t, 0, ix.Len())

	err := ix.Remove(ctx, "chunk-a")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIndex_Search_FilterAppliedBeforeTruncation(t *testing.T) {
	ix := New()
	ctx := context.Background()

	// The best-scoring entries are filtered out; k must still refer
	// to post-filter results.
	require.NoError(t, ix.Add(ctx, "keep-1", embedding(0.5, 0.5), map[string]any{"keep": true}))
	require.NoError(t, ix.Add(ctx, "keep-2", embedding(0.1, 0.9), map[string]any{"keep": true}))
	require.NoError(t, ix.Add(ctx, "drop-1", embedding(1, 0), map[string]any{"keep": false}))
	require.NoError(t, ix.Add(ctx, "drop-2", embedding(0.9, 0.1), map[string]any{"keep": false}))

	hits, err := ix.Search(ctx, []float32{1, 0}, 2, func(m map[string]any) bool {
		keep, _ := m["keep"].(bool)
		return keep
	})
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "keep-1", hits[0].ChunkID)
	assert.Equal(t, "keep-2", hits[1].ChunkID)
}

func TestIndex_Search_ScoreRange(t *testing.T) {
	ix := New()
	ctx := context.Background()

	require.NoError(t, ix.Add(ctx, "same", embedding(1, 0), nil))
	require.NoError(t, ix.Add(ctx, "orthogonal", embedding(0, 1), nil))
	require.NoError(t, ix.Add(ctx, "opposite", embedding(-1, 0), nil))

	hits, err := ix.Search(ctx, []float32{1, 0}, 3, nil)
	require.NoError(t, err)
	require.Len(t, hits, 3)
	for _, h := range hits {
		assert.GreaterOrEqual(t, h.Score, -1.0)
		assert.LessOrEqual(t, h.Score, 1.0)
	}
	assert.InDelta(t, 1.0, hits[0].Score, 1e-9)
	assert.InDelta(t, 0.0, hits[1].Score, 1e-9)
	assert.InDelta(t, -1.0, hits[2].Score, 1e-9)
}

func TestIndex_Search_InvalidK(t *testing.T) {
	ix := New()
	_, err := ix.Search(context.Background(), []float32{1}, 0, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIndex_FirstAddFixesDimensionAndModel(t *testing.T) {
	ix := New()
	ctx := context.Background()

	assert.Equal(t, 0, ix.Dimensions())
	require.NoError(t, ix.Add(ctx, "chunk-a", embedding(1, 2, 3, 4), nil))
	assert.Equal(t, 4, ix.Dimensions())
	assert.Equal(t, "test-model", ix.ModelID())
}

func TestCosine_ZeroVectors(t *testing.T) {
	// Two zero vectors are trivially proportional.
	assert.Equal(t, 1.0, cosine([]float32{0, 0}, []float32{0, 0}))
	// A zero vector against a non-zero one carries no signal.
	assert.Equal(t, 0.0, cosine([]float32{0, 0}, []float32{1, 0}))
	assert.Equal(t, 0.0, cosine([]float32{1, 0}, []float32{0, 0}))
}

func TestIndex_ConcurrentSearchersAndWriter(t *testing.T) {
	ix := New()
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		require.NoError(t, ix.Add(ctx, fmt.Sprintf("chunk-%03d", i), embedding(float32(i), 1), nil))
	}

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				hits, err := ix.Search(ctx, []float32{1, 1}, 5, nil)
				assert.NoError(t, err)
				assert.NotEmpty(t, hits)
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			id := fmt.Sprintf("chunk-%03d", i%50)
			assert.NoError(t, ix.Add(ctx, id, embedding(float32(i), 2), nil))
		}
	}()

	wg.Wait()
	assert.Equal(t, 50, ix.Len())
}
