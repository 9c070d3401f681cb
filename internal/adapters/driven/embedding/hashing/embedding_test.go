package hashing

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbed_Deterministic(t *testing.T) {
	e := New(128)
	ctx := context.Background()

	first, err := e.Embed(ctx, "the quick brown fox")
	require.NoError(t, err)
	second, err := e.Embed(ctx, "the quick brown fox")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 128, first.Dimensions)
	assert.Len(t, first.Vector, 128)
}

func TestEmbed_UnitNorm(t *testing.T) {
	e := New(64)
	embedding, err := e.Embed(context.Background(), "alpha beta gamma alpha")
	require.NoError(t, err)

	var norm float64
	for _, v := range embedding.Vector {
		norm += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, norm, 1e-6)
}

func TestEmbed_EmptyTextIsZeroVector(t *testing.T) {
	e := New(32)
	embedding, err := e.Embed(context.Background(), "  \n\t ")
	require.NoError(t, err)

	for _, v := range embedding.Vector {
		assert.Zero(t, v)
	}
}

func TestEmbed_SimilarTextsScoreHigherThanUnrelated(t *testing.T) {
	e := New(256)
	ctx := context.Background()

	base, err := e.Embed(ctx, "vector index search ranking")
	require.NoError(t, err)
	near, err := e.Embed(ctx, "vector index search quality")
	require.NoError(t, err)
	far, err := e.Embed(ctx, "banana smoothie recipe blender")
	require.NoError(t, err)

	assert.Greater(t, dot(base.Vector, near.Vector), dot(base.Vector, far.Vector))
}

func TestEmbed_CaseAndPunctuationInsensitive(t *testing.T) {
	e := New(128)
	ctx := context.Background()

	a, err := e.Embed(ctx, "Hello, World!")
	require.NoError(t, err)
	b, err := e.Embed(ctx, "hello world")
	require.NoError(t, err)
	assert.Equal(t, a.Vector, b.Vector)
}

func TestEmbedBatch_MatchesEmbed(t *testing.T) {
	e := New(64)
	ctx := context.Background()

	texts := []string{"one", "two", "three"}
	batch, err := e.EmbedBatch(ctx, texts)
	require.NoError(t, err)
	require.Len(t, batch, len(texts))

	for i, text := range texts {
		single, err := e.Embed(ctx, text)
		require.NoError(t, err)
		assert.Equal(t, single, batch[i])
	}
}

func TestModelNamePinsBucketCount(t *testing.T) {
	assert.Equal(t, "hashing-tf-256", New(0).ModelName())
	assert.Equal(t, "hashing-tf-512", New(512).ModelName())
	assert.Equal(t, 256, New(0).Dimensions())
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	if math.IsNaN(sum) {
		return 0
	}
	return sum
}
