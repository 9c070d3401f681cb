package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkStrategy_Validate(t *testing.T) {
	tests := []struct {
		name     string
		strategy ChunkStrategy
		wantErr  bool
	}{
		{name: "valid fixed window", strategy: FixedWindowStrategy(200, 50)},
		{name: "valid zero overlap", strategy: FixedWindowStrategy(100, 0)},
		{name: "valid structure aware", strategy: StructureAwareStrategy(500)},
		{name: "overlap equals size", strategy: FixedWindowStrategy(100, 100), wantErr: true},
		{name: "overlap exceeds size", strategy: FixedWindowStrategy(100, 150), wantErr: true},
		{name: "negative overlap", strategy: FixedWindowStrategy(100, -1), wantErr: true},
		{name: "zero window size", strategy: FixedWindowStrategy(0, 0), wantErr: true},
		{name: "zero max section size", strategy: StructureAwareStrategy(0), wantErr: true},
		{name: "unknown kind", strategy: ChunkStrategy{Kind: "sliding"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.strategy.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrChunkConfig))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestChunkID_Deterministic(t *testing.T) {
	a := ChunkID("abc123", StrategyFixedWindow, 0, 200)
	b := ChunkID("abc123", StrategyFixedWindow, 0, 200)
	assert.Equal(t, a, b)
	assert.Len(t, a, 32)
}

func TestChunkID_DistinguishesInputs(t *testing.T) {
	base := ChunkID("abc123", StrategyFixedWindow, 0, 200)
	assert.NotEqual(t, base, ChunkID("abc124", StrategyFixedWindow, 0, 200))
	assert.NotEqual(t, base, ChunkID("abc123", StrategyStructureAware, 0, 200))
	assert.NotEqual(t, base, ChunkID("abc123", StrategyFixedWindow, 0, 201))
}

func TestDocumentKind_Valid(t *testing.T) {
	assert.True(t, KindText.Valid())
	assert.True(t, KindMarkdown.Valid())
	assert.False(t, DocumentKind("pdf").Valid())
	assert.False(t, DocumentKind("").Valid())
}

func TestEmbedding_Valid(t *testing.T) {
	assert.True(t, Embedding{Vector: []float32{1, 2, 3}, Dimensions: 3}.Valid())
	assert.False(t, Embedding{Vector: []float32{1, 2}, Dimensions: 3}.Valid())
	assert.False(t, Embedding{}.Valid())
}
