package jsonl

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quarry-cli/internal/core/domain"
)

func TestWriteChunks_OneRecordPerLine(t *testing.T) {
	chunks := []domain.Chunk{
		{ID: "c-1", DocumentID: "doc-1", Strategy: domain.StrategyFixedWindow, Start: 0, End: 5, Text: "alpha"},
		{ID: "c-2", DocumentID: "doc-1", Strategy: domain.StrategyFixedWindow, Start: 5, End: 9, Text: "beta", Metadata: map[string]any{"path": "/corpus/a.txt"}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteChunks(&buf, chunks))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"chunk_id":"c-1"`)
	assert.Contains(t, lines[0], `"start_offset":0`)
	assert.Contains(t, lines[1], `"metadata"`)
	assert.NotContains(t, lines[0], `"metadata"`, "empty metadata is omitted")
}

func TestChunks_RoundTrip(t *testing.T) {
	chunks := []domain.Chunk{
		{ID: "c-1", DocumentID: "doc-1", Strategy: domain.StrategyStructureAware, Start: 0, End: 12, Text: "hello\n\nworld"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteChunks(&buf, chunks))

	got, err := ReadChunks(&buf)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, chunks[0].ID, got[0].ID)
	assert.Equal(t, chunks[0].Strategy, got[0].Strategy)
	assert.Equal(t, chunks[0].Text, got[0].Text)
}

func TestReadChunks_BadLine(t *testing.T) {
	_, err := ReadChunks(strings.NewReader("not json\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
}

func TestSaveChunks_ReplacesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "artifacts", "chunks.jsonl")

	require.NoError(t, SaveChunks(path, []domain.Chunk{
		{ID: "c-1", DocumentID: "doc-1", Text: "old"},
		{ID: "c-2", DocumentID: "doc-1", Text: "old"},
	}))
	require.NoError(t, SaveChunks(path, []domain.Chunk{
		{ID: "c-3", DocumentID: "doc-2", Text: "new"},
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `"chunk_id":"c-3"`)
}
