package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quarry-cli/internal/core/domain"
)

func TestChunkStore_DocumentLifecycle(t *testing.T) {
	store := NewChunkStore()
	ctx := context.Background()

	doc := &domain.Document{
		ID:      "doc-1",
		Path:    "/corpus/a.txt",
		Kind:    domain.KindText,
		Hash:    "aaaa",
		Content: []byte("raw bytes"),
	}
	require.NoError(t, store.SaveDocument(ctx, doc))

	got, err := store.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "/corpus/a.txt", got.Path)
	assert.Nil(t, got.Content, "raw content is not retained")

	require.NoError(t, store.DeleteDocument(ctx, "doc-1"))
	_, err = store.GetDocument(ctx, "doc-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = store.DeleteDocument(ctx, "doc-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestChunkStore_FindByHashAndPath(t *testing.T) {
	store := NewChunkStore()
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: "doc-b", Path: "/corpus/b.txt", Hash: "same"}))
	require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: "doc-a", Path: "/corpus/a.txt", Hash: "same"}))

	byHash, err := store.FindDocumentByHash(ctx, "same")
	require.NoError(t, err)
	assert.Equal(t, "/corpus/a.txt", byHash.Path, "lowest path wins on a shared hash")

	byPath, err := store.FindDocumentByPath(ctx, "/corpus/b.txt")
	require.NoError(t, err)
	assert.Equal(t, "doc-b", byPath.ID)

	_, err = store.FindDocumentByHash(ctx, "other")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = store.FindDocumentByPath(ctx, "/corpus/missing.txt")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestChunkStore_ListDocumentsOrderedByPath(t *testing.T) {
	store := NewChunkStore()
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: "doc-c", Path: "/corpus/c.txt"}))
	require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: "doc-a", Path: "/corpus/a.txt"}))
	require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: "doc-b", Path: "/corpus/b.txt"}))

	docs, err := store.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "/corpus/a.txt", docs[0].Path)
	assert.Equal(t, "/corpus/b.txt", docs[1].Path)
	assert.Equal(t, "/corpus/c.txt", docs[2].Path)
}

func TestChunkStore_Chunks(t *testing.T) {
	store := NewChunkStore()
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: "doc-1", Path: "/corpus/a.txt"}))
	chunks := []domain.Chunk{
		{ID: "c-1", DocumentID: "doc-1", Start: 0, End: 5, Text: "alpha"},
		{ID: "c-2", DocumentID: "doc-1", Start: 5, End: 9, Text: "beta"},
	}
	require.NoError(t, store.SaveChunks(ctx, chunks))

	got, err := store.GetChunks(ctx, "doc-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "c-1", got[0].ID)

	chunk, err := store.GetChunk(ctx, "c-2")
	require.NoError(t, err)
	assert.Equal(t, "beta", chunk.Text)

	_, err = store.GetChunk(ctx, "absent")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	count, err := store.CountChunks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestChunkStore_SaveChunksReplacesSequence(t *testing.T) {
	store := NewChunkStore()
	ctx := context.Background()

	require.NoError(t, store.SaveChunks(ctx, []domain.Chunk{
		{ID: "c-1", DocumentID: "doc-1", Text: "old"},
		{ID: "c-2", DocumentID: "doc-1", Text: "old"},
	}))
	require.NoError(t, store.SaveChunks(ctx, []domain.Chunk{
		{ID: "c-3", DocumentID: "doc-1", Text: "new"},
	}))

	got, err := store.GetChunks(ctx, "doc-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "c-3", got[0].ID)
}
