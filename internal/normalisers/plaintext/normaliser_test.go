package plaintext

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quarry-cli/internal/core/domain"
)

func doc(content string) *domain.Document {
	return &domain.Document{
		ID:      "doc-1",
		Path:    "/corpus/notes.txt",
		Kind:    domain.KindText,
		Content: []byte(content),
	}
}

func TestNormalise_Paragraphs(t *testing.T) {
	n := New()
	got, err := n.Normalise(context.Background(), doc("alpha one\n\nbeta two\n\ngamma three"))
	require.NoError(t, err)

	require.NoError(t, got.Validate())
	assert.Equal(t, "doc-1", got.DocumentID)
	assert.Equal(t, "alpha one\n\nbeta two\n\ngamma three", got.Text)
	assert.Len(t, got.Paragraphs, 3)
}

func TestNormalise_CollapsesWhitespaceWithinParagraphs(t *testing.T) {
	n := New()
	got, err := n.Normalise(context.Background(), doc("alpha   one\nstill  alpha\n\nbeta"))
	require.NoError(t, err)

	assert.Equal(t, "alpha one still alpha\n\nbeta", got.Text)
}

func TestNormalise_DedupWithinDocument(t *testing.T) {
	n := New()
	got, err := n.Normalise(context.Background(), doc("alpha\n\nbeta\n\nalpha"))
	require.NoError(t, err)

	assert.Len(t, got.Paragraphs, 2)
	require.Len(t, got.Duplicates, 1)
	assert.Equal(t, 2, got.Duplicates[0].DroppedOrdinal)
	assert.Equal(t, 0, got.Duplicates[0].KeptIndex)
}

func TestNormalise_DedupIdempotent(t *testing.T) {
	// Ingesting the same content twice yields the same paragraph
	// count both times, not a growing count.
	n := New()
	first, err := n.Normalise(context.Background(), doc("alpha\n\nbeta\n\nalpha"))
	require.NoError(t, err)
	second, err := n.Normalise(context.Background(), doc("alpha\n\nbeta\n\nalpha"))
	require.NoError(t, err)

	assert.Equal(t, len(first.Paragraphs), len(second.Paragraphs))
	assert.Equal(t, first.Text, second.Text)
}

func TestNormalise_InvalidUTF8(t *testing.T) {
	n := New()
	d := &domain.Document{ID: "doc-1", Path: "/corpus/broken.txt", Content: []byte{0xff, 0xfe, 0x00}}

	_, err := n.Normalise(context.Background(), d)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrEncoding))
	assert.Contains(t, err.Error(), "/corpus/broken.txt")
}

func TestNormalise_NilDocument(t *testing.T) {
	n := New()
	_, err := n.Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNormalise_NoHeadingsInPlainText(t *testing.T) {
	n := New()
	got, err := n.Normalise(context.Background(), doc("# not a heading here\n\nbody"))
	require.NoError(t, err)

	// Plain text keeps the hash character and never marks headings.
	assert.Equal(t, "# not a heading here\n\nbody", got.Text)
	for _, p := range got.Paragraphs {
		assert.False(t, p.Heading)
	}
}

func TestNormalise_Kind(t *testing.T) {
	assert.Equal(t, domain.KindText, New().Kind())
}
