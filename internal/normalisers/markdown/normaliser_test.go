package markdown

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
		Path:    "/corpus/guide.md",
		Kind:    domain.KindMarkdown,
		Content: []byte(content),
	}
}

func TestNormalise_StripsHeadingMarkersKeepsStructure(t *testing.T) {
	n := New()
	got, err := n.Normalise(context.Background(), doc("# Title\n\nbody text\n\n## Section\n\nmore text"))
	require.NoError(t, err)

	require.NoError(t, got.Validate())
	assert.Equal(t, "Title\n\nbody text\n\nSection\n\nmore text", got.Text)
	require.Len(t, got.Paragraphs, 4)

	assert.True(t, got.Paragraphs[0].Heading)
	assert.Equal(t, 1, got.Paragraphs[0].Level)
	assert.False(t, got.Paragraphs[1].Heading)
	assert.True(t, got.Paragraphs[2].Heading)
	assert.Equal(t, 2, got.Paragraphs[2].Level)
}

func TestNormalise_StripsEmphasis(t *testing.T) {
	n := New()
	got, err := n.Normalise(context.Background(), doc("some **bold** and *italic* words"))
	require.NoError(t, err)

	assert.Equal(t, "some bold and italic words", got.Text)
}

func TestNormalise_LinksKeepVisibleText(t *testing.T) {
	n := New()
	got, err := n.Normalise(context.Background(), doc("see [the docs](https://example.com) for details"))
	require.NoError(t, err)

	assert.Equal(t, "see the docs for details", got.Text)
}

func TestNormalise_InlineCodeKeepsContent(t *testing.T) {
	n := New()
	got, err := n.Normalise(context.Background(), doc("run `quarry ingest` to start"))
	require.NoError(t, err)

	assert.Equal(t, "run quarry ingest to start", got.Text)
}

func TestNormalise_CodeFenceKeepsContent(t *testing.T) {
	n := New()
	got, err := n.Normalise(context.Background(), doc("before\n\n```\ncode line\n```\n\nafter"))
	require.NoError(t, err)

	assert.Contains(t, got.Text, "code line")
	assert.NotContains(t, got.Text, "```")
}

func TestNormalise_ListMarkersStripped(t *testing.T) {
	n := New()
	got, err := n.Normalise(context.Background(), doc("- first\n- second\n\n1. third"))
	require.NoError(t, err)

	assert.Equal(t, "first second\n\nthird", got.Text)
}

func TestNormalise_BlockquoteStripped(t *testing.T) {
	n := New()
	got, err := n.Normalise(context.Background(), doc("> quoted words"))
	require.NoError(t, err)

	assert.Equal(t, "quoted words", got.Text)
}

func TestNormalise_HorizontalRuleDropped(t *testing.T) {
	n := New()
	got, err := n.Normalise(context.Background(), doc("alpha\n\n---\n\nbeta"))
	require.NoError(t, err)

	assert.Equal(t, "alpha\n\nbeta", got.Text)
}

func TestNormalise_DedupWithinDocument(t *testing.T) {
	n := New()
	got, err := n.Normalise(context.Background(), doc("alpha\n\nbeta\n\nalpha"))
	require.NoError(t, err)

	assert.Len(t, got.Paragraphs, 2)
	assert.Len(t, got.Duplicates, 1)
}

func TestNormalise_InvalidUTF8(t *testing.T) {
	n := New()
	d := &domain.Document{ID: "doc-1", Path: "/corpus/broken.md", Content: []byte{0xc3, 0x28}}

	_, err := n.Normalise(context.Background(), d)
	assert.True(t, errors.Is(err, domain.ErrEncoding))
}

func TestNormalise_Kind(t *testing.T) {
	assert.Equal(t, domain.KindMarkdown, New().Kind())
}
