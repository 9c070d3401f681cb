package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// DocumentKind identifies the source file format.
type DocumentKind string

const (
	// KindText is a plain text file (.txt).
	KindText DocumentKind = "txt"

	// KindMarkdown is a Markdown file (.md).
	KindMarkdown DocumentKind = "md"
)

// Valid reports whether the kind is a known file format.
func (k DocumentKind) Valid() bool {
	return k == KindText || k == KindMarkdown
}

// KindFromPath detects the document kind from the file extension.
func KindFromPath(path string) (DocumentKind, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		return KindText, nil
	case ".md":
		return KindMarkdown, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedKind, path)
	}
}

// ContentHash returns the hex SHA-256 of raw content.
func ContentHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Document represents a source file captured at ingestion time.
// It is created once per ingestion run and never mutated.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Path is the source file location.
	Path string

	// Kind is the detected file format.
	Kind DocumentKind

	// Encoding is the detected character encoding of Content.
	// Stage 1 only accepts UTF-8; the field is carried so the
	// snapshot format does not change when more encodings land.
	Encoding string

	// Content is the raw byte content as read from disk.
	// It is held in-flight during ingestion and not persisted.
	Content []byte

	// Hash is the hex SHA-256 of Content, used for document-level
	// dedup and as the anchor for deterministic chunk IDs.
	Hash string

	// IngestedAt is when the document entered the corpus.
	IngestedAt time.Time
}

// NormalizedText is the cleaned, deduplicated text owned by a Document.
// Created once by a normaliser and never mutated.
type NormalizedText struct {
	// DocumentID links to the owning Document.
	DocumentID string

	// Text is the whitespace- and Unicode-normalised content.
	Text string

	// Paragraphs partitions Text with no gaps or overlaps.
	// Each span's trailing separator belongs to that span, so
	// Paragraphs[i].End == Paragraphs[i+1].Start and the final
	// span ends at len(Text).
	Paragraphs []Paragraph

	// Duplicates records within-document paragraphs that were
	// dropped by exact-hash dedup, for provenance. The text of a
	// dropped paragraph survives only through its kept twin.
	Duplicates []DuplicateParagraph
}

// Paragraph is a contiguous span of NormalizedText.
type Paragraph struct {
	// Start is the byte offset of the first character.
	Start int

	// End is the byte offset one past the span, including the
	// separator that joins this paragraph to the next.
	End int

	// Hash is the hex SHA-256 of the paragraph text, used for dedup.
	Hash string

	// Heading marks a paragraph that was a Markdown heading before
	// its decoration was stripped. Plain text never sets this.
	Heading bool

	// Level is the heading level (1-6) when Heading is true.
	Level int
}

// DuplicateParagraph records a paragraph dropped by within-document dedup.
type DuplicateParagraph struct {
	// Hash is the shared content hash.
	Hash string

	// DroppedOrdinal is the paragraph's position in the original,
	// pre-dedup paragraph sequence (0-based).
	DroppedOrdinal int

	// KeptIndex is the index of the surviving first occurrence in
	// the final Paragraphs slice.
	KeptIndex int
}

// Validate checks the paragraph partition invariant.
func (n *NormalizedText) Validate() error {
	cursor := 0
	for _, p := range n.Paragraphs {
		if p.Start != cursor || p.End < p.Start {
			return ErrInvalidInput
		}
		cursor = p.End
	}
	if cursor != len(n.Text) {
		return ErrInvalidInput
	}
	return nil
}

// ParagraphAt returns the index of the paragraph containing the byte
// offset, or -1 when the offset is out of range.
func (n *NormalizedText) ParagraphAt(offset int) int {
	for i, p := range n.Paragraphs {
		if offset >= p.Start && offset < p.End {
			return i
		}
	}
	return -1
}
