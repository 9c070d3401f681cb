package plaintext

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/custodia-labs/quarry-cli/internal/core/domain"
	"github.com/custodia-labs/quarry-cli/internal/core/ports/driven"
	"github.com/custodia-labs/quarry-cli/internal/normalisers/segment"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles plain text documents.
type Normaliser struct{}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Kind returns the document kind this normaliser handles.
func (n *Normaliser) Kind() domain.DocumentKind {
	return domain.KindText
}

// Normalise converts a plain text document into normalised,
// paragraph-segmented text. Paragraphs are blank-line-delimited
// blocks; exact duplicates within the document are dropped keeping
// the first occurrence.
func (n *Normaliser) Normalise(_ context.Context, doc *domain.Document) (*domain.NormalizedText, error) {
	if doc == nil {
		return nil, domain.ErrInvalidInput
	}
	if !utf8.Valid(doc.Content) {
		return nil, fmt.Errorf("%w: %s is not valid UTF-8", domain.ErrEncoding, doc.Path)
	}

	blocks := segment.SplitBlocks(string(doc.Content))
	paragraphs := make([]segment.Paragraph, 0, len(blocks))
	for _, block := range blocks {
		paragraphs = append(paragraphs, segment.Paragraph{Text: block})
	}

	return segment.Build(doc.ID, paragraphs), nil
}
