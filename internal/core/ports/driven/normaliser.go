package driven

import (
	"context"

	"github.com/custodia-labs/quarry-cli/internal/core/domain"
)

// Normaliser transforms a raw document into normalised, paragraph-
// segmented text. Each normaliser handles one document kind.
type Normaliser interface {
	// Kind returns the document kind this normaliser handles.
	Kind() domain.DocumentKind

	// Normalise cleans and deduplicates the document's text.
	// Fails with domain.ErrEncoding when the byte content cannot be
	// decoded as valid text.
	Normalise(ctx context.Context, doc *domain.Document) (*domain.NormalizedText, error)
}

// NormaliserRegistry selects a normaliser by document kind.
type NormaliserRegistry interface {
	// ForKind returns the normaliser for a kind, or
	// domain.ErrUnsupportedKind when none is registered.
	ForKind(kind domain.DocumentKind) (Normaliser, error)
}
