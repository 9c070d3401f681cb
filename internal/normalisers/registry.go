package normalisers

import (
	"fmt"

	"github.com/custodia-labs/quarry-cli/internal/core/domain"
	"github.com/custodia-labs/quarry-cli/internal/core/ports/driven"
	"github.com/custodia-labs/quarry-cli/internal/normalisers/markdown"
	"github.com/custodia-labs/quarry-cli/internal/normalisers/plaintext"
)

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// Registry selects a normaliser by document kind.
type Registry struct {
	byKind map[domain.DocumentKind]driven.Normaliser
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byKind: make(map[domain.DocumentKind]driven.Normaliser)}
}

// NewDefaultRegistry creates a registry with the built-in normalisers
// for plain text and Markdown.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(plaintext.New())
	r.Register(markdown.New())
	return r
}

// Register adds a normaliser, replacing any previous one for the
// same kind.
func (r *Registry) Register(n driven.Normaliser) {
	r.byKind[n.Kind()] = n
}

// ForKind returns the normaliser for a document kind.
func (r *Registry) ForKind(kind domain.DocumentKind) (driven.Normaliser, error) {
	n, ok := r.byKind[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedKind, kind)
	}
	return n, nil
}
