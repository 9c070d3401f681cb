package normalisers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quarry-cli/internal/core/domain"
)

func TestNewDefaultRegistry(t *testing.T) {
	r := NewDefaultRegistry()

	txt, err := r.ForKind(domain.KindText)
	require.NoError(t, err)
	assert.Equal(t, domain.KindText, txt.Kind())

	md, err := r.ForKind(domain.KindMarkdown)
	require.NoError(t, err)
	assert.Equal(t, domain.KindMarkdown, md.Kind())
}

func TestRegistry_UnknownKind(t *testing.T) {
	r := NewDefaultRegistry()

	_, err := r.ForKind(domain.DocumentKind("pdf"))
	assert.ErrorIs(t, err, domain.ErrUnsupportedKind)
}
