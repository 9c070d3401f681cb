// Package hashing provides a fully offline embedder built on feature
// hashing: tokens are folded into a fixed number of FNV-1a buckets and
// the resulting term-frequency vector is L2-normalised. It needs no
// model weights and no network, and identical text always maps to the
// identical vector, which makes it the default model for local corpora
// and for tests.
package hashing

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	"github.com/custodia-labs/quarry-cli/internal/core/domain"
	"github.com/custodia-labs/quarry-cli/internal/core/ports/driven"
)

// Ensure Embedder implements the interface.
var _ driven.Embedder = (*Embedder)(nil)

// DefaultDimensions is the bucket count used when none is configured.
const DefaultDimensions = 256

// Embedder generates deterministic feature-hashing embeddings.
type Embedder struct {
	dimensions int
	model      string
}

// New creates a hashing embedder with the given bucket count.
// A non-positive count falls back to DefaultDimensions.
func New(dimensions int) *Embedder {
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}
	return &Embedder{
		dimensions: dimensions,
		model:      fmt.Sprintf("hashing-tf-%d", dimensions),
	}
}

// Embed generates a vector embedding for the given text.
// Text with no tokens yields the zero vector.
func (e *Embedder) Embed(_ context.Context, text string) (domain.Embedding, error) {
	vector := make([]float32, e.dimensions)
	for _, token := range tokenise(text) {
		h := fnv.New32a()
		h.Write([]byte(token))
		vector[int(h.Sum32())%e.dimensions]++
	}

	var norm float64
	for _, v := range vector {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		inv := 1 / math.Sqrt(norm)
		for i := range vector {
			vector[i] = float32(float64(vector[i]) * inv)
		}
	}

	return domain.Embedding{
		Vector:     vector,
		Dimensions: e.dimensions,
		Model:      e.model,
	}, nil
}

// EmbedBatch generates embeddings for multiple texts.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([]domain.Embedding, error) {
	embeddings := make([]domain.Embedding, len(texts))
	for i, text := range texts {
		embedding, err := e.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embed text %d: %w", i, err)
		}
		embeddings[i] = embedding
	}
	return embeddings, nil
}

// Dimensions returns the bucket count.
func (e *Embedder) Dimensions() int {
	return e.dimensions
}

// ModelName returns an identifier that pins the bucket count, so an
// index built with one count refuses vectors from another.
func (e *Embedder) ModelName() string {
	return e.model
}

// Close releases resources.
func (e *Embedder) Close() error {
	return nil
}

// tokenise lowercases and splits on anything that is not a letter or
// a digit.
func tokenise(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
