package domain

// Embedding is a fixed-length vector plus the identity of the model
// that produced it. All embeddings stored in one vector index share
// the same dimension.
type Embedding struct {
	// Vector is the embedding itself.
	Vector []float32

	// Dimensions is len(Vector), carried explicitly so a truncated
	// vector is detectable at the index boundary.
	Dimensions int

	// Model identifies the embedder and model version.
	Model string
}

// Valid reports whether the declared dimension matches the vector.
func (e Embedding) Valid() bool {
	return e.Dimensions > 0 && len(e.Vector) == e.Dimensions
}
