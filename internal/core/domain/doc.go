// Package domain defines the core business entities for Quarry.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A source file captured at ingestion time
//   - NormalizedText: Cleaned, deduplicated text owned by a Document
//   - Chunk: A provenance-tagged span of normalised text
//   - Embedding: A fixed-dimension vector produced by an embedder
//   - QueryResult: A single answer to a similarity query
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
