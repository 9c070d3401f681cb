package driven

import "context"

// CorpusSource enumerates ingestible files. The Stage-1 corpus is
// local .txt/.md files; remote connectors are a future concern.
type CorpusSource interface {
	// Collect returns the ingestible file paths under root in
	// deterministic (sorted) order. root may be a single file.
	Collect(ctx context.Context, root string) ([]string, error)

	// Load reads the raw byte content of one collected path.
	Load(ctx context.Context, path string) ([]byte, error)
}
