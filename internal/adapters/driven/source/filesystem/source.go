// Package filesystem provides the local-file corpus source.
package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/quarry-cli/internal/core/domain"
	"github.com/custodia-labs/quarry-cli/internal/core/ports/driven"
)

// Ensure Source implements the interface.
var _ driven.CorpusSource = (*Source)(nil)

// Source enumerates .txt and .md files on the local filesystem.
type Source struct{}

// New creates a filesystem corpus source.
func New() *Source {
	return &Source{}
}

// Collect walks root and returns ingestible paths in sorted order.
// A root that is itself a file must be ingestible; hidden directories
// are skipped.
func (s *Source) Collect(ctx context.Context, root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat corpus root: %w", err)
	}

	if !info.IsDir() {
		if !ingestible(root) {
			return nil, fmt.Errorf("%w: %s is not a .txt or .md file", domain.ErrUnsupportedKind, root)
		}
		return []string{root}, nil
	}

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if ingestible(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk corpus: %w", err)
	}

	sort.Strings(paths)
	return paths, nil
}

// Load reads the raw byte content of a file.
func (s *Source) Load(_ context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// KindOf maps a path to its document kind by extension.
func KindOf(path string) (domain.DocumentKind, error) {
	return domain.KindFromPath(path)
}

func ingestible(path string) bool {
	_, err := domain.KindFromPath(path)
	return err == nil
}
