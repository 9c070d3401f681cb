package bruteforce

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/custodia-labs/quarry-cli/internal/core/domain"
)

// snapshotHeader is the self-describing first line of a snapshot.
type snapshotHeader struct {
	Dimension  int    `json:"dimension"`
	EntryCount int    `json:"entry_count"`
	ModelID    string `json:"model_id"`
}

// snapshotEntry is one stored vector, one line per entry.
type snapshotEntry struct {
	ChunkID  string         `json:"chunk_id"`
	Vector   []float32      `json:"vector"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// WriteSnapshot writes a self-describing snapshot: a header line
// followed by one entry per line, entries ordered by chunk ID so the
// same index always serialises to the same bytes. The read lock is
// held for the duration, so the snapshot never races with a writer
// and always captures a consistent committed state.
func (ix *Index) WriteSnapshot(w io.Writer) error {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)

	header := snapshotHeader{Dimension: ix.dims, EntryCount: len(ix.entries), ModelID: ix.model}
	if err := enc.Encode(header); err != nil {
		return fmt.Errorf("write snapshot header: %w", err)
	}

	ids := make([]string, 0, len(ix.entries))
	for id := range ix.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		e := ix.entries[id]
		if err := enc.Encode(snapshotEntry{ChunkID: id, Vector: e.vector, Metadata: e.metadata}); err != nil {
			return fmt.Errorf("write snapshot entry %s: %w", id, err)
		}
	}
	return bw.Flush()
}

// SaveTo persists the index to a file. On failure the in-memory index
// remains valid and usable.
func (ix *Index) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create snapshot directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot file: %w", err)
	}
	if err := ix.WriteSnapshot(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadSnapshot reconstructs an index from a snapshot. Any structural
// defect fails with domain.ErrCorruptSnapshot and no index is
// produced; there is no best-effort recovery.
func ReadSnapshot(r io.Reader) (*Index, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read snapshot header: %w", err)
		}
		return nil, fmt.Errorf("%w: missing header", domain.ErrCorruptSnapshot)
	}

	var header snapshotHeader
	if err := json.Unmarshal(scanner.Bytes(), &header); err != nil {
		return nil, fmt.Errorf("%w: unreadable header: %v", domain.ErrCorruptSnapshot, err)
	}
	if header.Dimension < 0 || header.EntryCount < 0 {
		return nil, fmt.Errorf("%w: negative header field", domain.ErrCorruptSnapshot)
	}
	if header.EntryCount > 0 && header.Dimension == 0 {
		return nil, fmt.Errorf("%w: entries without a dimension", domain.ErrCorruptSnapshot)
	}

	ix := New()
	ix.dims = header.Dimension
	ix.model = header.ModelID

	for scanner.Scan() {
		var e snapshotEntry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			return nil, fmt.Errorf("%w: unreadable entry: %v", domain.ErrCorruptSnapshot, err)
		}
		if e.ChunkID == "" {
			return nil, fmt.Errorf("%w: entry without chunk id", domain.ErrCorruptSnapshot)
		}
		if len(e.Vector) != header.Dimension {
			return nil, fmt.Errorf("%w: entry %s has dimension %d, header says %d",
				domain.ErrCorruptSnapshot, e.ChunkID, len(e.Vector), header.Dimension)
		}
		if _, dup := ix.entries[e.ChunkID]; dup {
			return nil, fmt.Errorf("%w: duplicate chunk id %s", domain.ErrCorruptSnapshot, e.ChunkID)
		}
		ix.entries[e.ChunkID] = entry{vector: e.Vector, metadata: e.Metadata}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	if len(ix.entries) != header.EntryCount {
		return nil, fmt.Errorf("%w: header says %d entries, found %d",
			domain.ErrCorruptSnapshot, header.EntryCount, len(ix.entries))
	}
	return ix, nil
}

// LoadFrom reconstructs an index from a snapshot file. A missing file
// is not corruption: the caller receives os.ErrNotExist and may start
// with an empty index.
func LoadFrom(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()
	return ReadSnapshot(f)
}
