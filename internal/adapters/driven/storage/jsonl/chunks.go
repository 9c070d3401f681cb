// Package jsonl writes the chunks artifact: one JSON record per line,
// human-inspectable with standard line tools. The artifact is a
// derived export of the chunk store, rewritten wholesale on each
// ingestion run, never read back as a source of truth.
package jsonl

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/custodia-labs/quarry-cli/internal/core/domain"
)

// chunkRecord is the serialised form of one chunk.
type chunkRecord struct {
	ChunkID     string         `json:"chunk_id"`
	DocumentID  string         `json:"document_id"`
	Strategy    string         `json:"strategy"`
	StartOffset int            `json:"start_offset"`
	EndOffset   int            `json:"end_offset"`
	Text        string         `json:"text"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// WriteChunks writes chunks to w in slice order, one record per line.
func WriteChunks(w io.Writer, chunks []domain.Chunk) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for _, chunk := range chunks {
		record := chunkRecord{
			ChunkID:     chunk.ID,
			DocumentID:  chunk.DocumentID,
			Strategy:    string(chunk.Strategy),
			StartOffset: chunk.Start,
			EndOffset:   chunk.End,
			Text:        chunk.Text,
			Metadata:    chunk.Metadata,
		}
		if err := enc.Encode(record); err != nil {
			return fmt.Errorf("write chunk %s: %w", chunk.ID, err)
		}
	}
	return bw.Flush()
}

// SaveChunks writes the artifact to a file, replacing any previous
// version.
func SaveChunks(path string, chunks []domain.Chunk) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create artifact directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chunks artifact: %w", err)
	}
	if err := WriteChunks(f, chunks); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadChunks parses an artifact back into chunks, mainly for tests and
// external tooling round-trips.
func ReadChunks(r io.Reader) ([]domain.Chunk, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var chunks []domain.Chunk
	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var record chunkRecord
		if err := json.Unmarshal(scanner.Bytes(), &record); err != nil {
			return nil, fmt.Errorf("parse chunk record on line %d: %w", line, err)
		}
		chunks = append(chunks, domain.Chunk{
			ID:         record.ChunkID,
			DocumentID: record.DocumentID,
			Strategy:   domain.ChunkStrategyKind(record.Strategy),
			Start:      record.StartOffset,
			End:        record.EndOffset,
			Text:       record.Text,
			Metadata:   record.Metadata,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read chunks artifact: %w", err)
	}
	return chunks, nil
}
