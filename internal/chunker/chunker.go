// Package chunker segments normalised text into provenance-tagged
// chunks. The two strategies form a closed tagged variant dispatched
// by a single switch; adding a strategy means adding a variant and a
// case, not a class hierarchy.
package chunker

import (
	"unicode/utf8"

	"github.com/custodia-labs/quarry-cli/internal/core/domain"
)

// Chunk segments a document's normalised text with the given strategy.
//
// Guarantees for both strategies: offsets stay within the normalised
// text, every character belongs to at least one chunk, offsets are
// monotonically non-decreasing across the sequence, and identical
// input with identical parameters produces identical output.
//
// Invalid parameters fail with domain.ErrChunkConfig before any chunk
// is emitted.
func Chunk(doc *domain.Document, norm *domain.NormalizedText, strategy domain.ChunkStrategy) ([]domain.Chunk, error) {
	if err := strategy.Validate(); err != nil {
		return nil, err
	}
	if doc == nil || norm == nil {
		return nil, domain.ErrInvalidInput
	}
	if norm.Text == "" {
		return nil, nil
	}

	var spans [][2]int
	switch strategy.Kind {
	case domain.StrategyFixedWindow:
		spans = windows(norm.Text, 0, len(norm.Text), strategy.Size, strategy.Overlap)
	case domain.StrategyStructureAware:
		for _, section := range sections(norm) {
			if section[1]-section[0] <= strategy.MaxSize {
				spans = append(spans, section)
				continue
			}
			spans = append(spans, windows(norm.Text, section[0], section[1], strategy.MaxSize, 0)...)
		}
	}

	chunks := make([]domain.Chunk, 0, len(spans))
	for _, span := range spans {
		chunks = append(chunks, build(doc, norm, strategy, span[0], span[1]))
	}
	return chunks, nil
}

// windows slides a window of size bytes over text[start:end) with the
// given overlap between consecutive windows. A tail shorter than the
// stride is absorbed into the final window rather than emitted as a
// fragment, so a 1000-byte text with size 200 and overlap 50 yields
// windows starting at 0, 150, 300, 450, 600 and 750, the last one
// running to the end. Window edges are snapped forward to rune
// boundaries so a multi-byte sequence is never split.
func windows(text string, start, end, size, overlap int) [][2]int {
	step := size - overlap
	var spans [][2]int
	for cursor := start; ; {
		next := snapForward(text, cursor+size)
		if next >= end || end-next < step {
			spans = append(spans, [2]int{cursor, end})
			return spans
		}
		spans = append(spans, [2]int{cursor, next})
		cursor = snapForward(text, next-size+step)
	}
}

// sections splits the paragraph partition at heading paragraphs.
// A heading always starts a new section even when the previous one is
// still small, preserving semantic provenance over uniform sizing.
// The first section starts at offset zero whether or not the document
// opens with a heading.
func sections(norm *domain.NormalizedText) [][2]int {
	var spans [][2]int
	start := 0
	for i, p := range norm.Paragraphs {
		if i > 0 && p.Heading {
			spans = append(spans, [2]int{start, p.Start})
			start = p.Start
		}
	}
	spans = append(spans, [2]int{start, len(norm.Text)})
	return spans
}

// snapForward moves a byte offset forward to the nearest rune start.
func snapForward(text string, offset int) int {
	for offset < len(text) && !utf8.RuneStart(text[offset]) {
		offset++
	}
	return offset
}

func build(doc *domain.Document, norm *domain.NormalizedText, strategy domain.ChunkStrategy, start, end int) domain.Chunk {
	metadata := map[string]any{
		"path":     doc.Path,
		"strategy": string(strategy.Kind),
	}
	switch strategy.Kind {
	case domain.StrategyFixedWindow:
		metadata["window_size"] = strategy.Size
		metadata["window_overlap"] = strategy.Overlap
	case domain.StrategyStructureAware:
		metadata["max_section_size"] = strategy.MaxSize
	}

	pStart := norm.ParagraphAt(start)
	pEnd := norm.ParagraphAt(end - 1)
	if pStart >= 0 && pEnd >= 0 {
		metadata["paragraph_start"] = pStart
		metadata["paragraph_end"] = pEnd

		if norm.Paragraphs[pStart].Heading {
			metadata["section_level"] = norm.Paragraphs[pStart].Level
		}

		dropped := 0
		for _, d := range norm.Duplicates {
			if d.KeptIndex >= pStart && d.KeptIndex <= pEnd {
				dropped++
			}
		}
		if dropped > 0 {
			metadata["dedup_dropped"] = dropped
		}
	}

	return domain.Chunk{
		ID:         domain.ChunkID(doc.Hash, strategy.Kind, start, end),
		DocumentID: doc.ID,
		Strategy:   strategy.Kind,
		Start:      start,
		End:        end,
		Text:       norm.Text[start:end],
		Metadata:   metadata,
	}
}
