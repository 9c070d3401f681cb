// Package segment is the shared normalisation engine behind the
// per-kind normalisers: Unicode canonicalisation, whitespace collapse,
// paragraph partitioning and within-document dedup.
package segment

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/custodia-labs/quarry-cli/internal/core/domain"
)

// Separator joins paragraphs in the normalised text. Each paragraph
// span carries its trailing separator so the spans partition the text.
const Separator = "\n\n"

// Paragraph is one input block for Build: visible text plus the
// structural role recovered by the kind-specific normaliser.
type Paragraph struct {
	// Text is the paragraph content, not yet canonicalised.
	Text string

	// Heading marks a Markdown heading block.
	Heading bool

	// Level is the heading level (1-6) when Heading is true.
	Level int
}

// Canonicalise normalises one paragraph's text: Unicode NFC, every
// whitespace run collapsed to a single space, edges trimmed.
func Canonicalise(s string) string {
	s = norm.NFC.String(s)

	var b strings.Builder
	b.Grow(len(s))
	lastWasSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				b.WriteByte(' ')
				lastWasSpace = true
			}
			continue
		}
		b.WriteRune(r)
		lastWasSpace = false
	}
	return strings.TrimSpace(b.String())
}

// SplitBlocks splits decoded text into paragraph blocks at blank
// lines. Carriage returns are dropped first so CRLF corpora segment
// the same way as LF ones.
func SplitBlocks(s string) []string {
	s = strings.ReplaceAll(s, "\r", "")
	lines := strings.Split(s, "\n")

	var blocks []string
	var current []string
	flush := func() {
		if len(current) > 0 {
			blocks = append(blocks, strings.Join(current, "\n"))
			current = nil
		}
	}
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()
	return blocks
}

// Build assembles a NormalizedText from an ordered paragraph sequence.
// Empty paragraphs are dropped, exact-duplicate paragraphs are dropped
// keeping the first occurrence, and the survivors are joined with
// Separator. The resulting spans partition the text exactly.
//
// Dedup is strictly within-document: identical paragraphs in two
// documents stay independently retrievable, recorded only as metadata
// by the caller.
func Build(documentID string, paragraphs []Paragraph) *domain.NormalizedText {
	type kept struct {
		text string
		para Paragraph
	}

	var (
		survivors  []kept
		duplicates []domain.DuplicateParagraph
		seen       = make(map[string]int) // hash -> index into survivors
		ordinal    = 0                    // position in the pre-dedup sequence
	)

	for _, p := range paragraphs {
		text := Canonicalise(p.Text)
		if text == "" {
			continue
		}
		hash := HashText(text)
		if keptIdx, dup := seen[hash]; dup {
			duplicates = append(duplicates, domain.DuplicateParagraph{
				Hash:           hash,
				DroppedOrdinal: ordinal,
				KeptIndex:      keptIdx,
			})
			ordinal++
			continue
		}
		seen[hash] = len(survivors)
		survivors = append(survivors, kept{text: text, para: p})
		ordinal++
	}

	var (
		b     strings.Builder
		spans = make([]domain.Paragraph, 0, len(survivors))
	)
	for i, s := range survivors {
		start := b.Len()
		b.WriteString(s.text)
		if i < len(survivors)-1 {
			b.WriteString(Separator)
		}
		spans = append(spans, domain.Paragraph{
			Start:   start,
			End:     b.Len(),
			Hash:    HashText(s.text),
			Heading: s.para.Heading,
			Level:   s.para.Level,
		})
	}

	return &domain.NormalizedText{
		DocumentID: documentID,
		Text:       b.String(),
		Paragraphs: spans,
		Duplicates: duplicates,
	}
}

// HashText returns the hex SHA-256 of a paragraph's text.
func HashText(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
