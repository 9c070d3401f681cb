package markdown

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/quarry-cli/internal/core/domain"
	"github.com/custodia-labs/quarry-cli/internal/core/ports/driven"
	"github.com/custodia-labs/quarry-cli/internal/normalisers/segment"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles Markdown documents. Markdown-only decoration
// (heading markers, emphasis, link targets) is stripped while the
// visible text and paragraph structure are preserved; heading levels
// survive on the paragraph records for structure-aware chunking.
type Normaliser struct{}

// New creates a new Markdown normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Kind returns the document kind this normaliser handles.
func (n *Normaliser) Kind() domain.DocumentKind {
	return domain.KindMarkdown
}

// Normalise converts a Markdown document into normalised,
// paragraph-segmented text.
func (n *Normaliser) Normalise(_ context.Context, doc *domain.Document) (*domain.NormalizedText, error) {
	if doc == nil {
		return nil, domain.ErrInvalidInput
	}
	if !utf8.Valid(doc.Content) {
		return nil, fmt.Errorf("%w: %s is not valid UTF-8", domain.ErrEncoding, doc.Path)
	}

	content := stripCodeFences(string(doc.Content))
	blocks := segment.SplitBlocks(content)

	paragraphs := make([]segment.Paragraph, 0, len(blocks))
	for _, block := range blocks {
		if isHorizontalRule(block) {
			continue
		}
		if level, title, ok := parseHeading(block); ok {
			paragraphs = append(paragraphs, segment.Paragraph{
				Text:    stripInline(title),
				Heading: true,
				Level:   level,
			})
			continue
		}
		paragraphs = append(paragraphs, segment.Paragraph{Text: stripBlock(block)})
	}

	return segment.Build(doc.ID, paragraphs), nil
}

var (
	headingRe      = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
	fenceRe        = regexp.MustCompile("(?m)^\\s*(```|~~~).*$")
	hrRe           = regexp.MustCompile(`^[-*_]{3,}\s*$`)
	imageRe        = regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`)
	linkRe         = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	inlineCodeRe   = regexp.MustCompile("`([^`]*)`")
	blockquoteRe   = regexp.MustCompile(`(?m)^>\s*`)
	listMarkerRe   = regexp.MustCompile(`(?m)^\s*[-*+]\s+`)
	numberedListRe = regexp.MustCompile(`(?m)^\s*\d+\.\s+`)
)

// stripCodeFences drops fence lines but keeps the fenced content:
// code is visible text and stays retrievable.
func stripCodeFences(content string) string {
	return fenceRe.ReplaceAllString(content, "")
}

// parseHeading recognises an ATX heading block and returns its level
// and title text.
func parseHeading(block string) (level int, title string, ok bool) {
	lines := strings.SplitN(block, "\n", 2)
	m := headingRe.FindStringSubmatch(strings.TrimSpace(lines[0]))
	if m == nil {
		return 0, "", false
	}
	title = strings.TrimRight(m[2], "# ")
	if len(lines) > 1 {
		// A heading glued to following lines keeps only the first
		// line as the heading; the rest is its own paragraph text.
		title = title + "\n" + lines[1]
	}
	return len(m[1]), title, true
}

func isHorizontalRule(block string) bool {
	return hrRe.MatchString(strings.TrimSpace(block))
}

// stripBlock removes block-level decoration from a paragraph.
func stripBlock(block string) string {
	block = blockquoteRe.ReplaceAllString(block, "")
	block = listMarkerRe.ReplaceAllString(block, "")
	block = numberedListRe.ReplaceAllString(block, "")
	return stripInline(block)
}

// stripInline removes inline decoration, keeping the visible text.
func stripInline(s string) string {
	s = imageRe.ReplaceAllString(s, "")
	s = linkRe.ReplaceAllString(s, "$1")
	s = inlineCodeRe.ReplaceAllString(s, "$1")
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "__", "")
	s = strings.ReplaceAll(s, "*", "")
	return s
}
