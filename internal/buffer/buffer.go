package buffer

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/dgallion1/mdoutline/internal/outline"
	"github.com/dgallion1/mdoutline/internal/scope"
)

// Buffer is an in-memory text buffer addressed by byte offset and by
// (line, column). It implements outline.Document.
type Buffer struct {
	text       string
	lineStarts []int
	revision   uint64

	classifier scope.Classifier
	index      scope.Index // for the current revision; nil until needed
}

// Option configures a Buffer.
type Option func(*Buffer)

// WithClassifier sets the heading scope classifier. The default classifies
// Markdown with goldmark.
func WithClassifier(c scope.Classifier) Option {
	return func(b *Buffer) {
		if c != nil {
			b.classifier = c
		}
	}
}

// New creates a buffer holding text. Line endings are normalized to "\n".
func New(text string, opts ...Option) *Buffer {
	b := &Buffer{}
	for _, opt := range opts {
		opt(b)
	}
	if b.classifier == nil {
		b.classifier = scope.NewMarkdown()
	}
	b.setText(normalizeLineEndings(text))
	return b
}

func normalizeLineEndings(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

func (b *Buffer) setText(text string) {
	b.text = text
	b.lineStarts = b.lineStarts[:0]
	b.lineStarts = append(b.lineStarts, 0)
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			b.lineStarts = append(b.lineStarts, i+1)
		}
	}
	b.index = nil
	b.revision++
}

// Text returns the whole buffer.
func (b *Buffer) Text() string { return b.text }

// Len returns the buffer length in bytes.
func (b *Buffer) Len() int { return len(b.text) }

// LineCount returns the number of lines. A trailing newline starts an empty
// last line.
func (b *Buffer) LineCount() int { return len(b.lineStarts) }

// Revision changes every time the text changes.
func (b *Buffer) Revision() uint64 { return b.revision }

// TextRange returns the text of r, clamped to the buffer.
func (b *Buffer) TextRange(r outline.Region) string {
	start := b.clamp(r.Start)
	end := max(b.clamp(r.End), start)
	return b.text[start:end]
}

func (b *Buffer) clamp(offset int) int {
	return min(max(offset, 0), len(b.text))
}

func (b *Buffer) lineIndex(offset int) int {
	i, found := slices.BinarySearch(b.lineStarts, b.clamp(offset))
	if !found {
		i--
	}
	return i
}

func (b *Buffer) lineRegion(i int) outline.Region {
	start := b.lineStarts[i]
	end := len(b.text)
	if i+1 < len(b.lineStarts) {
		end = b.lineStarts[i+1] - 1
	}
	return outline.Region{Start: start, End: end}
}

// LineAt returns the line containing offset, without its newline.
func (b *Buffer) LineAt(offset int) (string, outline.Region) {
	r := b.lineRegion(b.lineIndex(offset))
	return b.text[r.Start:r.End], r
}

// OffsetForLine returns the offset of (line, col). Columns past the line end
// clamp to it; lines past the end clamp to Len.
func (b *Buffer) OffsetForLine(line, col int) int {
	if line < 0 {
		return 0
	}
	if line >= len(b.lineStarts) {
		return len(b.text)
	}
	r := b.lineRegion(line)
	return r.Start + min(max(col, 0), r.Len())
}

// RowCol returns the 0-indexed line and byte column of offset.
func (b *Buffer) RowCol(offset int) (int, int) {
	offset = b.clamp(offset)
	i := b.lineIndex(offset)
	return i, offset - b.lineStarts[i]
}

// FindForward returns the first match of re that starts at or after from.
// Matching restarts at line starts, which keeps "^" anchors in multi-line
// patterns exact; a second match on the line where an earlier one started is
// not reported.
func (b *Buffer) FindForward(re *regexp.Regexp, from int) (outline.Region, bool) {
	from = b.clamp(from)
	base := b.lineStarts[b.lineIndex(from)]
	for base <= len(b.text) {
		loc := re.FindStringIndex(b.text[base:])
		if loc == nil {
			return outline.Region{}, false
		}
		start := base + loc[0]
		if start >= from {
			return outline.Region{Start: start, End: base + loc[1]}, true
		}
		i := b.lineIndex(start) + 1
		if i >= len(b.lineStarts) {
			return outline.Region{}, false
		}
		base = b.lineStarts[i]
	}
	return outline.Region{}, false
}

// FindAll returns every match of re in buffer order.
func (b *Buffer) FindAll(re *regexp.Regexp) []outline.Region {
	locs := re.FindAllStringIndex(b.text, -1)
	out := make([]outline.Region, 0, len(locs))
	for _, loc := range locs {
		out = append(out, outline.Region{Start: loc[0], End: loc[1]})
	}
	return out
}

// IsHeadingScope reports whether the line holding offset is a structural
// heading according to the buffer's classifier.
func (b *Buffer) IsHeadingScope(offset int) bool {
	if b.index == nil {
		b.index = b.classifier.Classify([]byte(b.text))
	}
	return b.index.IsHeading(b.lineStarts[b.lineIndex(offset)])
}

// Insert inserts s at offset.
func (b *Buffer) Insert(offset int, s string) error {
	if offset < 0 || offset > len(b.text) {
		return fmt.Errorf("insert at %d: offset out of range [0, %d]", offset, len(b.text))
	}
	b.setText(b.text[:offset] + normalizeLineEndings(s) + b.text[offset:])
	return nil
}

// Delete removes the bytes of r.
func (b *Buffer) Delete(r outline.Region) error {
	if r.Start < 0 || r.End > len(b.text) || r.Start > r.End {
		return fmt.Errorf("delete %s: range out of bounds [0, %d]", r, len(b.text))
	}
	b.setText(b.text[:r.Start] + b.text[r.End:])
	return nil
}
