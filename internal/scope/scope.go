package scope

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Index answers, for one version of a source, whether the line starting at
// an offset is a structural heading.
type Index interface {
	IsHeading(lineStart int) bool
}

// Classifier builds an Index for a source.
type Classifier interface {
	Classify(src []byte) Index
}

// ForMode returns the classifier for a configured scope mode: "plain" accepts
// every line, anything else classifies as Markdown.
func ForMode(mode string) Classifier {
	if mode == "plain" {
		return Plain{}
	}
	return NewMarkdown()
}

// Plain treats every marker line as a heading.
type Plain struct{}

func (Plain) Classify([]byte) Index { return everyLine{} }

type everyLine struct{}

func (everyLine) IsHeading(int) bool { return true }

// Markdown classifies headings with goldmark, so marker lines inside fenced
// or indented code, HTML blocks and the like are not headings.
type Markdown struct {
	md goldmark.Markdown
}

func NewMarkdown() *Markdown {
	return &Markdown{md: goldmark.New()}
}

func (m *Markdown) Classify(src []byte) Index {
	doc := m.md.Parser().Parse(text.NewReader(src))
	idx := headingLines{}

	// Headings nested in blockquotes or list items start with other markup,
	// so only their own line start matters.
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		if lines := h.Lines(); lines.Len() > 0 {
			idx[lineStart(src, lines.At(0).Start)] = struct{}{}
		}
		return ast.WalkSkipChildren, nil
	})
	return idx
}

type headingLines map[int]struct{}

func (h headingLines) IsHeading(lineStart int) bool {
	_, ok := h[lineStart]
	return ok
}

func lineStart(src []byte, offset int) int {
	if offset > len(src) {
		offset = len(src)
	}
	return bytes.LastIndexByte(src[:offset], '\n') + 1
}
