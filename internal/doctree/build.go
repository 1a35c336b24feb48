package doctree

import (
	"fmt"
	"strings"

	"github.com/dgallion1/mdoutline/internal/outline"
)

// Build returns the headline outline of doc. Every headline accepted by the
// engine becomes a node; body text is not copied.
func Build(e *outline.Engine, doc outline.Document, folds outline.FoldSet, title string) (*DocTree, error) {
	marker := string(e.Syntax().Marker)
	q := outline.Query{Level: outline.AnyLevel, Direction: outline.Forward, Match: outline.MatchAny}

	b := NewBuilder()
	cursor := 0
	for cursor <= doc.Len() {
		h, ok, err := e.FindHeadline(doc, folds, cursor, q)
		if err != nil {
			return nil, fmt.Errorf("build outline: %w", err)
		}
		if !ok {
			break
		}
		line, _ := doc.RowCol(h.Pos)
		n := &DocNode{
			Title:  strings.TrimSpace(strings.TrimLeft(h.Text, marker)),
			Level:  h.Level,
			Line:   line,
			Offset: h.Pos,
			Hidden: folds != nil && outline.IsFolded(folds, h.Line),
		}
		span, ok, err := e.ContentSpan(doc, folds, h.Pos, h.Level, false)
		if err != nil {
			return nil, fmt.Errorf("build outline: %w", err)
		}
		n.Folded = ok && folds != nil && outline.IsFolded(folds, span)
		b.Heading(n)
		cursor = h.Line.End + 1
	}
	return b.Tree(title), nil
}
