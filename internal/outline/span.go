package outline

import "fmt"

// ContentSpan returns the region owned by the headline at pos with the given
// level: from the start of the next line up to, but excluding, the line break
// before the next headline of the same or a higher level, or to the end of the
// document. It reports false when the headline owns no content.
func (e *Engine) ContentSpan(doc Document, folds FoldSet, pos, level int, skipFolded bool) (Region, bool, error) {
	if level < 1 {
		return Region{}, false, fmt.Errorf("content span at %d: level %d: %w", pos, level, ErrInvalidLevel)
	}

	start, ok := nextLineStart(doc, pos)
	if !ok {
		return Region{}, false, nil
	}
	next, _ := doc.LineAt(start)
	if l, ok := e.syntax.ExtractLevel(next); ok && l <= level && doc.IsHeadingScope(start) {
		return Region{}, false, nil
	}

	end := doc.Len()
	q := Query{Level: level, Direction: Forward, Match: MatchParent, SkipFolded: skipFolded}
	h, found, err := e.FindHeadline(doc, folds, start, q)
	if err != nil {
		return Region{}, false, fmt.Errorf("content span at %d: %w", pos, err)
	}
	if found {
		end = h.Pos - 1
	}
	if end <= start {
		return Region{}, false, nil
	}
	return Region{Start: start, End: end}, true, nil
}

// ContentSpanAtPoint returns the content span of the headline on the line
// containing point.
func (e *Engine) ContentSpanAtPoint(doc Document, folds FoldSet, point int) (Region, bool) {
	h, ok := e.HeadlineAtPoint(doc, folds, point, false)
	if !ok {
		return Region{}, false
	}
	span, ok, err := e.ContentSpan(doc, folds, h.Pos, h.Level, false)
	if err != nil {
		return Region{}, false
	}
	return span, ok
}

// nextLineStart returns the start of the line after the one containing
// offset, or false at the last line.
func nextLineStart(doc Document, offset int) (int, bool) {
	_, line := doc.LineAt(offset)
	row, _ := doc.RowCol(line.Start)
	next := doc.OffsetForLine(row+1, 0)
	if next <= line.End || next >= doc.Len() {
		return 0, false
	}
	return next, true
}
