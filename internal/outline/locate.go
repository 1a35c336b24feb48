package outline

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// Direction is the direction of a headline search.
type Direction int

const (
	Forward Direction = iota
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// ParseDirection maps "forward"/"backward" to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "forward", "":
		return Forward, nil
	case "backward":
		return Backward, nil
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

// Headline is a headline line found in a document. It is a query result and
// goes stale as soon as the document changes.
type Headline struct {
	Pos   int    `json:"pos"`   // offset of the line start
	Level int    `json:"level"` // marker count, >= 1
	Text  string `json:"text"`  // the raw line
	Line  Region `json:"line"`  // the line, excluding its terminator
}

// Query constrains FindHeadline.
type Query struct {
	Level     int // reference level, or AnyLevel with MatchAny
	Direction Direction
	Match     MatchType

	// SkipAtPoint moves the origin off the headline it sits on, so a search
	// never returns its own starting line.
	SkipAtPoint bool
	// SkipFolded ignores headlines hidden inside a folded region.
	SkipFolded bool
}

// FindHeadline returns the headline nearest to from that satisfies q.
// It reports false when the search reaches the document boundary without a
// match. The only error is ErrInvalidLevel.
func (e *Engine) FindHeadline(doc Document, folds FoldSet, from int, q Query) (Headline, bool, error) {
	re, err := e.syntax.Pattern(q.Level, q.Match)
	if err != nil {
		return Headline{}, false, fmt.Errorf("find headline: %w", err)
	}
	from = min(max(from, 0), doc.Len())
	if q.SkipAtPoint {
		from = e.skipHeadlineAt(doc, from, q.Direction)
	}

	if q.Direction == Backward {
		matches := doc.FindAll(re)
		candidates := make([]Region, 0, len(matches))
		for _, m := range matches {
			if m.Start <= from {
				candidates = append(candidates, m)
			}
		}
		// Nearest preceding match first.
		slices.SortFunc(candidates, func(a, b Region) int { return cmp.Compare(b.Start, a.Start) })
		for _, m := range candidates {
			h := e.headlineAt(doc, m.Start)
			if e.accept(doc, folds, h, q.SkipFolded) {
				return h, true, nil
			}
		}
		return Headline{}, false, nil
	}

	cursor := from
	for cursor <= doc.Len() {
		m, ok := doc.FindForward(re, cursor)
		if !ok {
			break
		}
		h := e.headlineAt(doc, m.Start)
		if e.accept(doc, folds, h, q.SkipFolded) {
			return h, true, nil
		}
		next := h.Line.End + 1
		if next <= cursor {
			break
		}
		cursor = next
	}
	return Headline{}, false, nil
}

// HeadlineAtPoint returns the headline on the line containing point. When
// point is not on a headline and searchAround is set, it falls back to the
// nearest visible headline above point, then to the nearest one below.
func (e *Engine) HeadlineAtPoint(doc Document, folds FoldSet, point int, searchAround bool) (Headline, bool) {
	point = min(max(point, 0), doc.Len())
	text, line := doc.LineAt(point)
	if level, ok := e.syntax.ExtractLevel(text); ok && doc.IsHeadingScope(line.Start) {
		return Headline{Pos: line.Start, Level: level, Text: text, Line: line}, true
	}
	if !searchAround {
		return Headline{}, false
	}

	q := Query{Level: AnyLevel, Direction: Backward, Match: MatchAny, SkipFolded: true}
	if h, ok, err := e.FindHeadline(doc, folds, point, q); err == nil && ok {
		return h, true
	}
	q.Direction = Forward
	if h, ok, err := e.FindHeadline(doc, folds, point, q); err == nil && ok {
		return h, true
	}
	return Headline{}, false
}

func (e *Engine) skipHeadlineAt(doc Document, from int, dir Direction) int {
	text, line := doc.LineAt(from)
	if _, ok := e.syntax.ExtractLevel(text); !ok {
		return from
	}
	if dir == Backward {
		return line.Start - 1
	}
	row, _ := doc.RowCol(line.Start)
	return doc.OffsetForLine(row+1, 0)
}

func (e *Engine) headlineAt(doc Document, pos int) Headline {
	text, line := doc.LineAt(pos)
	level, _ := e.syntax.ExtractLevel(text)
	return Headline{Pos: line.Start, Level: level, Text: text, Line: line}
}

// accept applies the structural filter, then the folded filter.
func (e *Engine) accept(doc Document, folds FoldSet, h Headline, skipFolded bool) bool {
	if h.Level < 1 || !doc.IsHeadingScope(h.Pos) {
		return false
	}
	if skipFolded && folds != nil && IsFolded(folds, h.Line) {
		return false
	}
	return true
}
