package outline

import (
	"fmt"
	"maps"
	"slices"
)

// Action is the outcome of a fold toggle.
type Action int

const (
	// ActionNotHeadline means the point is not on a headline; nothing changed.
	ActionNotHeadline Action = iota
	// ActionEmpty means the headline owns no content; nothing changed, but
	// the toggle counts as handled.
	ActionEmpty
	ActionFolded
	ActionUnfolded
)

func (a Action) String() string {
	switch a {
	case ActionNotHeadline:
		return "not_headline"
	case ActionEmpty:
		return "empty"
	case ActionFolded:
		return "folded"
	case ActionUnfolded:
		return "unfolded"
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// Handled reports whether the toggle landed on a headline.
func (a Action) Handled() bool {
	return a != ActionNotHeadline
}

// ToggleFoldAtPoint folds the content of the headline at point, or unfolds it
// when it is already folded. Unfolding re-folds the descendants that were
// folded before the content was folded, so one level is revealed at a time.
func (e *Engine) ToggleFoldAtPoint(doc Document, folds FoldSet, point int) (Action, error) {
	h, ok := e.HeadlineAtPoint(doc, folds, point, false)
	if !ok {
		return ActionNotHeadline, nil
	}
	span, ok, err := e.ContentSpan(doc, folds, h.Pos, h.Level, false)
	if err != nil {
		return ActionNotHeadline, fmt.Errorf("toggle fold at %d: %w", point, err)
	}
	if !ok {
		return ActionEmpty, nil
	}

	// Containment: an ancestor's fold counts as folding this span too.
	if entry, folded := folds.ContainingRegion(span); folded {
		e.unfold(doc, folds, entry, span)
		e.log.Debug("unfolded headline", "pos", h.Pos, "level", h.Level, "entry", entry.String())
		return ActionUnfolded, nil
	}
	inner := e.fold(folds, span)
	e.log.Debug("folded headline", "pos", h.Pos, "level", h.Level, "span", span.String(), "subsumed", inner)
	return ActionFolded, nil
}

// fold makes span a single entry. Entries inside span are removed and
// remembered; entries straddling its edges are dropped.
func (e *Engine) fold(folds FoldSet, span Region) int {
	if folds.ExactRegion(span) {
		return 0
	}
	var inner []Region
	for _, r := range Overlapping(folds, span) {
		if span.Contains(r) {
			inner = append(inner, r)
		}
		folds.Unfold(r)
	}
	folds.Fold(span)
	if len(inner) > 0 {
		e.subsumed[span] = inner
	} else {
		delete(e.subsumed, span)
	}
	return len(inner)
}

// unfold removes entry and restores the entries it subsumed, leaving keep
// visible.
func (e *Engine) unfold(doc Document, folds FoldSet, entry, keep Region) {
	folds.Unfold(entry)
	owner, ok := e.owner(doc, entry)
	if !ok {
		delete(e.subsumed, entry)
		return
	}
	e.restore(doc, folds, owner.Level, entry, keep)
}

func (e *Engine) restore(doc Document, folds FoldSet, level int, entry, keep Region) {
	inner := e.subsumed[entry]
	delete(e.subsumed, entry)
	if len(inner) == 0 {
		return
	}
	want := make(map[Region]bool, len(inner))
	for _, r := range inner {
		want[r] = true
	}
	e.refold(doc, folds, level, entry, want, keep)
}

// refold walks the direct children of the headline at level whose content is
// within, folding the child spans listed in want and descending into children
// that hold wanted spans deeper down. Spans containing keep stay open.
func (e *Engine) refold(doc Document, folds FoldSet, level int, within Region, want map[Region]bool, keep Region) {
	q := Query{Level: level + 1, Direction: Forward, Match: MatchChild}
	cursor := within.Start
	for cursor < within.End && len(want) > 0 {
		child, ok, err := e.FindHeadline(doc, folds, cursor, q)
		if err != nil || !ok || child.Pos >= within.End {
			return
		}
		span, ok, err := e.ContentSpan(doc, folds, child.Pos, child.Level, false)
		if err != nil {
			return
		}
		if !ok {
			cursor = child.Line.End + 1
			continue
		}

		switch {
		case want[span] && span.Contains(keep):
			delete(want, span)
			e.restore(doc, folds, child.Level, span, keep)
		case want[span]:
			delete(want, span)
			folds.Fold(span)
		case wantsWithin(want, span):
			e.refold(doc, folds, child.Level, span, want, keep)
		}
		cursor = span.End + 1
	}
}

func wantsWithin(want map[Region]bool, span Region) bool {
	for r := range want {
		if span.Contains(r) {
			return true
		}
	}
	return false
}

// owner returns the headline whose content span is exactly entry.
func (e *Engine) owner(doc Document, entry Region) (Headline, bool) {
	row, _ := doc.RowCol(entry.Start)
	if row == 0 {
		return Headline{}, false
	}
	h, ok := e.HeadlineAtPoint(doc, nil, doc.OffsetForLine(row-1, 0), false)
	if !ok {
		return Headline{}, false
	}
	span, ok, err := e.ContentSpan(doc, nil, h.Pos, h.Level, false)
	if err != nil || !ok || span != entry {
		return Headline{}, false
	}
	return h, true
}

// ShiftHistory maps the fold history through an edit: moveStart and moveEnd
// take an offset before the edit to its offset after, for region starts and
// ends respectively. Entries that collapse are dropped. Hosts call it with the
// mapping they apply to their own fold entries so unfolding still finds the
// descendants a fold replaced.
func (e *Engine) ShiftHistory(moveStart, moveEnd func(int) int) {
	move := func(r Region) Region {
		return Region{Start: moveStart(r.Start), End: moveEnd(r.End)}
	}
	shifted := make(map[Region][]Region, len(e.subsumed))
	for entry, inner := range e.subsumed {
		entry = move(entry)
		if entry.Empty() {
			continue
		}
		for _, r := range inner {
			if r = move(r); !r.Empty() && !slices.Contains(shifted[entry], r) {
				shifted[entry] = append(shifted[entry], r)
			}
		}
	}
	for entry, inner := range shifted {
		if len(inner) == 0 {
			delete(shifted, entry)
		}
	}
	e.subsumed = shifted
}

// globalFold remembers what a global fold replaced.
type globalFold struct {
	before  []Region
	history map[Region][]Region
	made    []Region
	length  int
}

// GlobalResult describes what ToggleGlobalFold did.
type GlobalResult struct {
	Action  Action   // ActionFolded or ActionUnfolded
	Regions []Region // entries created by a global fold
}

// ToggleGlobalFold folds the content of every top-level headline, or, when
// all of them are already folded, unfolds the whole document.
//
// Unfolding right after a global fold, with no edits in between, restores the
// fold configuration the global fold started from.
func (e *Engine) ToggleGlobalFold(doc Document, folds FoldSet) (GlobalResult, error) {
	spans, err := e.topLevelSpans(doc)
	if err != nil {
		return GlobalResult{}, fmt.Errorf("toggle global fold: %w", err)
	}

	if allFolded(folds, spans) {
		e.unfoldAll(doc, folds)
		e.log.Debug("unfolded document", "top_level", len(spans))
		return GlobalResult{Action: ActionUnfolded}, nil
	}

	g := &globalFold{
		before:  folds.Regions(),
		history: maps.Clone(e.subsumed),
		length:  doc.Len(),
	}
	for _, span := range spans {
		if folds.ExactRegion(span) {
			continue
		}
		e.fold(folds, span)
		g.made = append(g.made, span)
	}
	e.global = g
	e.log.Debug("folded document", "top_level", len(spans), "created", len(g.made))
	return GlobalResult{Action: ActionFolded, Regions: g.made}, nil
}

// GloballyFolded reports whether every top-level headline is folded. A
// document without headlines is globally folded.
func (e *Engine) GloballyFolded(doc Document, folds FoldSet) (bool, error) {
	spans, err := e.topLevelSpans(doc)
	if err != nil {
		return false, err
	}
	return allFolded(folds, spans), nil
}

func allFolded(folds FoldSet, spans []Region) bool {
	for _, span := range spans {
		if !IsFolded(folds, span) {
			return false
		}
	}
	return true
}

func (e *Engine) unfoldAll(doc Document, folds FoldSet) {
	g := e.global
	e.global = nil

	restore := g != nil && g.length == doc.Len()
	if restore {
		for _, r := range g.made {
			if !folds.ExactRegion(r) {
				restore = false
				break
			}
		}
	}

	folds.Unfold(Region{Start: 0, End: doc.Len()})
	if !restore {
		clear(e.subsumed)
		return
	}
	for _, r := range g.before {
		folds.Fold(r)
	}
	e.subsumed = g.history
	if e.subsumed == nil {
		e.subsumed = make(map[Region][]Region)
	}
}

// topLevelSpans returns the non-empty content spans of the top-level
// headlines: the first headline, then the first headline past each span.
func (e *Engine) topLevelSpans(doc Document) ([]Region, error) {
	var spans []Region
	q := Query{Level: AnyLevel, Direction: Forward, Match: MatchAny}
	cursor := 0
	for cursor <= doc.Len() {
		h, ok, err := e.FindHeadline(doc, nil, cursor, q)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		span, ok, err := e.ContentSpan(doc, nil, h.Pos, h.Level, false)
		if err != nil {
			return nil, err
		}
		if !ok {
			cursor = h.Line.End + 1
			continue
		}
		spans = append(spans, span)
		cursor = span.End + 1
	}
	return spans, nil
}
