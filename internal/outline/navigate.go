package outline

// Navigate returns the start of the next (forward) or previous headline
// relative to point, skipping headlines hidden by folds. With sameLevel the
// target must be at the level of the headline point belongs to, or higher;
// otherwise any headline qualifies. It reports false when there is no target
// or, with sameLevel, no headline to take the level from.
func (e *Engine) Navigate(doc Document, folds FoldSet, point int, forward, sameLevel bool) (int, bool, error) {
	q := Query{
		Level:       AnyLevel,
		Direction:   Backward,
		Match:       MatchAny,
		SkipAtPoint: true,
		SkipFolded:  true,
	}
	if forward {
		q.Direction = Forward
	}
	if sameLevel {
		h, ok := e.HeadlineAtPoint(doc, folds, point, true)
		if !ok {
			return point, false, nil
		}
		q.Level, q.Match = h.Level, MatchParent
	}

	h, ok, err := e.FindHeadline(doc, folds, point, q)
	if err != nil || !ok {
		return point, false, err
	}
	return h.Pos, true, nil
}
