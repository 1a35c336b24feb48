package outline

// Fold state predicates come in two strengths:
//
//   - IsFolded uses containment: a span is folded when any entry covers it,
//     including an ancestor's fold. Every toggle decision uses this.
//   - IsExactlyFolded uses equality: the span is an entry of its own.
//
// Deciding toggles by equality makes a span hidden inside an ancestor fold
// look unfolded, so toggling it folds again instead of revealing it.

// IsFolded reports whether r is empty or covered by an entry of folds.
func IsFolded(folds FoldSet, r Region) bool {
	if r.Empty() {
		return true
	}
	if folds == nil {
		return false
	}
	_, ok := folds.ContainingRegion(r)
	return ok
}

// IsExactlyFolded reports whether r is empty or itself an entry of folds.
func IsExactlyFolded(folds FoldSet, r Region) bool {
	if r.Empty() {
		return true
	}
	if folds == nil {
		return false
	}
	return folds.ExactRegion(r)
}

// FoldedWithin returns the entries of folds that lie inside r.
func FoldedWithin(folds FoldSet, r Region) []Region {
	var out []Region
	for _, f := range folds.Regions() {
		if r.Contains(f) {
			out = append(out, f)
		}
	}
	return out
}

// Overlapping returns the entries of folds that share bytes with r.
func Overlapping(folds FoldSet, r Region) []Region {
	var out []Region
	for _, f := range folds.Regions() {
		if f.Overlaps(r) {
			out = append(out, f)
		}
	}
	return out
}

// RelocateCarets moves every caret hidden by a fold to the end of that fold.
func RelocateCarets(folds FoldSet, carets []int) []int {
	regions := folds.Regions()
	out := make([]int, len(carets))
	for i, p := range carets {
		for _, f := range regions {
			if f.ContainsOffset(p) {
				p = f.End
				break
			}
		}
		out[i] = p
	}
	return out
}
