package buffer

import (
	"cmp"
	"slices"

	"github.com/dgallion1/mdoutline/internal/outline"
)

// Folds is an in-memory fold set ordered by start offset. It implements
// outline.FoldSet. Keeping entries disjoint is the caller's job.
type Folds struct {
	regions []outline.Region
}

func NewFolds() *Folds {
	return &Folds{}
}

// ContainingRegion returns the first entry that contains r.
func (f *Folds) ContainingRegion(r outline.Region) (outline.Region, bool) {
	for _, e := range f.regions {
		if e.Contains(r) {
			return e, true
		}
	}
	return outline.Region{}, false
}

// ExactRegion reports whether r is an entry.
func (f *Folds) ExactRegion(r outline.Region) bool {
	_, found := f.search(r)
	return found
}

func (f *Folds) search(r outline.Region) (int, bool) {
	return slices.BinarySearchFunc(f.regions, r, compareRegions)
}

func compareRegions(a, b outline.Region) int {
	if c := cmp.Compare(a.Start, b.Start); c != 0 {
		return c
	}
	return cmp.Compare(a.End, b.End)
}

// Fold adds r. Empty regions and duplicates are ignored.
func (f *Folds) Fold(r outline.Region) {
	if r.Empty() {
		return
	}
	i, found := f.search(r)
	if found {
		return
	}
	f.regions = slices.Insert(f.regions, i, r)
}

// Unfold removes every entry overlapping r.
func (f *Folds) Unfold(r outline.Region) {
	f.regions = slices.DeleteFunc(f.regions, func(e outline.Region) bool {
		return e.Overlaps(r)
	})
}

// Regions returns a copy of the entries in start order.
func (f *Folds) Regions() []outline.Region {
	return slices.Clone(f.regions)
}

// Len returns the number of entries.
func (f *Folds) Len() int {
	return len(f.regions)
}

// shiftEdges maps every entry through an edit and drops entries that collapse.
func (f *Folds) shiftEdges(moveStart, moveEnd func(int) int) {
	out := f.regions[:0]
	for _, e := range f.regions {
		e = outline.Region{Start: moveStart(e.Start), End: moveEnd(e.End)}
		if !e.Empty() {
			out = append(out, e)
		}
	}
	f.regions = out
	slices.SortFunc(f.regions, compareRegions)
	f.regions = slices.Compact(f.regions)
}
