package buffer

import (
	"slices"

	"github.com/dgallion1/mdoutline/internal/outline"
)

// View is a buffer together with the fold set and carets shown over it.
// Edits made through the view keep folds and carets anchored to the text.
type View struct {
	Buffer *Buffer
	Folds  *Folds
	carets []int

	onShift []func(moveStart, moveEnd func(int) int)
}

// NewView wraps b with no folds and a single caret at offset 0.
func NewView(b *Buffer) *View {
	return &View{Buffer: b, Folds: NewFolds(), carets: []int{0}}
}

// Carets returns a copy of the caret offsets in ascending order.
func (v *View) Carets() []int {
	return slices.Clone(v.carets)
}

// SetCarets replaces the carets. Offsets are clamped to the buffer, sorted
// and deduplicated; an empty list leaves one caret at offset 0.
func (v *View) SetCarets(carets []int) {
	out := make([]int, 0, len(carets))
	for _, c := range carets {
		out = append(out, v.Buffer.clamp(c))
	}
	if len(out) == 0 {
		out = append(out, 0)
	}
	slices.Sort(out)
	v.carets = slices.Compact(out)
}

// RelocateCarets moves carets hidden inside a fold to the fold's end.
func (v *View) RelocateCarets() {
	v.SetCarets(outline.RelocateCarets(v.Folds, v.carets))
}

// OnShift registers fn to receive the offset mapping of every edit, the same
// mapping applied to fold starts and ends. Offset-keyed state held outside the
// view, such as an engine's fold history, stays aligned through it.
func (v *View) OnShift(fn func(moveStart, moveEnd func(int) int)) {
	v.onShift = append(v.onShift, fn)
}

func (v *View) shift(moveStart, moveEnd func(int) int) {
	v.Folds.shiftEdges(moveStart, moveEnd)
	for _, fn := range v.onShift {
		fn(moveStart, moveEnd)
	}
}

// Insert inserts s at offset. Folds starting exactly at offset grow to cover
// the insertion; carets at or after offset move with the text.
func (v *View) Insert(offset int, s string) error {
	before := v.Buffer.Len()
	if err := v.Buffer.Insert(offset, s); err != nil {
		return err
	}
	n := v.Buffer.Len() - before
	v.shift(
		func(p int) int { return shiftAfter(p, offset, n) },
		func(p int) int { return shiftFrom(p, offset, n) },
	)
	for i, c := range v.carets {
		v.carets[i] = shiftFrom(c, offset, n)
	}
	return nil
}

// Delete removes r. Offsets inside r collapse to r.Start; folds left empty are
// dropped.
func (v *View) Delete(r outline.Region) error {
	if err := v.Buffer.Delete(r); err != nil {
		return err
	}
	move := func(p int) int { return collapse(p, r) }
	v.shift(move, move)
	for i, c := range v.carets {
		v.carets[i] = move(c)
	}
	v.SetCarets(v.carets)
	return nil
}

func shiftAfter(p, offset, n int) int {
	if p > offset {
		return p + n
	}
	return p
}

func shiftFrom(p, offset, n int) int {
	if p >= offset {
		return p + n
	}
	return p
}

func collapse(p int, r outline.Region) int {
	switch {
	case p <= r.Start:
		return p
	case p >= r.End:
		return p - r.Len()
	default:
		return r.Start
	}
}
