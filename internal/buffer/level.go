package buffer

import (
	"fmt"
	"slices"

	"github.com/dgallion1/mdoutline/internal/outline"
)

// ChangeHeadingLevel adds (up) or removes one marker at the start of every
// line holding a caret. Raising a plain line also inserts the space that
// separates markers from the title. Lowering a line that does not start with
// the marker leaves it alone; lowering a level-1 headline strips the space too.
func (v *View) ChangeHeadingLevel(marker byte, up bool) error {
	var starts []int
	for _, c := range v.carets {
		_, line := v.Buffer.LineAt(c)
		starts = append(starts, line.Start)
	}
	slices.Sort(starts)
	starts = slices.Compact(starts)

	// Bottom-up so earlier line starts stay valid.
	for i := len(starts) - 1; i >= 0; i-- {
		var err error
		if up {
			err = v.raise(starts[i], marker)
		} else {
			err = v.lower(starts[i], marker)
		}
		if err != nil {
			return fmt.Errorf("change heading level at %d: %w", starts[i], err)
		}
	}
	return nil
}

func (v *View) raise(start int, marker byte) error {
	text, _ := v.Buffer.LineAt(start)
	if text == "" || (text[0] != marker && text[0] != ' ') {
		if err := v.Insert(start, " "); err != nil {
			return err
		}
	}
	return v.Insert(start, string(marker))
}

func (v *View) lower(start int, marker byte) error {
	text, _ := v.Buffer.LineAt(start)
	if text == "" || text[0] != marker {
		return nil
	}
	if err := v.Delete(outline.Region{Start: start, End: start + 1}); err != nil {
		return err
	}
	if len(text) > 1 && text[1] == ' ' {
		return v.Delete(outline.Region{Start: start, End: start + 1})
	}
	return nil
}
