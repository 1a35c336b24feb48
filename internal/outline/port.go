package outline

import "regexp"

// Document is the host text buffer as seen by the engine. Every engine call
// reads it afresh; nothing derived from it is kept between calls.
type Document interface {
	// LineAt returns the text of the line containing offset and the line's
	// region, excluding the line terminator.
	LineAt(offset int) (string, Region)
	// OffsetForLine returns the offset of (line, col). Lines past the end
	// clamp to Len().
	OffsetForLine(line, col int) int
	// RowCol returns the 0-indexed line and byte column of offset.
	RowCol(offset int) (line, col int)
	// Len returns the document length in bytes.
	Len() int
	// FindForward returns the first match of re starting at or after from.
	FindForward(re *regexp.Regexp, from int) (Region, bool)
	// FindAll returns every match of re in the document.
	FindAll(re *regexp.Regexp) []Region
	// IsHeadingScope reports whether the host's syntax engine classifies
	// the text at offset as a real heading (not, say, a line of a code block).
	IsHeadingScope(offset int) bool
}

// FoldSet is the host-owned collection of folded regions.
type FoldSet interface {
	// ContainingRegion returns an entry that contains r.
	ContainingRegion(r Region) (Region, bool)
	// ExactRegion reports whether r itself is an entry.
	ExactRegion(r Region) bool
	// Fold adds r as an entry.
	Fold(r Region)
	// Unfold removes every entry overlapping r.
	Unfold(r Region)
	// Regions returns a copy of all entries.
	Regions() []Region
}
