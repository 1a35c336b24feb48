package outline

import "fmt"

// Region is a half-open byte range [Start, End) in a document.
type Region struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// String returns a human-readable representation of the region.
func (r Region) String() string {
	return fmt.Sprintf("[%d:%d)", r.Start, r.End)
}

// Len returns the length of the region in bytes.
func (r Region) Len() int {
	return r.End - r.Start
}

// Empty reports whether the region covers no bytes.
func (r Region) Empty() bool {
	return r.End <= r.Start
}

// Contains reports whether other lies entirely within r.
func (r Region) Contains(other Region) bool {
	return other.Start >= r.Start && other.End <= r.End
}

// ContainsOffset reports whether offset lies within r.
func (r Region) ContainsOffset(offset int) bool {
	return offset >= r.Start && offset < r.End
}

// Overlaps reports whether r and other share at least one byte.
func (r Region) Overlaps(other Region) bool {
	return r.Start < other.End && other.Start < r.End
}
