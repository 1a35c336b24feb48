package outline

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
)

// AnyLevel is the level sentinel used with MatchAny. It is never a valid level.
const AnyLevel = -1

// ErrInvalidLevel is returned when a match type that needs a concrete level
// is given AnyLevel or a level below 1.
var ErrInvalidLevel = errors.New("invalid headline level")

// MatchType selects which headline levels a search accepts relative to a
// reference level L.
type MatchType int

const (
	MatchParent  MatchType = iota + 1 // level <= L
	MatchChild                        // level >= L
	MatchSibling                      // level == L
	MatchAny                          // any level
)

func (m MatchType) String() string {
	switch m {
	case MatchParent:
		return "parent"
	case MatchChild:
		return "child"
	case MatchSibling:
		return "sibling"
	case MatchAny:
		return "any"
	}
	return fmt.Sprintf("MatchType(%d)", int(m))
}

// ParseMatchType maps a name produced by MatchType.String back to its value.
func ParseMatchType(s string) (MatchType, error) {
	switch strings.ToLower(s) {
	case "parent":
		return MatchParent, nil
	case "child":
		return MatchChild, nil
	case "sibling":
		return MatchSibling, nil
	case "any", "":
		return MatchAny, nil
	}
	return 0, fmt.Errorf("unknown match type %q", s)
}

// Syntax describes how headlines are spelled: a run of Marker bytes, then
// spaces or tabs, then at least one non-space character.
type Syntax struct {
	Marker byte
}

// DefaultSyntax is Markdown ATX syntax.
var DefaultSyntax = Syntax{Marker: '#'}

// ExtractLevel returns the headline level of line under DefaultSyntax.
func ExtractLevel(line string) (int, bool) {
	return DefaultSyntax.ExtractLevel(line)
}

// ExtractLevel returns the length of the leading marker run of line, or false
// when line is not a headline.
func (s Syntax) ExtractLevel(line string) (int, bool) {
	re, err := s.Pattern(AnyLevel, MatchAny)
	if err != nil {
		return 0, false
	}
	m := re.FindStringSubmatchIndex(line)
	if m == nil {
		return 0, false
	}
	return m[3] - m[2], true
}

type patternKey struct {
	marker byte
	level  int
	match  MatchType
}

var patternCache sync.Map // patternKey -> *regexp.Regexp

// Pattern returns the multi-line regexp matching headlines of the given level
// and match type.
func (s Syntax) Pattern(level int, match MatchType) (*regexp.Regexp, error) {
	if match == MatchAny {
		level = AnyLevel
	} else if level < 1 {
		return nil, fmt.Errorf("%s match with level %d: %w", match, level, ErrInvalidLevel)
	}

	marker := s.Marker
	if marker == 0 {
		marker = DefaultSyntax.Marker
	}
	key := patternKey{marker: marker, level: level, match: match}
	if re, ok := patternCache.Load(key); ok {
		return re.(*regexp.Regexp), nil
	}

	m := regexp.QuoteMeta(string(marker))
	var run string
	switch match {
	case MatchAny:
		run = "(?:" + m + ")+"
	case MatchParent:
		run = fmt.Sprintf("(?:%s){1,%d}", m, level)
	case MatchChild:
		run = fmt.Sprintf("(?:%s){%d,}", m, level)
	case MatchSibling:
		run = fmt.Sprintf("(?:%s){%d}", m, level)
	default:
		return nil, fmt.Errorf("unknown match type %d", int(match))
	}

	re, err := regexp.Compile(`(?m)^(` + run + `)[ \t]+\S`)
	if err != nil {
		return nil, fmt.Errorf("compile %s pattern for level %d: %w", match, level, err)
	}
	actual, _ := patternCache.LoadOrStore(key, re)
	return actual.(*regexp.Regexp), nil
}
