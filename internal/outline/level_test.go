package outline_test

import (
	"errors"
	"testing"

	"github.com/dgallion1/mdoutline/internal/outline"
)

func TestExtractLevel(t *testing.T) {
	tests := []struct {
		line  string
		level int
		ok    bool
	}{
		{"### Title", 3, true},
		{"# A", 1, true},
		{"#\tTabbed", 1, true},
		{"###### Six", 6, true},
		{"####### Seven", 7, true},
		{"###Title", 0, false},
		{"", 0, false},
		{"# ", 0, false},
		{"  # Indented", 0, false},
		{"text # not", 0, false},
	}
	for _, tt := range tests {
		level, ok := outline.ExtractLevel(tt.line)
		if ok != tt.ok || level != tt.level {
			t.Errorf("ExtractLevel(%q): expected (%d, %v), got (%d, %v)", tt.line, tt.level, tt.ok, level, ok)
		}
	}
}

func TestSyntax_CustomMarker(t *testing.T) {
	s := outline.Syntax{Marker: '*'}
	level, ok := s.ExtractLevel("** Heading")
	if !ok || level != 2 {
		t.Errorf("expected level 2, got (%d, %v)", level, ok)
	}
	if _, ok := s.ExtractLevel("## Heading"); ok {
		t.Error("expected '#' line not to be a headline under '*' syntax")
	}
}

func TestSyntax_Pattern(t *testing.T) {
	s := outline.DefaultSyntax

	tests := []struct {
		level   int
		match   outline.MatchType
		line    string
		matches bool
	}{
		{2, outline.MatchParent, "# A", true},
		{2, outline.MatchParent, "## A", true},
		{2, outline.MatchParent, "### A", false},
		{2, outline.MatchChild, "# A", false},
		{2, outline.MatchChild, "#### A", true},
		{2, outline.MatchSibling, "## A", true},
		{2, outline.MatchSibling, "### A", false},
		{outline.AnyLevel, outline.MatchAny, "##### A", true},
	}
	for _, tt := range tests {
		re, err := s.Pattern(tt.level, tt.match)
		if err != nil {
			t.Fatalf("Pattern(%d, %s): unexpected error: %v", tt.level, tt.match, err)
		}
		if got := re.MatchString(tt.line); got != tt.matches {
			t.Errorf("Pattern(%d, %s) on %q: expected %v, got %v", tt.level, tt.match, tt.line, tt.matches, got)
		}
	}

	a, _ := s.Pattern(3, outline.MatchChild)
	b, _ := s.Pattern(3, outline.MatchChild)
	if a != b {
		t.Error("expected compiled pattern to be cached")
	}
}

func TestSyntax_PatternInvalidLevel(t *testing.T) {
	for _, match := range []outline.MatchType{outline.MatchParent, outline.MatchChild, outline.MatchSibling} {
		for _, level := range []int{outline.AnyLevel, 0} {
			_, err := outline.DefaultSyntax.Pattern(level, match)
			if !errors.Is(err, outline.ErrInvalidLevel) {
				t.Errorf("Pattern(%d, %s): expected ErrInvalidLevel, got %v", level, match, err)
			}
		}
	}
}

func TestParseMatchType(t *testing.T) {
	for _, m := range []outline.MatchType{outline.MatchParent, outline.MatchChild, outline.MatchSibling, outline.MatchAny} {
		got, err := outline.ParseMatchType(m.String())
		if err != nil || got != m {
			t.Errorf("ParseMatchType(%q): expected %s, got %s (err %v)", m.String(), m, got, err)
		}
	}
	if _, err := outline.ParseMatchType("cousin"); err == nil {
		t.Error("expected error for unknown match type")
	}
}
