package core

import (
	"regexp"
)

// NameMatcher is a predicate on property names.
type NameMatcher interface {
	Matches(name string) bool

	// String renders the matcher as it would appear in a
	// script.
	String() string
}

// ExactMatcher matches one name exactly (case-sensitive).
type ExactMatcher struct {
	Name string
}

// Exact makes an ExactMatcher.
func Exact(name string) *ExactMatcher {
	return &ExactMatcher{Name: name}
}

func (m *ExactMatcher) Matches(name string) bool {
	return m.Name == name
}

func (m *ExactMatcher) String() string {
	return `is "` + m.Name + `"`
}

// PatternMatcher matches names that match a regular expression over
// their entire length.
type PatternMatcher struct {
	Pattern string
	re      *regexp.Regexp
}

// Like compiles the pattern as a PatternMatcher.  The pattern is
// anchored at both ends, so "foo" doesn't match "foobar".
func Like(pattern string) (*PatternMatcher, error) {
	re, err := regexp.Compile(`^(?:` + pattern + `)$`)
	if err != nil {
		return nil, &PatternError{
			Pattern: pattern,
			Err:     err,
		}
	}
	return &PatternMatcher{
		Pattern: pattern,
		re:      re,
	}, nil
}

// MustLike is Like that panics.
func MustLike(pattern string) *PatternMatcher {
	m, err := Like(pattern)
	if err != nil {
		panic(err)
	}
	return m
}

func (m *PatternMatcher) Matches(name string) bool {
	return m.re.MatchString(name)
}

func (m *PatternMatcher) String() string {
	return `is like "` + m.Pattern + `"`
}

// Otherwise is the matcher used for an "else" alternative.  It
// matches every name, including names with line breaks.
var Otherwise = MustLike("(?s).*")
