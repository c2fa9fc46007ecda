// File: pkg/archive/matcher.go
package archive

import (
	"fmt"
	"path/filepath"
	"regexp"
)

// Matcher tests tree-relative paths against a set of exclusion patterns.
// A nil Matcher matches nothing.
type Matcher struct {
	patterns []*regexp.Regexp
}

// CompileMatcher compiles each pattern as a regular expression. The first
// pattern that fails to compile aborts compilation with ErrInvalidPattern.
func CompileMatcher(patterns []string) (*Matcher, error) {
	m := &Matcher{patterns: make([]*regexp.Regexp, 0, len(patterns))}
	for i, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: exclude[%d] %q: %v", ErrInvalidPattern, i, pattern, err)
		}
		m.patterns = append(m.patterns, re)
	}
	return m, nil
}

// Len returns the number of compiled patterns.
func (m *Matcher) Len() int {
	if m == nil {
		return 0
	}
	return len(m.patterns)
}

// Matches reports whether candidate matches any pattern.
func (m *Matcher) Matches(candidate string) bool {
	matched, _ := m.MatchesWithPattern(candidate)
	return matched
}

// MatchesWithPattern reports whether candidate matches any pattern and
// returns the source of the first pattern that did.
func (m *Matcher) MatchesWithPattern(candidate string) (bool, string) {
	if m == nil {
		return false, ""
	}
	normalized := normalizePath(candidate)
	for _, re := range m.patterns {
		if re.MatchString(normalized) {
			return true, re.String()
		}
	}
	return false, ""
}

// normalizePath converts OS-specific path separators to forward slashes.
func normalizePath(path string) string {
	return filepath.ToSlash(path)
}
