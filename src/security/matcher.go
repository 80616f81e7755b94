package security

import (
	"path"
	"strings"
)

// AntMatcher matches request paths against ant-style patterns:
// "**" spans any number of segments (including none), "*" and "?" match
// inside a single segment, anything else is literal.
type AntMatcher struct {
	pattern  string
	segments []string
}

func NewAntMatcher(pattern string) AntMatcher {
	return AntMatcher{pattern: pattern, segments: split(pattern)}
}

func (m AntMatcher) Pattern() string {
	return m.pattern
}

func (m AntMatcher) Matches(requestPath string) bool {
	return matchSegments(m.segments, split(requestPath))
}

func split(p string) []string {
	trimmed := strings.Trim(p, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func matchSegments(pattern []string, segments []string) bool {
	for len(pattern) > 0 {
		if pattern[0] == "**" {
			rest := pattern[1:]
			for i := 0; i <= len(segments); i++ {
				if matchSegments(rest, segments[i:]) {
					return true
				}
			}
			return false
		}

		if len(segments) == 0 {
			return false
		}

		ok, err := path.Match(pattern[0], segments[0])
		if err != nil || !ok {
			return false
		}

		pattern = pattern[1:]
		segments = segments[1:]
	}

	return len(segments) == 0
}
