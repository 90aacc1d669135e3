package hooks

import (
	"fmt"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// matchMode selects which event field a matcher inspects
type matchMode int

const (
	matchAll matchMode = iota
	matchToolExact
	matchToolRegexp
	matchPathGlob
)

// toolAlternation recognizes plain tool name lists like "Write|Edit"
var toolAlternation = regexp.MustCompile(`^[A-Za-z0-9_]+(\|[A-Za-z0-9_]+)*$`)

// Matcher is a compiled matcher pattern. The pattern shape decides
// what it matches against:
//
//   - empty or "*" matches every event
//   - a pattern containing "/", "**" or starting with "*." is a glob
//     over the event file path
//   - a plain name list like "Write|Edit" matches the tool name exactly
//   - anything else compiles as an anchored regular expression over
//     the tool name
type Matcher struct {
	raw  string
	mode matchMode

	tools    map[string]bool
	re       *regexp.Regexp
	glob     string
	baseOnly bool
}

// CompileMatcher compiles a matcher pattern
func CompileMatcher(pattern string) (*Matcher, error) {
	m := &Matcher{raw: pattern}

	switch {
	case pattern == "" || pattern == "*":
		m.mode = matchAll

	case isPathPattern(pattern):
		glob := filepath.ToSlash(pattern)
		if !doublestar.ValidatePattern(glob) {
			return nil, fmt.Errorf("invalid glob pattern")
		}
		m.mode = matchPathGlob
		m.glob = glob
		m.baseOnly = !strings.Contains(glob, "/")

	case toolAlternation.MatchString(pattern):
		m.mode = matchToolExact
		m.tools = make(map[string]bool)
		for _, name := range strings.Split(pattern, "|") {
			m.tools[name] = true
		}

	default:
		re, err := regexp.Compile("^(?:" + pattern + ")$")
		if err != nil {
			return nil, fmt.Errorf("invalid regular expression: %w", err)
		}
		m.mode = matchToolRegexp
		m.re = re
	}

	return m, nil
}

// isPathPattern reports whether the pattern addresses file paths
// rather than tool names.
func isPathPattern(pattern string) bool {
	if strings.Contains(pattern, "/") || strings.Contains(pattern, "**") {
		return true
	}
	return strings.HasPrefix(pattern, "*.")
}

// Pattern returns the raw pattern this matcher was compiled from
func (m *Matcher) Pattern() string {
	return m.raw
}

// Matches reports whether the matcher accepts an event carrying the
// given tool name and file path. Glob matchers with no separator
// match the file's base name so "*.py" works for any directory depth.
func (m *Matcher) Matches(toolName, filePath string) bool {
	switch m.mode {
	case matchAll:
		return true

	case matchToolExact:
		return m.tools[toolName]

	case matchToolRegexp:
		return toolName != "" && m.re.MatchString(toolName)

	case matchPathGlob:
		if filePath == "" {
			return false
		}
		target := filepath.ToSlash(filePath)
		if m.baseOnly {
			target = path.Base(target)
		}
		ok, err := doublestar.Match(m.glob, target)
		return err == nil && ok
	}

	return false
}
