package scanner

import (
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// Matcher decides whether a path is excluded. A pattern excludes a path when
// it equals the path or one of its parent directories, or when it matches the
// full path or the base name as a glob ("*.iso", "/home/*/.cache").
type Matcher struct {
	prefixes []string
	globs    []glob.Glob
}

// NewMatcher compiles patterns. Patterns that fail to compile as globs are
// still used as literal prefixes.
func NewMatcher(patterns []string) *Matcher {
	m := &Matcher{}
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		m.prefixes = append(m.prefixes, filepath.Clean(p))
		if g, err := glob.Compile(p, filepath.Separator); err == nil {
			m.globs = append(m.globs, g)
		}
	}
	return m
}

// Empty reports whether the matcher excludes nothing.
func (m *Matcher) Empty() bool {
	return m == nil || len(m.prefixes) == 0
}

// Match reports whether path is excluded.
func (m *Matcher) Match(path string) bool {
	if m.Empty() {
		return false
	}

	for _, prefix := range m.prefixes {
		if path == prefix || strings.HasPrefix(path, prefix+string(filepath.Separator)) {
			return true
		}
	}

	base := filepath.Base(path)
	for _, g := range m.globs {
		if g.Match(path) || g.Match(base) {
			return true
		}
	}

	return false
}
