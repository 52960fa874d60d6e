package walker

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultExcludes are directory names the walker never descends into,
// regardless of the configured glob patterns. These are tool and
// environment directories a Python project tree accumulates.
var DefaultExcludes = []string{
	".git",
	"__pycache__",
	".webready",
	".venv",
	"venv",
	"env",
	"build",
	"dist",
	".tox",
	".pytest_cache",
	".mypy_cache",
	".idea",
	".vscode",
}

// shouldExcludeDir reports whether a directory name is on the default
// skip list. Matching here prunes the whole subtree during traversal.
func shouldExcludeDir(name string) bool {
	for _, excl := range DefaultExcludes {
		if strings.EqualFold(name, excl) {
			return true
		}
	}
	return false
}

// MatchesInclude reports whether relPath matches at least one include
// pattern. An empty pattern list includes everything.
func MatchesInclude(relPath string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	return matchGlobs(relPath, patterns)
}

// MatchesExclude reports whether relPath matches at least one exclude
// pattern. An empty pattern list excludes nothing.
func MatchesExclude(relPath string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	return matchGlobs(relPath, patterns)
}

// matchGlobs matches relPath against doublestar patterns. Patterns are
// tried against the full slash-normalized path and against the bare
// filename, so "test_*.py" excludes test files at any depth without
// needing a "**/" prefix.
func matchGlobs(relPath string, patterns []string) bool {
	path := filepath.ToSlash(relPath)
	base := filepath.Base(path)
	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)
		if ok, err := doublestar.PathMatch(pattern, path); err == nil && ok {
			return true
		}
		if ok, err := doublestar.PathMatch(pattern, base); err == nil && ok {
			return true
		}
	}
	return false
}
