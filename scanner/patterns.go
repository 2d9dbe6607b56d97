package scanner

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// PatternMatcher decides which relative paths a scan reports.
// Excludes take precedence over includes; with no includes every path is included.
type PatternMatcher struct {
	includes []string
	excludes []string
}

// NewPatternMatcher normalizes and validates the given patterns.
func NewPatternMatcher(includes, excludes []string) (*PatternMatcher, error) {
	inc, err := normalizePatterns(includes)
	if err != nil {
		return nil, err
	}
	if len(inc) == 0 {
		inc = []string{"**"}
	}

	exc, err := normalizePatterns(excludes)
	if err != nil {
		return nil, err
	}

	return &PatternMatcher{
		includes: inc,
		excludes: exc,
	}, nil
}

// ShouldIncludeFile reports whether relPath matches an include and no exclude.
func (pm *PatternMatcher) ShouldIncludeFile(relPath string) bool {
	relPath = filepath.ToSlash(relPath)
	return !pm.Excluded(relPath) && pm.Included(relPath)
}

// Included reports whether relPath matches at least one include pattern.
func (pm *PatternMatcher) Included(relPath string) bool {
	return matchAny(pm.includes, filepath.ToSlash(relPath))
}

// Excluded reports whether relPath matches at least one exclude pattern.
func (pm *PatternMatcher) Excluded(relPath string) bool {
	return matchAny(pm.excludes, filepath.ToSlash(relPath))
}

// CanSkipDir reports whether every path below relDir is excluded, which
// holds when an exclude of the form "<dir pattern>/**" matches relDir itself.
func (pm *PatternMatcher) CanSkipDir(relDir string) bool {
	relDir = filepath.ToSlash(relDir)
	for _, pattern := range pm.excludes {
		prefix, ok := strings.CutSuffix(pattern, "/**")
		if !ok {
			continue
		}
		if match, _ := doublestar.Match(prefix, relDir); match {
			return true
		}
	}
	return false
}

func matchAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		// patterns are validated up front, so Match cannot fail here
		if match, _ := doublestar.Match(pattern, path); match {
			return true
		}
	}
	return false
}

// literalReplacer escapes the doublestar meta characters that have no
// special meaning in scan patterns. Only "*", "?" and "**" are wildcards.
var literalReplacer = strings.NewReplacer(
	"[", "\\[",
	"]", "\\]",
	"{", "\\{",
	"}", "\\}",
)

func normalizePatterns(patterns []string) ([]string, error) {
	out := make([]string, 0, len(patterns))
	for i, pattern := range patterns {
		p := strings.TrimSpace(strings.ReplaceAll(pattern, "\\", "/"))
		if p == "" {
			continue
		}
		if strings.HasSuffix(p, "/") {
			p += "**"
		}
		p = literalReplacer.Replace(p)
		// a NUL byte cannot appear in any file name
		if strings.ContainsRune(p, 0) || !doublestar.ValidatePattern(p) {
			return nil, &PatternError{
				Pattern: pattern,
				Index:   i,
				Err:     ErrInvalidPattern,
			}
		}
		out = append(out, p)
	}
	return out, nil
}

// PatternError represents an error with a pattern.
type PatternError struct {
	Pattern string
	Index   int
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid pattern at index %d '%s': %v", e.Index, e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}
