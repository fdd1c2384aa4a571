package resolve

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	ferrors "git.home.luguber.info/inful/cistage/internal/foundation/errors"
)

// Expand returns the absolute paths matched by pattern, in the order the
// glob engine yields them. Wildcards never match hidden entries (names
// starting with "."); a hidden entry is only matched by a pattern segment
// that starts with "." itself. A malformed pattern is a validation error; a
// pattern that matches nothing returns an empty slice and no error.
func Expand(pattern string) ([]string, error) {
	if pattern == "" {
		return nil, nil
	}
	abs, err := filepath.Abs(pattern)
	if err != nil {
		return nil, ferrors.ValidationError("cannot resolve pattern").
			WithCause(err).
			WithContext("pattern", pattern).
			Build()
	}
	if !doublestar.ValidatePathPattern(abs) {
		return nil, ferrors.ValidationError("malformed pattern").
			WithContext("pattern", pattern).
			Build()
	}
	matches, err := doublestar.FilepathGlob(abs)
	if err != nil {
		return nil, ferrors.ValidationError("malformed pattern").
			WithCause(err).
			WithContext("pattern", pattern).
			Build()
	}
	return visible(abs, matches), nil
}

// visible drops matches that reach a hidden entry below the pattern's
// literal base through a wildcard segment.
func visible(pattern string, matches []string) []string {
	base, rest := doublestar.SplitPattern(filepath.ToSlash(pattern))
	var dotted []string
	for _, seg := range strings.Split(rest, "/") {
		if isHidden(seg) {
			dotted = append(dotted, seg)
		}
	}

	out := matches[:0]
	for _, m := range matches {
		rel, err := filepath.Rel(filepath.FromSlash(base), m)
		if err != nil {
			continue
		}
		if hiddenAllowed(strings.Split(filepath.ToSlash(rel), "/"), dotted) {
			out = append(out, m)
		}
	}
	return out
}

func hiddenAllowed(segments, dotted []string) bool {
	for _, seg := range segments {
		if !isHidden(seg) {
			continue
		}
		ok := false
		for _, p := range dotted {
			if matched, _ := doublestar.Match(p, seg); matched {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

// ExpandAll expands every pattern and concatenates the results in pattern
// order. Paths matched by more than one pattern appear more than once;
// Partition collapses them.
func ExpandAll(patterns []string) ([]string, error) {
	var out []string
	for _, p := range patterns {
		matches, err := Expand(p)
		if err != nil {
			return nil, err
		}
		out = append(out, matches...)
	}
	return out, nil
}

// Validate fails on the first pattern that matches no filesystem entry.
func Validate(patterns []string) error {
	for _, p := range patterns {
		matches, err := Expand(p)
		if err != nil {
			return err
		}
		if len(matches) == 0 {
			return InvalidPathError(p)
		}
	}
	return nil
}

// InvalidPathError reports a pattern that resolved to nothing.
func InvalidPathError(pattern string) error {
	return ferrors.ValidationError(fmt.Sprintf("found invalid path: %s", pattern)).
		WithContext("pattern", pattern).
		Build()
}

// Exists reports whether path names an existing entry without following a
// final symlink.
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
