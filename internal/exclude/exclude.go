// Package exclude prunes staged workspace content matching exclusion globs.
package exclude

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ferrors "git.home.luguber.info/inful/cistage/internal/foundation/errors"
	"git.home.luguber.info/inful/cistage/internal/logfields"
	"git.home.luguber.info/inful/cistage/internal/resolve"
)

// Result lists the paths removed by Apply.
type Result struct {
	Removed []string
}

// Apply resolves every pattern relative to root and deletes the matches:
// directories recursively, files individually. Patterns matching nothing
// are not an error and a path already removed by an overlapping pattern is
// skipped. Matches outside root are never touched.
func Apply(root string, patterns []string) (Result, error) {
	var res Result
	if len(patterns) == 0 {
		return res, nil
	}
	root = filepath.Clean(root)

	var matches []string
	for _, p := range patterns {
		found, err := resolve.Expand(filepath.Join(root, p))
		if err != nil {
			return res, err
		}
		if len(found) == 0 {
			slog.Debug("Exclusion matched nothing", logfields.Pattern(p))
		}
		for _, m := range found {
			if !within(root, m) {
				slog.Warn("Ignoring exclusion match outside workspace", logfields.Pattern(p), logfields.Path(m))
				continue
			}
			matches = append(matches, m)
		}
	}

	// Shallow paths first so descendants of a removed directory are skipped.
	sort.SliceStable(matches, func(i, j int) bool {
		return len(matches[i]) < len(matches[j])
	})

	for _, m := range matches {
		info, err := os.Lstat(m)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return res, removeFailed(m, err)
		}
		if info.IsDir() {
			err = os.RemoveAll(m)
		} else {
			err = os.Remove(m)
		}
		if err != nil && !os.IsNotExist(err) {
			return res, removeFailed(m, err)
		}
		res.Removed = append(res.Removed, m)
		slog.Debug("Excluded path", logfields.Path(m))
	}

	slog.Info("Applied exclusions", logfields.Count(len(res.Removed)))
	return res, nil
}

func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func removeFailed(path string, err error) error {
	return ferrors.FileSystemError(err, "failed to remove excluded path").
		WithContext("path", path).
		Build()
}
