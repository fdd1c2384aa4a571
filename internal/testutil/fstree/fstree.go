// Package fstree builds and inspects small directory trees in tests.
package fstree

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

// Write creates each relative file under root with its own path as content.
// Entries ending in "/" create empty directories. It returns root.
func Write(t testing.TB, root string, paths ...string) string {
	t.Helper()
	for _, rel := range paths {
		full := filepath.Join(root, filepath.FromSlash(rel))
		if strings.HasSuffix(rel, "/") {
			if err := os.MkdirAll(full, 0o750); err != nil {
				t.Fatalf("mkdir %s: %v", full, err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
			t.Fatalf("mkdir %s: %v", filepath.Dir(full), err)
		}
		if err := os.WriteFile(full, []byte(rel), 0o600); err != nil {
			t.Fatalf("write %s: %v", full, err)
		}
	}
	return root
}

// Files returns every regular file below root as a sorted slash separated
// relative path.
func Files(t testing.TB, root string) []string {
	t.Helper()
	var out []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			rel, relErr := filepath.Rel(root, p)
			if relErr != nil {
				return relErr
			}
			out = append(out, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk %s: %v", root, err)
	}
	slices.Sort(out)
	return out
}

// Assertions provides fluent checks on a tree rooted at baseDir.
type Assertions struct {
	t       testing.TB
	baseDir string
}

// Assert returns assertions for baseDir.
func Assert(t testing.TB, baseDir string) *Assertions {
	return &Assertions{t: t, baseDir: baseDir}
}

// FileExists validates that a regular file exists.
func (a *Assertions) FileExists(rel string) *Assertions {
	a.t.Helper()
	full := filepath.Join(a.baseDir, filepath.FromSlash(rel))
	if info, err := os.Stat(full); err != nil {
		a.t.Errorf("Expected file to exist: %s", full)
	} else if !info.Mode().IsRegular() {
		a.t.Errorf("Expected %s to be a file", full)
	}
	return a
}

// DirExists validates that a directory exists.
func (a *Assertions) DirExists(rel string) *Assertions {
	a.t.Helper()
	full := filepath.Join(a.baseDir, filepath.FromSlash(rel))
	if info, err := os.Stat(full); err != nil {
		a.t.Errorf("Expected directory to exist: %s", full)
	} else if !info.IsDir() {
		a.t.Errorf("Expected %s to be a directory, but it's a file", full)
	}
	return a
}

// Absent validates that nothing exists at rel.
func (a *Assertions) Absent(rel string) *Assertions {
	a.t.Helper()
	full := filepath.Join(a.baseDir, filepath.FromSlash(rel))
	if _, err := os.Lstat(full); err == nil {
		a.t.Errorf("Expected path to not exist: %s", full)
	}
	return a
}

// FileContains validates that a file contains expected content.
func (a *Assertions) FileContains(rel, expected string) *Assertions {
	a.t.Helper()
	full := filepath.Join(a.baseDir, filepath.FromSlash(rel))
	content, err := os.ReadFile(full)
	if err != nil {
		a.t.Errorf("Failed to read file %s: %v", full, err)
		return a
	}
	if !strings.Contains(string(content), expected) {
		a.t.Errorf("Expected file %s to contain %q\nActual content:\n%s", rel, expected, string(content))
	}
	return a
}

// ChildCount validates the number of direct children of a directory.
func (a *Assertions) ChildCount(rel string, want int) *Assertions {
	a.t.Helper()
	full := filepath.Join(a.baseDir, filepath.FromSlash(rel))
	entries, err := os.ReadDir(full)
	if err != nil {
		a.t.Errorf("Failed to read directory %s: %v", full, err)
		return a
	}
	if len(entries) != want {
		a.t.Errorf("Expected %d entries in %s, found %d", want, full, len(entries))
	}
	return a
}
