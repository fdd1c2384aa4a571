package merge

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/cistage/internal/logfields"
)

// copier copies trees and files while tracking destinations that already
// existed.
type copier struct {
	overwritten []string
}

// copyDir recursively copies src into dst, following symlinks. Existing
// directories at dst are merged into.
func (c *copier) copyDir(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}
	if dstInfo, err := os.Stat(dst); err == nil && !dstInfo.IsDir() {
		return fmt.Errorf("cannot copy directory %s over file %s", src, dst)
	}
	if err := os.MkdirAll(dst, srcInfo.Mode().Perm()|0o700); err != nil {
		return err
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		info, err := os.Stat(srcPath)
		if err != nil {
			return fmt.Errorf("stat %s: %w", srcPath, err)
		}
		switch {
		case info.IsDir():
			if err := c.copyDir(srcPath, dstPath); err != nil {
				return err
			}
		case info.Mode().IsRegular():
			if err := c.copyFile(srcPath, dstPath); err != nil {
				return err
			}
		default:
			slog.Debug("Skipping special file", logfields.Source(srcPath))
		}
	}
	return nil
}

// copyFile copies a single file from src to dst, preserving its permissions.
func (c *copier) copyFile(src, dst string) error {
	if info, err := os.Lstat(dst); err == nil {
		if info.IsDir() {
			return fmt.Errorf("cannot copy file %s over directory %s", src, dst)
		}
		c.overwritten = append(c.overwritten, dst)
		slog.Warn("Overwriting staged file", logfields.Path(dst), logfields.Source(src))
	}

	srcFile, err := os.Open(src) // #nosec G304 -- paths come from operator supplied patterns
	if err != nil {
		return err
	}
	defer func() {
		_ = srcFile.Close()
	}()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return err
	}

	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, srcInfo.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(dstFile, srcFile); err != nil {
		_ = dstFile.Close()
		return err
	}
	if err := dstFile.Close(); err != nil {
		return err
	}
	return os.Chmod(dst, srcInfo.Mode().Perm())
}

// CopyFile copies a single file verbatim, replacing dst if present.
func CopyFile(src, dst string) error {
	c := &copier{}
	return c.copyFile(src, dst)
}
