package merge

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	ferrors "git.home.luguber.info/inful/cistage/internal/foundation/errors"
	"git.home.luguber.info/inful/cistage/internal/logfields"
	"git.home.luguber.info/inful/cistage/internal/resolve"
	"git.home.luguber.info/inful/cistage/internal/util/sets"
)

// Role selects the nesting policy for a destination directory.
type Role string

const (
	RoleSrc Role = "src"
	RoleLib Role = "lib"
)

// Result summarizes one merge.
type Result struct {
	Destination string
	Promoted    bool
	Directories int
	Files       int
	// LooseDir is the generated subdirectory holding loose lib files.
	LooseDir    string
	Overwritten []string
}

// Merge populates dst from entries according to role. dst must not be
// shared with another role.
func Merge(dst string, role Role, entries []resolve.Entry) (Result, error) {
	if role != RoleSrc && role != RoleLib {
		return Result{}, ferrors.InternalError(fmt.Sprintf("unknown merge role %q", role)).Build()
	}

	dirSet, fileSet := resolve.Partition(entries)
	dirs, files := sets.Sorted(dirSet), sets.Sorted(fileSet)
	res := Result{Destination: dst, Directories: len(dirs), Files: len(files)}
	c := &copier{}

	if role == RoleSrc && len(dirs) == 1 {
		res.Promoted = true
		slog.Debug("Promoting single source directory", logfields.Source(dirs[0]), logfields.Path(dst))
		if err := c.copyDir(dirs[0], dst); err != nil {
			return res, copyFailed(role, dirs[0], err)
		}
	} else {
		if err := os.MkdirAll(dst, 0o750); err != nil {
			return res, copyFailed(role, dst, err)
		}
		for _, d := range dirs {
			if err := c.copyDir(d, filepath.Join(dst, filepath.Base(d))); err != nil {
				return res, copyFailed(role, d, err)
			}
		}
	}

	if len(files) > 0 {
		fileDst := dst
		if role == RoleLib {
			fileDst = filepath.Join(dst, uuid.NewString())
			if err := os.Mkdir(fileDst, 0o750); err != nil {
				return res, copyFailed(role, fileDst, err)
			}
			res.LooseDir = fileDst
		}
		for _, f := range files {
			if err := c.copyFile(f, filepath.Join(fileDst, filepath.Base(f))); err != nil {
				return res, copyFailed(role, f, err)
			}
		}
	}

	res.Overwritten = c.overwritten
	slog.Info("Merged contents",
		logfields.Role(string(role)),
		logfields.Path(dst),
		slog.Int("directories", res.Directories),
		slog.Int("files", res.Files),
		slog.Bool("promoted", res.Promoted))
	return res, nil
}

func copyFailed(role Role, source string, err error) error {
	return ferrors.FileSystemError(err, "copy failed").
		WithContext("role", string(role)).
		WithContext("source", source).
		Build()
}
