package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	ferrors "git.home.luguber.info/inful/cistage/internal/foundation/errors"
	"git.home.luguber.info/inful/cistage/internal/logfields"
)

const tempPrefix = "cistage-"

// Manager handles a single build workspace directory.
type Manager struct {
	path     string
	released bool
}

// NewTemp creates a fresh unique directory under baseDir (os.TempDir when empty).
func NewTemp(baseDir string) (*Manager, error) {
	dir, err := os.MkdirTemp(baseDir, tempPrefix)
	if err != nil {
		return nil, ferrors.FileSystemError(err, "failed to create workspace directory").
			WithContext("base", baseDir).
			Build()
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, ferrors.FileSystemError(err, "failed to resolve workspace directory").Build()
	}
	slog.Info("Created workspace", logfields.Path(abs))
	return &Manager{path: abs}, nil
}

// Open uses an existing directory as the workspace. The directory must
// exist, be a directory and be writable.
func Open(path string) (*Manager, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, invalidBuildDir(path, err.Error())
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, ferrors.NotFoundError(fmt.Sprintf("build directory %q does not exist", path)).
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	if !info.IsDir() {
		return nil, invalidBuildDir(path, "is not a directory")
	}
	if err := checkWritable(abs); err != nil {
		return nil, invalidBuildDir(path, "is not writable")
	}
	return &Manager{path: abs}, nil
}

func invalidBuildDir(path, reason string) error {
	return ferrors.ValidationError(fmt.Sprintf("build directory %q %s", path, reason)).
		WithContext("path", path).
		Build()
}

func checkWritable(dir string) error {
	f, err := os.CreateTemp(dir, ".probe-")
	if err != nil {
		return err
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}

// Path returns the absolute workspace path.
func (m *Manager) Path() string {
	return m.path
}

// EnsureClean removes the workspace recursively and recreates it empty.
func (m *Manager) EnsureClean() error {
	info, err := os.Stat(m.path)
	if err != nil {
		return ferrors.FileSystemError(err, "workspace directory missing").
			WithContext("path", m.path).
			Build()
	}
	if err := os.RemoveAll(m.path); err != nil {
		return ferrors.FileSystemError(err, "failed to clean workspace").
			WithContext("path", m.path).
			Build()
	}
	if err := os.Mkdir(m.path, info.Mode().Perm()); err != nil {
		return ferrors.FileSystemError(err, "failed to recreate workspace").
			WithContext("path", m.path).
			Build()
	}
	slog.Debug("Workspace cleaned", logfields.Path(m.path))
	return nil
}

// Subdir returns the absolute path of a direct child of the workspace. It
// does not create the directory.
func (m *Manager) Subdir(name string) string {
	return filepath.Join(m.path, name)
}

// Teardown removes the workspace unless keep is set. Repeated calls are no-ops.
func (m *Manager) Teardown(keep bool) error {
	if m.released {
		return nil
	}
	m.released = true

	if keep {
		slog.Info("Keeping workspace", logfields.Path(m.path))
		return nil
	}
	if err := os.RemoveAll(m.path); err != nil {
		return ferrors.FileSystemError(err, "failed to remove workspace").
			WithContext("path", m.path).
			Build()
	}
	slog.Info("Removed workspace", logfields.Path(m.path))
	return nil
}
