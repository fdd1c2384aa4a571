package ci

import (
	"fmt"
	"os"

	"git.home.luguber.info/inful/cistage/internal/boards"
	ferrors "git.home.luguber.info/inful/cistage/internal/foundation/errors"
	"git.home.luguber.info/inful/cistage/internal/resolve"
)

// ErrNoBuildEnvironments is returned when neither a project configuration
// file nor any board was supplied.
var ErrNoBuildEnvironments = ferrors.ValidationError("no build environments: supply --project-conf or at least one --board").Build()

// ErrMissingSource is returned when no source pattern was given.
var ErrMissingSource = ferrors.ValidationError("missing argument 'src'").Build()

// Request describes one staging run.
type Request struct {
	Src     []string
	Lib     []string
	Exclude []string
	Boards  []string
	// BuildDir is an existing directory to use as the workspace. Empty means
	// a fresh temp directory.
	BuildDir     string
	KeepBuildDir bool
	ProjectConf  string
	// NonInteractive is forwarded to the initializer and build runner.
	NonInteractive bool
}

// Validate checks everything that can be checked without touching the
// workspace. It returns the first problem found.
func Validate(req Request, registry *boards.Registry) error {
	if len(req.Src) == 0 {
		return ErrMissingSource
	}
	if err := resolve.Validate(req.Src); err != nil {
		return err
	}
	if err := resolve.Validate(req.Lib); err != nil {
		return err
	}
	if registry != nil {
		if err := registry.Validate(req.Boards); err != nil {
			return err
		}
	}
	if req.ProjectConf != "" {
		if err := checkReadableFile(req.ProjectConf); err != nil {
			return err
		}
	} else if len(req.Boards) == 0 {
		return ErrNoBuildEnvironments
	}
	return nil
}

func checkReadableFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return ferrors.NotFoundError(fmt.Sprintf("project configuration %q does not exist", path)).
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	if !info.Mode().IsRegular() {
		return invalidProjectConf(path, "is not a file")
	}
	f, err := os.Open(path) // #nosec G304 -- operator supplied path
	if err != nil {
		return invalidProjectConf(path, "is not readable")
	}
	return f.Close()
}

func invalidProjectConf(path, reason string) error {
	return ferrors.ValidationError(fmt.Sprintf("project configuration %q %s", path, reason)).
		WithContext("path", path).
		Build()
}
