package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"git.home.luguber.info/inful/cistage/internal/logfields"
)

// Environment variable names understood by cistage.
const (
	// EnvSource supplies a colon separated list of source patterns when no
	// positional patterns are given.
	EnvSource     = "PLATFORMIO_CI_SRC"
	EnvRunner     = "CISTAGE_RUNNER"
	EnvBoardsFile = "CISTAGE_BOARDS_FILE"
	EnvLogLevel   = "CISTAGE_LOG_LEVEL"
	EnvLogFormat  = "CISTAGE_LOG_FORMAT"
)

// DefaultEnvFiles are tried in order by LoadEnvFiles.
var DefaultEnvFiles = []string{".env", ".env.local"}

// LoadEnvFiles loads KEY=VALUE pairs from the given files (DefaultEnvFiles
// when none are given). Missing files are skipped and variables already
// present in the process environment are never overwritten. It returns the
// files that were loaded.
func LoadEnvFiles(paths ...string) ([]string, error) {
	if len(paths) == 0 {
		paths = DefaultEnvFiles
	}
	var loaded []string
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return loaded, err
		}
		slog.Debug("Loaded environment file", logfields.Path(p))
		loaded = append(loaded, p)
	}
	return loaded, nil
}
