package integration

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/cistage/cmd/cistage/commands"
)

// fakePlatformIO installs a runner script that snapshots the staged project
// on init and records each invocation. Exit code for "run" is buildExit.
func fakePlatformIO(t *testing.T, buildExit string) (bin, logDir string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script runner not supported on windows")
	}
	logDir = t.TempDir()
	bin = filepath.Join(logDir, "platformio")
	script := `#!/bin/sh
echo "$*" >> "` + logDir + `/calls.log"
if [ "$1" = "init" ]; then
  find . -type f | sed 's|^\./||' | sort > "` + logDir + `/tree.txt"
  exit 0
fi
echo "Building in $(pwd)"
exit ` + buildExit + "\n"
	require.NoError(t, os.WriteFile(bin, []byte(script), 0o700)) // #nosec G306 -- test fixture must be executable
	return bin, logDir
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	g := &commands.Global{Stdout: &out, Stderr: &bytes.Buffer{}}
	err := commands.Execute(t.Context(), args, g)
	return out.String(), err
}
