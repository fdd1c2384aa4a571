package exclude

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stage(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		p := filepath.Join(root, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte(f), 0o600))
	}
}

func TestApplyRemovesMatchingFiles(t *testing.T) {
	root := t.TempDir()
	stage(t, root,
		"lib/Foo/test_foo.c",
		"lib/Foo/foo.c",
		"lib/Bar/sub/test_bar.c",
		"src/test_main.c",
	)

	res, err := Apply(root, []string{"lib/**/test_*.c"})
	require.NoError(t, err)

	assert.Len(t, res.Removed, 2)
	assert.NoFileExists(t, filepath.Join(root, "lib/Foo/test_foo.c"))
	assert.NoFileExists(t, filepath.Join(root, "lib/Bar/sub/test_bar.c"))
	assert.FileExists(t, filepath.Join(root, "lib/Foo/foo.c"))
	assert.FileExists(t, filepath.Join(root, "src/test_main.c"))
}

func TestApplyRemovesDirectoriesRecursively(t *testing.T) {
	root := t.TempDir()
	stage(t, root, "lib/Foo/examples/a/a.ino", "lib/Foo/foo.c")

	_, err := Apply(root, []string{"lib/*/examples"})
	require.NoError(t, err)

	assert.NoDirExists(t, filepath.Join(root, "lib/Foo/examples"))
	assert.FileExists(t, filepath.Join(root, "lib/Foo/foo.c"))
}

func TestApplyKeepsHiddenEntries(t *testing.T) {
	root := t.TempDir()
	stage(t, root, "vendor/a.c", "vendor/.hidden.c", "vendor/.git/HEAD")

	res, err := Apply(root, []string{"vendor/*"})
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(root, "vendor", "a.c")}, res.Removed)
	assert.FileExists(t, filepath.Join(root, "vendor/.hidden.c"))
	assert.FileExists(t, filepath.Join(root, "vendor/.git/HEAD"))

	_, err = Apply(root, []string{"vendor/.git"})
	require.NoError(t, err)
	assert.NoDirExists(t, filepath.Join(root, "vendor/.git"))
}

func TestApplyZeroMatchesIsNotAnError(t *testing.T) {
	root := t.TempDir()
	stage(t, root, "src/main.c")

	res, err := Apply(root, []string{"lib/*", "does/not/exist"})
	require.NoError(t, err)
	assert.Empty(t, res.Removed)
	assert.FileExists(t, filepath.Join(root, "src/main.c"))
}

func TestApplyOverlappingPatternsAreIdempotent(t *testing.T) {
	root := t.TempDir()
	stage(t, root, "lib/Foo/test/t1.c", "lib/Foo/test/t2.c")

	res, err := Apply(root, []string{"lib/Foo/test/*.c", "lib/Foo/test", "lib/**/t1.c"})
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(root, "lib/Foo/test")}, res.Removed)
	assert.NoDirExists(t, filepath.Join(root, "lib/Foo/test"))
}

func TestApplyNeverLeavesWorkspace(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "ws")
	stage(t, root, "src/main.c")
	stage(t, parent, "outside.c")

	_, err := Apply(root, []string{"../*.c", "."})
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(parent, "outside.c"))
	assert.DirExists(t, root)
}
