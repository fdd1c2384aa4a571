package ci

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/cistage/internal/boards"
	ferrors "git.home.luguber.info/inful/cistage/internal/foundation/errors"
	"git.home.luguber.info/inful/cistage/internal/pipeline"
)

type fixture struct {
	in       string
	tempBase string
	inv      *pipeline.RecordingInvoker
	runner   *Runner
	// snapshot holds the relative file list seen by the initializer.
	snapshot []string
	wsSeen   string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	reg, err := boards.Builtin()
	require.NoError(t, err)

	f := &fixture{in: t.TempDir(), tempBase: t.TempDir()}
	f.inv = &pipeline.RecordingInvoker{}
	f.inv.OnInit = func(req pipeline.InitRequest) {
		f.wsSeen = req.ProjectDir
		f.snapshot = walk(t, req.ProjectDir)
	}
	f.runner = NewRunner(f.inv, reg).WithTempBase(f.tempBase)
	return f
}

func (f *fixture) write(t *testing.T, rel string) string {
	t.Helper()
	p := filepath.Join(f.in, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
	require.NoError(t, os.WriteFile(p, []byte(rel), 0o600))
	return p
}

func (f *fixture) path(rel string) string { return filepath.Join(f.in, rel) }

func walk(t *testing.T, root string) []string {
	t.Helper()
	var files []string
	require.NoError(t, filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			rel, _ := filepath.Rel(root, p)
			files = append(files, filepath.ToSlash(rel))
		}
		return nil
	}))
	return files
}

func TestScenarioA_SingleSourceDirectoryIsPromoted(t *testing.T) {
	f := newFixture(t)
	f.write(t, "firmware/main.c")

	report, err := f.runner.Run(context.Background(), Request{
		Src:    []string{f.path("firmware")},
		Boards: []string{"uno"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"src/main.c"}, f.snapshot)
	calls := f.inv.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "initialize", calls[0].Step)
	assert.Equal(t, []string{"uno"}, calls[0].Init.Boards)
	assert.True(t, calls[0].Init.DisableAutoUpload)
	assert.Equal(t, "build", calls[1].Step)
	assert.Equal(t, report.Workspace, calls[1].Build.ProjectDir)

	require.NotNil(t, report.Src)
	assert.True(t, report.Src.Promoted)
	assert.Nil(t, report.Lib, "lib stage skipped without patterns")
	assert.NoDirExists(t, report.Workspace, "workspace must be removed after the run")
}

func TestScenarioB_TwoSourceDirectoriesAreSiblings(t *testing.T) {
	f := newFixture(t)
	f.write(t, "a/a.c")
	f.write(t, "b/b.c")

	_, err := f.runner.Run(context.Background(), Request{
		Src:    []string{f.path("a"), f.path("b")},
		Boards: []string{"uno"},
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"src/a/a.c", "src/b/b.c"}, f.snapshot)
}

func TestScenarioC_LooseLibraryFilesShareOneGeneratedDirectory(t *testing.T) {
	f := newFixture(t)
	f.write(t, "firmware/main.c")
	f.write(t, "vendor/f1.c")
	f.write(t, "vendor/f2.c")
	f.write(t, "vendor/f3.c")

	report, err := f.runner.Run(context.Background(), Request{
		Src:    []string{f.path("firmware")},
		Lib:    []string{f.path("vendor/*.c")},
		Boards: []string{"uno"},
	})
	require.NoError(t, err)

	require.NotNil(t, report.Lib)
	gen := filepath.Base(report.Lib.LooseDir)
	assert.ElementsMatch(t, []string{
		"lib/" + gen + "/f1.c",
		"lib/" + gen + "/f2.c",
		"lib/" + gen + "/f3.c",
		"src/main.c",
	}, f.snapshot)
}

func TestScenarioD_ExclusionsApplyBeforeInitialize(t *testing.T) {
	f := newFixture(t)
	f.write(t, "firmware/main.c")
	f.write(t, "libs/Foo/foo.c")
	f.write(t, "libs/Foo/test_foo.c")
	f.write(t, "libs/Bar/tests/test_bar.c")

	report, err := f.runner.Run(context.Background(), Request{
		Src:     []string{f.path("firmware")},
		Lib:     []string{f.path("libs/*")},
		Exclude: []string{"lib/**/test_*.c"},
		Boards:  []string{"uno"},
	})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"lib/Foo/foo.c", "src/main.c"}, f.snapshot)
	assert.Len(t, report.Excluded, 2)
}

func TestScenarioE_NoBuildEnvironments(t *testing.T) {
	f := newFixture(t)
	f.write(t, "firmware/main.c")

	_, err := f.runner.Run(context.Background(), Request{Src: []string{f.path("firmware")}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoBuildEnvironments)
	assert.Empty(t, f.inv.Calls())

	entries, err := os.ReadDir(f.tempBase)
	require.NoError(t, err)
	assert.Empty(t, entries, "no workspace may be created before validation passes")
}

func TestProjectConfReplacesBoards(t *testing.T) {
	f := newFixture(t)
	f.write(t, "firmware/main.c")
	conf := f.write(t, "ci/platformio.custom.ini")

	_, err := f.runner.Run(context.Background(), Request{
		Src:         []string{f.path("firmware")},
		ProjectConf: conf,
	})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"platformio.ini", "src/main.c"}, f.snapshot)
	assert.Empty(t, f.inv.Calls()[0].Init.Boards)
}

func TestValidationFailuresLeaveNoWorkspace(t *testing.T) {
	f := newFixture(t)
	f.write(t, "firmware/main.c")

	tests := []struct {
		name     string
		req      Request
		contains string
		category ferrors.ErrorCategory
	}{
		{name: "missing src", req: Request{Boards: []string{"uno"}}, contains: "missing argument 'src'"},
		{name: "invalid src", req: Request{Src: []string{f.path("nope")}, Boards: []string{"uno"}}, contains: "found invalid path"},
		{name: "invalid lib", req: Request{Src: []string{f.path("firmware")}, Lib: []string{f.path("vendor/*.c")}, Boards: []string{"uno"}}, contains: "vendor/*.c"},
		{name: "unknown board", req: Request{Src: []string{f.path("firmware")}, Boards: []string{"uno", "bogus"}}, contains: "bogus"},
		{name: "missing project conf", req: Request{Src: []string{f.path("firmware")}, ProjectConf: f.path("missing.ini")}, contains: "does not exist", category: ferrors.CategoryNotFound},
		{name: "build dir missing", req: Request{Src: []string{f.path("firmware")}, Boards: []string{"uno"}, BuildDir: f.path("no-such-dir")}, contains: "does not exist", category: ferrors.CategoryNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.runner.Run(context.Background(), tt.req)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
			want := tt.category
			if want == "" {
				want = ferrors.CategoryValidation
			}
			assert.Equal(t, want, ferrors.GetCategory(err))
		})
	}

	assert.Empty(t, f.inv.Calls())
	entries, err := os.ReadDir(f.tempBase)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestTeardownRunsWhenDownstreamFails(t *testing.T) {
	f := newFixture(t)
	f.write(t, "firmware/main.c")
	f.inv.BuildErr = errors.New("compilation terminated")

	report, err := f.runner.Run(context.Background(), Request{
		Src:    []string{f.path("firmware")},
		Boards: []string{"uno"},
	})
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryBuild))
	assert.Contains(t, err.Error(), "compilation terminated")
	assert.NoDirExists(t, report.Workspace)
}

func TestTeardownRunsWhenMergeFails(t *testing.T) {
	f := newFixture(t)
	f.write(t, "one/util/u.c")
	f.write(t, "two/x/x.c")
	f.write(t, "three/util")

	report, err := f.runner.Run(context.Background(), Request{
		Src:    []string{f.path("one/util"), f.path("two/x"), f.path("three/util")},
		Boards: []string{"uno"},
	})
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryFileSystem))
	assert.Empty(t, f.inv.Calls(), "pipeline must not run after a failed merge")
	assert.NoDirExists(t, report.Workspace)
}

func TestKeepBuildDir(t *testing.T) {
	f := newFixture(t)
	f.write(t, "firmware/main.c")
	f.inv.InitErr = errors.New("init exploded")
	buildDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(buildDir, "stale.txt"), []byte("old"), 0o600))

	report, err := f.runner.Run(context.Background(), Request{
		Src:          []string{f.path("firmware")},
		Boards:       []string{"uno"},
		BuildDir:     buildDir,
		KeepBuildDir: true,
	})
	require.Error(t, err)

	assert.Equal(t, buildDir, report.Workspace)
	assert.True(t, report.Kept)
	assert.FileExists(t, filepath.Join(buildDir, "src", "main.c"))
	assert.NoFileExists(t, filepath.Join(buildDir, "stale.txt"), "workspace is cleaned before staging")
	require.Len(t, f.inv.Calls(), 1, "build must not run after failed initialize")
}

func TestCanceledContextStopsBeforeStaging(t *testing.T) {
	f := newFixture(t)
	f.write(t, "firmware/main.c")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := f.runner.Run(ctx, Request{Src: []string{f.path("firmware")}, Boards: []string{"uno"}})
	require.ErrorIs(t, err, context.Canceled)
	assert.NoDirExists(t, report.Workspace)
	assert.Empty(t, f.inv.Calls())
}

func TestStageDurationsRecorded(t *testing.T) {
	f := newFixture(t)
	f.write(t, "firmware/main.c")

	report, err := f.runner.Run(context.Background(), Request{Src: []string{f.path("firmware")}, Boards: []string{"uno"}})
	require.NoError(t, err)

	for _, name := range []string{StageClean, StageMergeLib, StageMergeSrc, StageProjectConf, StageExclude, StageInitialize, StageBuild} {
		assert.Contains(t, report.StageDurations, name)
	}
}
