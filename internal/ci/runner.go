package ci

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/cistage/internal/boards"
	"git.home.luguber.info/inful/cistage/internal/config"
	"git.home.luguber.info/inful/cistage/internal/exclude"
	ferrors "git.home.luguber.info/inful/cistage/internal/foundation/errors"
	"git.home.luguber.info/inful/cistage/internal/logfields"
	"git.home.luguber.info/inful/cistage/internal/merge"
	"git.home.luguber.info/inful/cistage/internal/metrics"
	"git.home.luguber.info/inful/cistage/internal/pipeline"
	"git.home.luguber.info/inful/cistage/internal/resolve"
	"git.home.luguber.info/inful/cistage/internal/workspace"
)

// Report describes a finished run.
type Report struct {
	Workspace      string
	Kept           bool
	Lib            *merge.Result
	Src            *merge.Result
	Excluded       []string
	StageDurations map[string]time.Duration
	Duration       time.Duration
}

// Runner executes staging runs.
type Runner struct {
	invoker  pipeline.Invoker
	registry *boards.Registry
	recorder metrics.Recorder
	tempBase string
}

// NewRunner creates a runner that hands workspaces to inv and validates
// boards against registry.
func NewRunner(inv pipeline.Invoker, registry *boards.Registry) *Runner {
	if inv == nil {
		inv = pipeline.NoopInvoker{}
	}
	return &Runner{
		invoker:  inv,
		registry: registry,
		recorder: metrics.NoopRecorder{},
	}
}

// WithRecorder injects a metrics recorder.
func (r *Runner) WithRecorder(rec metrics.Recorder) *Runner {
	if rec != nil {
		r.recorder = rec
	}
	return r
}

// WithTempBase sets the parent of generated workspaces (os.TempDir when empty).
func (r *Runner) WithTempBase(dir string) *Runner {
	r.tempBase = dir
	return r
}

// Run validates req, stages the workspace and invokes the pipeline. The
// workspace is torn down on every path after it was acquired unless
// req.KeepBuildDir is set.
func (r *Runner) Run(ctx context.Context, req Request) (report Report, err error) {
	start := time.Now()
	report.StageDurations = make(map[string]time.Duration)

	if err := Validate(req, r.registry); err != nil {
		r.recorder.IncRunOutcome(metrics.OutcomeInvalid)
		return report, err
	}

	ws, err := r.acquire(req.BuildDir)
	if err != nil {
		r.recorder.IncRunOutcome(metrics.OutcomeInvalid)
		return report, err
	}
	report.Workspace = ws.Path()
	report.Kept = req.KeepBuildDir

	defer func() {
		if terr := ws.Teardown(req.KeepBuildDir); terr != nil {
			if err == nil {
				err = terr
			} else {
				slog.Warn("Failed to tear down workspace", logfields.Path(ws.Path()), logfields.Error(terr))
			}
		}
		report.Duration = time.Since(start)
		r.recorder.ObserveRunDuration(report.Duration)
		if err != nil {
			r.recorder.IncRunOutcome(metrics.OutcomeFailed)
		} else {
			r.recorder.IncRunOutcome(metrics.OutcomeSuccess)
		}
	}()

	slog.Info("Starting staging run",
		logfields.Path(ws.Path()),
		slog.Int("src_patterns", len(req.Src)),
		slog.Int("lib_patterns", len(req.Lib)),
		logfields.Boards(req.Boards))

	stages := []stage{
		{StageClean, func(context.Context) error { return ws.EnsureClean() }},
		{StageMergeLib, func(context.Context) error {
			res, err := r.mergeRole(ws, merge.RoleLib, req.Lib)
			report.Lib = res
			return err
		}},
		{StageMergeSrc, func(context.Context) error {
			res, err := r.mergeRole(ws, merge.RoleSrc, req.Src)
			report.Src = res
			return err
		}},
		{StageProjectConf, func(context.Context) error { return stageProjectConf(ws, req.ProjectConf) }},
		{StageExclude, func(context.Context) error {
			if len(req.Exclude) == 0 {
				return errSkipped
			}
			res, err := exclude.Apply(ws.Path(), req.Exclude)
			report.Excluded = res.Removed
			return err
		}},
		{StageInitialize, func(ctx context.Context) error {
			err := r.invoker.Initialize(ctx, pipeline.InitRequest{
				ProjectDir:        ws.Path(),
				Boards:            req.Boards,
				DisableAutoUpload: true,
				NonInteractive:    req.NonInteractive,
			})
			if err != nil {
				return ferrors.BuildError(err, "project initialization failed").Build()
			}
			return nil
		}},
		{StageBuild, func(ctx context.Context) error {
			err := r.invoker.Build(ctx, pipeline.BuildRequest{
				ProjectDir:     ws.Path(),
				NonInteractive: req.NonInteractive,
			})
			if err != nil {
				return ferrors.BuildError(err, "project build failed").Build()
			}
			return nil
		}},
	}

	if err := runStages(ctx, stages, r.recorder, report.StageDurations); err != nil {
		return report, err
	}
	slog.Info("Staging run completed", logfields.Path(ws.Path()))
	return report, nil
}

func (r *Runner) acquire(buildDir string) (*workspace.Manager, error) {
	if buildDir != "" {
		return workspace.Open(buildDir)
	}
	return workspace.NewTemp(r.tempBase)
}

func (r *Runner) mergeRole(ws *workspace.Manager, role merge.Role, patterns []string) (*merge.Result, error) {
	if len(patterns) == 0 {
		return nil, errSkipped
	}
	paths, err := resolve.ExpandAll(patterns)
	if err != nil {
		return nil, err
	}
	res, err := merge.Merge(ws.Subdir(string(role)), role, resolve.Classify(paths))
	if err != nil {
		return &res, err
	}
	r.recorder.AddMergedEntries(string(role), resolve.Directory.String(), res.Directories)
	r.recorder.AddMergedEntries(string(role), resolve.File.String(), res.Files)
	return &res, nil
}

func stageProjectConf(ws *workspace.Manager, path string) error {
	if path == "" {
		return errSkipped
	}
	dst := filepath.Join(ws.Path(), config.ProjectConfigName)
	if err := merge.CopyFile(path, dst); err != nil {
		return ferrors.FileSystemError(err, "failed to stage project configuration").
			WithContext("path", path).
			Build()
	}
	slog.Info("Staged project configuration", logfields.Source(path), logfields.Path(dst))
	return nil
}
