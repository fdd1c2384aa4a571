package commands

import (
	"context"
	"fmt"
	"log/slog"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/cistage/internal/boards"
	"git.home.luguber.info/inful/cistage/internal/ci"
	"git.home.luguber.info/inful/cistage/internal/config"
	"git.home.luguber.info/inful/cistage/internal/logfields"
	"git.home.luguber.info/inful/cistage/internal/metrics"
	"git.home.luguber.info/inful/cistage/internal/pipeline"
)

// CICmd implements the 'ci' command.
type CICmd struct {
	Src          []string `arg:"" optional:"" name:"src" help:"Source paths or glob patterns (fallback: $PLATFORMIO_CI_SRC, colon separated)"`
	Lib          []string `short:"l" name:"lib" sep:"none" help:"Library path or glob pattern (repeatable)"`
	Exclude      []string `name:"exclude" sep:"none" help:"Glob relative to the workspace to remove after staging (repeatable)"`
	Board        []string `short:"b" name:"board" sep:"none" help:"Board identifier (repeatable)"`
	BuildDir     string   `name:"build-dir" help:"Existing writable directory to use as workspace (default: new temp directory)"`
	KeepBuildDir bool     `name:"keep-build-dir" help:"Do not remove the workspace after the run"`
	ProjectConf  string   `name:"project-conf" help:"Project configuration file copied into the workspace as platformio.ini"`
	Runner       string   `name:"runner" env:"CISTAGE_RUNNER" default:"platformio" help:"Initializer and build runner binary"`
	BoardsFile   string   `name:"boards-file" env:"CISTAGE_BOARDS_FILE" help:"YAML registry of known boards (default: builtin)"`
	MetricsFile  string   `name:"metrics-file" help:"Write Prometheus metrics in text format to this file after the run"`
}

func (c *CICmd) Run(ctx context.Context, g *Global) error {
	registry, err := boards.Load(c.BoardsFile)
	if err != nil {
		return err
	}

	inv := g.Invoker
	if inv == nil {
		execInv := pipeline.NewExecInvoker(c.Runner)
		execInv.Stdout, execInv.Stderr = g.stdout(), g.stderr()
		inv = execInv
	}

	promReg := prom.NewRegistry()
	var rec metrics.Recorder = metrics.NoopRecorder{}
	if c.MetricsFile != "" {
		rec = metrics.NewPrometheusRecorder(promReg)
	}

	runner := ci.NewRunner(inv, registry).WithRecorder(rec)
	report, runErr := runner.Run(ctx, ci.Request{
		Src:            config.SourcePatterns(c.Src),
		Lib:            c.Lib,
		Exclude:        c.Exclude,
		Boards:         c.Board,
		BuildDir:       c.BuildDir,
		KeepBuildDir:   c.KeepBuildDir,
		ProjectConf:    c.ProjectConf,
		NonInteractive: true,
	})

	if c.MetricsFile != "" {
		if err := metrics.WriteTextfile(c.MetricsFile, promReg); err != nil {
			slog.Warn("Failed to write metrics file", logfields.Path(c.MetricsFile), logfields.Error(err))
		}
	}
	if runErr != nil {
		return runErr
	}

	if report.Kept {
		_, _ = fmt.Fprintf(g.stdout(), "Build directory kept at %s\n", report.Workspace)
	}
	_, _ = fmt.Fprintln(g.stdout(), "Build completed successfully")
	return nil
}
