package ci

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/cistage/internal/logfields"
	"git.home.luguber.info/inful/cistage/internal/metrics"
)

// Stage names, in execution order.
const (
	StageClean       = "clean"
	StageMergeLib    = "merge_lib"
	StageMergeSrc    = "merge_src"
	StageProjectConf = "project_conf"
	StageExclude     = "exclude"
	StageInitialize  = "initialize"
	StageBuild       = "build"
)

// errSkipped lets a stage report that it had nothing to do.
var errSkipped = errors.New("stage skipped")

type stage struct {
	name string
	fn   func(ctx context.Context) error
}

// runStages executes stages in order, recording timing and stopping on the
// first error.
func runStages(ctx context.Context, stages []stage, rec metrics.Recorder, durations map[string]time.Duration) error {
	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			rec.IncStageResult(st.name, metrics.ResultFatal)
			return fmt.Errorf("stage %s: %w", st.name, err)
		}

		t0 := time.Now()
		err := st.fn(ctx)
		dur := time.Since(t0)
		durations[st.name] = dur
		rec.ObserveStageDuration(st.name, dur)

		switch {
		case errors.Is(err, errSkipped):
			rec.IncStageResult(st.name, metrics.ResultSkipped)
			slog.Debug("Stage skipped", logfields.Stage(st.name))
		case err != nil:
			rec.IncStageResult(st.name, metrics.ResultFatal)
			slog.Error("Stage failed",
				logfields.Stage(st.name),
				logfields.DurationMS(float64(dur.Microseconds())/1000),
				logfields.Error(err))
			return fmt.Errorf("stage %s: %w", st.name, err)
		default:
			rec.IncStageResult(st.name, metrics.ResultSuccess)
			slog.Debug("Stage completed",
				logfields.Stage(st.name),
				logfields.DurationMS(float64(dur.Microseconds())/1000))
		}
	}
	return nil
}
