package metrics

import (
	"testing"
	"time"
)

// Compile-time checks that both implementations satisfy Recorder.
var (
	_ Recorder = NoopRecorder{}
	_ Recorder = (*PrometheusRecorder)(nil)
)

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveStageDuration("clean", time.Millisecond)
	r.IncStageResult("clean", ResultSkipped)
	r.AddMergedEntries("src", "directory", 2)
	r.ObserveRunDuration(time.Second)
	r.IncRunOutcome(OutcomeInvalid)
}
