package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFatal   ResultLabel = "fatal"
	ResultSkipped ResultLabel = "skipped"
)

// Outcome labels for a whole run.
const (
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
	OutcomeInvalid = "invalid"
)

// Recorder defines observability hooks for a staging run.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	AddMergedEntries(role, kind string, n int)
	ObserveRunDuration(d time.Duration)
	IncRunOutcome(outcome string)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) IncStageResult(string, ResultLabel)         {}
func (NoopRecorder) AddMergedEntries(string, string, int)       {}
func (NoopRecorder) ObserveRunDuration(time.Duration)           {}
func (NoopRecorder) IncRunOutcome(string)                       {}
