package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess   ResultLabel = "success"
	ResultTolerated ResultLabel = "tolerated"
	ResultFatal     ResultLabel = "fatal"
	ResultCanceled  ResultLabel = "canceled"
)

// Recorder defines observability hooks for release and stage metrics.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveReleaseDuration(d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	// IncReleaseOutcome counts finished runs by exit code and failing stage
	// (empty on success).
	IncReleaseOutcome(exitCode int, stage string)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveReleaseDuration(time.Duration)       {}
func (NoopRecorder) IncStageResult(string, ResultLabel)         {}
func (NoopRecorder) IncReleaseOutcome(int, string)              {}
