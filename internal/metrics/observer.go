package metrics

import (
	"time"

	"git.home.luguber.info/inful/prepdist/internal/stages"
)

// Observer feeds stage callbacks into a Recorder.
type Observer struct {
	Recorder Recorder
}

// NewObserver returns an Observer; a nil recorder is replaced by NoopRecorder.
func NewObserver(r Recorder) *Observer {
	if r == nil {
		r = NoopRecorder{}
	}
	return &Observer{Recorder: r}
}

func (o *Observer) OnStageStart(stages.StageDef) {}

func (o *Observer) OnStageComplete(def stages.StageDef, d time.Duration, result stages.StageResult, _ error) {
	name := string(def.Name)
	if result != stages.StageResultCanceled {
		o.Recorder.ObserveStageDuration(name, d)
	}
	o.Recorder.IncStageResult(name, resultLabel(result))
}

func (o *Observer) OnRunComplete(report *stages.Report) {
	if report == nil {
		return
	}
	if !report.End.IsZero() {
		o.Recorder.ObserveReleaseDuration(report.End.Sub(report.Start))
	}
	o.Recorder.IncReleaseOutcome(report.ExitCode, string(report.FailedStage))
}

func resultLabel(r stages.StageResult) ResultLabel {
	switch r {
	case stages.StageResultSuccess:
		return ResultSuccess
	case stages.StageResultTolerated:
		return ResultTolerated
	case stages.StageResultCanceled:
		return ResultCanceled
	default:
		return ResultFatal
	}
}
