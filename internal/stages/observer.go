package stages

import "time"

// Observer receives callbacks around stage execution and run completion.
type Observer interface {
	OnStageStart(def StageDef)
	OnStageComplete(def StageDef, duration time.Duration, result StageResult, err error)
	OnRunComplete(report *Report)
}

// NoopObserver is a no-op implementation.
type NoopObserver struct{}

func (NoopObserver) OnStageStart(_ StageDef)                                             {}
func (NoopObserver) OnStageComplete(_ StageDef, _ time.Duration, _ StageResult, _ error) {}
func (NoopObserver) OnRunComplete(_ *Report)                                             {}

// MultiObserver fans callbacks out in order.
type MultiObserver []Observer

func (m MultiObserver) OnStageStart(def StageDef) {
	for _, o := range m {
		o.OnStageStart(def)
	}
}

func (m MultiObserver) OnStageComplete(def StageDef, d time.Duration, result StageResult, err error) {
	for _, o := range m {
		o.OnStageComplete(def, d, result, err)
	}
}

func (m MultiObserver) OnRunComplete(report *Report) {
	for _, o := range m {
		o.OnRunComplete(report)
	}
}
