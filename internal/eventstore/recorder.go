package eventstore

import (
	"context"
	"log/slog"
	"time"

	rerrors "git.home.luguber.info/inful/prepdist/internal/errors"
	"git.home.luguber.info/inful/prepdist/internal/logfields"
	"git.home.luguber.info/inful/prepdist/internal/stages"
)

// Recorder appends the records of one release run to a Store. It implements
// stages.Observer for per-stage records. History is best effort: append
// failures are logged and never change the run's outcome.
type Recorder struct {
	ctx     context.Context
	store   Store
	runID   string
	version string
}

// NewRecorder binds a store to a run of version.
func NewRecorder(ctx context.Context, store Store, runID, version string) *Recorder {
	return &Recorder{ctx: ctx, store: store, runID: runID, version: version}
}

// Previous returns the outcome of the last finished run of the same
// version, or nil when there is none. Call it before Finished.
func (r *Recorder) Previous() (*Record, error) {
	return r.store.LatestFinished(r.ctx, r.version)
}

// Started records the ReleaseStarted event.
func (r *Recorder) Started(meta ReleaseStartedMeta) {
	meta.Version = r.version
	r.append(NewReleaseStarted(r.runID, meta))
}

// Finished records the ReleaseFinished event.
func (r *Recorder) Finished(report *stages.Report, digests map[string]string) {
	if report == nil {
		return
	}
	r.append(NewReleaseFinished(r.runID, r.version, report.ExitCode, string(report.FailedStage), report.End.Sub(report.Start), digests))
}

func (r *Recorder) OnStageStart(stages.StageDef) {}

func (r *Recorder) OnStageComplete(def stages.StageDef, d time.Duration, result stages.StageResult, err error) {
	switch result {
	case stages.StageResultFatal, stages.StageResultCanceled:
		r.append(NewStageFailed(r.runID, r.version, string(def.Name), string(result), def.Code, string(rerrors.GetCategory(err)), errString(err)))
	default:
		r.append(NewStageCompleted(r.runID, r.version, string(def.Name), string(result), d, errString(err)))
	}
}

// OnRunComplete is a no-op; Finished carries the artifact digests, which are
// only known after the run returns.
func (r *Recorder) OnRunComplete(*stages.Report) {}

func (r *Recorder) append(rec Record, err error) {
	if err != nil {
		slog.Warn("History event not recorded", logfields.RunID(r.runID), logfields.Error(err))
		return
	}
	// Keep appending after cancellation so the failure is still recorded.
	ctx := context.WithoutCancel(r.ctx)
	if aerr := r.store.Append(ctx, rec); aerr != nil {
		slog.Warn("History event not recorded",
			logfields.RunID(r.runID),
			slog.String("event_type", rec.Type),
			logfields.Error(aerr))
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
