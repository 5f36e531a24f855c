package stages

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	rerrors "git.home.luguber.info/inful/prepdist/internal/errors"
	"git.home.luguber.info/inful/prepdist/internal/logfields"
)

// ValidateTable rejects tables whose codes could be confused: duplicate
// names, checked stages with non-increasing codes, or a code equal to the
// usage or internal-fault code.
func ValidateTable(defs []StageDef) error {
	seen := make(map[StageName]struct{}, len(defs))
	last := 0
	for i, def := range defs {
		if def.Name == "" {
			return fmt.Errorf("stage %d has no name", i)
		}
		if def.Fn == nil {
			return fmt.Errorf("stage %s has no action", def.Name)
		}
		if _, dup := seen[def.Name]; dup {
			return fmt.Errorf("stage %s declared twice", def.Name)
		}
		seen[def.Name] = struct{}{}

		if def.TolerateFailure {
			continue
		}
		if def.Code == rerrors.ExitUsage || def.Code == rerrors.ExitInternal {
			return fmt.Errorf("stage %s uses reserved code %d", def.Name, def.Code)
		}
		if def.Code <= last {
			return fmt.Errorf("stage %s code %d must be greater than %d", def.Name, def.Code, last)
		}
		last = def.Code
	}
	return nil
}

// RunStages executes stages in order and stops at the first failing stage.
// The returned error is a *errors.ReleaseError stamped with the stage's code.
func RunStages(ctx context.Context, st *State, defs []StageDef) error {
	if st.Report == nil {
		st.Report = NewReport()
	}
	obs := st.Observer
	if obs == nil {
		obs = NoopObserver{}
	}

	finish := func(err error) error {
		st.Report.End = time.Now()
		if err == nil {
			st.Report.Phase = PhaseDone
			st.Report.ExitCode = rerrors.ExitSuccess
		}
		obs.OnRunComplete(st.Report)
		return err
	}

	for i, def := range defs {
		log := slog.With(logfields.Stage(string(def.Name)), logfields.StageIndex(i+1))

		if err := ctx.Err(); err != nil {
			// A tolerated row has no exit code of its own; the next checked
			// stage reports the cancellation.
			if def.TolerateFailure {
				log.Warn("Stage skipped; run canceled")
				continue
			}
			se := stamp(def, err)
			st.Report.record(StageRecord{Name: def.Name, Code: def.Code, Result: StageResultCanceled, Err: se})
			fail(st.Report, def)
			obs.OnStageComplete(def, 0, StageResultCanceled, se)
			return finish(se)
		}

		obs.OnStageStart(def)
		log.Info("Stage started", slog.String("description", def.Description))

		t0 := time.Now()
		err := def.Fn(ctx, st)
		dur := time.Since(t0)
		ms := logfields.DurationMS(float64(dur.Microseconds()) / 1000)

		switch {
		case err == nil:
			st.Report.record(StageRecord{Name: def.Name, Code: def.Code, Result: StageResultSuccess, Duration: dur})
			if def.Reaches != "" {
				st.Report.Phase = def.Reaches
			}
			obs.OnStageComplete(def, dur, StageResultSuccess, nil)
			log.Info("Stage completed", ms)

		case def.TolerateFailure:
			st.Report.record(StageRecord{Name: def.Name, Code: def.Code, Result: StageResultTolerated, Duration: dur, Err: err})
			if def.Reaches != "" {
				st.Report.Phase = def.Reaches
			}
			obs.OnStageComplete(def, dur, StageResultTolerated, err)
			log.Warn("Stage failed; continuing", ms, logfields.Error(err))

		default:
			se := stamp(def, err)
			st.Report.record(StageRecord{Name: def.Name, Code: def.Code, Result: StageResultFatal, Duration: dur, Err: se})
			fail(st.Report, def)
			obs.OnStageComplete(def, dur, StageResultFatal, se)
			log.Error("Stage failed", ms, logfields.ExitCode(def.Code), logfields.Error(err))
			return finish(se)
		}
	}

	return finish(nil)
}

func fail(r *Report, def StageDef) {
	r.Phase = PhaseFailed
	r.ExitCode = def.Code
	r.FailedStage = def.Name
}

// stamp attaches the stage identity and code to err, keeping an existing
// classification when the stage already produced one.
func stamp(def StageDef, err error) *rerrors.ReleaseError {
	if re, ok := rerrors.As(err); ok {
		out := *re
		return out.WithStage(string(def.Name), def.Code)
	}
	category := def.Category
	if category == "" {
		category = rerrors.CategoryInternal
	}
	return rerrors.StageFailed(category, def.Description+" failed", err).WithStage(string(def.Name), def.Code)
}
