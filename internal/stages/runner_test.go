package stages

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rerrors "git.home.luguber.info/inful/prepdist/internal/errors"
)

type recordingObserver struct {
	started   []StageName
	completed []StageResult
	report    *Report
}

func (o *recordingObserver) OnStageStart(def StageDef) { o.started = append(o.started, def.Name) }
func (o *recordingObserver) OnStageComplete(_ StageDef, _ time.Duration, r StageResult, _ error) {
	o.completed = append(o.completed, r)
}
func (o *recordingObserver) OnRunComplete(r *Report) { o.report = r }

func okStage(ran *[]StageName, name StageName) Stage {
	return func(context.Context, *State) error {
		*ran = append(*ran, name)
		return nil
	}
}

func failStage(ran *[]StageName, name StageName, err error) Stage {
	return func(context.Context, *State) error {
		*ran = append(*ran, name)
		return err
	}
}

func table(ran *[]StageName, failAt StageName) []StageDef {
	rows := []struct {
		name     StageName
		code     int
		cat      rerrors.ErrorCategory
		tolerate bool
		reaches  Phase
	}{
		{StageVerifyVersion, 1, rerrors.CategoryValidation, false, PhaseVersionChecked},
		{StageMaintainerClean, 0, rerrors.CategoryBuild, true, PhaseCleaned},
		{StageBootstrap, 2, rerrors.CategoryBuild, false, PhaseBootstrapped},
		{StageConfigure, 3, rerrors.CategoryBuild, false, PhaseConfigured},
		{StageDistcheck, 4, rerrors.CategoryBuild, false, PhaseDistributed},
		{StageExtract, 5, rerrors.CategoryPackaging, false, PhaseExtracted},
		{StageReconfigure, 6, rerrors.CategoryBuild, false, PhaseReconfigured},
		{StageAPIDoc, 7, rerrors.CategoryBuild, false, PhaseDocsBuilt},
		{StagePackageDocs, 8, rerrors.CategoryPackaging, false, PhaseDocsPackaged},
		{StageCleanup, 11, rerrors.CategoryCleanup, false, PhaseCleanedUp},
	}
	p := NewPipeline()
	for _, r := range rows {
		fn := okStage(ran, r.name)
		if r.name == failAt {
			fn = failStage(ran, r.name, errors.New("exit status 2"))
		}
		p.Add(StageDef{Name: r.name, Description: string(r.name), Code: r.code, Category: r.cat, TolerateFailure: r.tolerate, Reaches: r.reaches, Fn: fn})
	}
	return p.Build()
}

func TestRunStagesAllSucceed(t *testing.T) {
	var ran []StageName
	obs := &recordingObserver{}
	st := &State{Observer: obs}

	err := RunStages(context.Background(), st, table(&ran, ""))
	require.NoError(t, err)

	assert.Equal(t, []StageName{
		StageVerifyVersion, StageMaintainerClean, StageBootstrap, StageConfigure, StageDistcheck,
		StageExtract, StageReconfigure, StageAPIDoc, StagePackageDocs, StageCleanup,
	}, ran)
	assert.Equal(t, PhaseDone, st.Report.Phase)
	assert.Equal(t, 0, st.Report.ExitCode)
	assert.Equal(t, ran, obs.started)
	assert.Same(t, st.Report, obs.report)
	assert.False(t, st.Report.End.IsZero())
}

func TestRunStagesFailureAtEachStage(t *testing.T) {
	codes := map[StageName]int{
		StageVerifyVersion: 1, StageBootstrap: 2, StageConfigure: 3, StageDistcheck: 4,
		StageExtract: 5, StageReconfigure: 6, StageAPIDoc: 7, StagePackageDocs: 8, StageCleanup: 11,
	}
	for name, code := range codes {
		t.Run(string(name), func(t *testing.T) {
			var ran []StageName
			st := &State{}
			err := RunStages(context.Background(), st, table(&ran, name))
			require.Error(t, err)

			re, ok := rerrors.As(err)
			require.True(t, ok)
			assert.Equal(t, code, re.Code)
			assert.Equal(t, string(name), re.Stage)

			assert.Equal(t, name, ran[len(ran)-1], "no stage may run after the failing one")
			assert.Equal(t, PhaseFailed, st.Report.Phase)
			assert.Equal(t, code, st.Report.ExitCode)
			assert.Equal(t, name, st.Report.FailedStage)
		})
	}
}

func TestRunStagesToleratesPurgeFailure(t *testing.T) {
	var ran []StageName
	obs := &recordingObserver{}
	st := &State{Observer: obs}

	err := RunStages(context.Background(), st, table(&ran, StageMaintainerClean))
	require.NoError(t, err)
	assert.Contains(t, ran, StageCleanup)
	assert.Equal(t, StageResultTolerated, obs.completed[1])
	assert.Equal(t, StageResultTolerated, st.Report.Stages[1].Result)
}

func TestRunStagesKeepsClassification(t *testing.T) {
	mismatch := rerrors.VersionMismatch("9.9", "VERSION.TXT")
	defs := NewPipeline().
		Add(StageDef{Name: StageVerifyVersion, Code: 1, Category: rerrors.CategoryBuild, Fn: func(context.Context, *State) error { return mismatch }}).
		Build()

	err := RunStages(context.Background(), &State{}, defs)
	re, ok := rerrors.As(err)
	require.True(t, ok)
	assert.Equal(t, rerrors.CategoryValidation, re.Category)
	assert.Equal(t, 1, re.Code)
	assert.Equal(t, "VERSION.TXT", re.Context["record"])
	assert.Empty(t, mismatch.Stage, "the original error must not be mutated")
}

func TestRunStagesCanceledContext(t *testing.T) {
	var ran []StageName
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	st := &State{}
	err := RunStages(ctx, st, table(&ran, ""))
	require.Error(t, err)
	assert.Empty(t, ran)
	assert.Equal(t, 1, st.Report.ExitCode)
	assert.Equal(t, StageResultCanceled, st.Report.Stages[0].Result)
}

func TestRunStagesCanceledBeforePurge(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var ran []StageName
	defs := table(&ran, "")
	defs[0].Fn = func(context.Context, *State) error {
		ran = append(ran, StageVerifyVersion)
		cancel()
		return nil
	}

	st := &State{}
	err := RunStages(ctx, st, defs)
	require.Error(t, err)
	assert.Equal(t, []StageName{StageVerifyVersion}, ran)
	assert.Equal(t, StageBootstrap, st.Report.FailedStage)
	assert.Equal(t, 2, st.Report.ExitCode)

	re, ok := rerrors.As(err)
	require.True(t, ok)
	assert.Equal(t, 2, re.Code)
	assert.Equal(t, string(StageBootstrap), re.Stage)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []StageName{StageVerifyVersion, StageBootstrap}, st.Report.Executed())
}

func TestPipelineAddIf(t *testing.T) {
	fn := func(context.Context, *State) error { return nil }
	defs := NewPipeline().
		Add(StageDef{Name: StagePackageDocs, Code: 8, Fn: fn}).
		AddIf(false, StageDef{Name: StageBuildManual, Code: 9, Fn: fn}).
		AddIf(true, StageDef{Name: StageCleanup, Code: 11, Fn: fn}).
		Build()

	require.Len(t, defs, 2)
	assert.Equal(t, StageCleanup, defs[1].Name)
}

func TestValidateTable(t *testing.T) {
	fn := func(context.Context, *State) error { return nil }

	var ran []StageName
	require.NoError(t, ValidateTable(table(&ran, "")))

	tests := []struct {
		name string
		defs []StageDef
	}{
		{"duplicate name", []StageDef{{Name: StageBootstrap, Code: 2, Fn: fn}, {Name: StageBootstrap, Code: 3, Fn: fn}}},
		{"decreasing code", []StageDef{{Name: StageConfigure, Code: 3, Fn: fn}, {Name: StageBootstrap, Code: 2, Fn: fn}}},
		{"repeated code", []StageDef{{Name: StageConfigure, Code: 3, Fn: fn}, {Name: StageBootstrap, Code: 3, Fn: fn}}},
		{"zero code on checked stage", []StageDef{{Name: StageBootstrap, Code: 0, Fn: fn}}},
		{"usage code", []StageDef{{Name: StageBootstrap, Code: 65, Fn: fn}}},
		{"internal code", []StageDef{{Name: StageBootstrap, Code: 70, Fn: fn}}},
		{"missing action", []StageDef{{Name: StageBootstrap, Code: 2}}},
		{"missing name", []StageDef{{Code: 2, Fn: fn}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, ValidateTable(tc.defs))
		})
	}
}
