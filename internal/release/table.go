package release

import (
	"context"

	rerrors "git.home.luguber.info/inful/prepdist/internal/errors"
	"git.home.luguber.info/inful/prepdist/internal/stages"
	"git.home.luguber.info/inful/prepdist/internal/versioncheck"
	"git.home.luguber.info/inful/prepdist/internal/workspace"
)

// Stage exit codes. Every code is fixed per stage; disabling the manual
// stages leaves 9 and 10 unused rather than renumbering cleanup.
const (
	CodeVerifyVersion  = 1
	CodeBootstrap      = 2
	CodeConfigure      = 3
	CodeDistcheck      = 4
	CodeExtract        = 5
	CodeReconfigure    = 6
	CodeAPIDoc         = 7
	CodePackageDocs    = 8
	CodeBuildManual    = 9
	CodeRelocateManual = 10
	CodeCleanup        = 11
)

// Table returns the ordered stage definitions for a run.
func Table(validator *versioncheck.Validator, buildManual bool) []stages.StageDef {
	verify := func(_ context.Context, st *stages.State) error {
		return validator.Validate(st.Version)
	}

	return stages.NewPipeline().
		Add(stages.StageDef{Name: stages.StageVerifyVersion, Description: "Verify version records", Code: CodeVerifyVersion, Category: rerrors.CategoryValidation, Reaches: stages.PhaseVersionChecked, Fn: verify}).
		Add(stages.StageDef{Name: stages.StageMaintainerClean, Description: "Purge generated files", TolerateFailure: true, Category: rerrors.CategoryBuild, Reaches: stages.PhaseCleaned, Fn: stages.RunMaintainerClean}).
		Add(stages.StageDef{Name: stages.StageBootstrap, Description: "Regenerate build scaffolding", Code: CodeBootstrap, Category: rerrors.CategoryBuild, Reaches: stages.PhaseBootstrapped, Fn: stages.RunBootstrap}).
		Add(stages.StageDef{Name: stages.StageConfigure, Description: "Configure source tree", Code: CodeConfigure, Category: rerrors.CategoryBuild, Reaches: stages.PhaseConfigured, Fn: stages.RunConfigure}).
		Add(stages.StageDef{Name: stages.StageDistcheck, Description: "Build and package distribution", Code: CodeDistcheck, Category: rerrors.CategoryBuild, Reaches: stages.PhaseDistributed, Fn: stages.RunDistcheck}).
		Add(stages.StageDef{Name: stages.StageExtract, Description: "Extract distribution", Code: CodeExtract, Category: rerrors.CategoryPackaging, Reaches: stages.PhaseExtracted, Fn: workspace.RunExtract}).
		Add(stages.StageDef{Name: stages.StageReconfigure, Description: "Configure extracted tree", Code: CodeReconfigure, Category: rerrors.CategoryBuild, Reaches: stages.PhaseReconfigured, Fn: workspace.RunReconfigure}).
		Add(stages.StageDef{Name: stages.StageAPIDoc, Description: "Generate API documentation", Code: CodeAPIDoc, Category: rerrors.CategoryBuild, Reaches: stages.PhaseDocsBuilt, Fn: workspace.RunAPIDoc}).
		Add(stages.StageDef{Name: stages.StagePackageDocs, Description: "Package HTML documentation", Code: CodePackageDocs, Category: rerrors.CategoryPackaging, Reaches: stages.PhaseDocsPackaged, Fn: workspace.RunPackageDocs}).
		AddIf(buildManual, stages.StageDef{Name: stages.StageBuildManual, Description: "Typeset reference manual", Code: CodeBuildManual, Category: rerrors.CategoryBuild, Reaches: stages.PhaseManualBuilt, Fn: workspace.RunBuildManual}).
		AddIf(buildManual, stages.StageDef{Name: stages.StageRelocateManual, Description: "Relocate reference manual", Code: CodeRelocateManual, Category: rerrors.CategoryPackaging, Reaches: stages.PhaseManualRelocated, Fn: workspace.RunRelocateManual}).
		Add(stages.StageDef{Name: stages.StageCleanup, Description: "Remove extraction workspace", Code: CodeCleanup, Category: rerrors.CategoryCleanup, Reaches: stages.PhaseCleanedUp, Fn: workspace.RunCleanup}).
		Build()
}
