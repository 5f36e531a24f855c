package stages

import (
	"context"

	rerrors "git.home.luguber.info/inful/prepdist/internal/errors"
)

// Stage is a discrete unit of release work.
type Stage func(ctx context.Context, st *State) error

// StageName is a strongly-typed identifier for a release stage.
type StageName string

// Canonical stage names.
const (
	StageVerifyVersion   StageName = "verify_version"
	StageMaintainerClean StageName = "maintainer_clean"
	StageBootstrap       StageName = "bootstrap"
	StageConfigure       StageName = "configure"
	StageDistcheck       StageName = "distcheck"
	StageExtract         StageName = "extract"
	StageReconfigure     StageName = "reconfigure"
	StageAPIDoc          StageName = "apidoc"
	StagePackageDocs     StageName = "package_docs"
	StageBuildManual     StageName = "build_manual"
	StageRelocateManual  StageName = "relocate_manual"
	StageCleanup         StageName = "cleanup"
)

// Phase is the pipeline state reached after a stage succeeds.
type Phase string

const (
	PhaseStart           Phase = "Start"
	PhaseVersionChecked  Phase = "VersionChecked"
	PhaseCleaned         Phase = "Cleaned"
	PhaseBootstrapped    Phase = "Bootstrapped"
	PhaseConfigured      Phase = "Configured"
	PhaseDistributed     Phase = "Distributed"
	PhaseExtracted       Phase = "Extracted"
	PhaseReconfigured    Phase = "Reconfigured"
	PhaseDocsBuilt       Phase = "DocsBuilt"
	PhaseDocsPackaged    Phase = "DocsPackaged"
	PhaseManualBuilt     Phase = "ManualBuilt"
	PhaseManualRelocated Phase = "ManualRelocated"
	PhaseCleanedUp       Phase = "CleanedUp"
	PhaseDone            Phase = "Done"
	PhaseFailed          Phase = "Failed"
)

// StageResult captures the high-level outcome of a stage.
type StageResult string

const (
	StageResultSuccess   StageResult = "success"
	StageResultTolerated StageResult = "tolerated"
	StageResultFatal     StageResult = "fatal"
	StageResultCanceled  StageResult = "canceled"
)

// StageDef is one row of the release table.
type StageDef struct {
	Name        StageName
	Description string
	// Code is the process exit status when this stage fails. Zero only for
	// stages that tolerate failure.
	Code     int
	Category rerrors.ErrorCategory
	// TolerateFailure logs the stage's error and continues.
	TolerateFailure bool
	Reaches         Phase
	Fn              Stage
}

// Pipeline is a fluent builder for ordered stage definitions.
type Pipeline struct{ Defs []StageDef }

// NewPipeline creates an empty pipeline.
func NewPipeline() *Pipeline { return &Pipeline{Defs: make([]StageDef, 0, 12)} }

// Add appends a stage unconditionally.
func (p *Pipeline) Add(def StageDef) *Pipeline {
	p.Defs = append(p.Defs, def)
	return p
}

// AddIf appends a stage only if cond is true.
func (p *Pipeline) AddIf(cond bool, def StageDef) *Pipeline {
	if cond {
		p.Add(def)
	}
	return p
}

// Build returns a copy of the stage definitions slice.
func (p *Pipeline) Build() []StageDef {
	out := make([]StageDef, len(p.Defs))
	copy(out, p.Defs)
	return out
}
