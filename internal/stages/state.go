package stages

import (
	"time"

	"git.home.luguber.info/inful/prepdist/internal/artifact"
	"git.home.luguber.info/inful/prepdist/internal/command"
)

// Tools names the external executables a release invokes.
type Tools struct {
	Make string
	Tar  string
}

// State is shared by all stages of one release run.
type State struct {
	RunID   string
	Project string
	Version string

	Artifacts artifact.Set

	// SourceRoot is the release checkout; archives are written here.
	SourceRoot string
	// StagingRoot receives the extracted distribution.
	StagingRoot string
	// ExtractedRoot is StagingRoot/<DistDir>.
	ExtractedRoot string

	Tools    Tools
	Runner   command.Runner
	Observer Observer
	Report   *Report
}

// StageRecord is the outcome of one executed stage.
type StageRecord struct {
	Name     StageName
	Code     int
	Result   StageResult
	Duration time.Duration
	Err      error
}

// Report accumulates the outcome of a run.
type Report struct {
	Start    time.Time
	End      time.Time
	Phase    Phase
	Stages   []StageRecord
	ExitCode int
	// FailedStage is empty on success.
	FailedStage StageName
}

// NewReport creates a report positioned at PhaseStart.
func NewReport() *Report {
	return &Report{Start: time.Now(), Phase: PhaseStart}
}

// Executed lists stage names in execution order.
func (r *Report) Executed() []StageName {
	out := make([]StageName, 0, len(r.Stages))
	for _, s := range r.Stages {
		out = append(out, s.Name)
	}
	return out
}

func (r *Report) record(rec StageRecord) {
	r.Stages = append(r.Stages, rec)
}
