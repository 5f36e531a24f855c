package eventstore

import (
	"encoding/json"
	"time"

	rerrors "git.home.luguber.info/inful/prepdist/internal/errors"
)

// Event type names.
const (
	TypeReleaseStarted  = "ReleaseStarted"
	TypeStageCompleted  = "StageCompleted"
	TypeStageFailed     = "StageFailed"
	TypeReleaseFinished = "ReleaseFinished"
)

// ReleaseStartedMeta is the payload of a ReleaseStarted record.
type ReleaseStartedMeta struct {
	Project     string `json:"project"`
	Version     string `json:"version"`
	Commit      string `json:"commit,omitempty"` // HEAD of the source checkout, if it is a git repository
	BuildManual bool   `json:"build_manual"`
	Tool        string `json:"tool_version"`
}

// StageOutcome is the payload of StageCompleted and StageFailed records.
type StageOutcome struct {
	Result     string `json:"result"`
	DurationMS int64  `json:"duration_ms"`
	Category   string `json:"category,omitempty"`
	Error      string `json:"error,omitempty"`
}

// ReleaseOutcome is the payload of a ReleaseFinished record.
type ReleaseOutcome struct {
	DurationMS int64             `json:"duration_ms"`
	Digests    map[string]string `json:"digests,omitempty"` // artifact file name -> BLAKE3 hex
}

// NewReleaseStarted creates the record opening a run.
func NewReleaseStarted(runID string, meta ReleaseStartedMeta) (Record, error) {
	return newRecord(runID, TypeReleaseStarted, meta.Version, "", nil, meta)
}

// NewStageCompleted creates the record for a stage that finished, including
// one whose failure was tolerated.
func NewStageCompleted(runID, version, stage, result string, duration time.Duration, errMsg string) (Record, error) {
	return newRecord(runID, TypeStageCompleted, version, stage, nil, StageOutcome{
		Result:     result,
		DurationMS: duration.Milliseconds(),
		Error:      errMsg,
	})
}

// NewStageFailed creates the record for the stage that stopped the run.
func NewStageFailed(runID, version, stage, result string, exitCode int, category, errMsg string) (Record, error) {
	return newRecord(runID, TypeStageFailed, version, stage, &exitCode, StageOutcome{
		Result:   result,
		Category: category,
		Error:    errMsg,
	})
}

// NewReleaseFinished creates the record closing a run. failedStage is empty
// on success.
func NewReleaseFinished(runID, version string, exitCode int, failedStage string, duration time.Duration, digests map[string]string) (Record, error) {
	return newRecord(runID, TypeReleaseFinished, version, failedStage, &exitCode, ReleaseOutcome{
		DurationMS: duration.Milliseconds(),
		Digests:    digests,
	})
}

func newRecord(runID, eventType, version, stage string, exitCode *int, payload any) (Record, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Record{}, rerrors.InternalError("failed to marshal "+eventType+" payload", err).
			WithContext("run_id", runID)
	}
	return Record{
		RunID:     runID,
		Type:      eventType,
		Version:   version,
		Stage:     stage,
		ExitCode:  exitCode,
		Timestamp: time.Now(),
		Payload:   data,
	}, nil
}
