package release

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/prepdist/internal/artifact"
	"git.home.luguber.info/inful/prepdist/internal/command"
	"git.home.luguber.info/inful/prepdist/internal/config"
	rerrors "git.home.luguber.info/inful/prepdist/internal/errors"
	"git.home.luguber.info/inful/prepdist/internal/eventstore"
	"git.home.luguber.info/inful/prepdist/internal/git"
	"git.home.luguber.info/inful/prepdist/internal/logfields"
	"git.home.luguber.info/inful/prepdist/internal/metrics"
	"git.home.luguber.info/inful/prepdist/internal/stages"
	"git.home.luguber.info/inful/prepdist/internal/version"
	"git.home.luguber.info/inful/prepdist/internal/versioncheck"
)

// Result summarizes a finished run.
type Result struct {
	RunID    string
	Version  string
	Report   *stages.Report
	ExitCode int
	// Digests maps produced artifact file names to their BLAKE3 hex digest.
	// Only populated on success.
	Digests map[string]string
	// Previous is the outcome of the last recorded run of the same version,
	// nil when history is disabled or the version was never attempted.
	Previous *eventstore.Record
}

// Service prepares releases for one source tree.
type Service struct {
	cfg          *config.Config
	runner       command.Runner
	historyStore eventstore.Store
	recorder     *metrics.PrometheusRecorder
	newRunID     func() string
}

// NewService creates a Service that runs the real external tools.
func NewService(cfg *config.Config) *Service {
	return &Service{
		cfg:      cfg,
		runner:   command.NewExecRunner(),
		newRunID: uuid.NewString,
	}
}

// WithRunner allows injecting a custom command runner (for testing).
func (s *Service) WithRunner(r command.Runner) *Service {
	s.runner = r
	return s
}

// WithHistoryStore overrides the store opened from history.path. The caller
// keeps ownership and closes it.
func (s *Service) WithHistoryStore(store eventstore.Store) *Service {
	s.historyStore = store
	return s
}

// WithRecorder overrides the Prometheus recorder created for metrics.textfile.
func (s *Service) WithRecorder(r *metrics.PrometheusRecorder) *Service {
	s.recorder = r
	return s
}

// Run executes the release table for ver. The returned error, when not nil,
// is a *errors.ReleaseError carrying the exit code of the failing stage.
func (s *Service) Run(ctx context.Context, ver string) (*Result, error) {
	cfg := s.cfg
	runID := s.newRunID()
	log := slog.With(logfields.RunID(runID), logfields.Version(ver), logfields.Project(cfg.Project))

	arts := artifact.Names(cfg.Project, ver)
	tag := artifact.RevisionTag(ver)
	log.Debug("Revision tag", slog.String("tag", tag))

	head, err := git.ReadHead(cfg.SourceRoot)
	if err != nil {
		log.Warn("Source revision unavailable", logfields.Error(err))
	}
	if head.Commit != "" {
		log.Debug("Source revision", logfields.Commit(head.Commit), slog.String("branch", head.Branch))
		if tagged, _ := git.TagExists(cfg.SourceRoot, tag); tagged {
			log.Debug("Revision tag already exists", slog.String("tag", tag))
		}
	}

	history, closeHistory := s.openHistory(ctx, runID, ver, log)
	defer closeHistory()
	recorder := s.metricsRecorder()

	var previous *eventstore.Record
	observers := stages.MultiObserver{metrics.NewObserver(metricsOrNoop(recorder))}
	if history != nil {
		previous = s.previousAttempt(history, log)
		history.Started(eventstore.ReleaseStartedMeta{
			Project:     cfg.Project,
			Commit:      head.Commit,
			BuildManual: cfg.BuildManual,
			Tool:        version.Version,
		})
		observers = append(observers, history)
	}

	validator := &versioncheck.Validator{
		SourceRoot:      cfg.SourceRoot,
		VersionFile:     cfg.VersionFile,
		BuildConfigFile: cfg.BuildConfigFile,
	}
	defs := Table(validator, cfg.BuildManual)
	if err := stages.ValidateTable(defs); err != nil {
		return nil, rerrors.InternalError("invalid stage table", err)
	}

	st := &stages.State{
		RunID:       runID,
		Project:     cfg.Project,
		Version:     ver,
		Artifacts:   arts,
		SourceRoot:  cfg.SourceRoot,
		StagingRoot: cfg.StagingRoot(),
		Tools:       stages.Tools{Make: cfg.Tools.Make, Tar: cfg.Tools.Tar},
		Runner:      s.runner,
		Observer:    observers,
		Report:      stages.NewReport(),
	}

	log.Info("Release started", slog.Bool("build_manual", cfg.BuildManual), slog.Int("stages", len(defs)))
	runErr := stages.RunStages(ctx, st, defs)

	res := &Result{RunID: runID, Version: ver, Report: st.Report, ExitCode: st.Report.ExitCode, Previous: previous}
	if runErr == nil {
		res.Digests = digestArtifacts(cfg.SourceRoot, producedArtifacts(arts, cfg.BuildManual), log)
	}

	if history != nil {
		history.Finished(st.Report, res.Digests)
	}
	if recorder != nil && cfg.Metrics.Textfile != "" {
		if err := recorder.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			log.Warn("Metrics not written", logfields.Path(cfg.Metrics.Textfile), logfields.Error(err))
		}
	}

	elapsed := logfields.DurationMS(float64(st.Report.End.Sub(st.Report.Start).Microseconds()) / 1000)
	if runErr != nil {
		log.Error("Release failed",
			logfields.Stage(string(st.Report.FailedStage)),
			logfields.ExitCode(res.ExitCode),
			elapsed)
		return res, runErr
	}
	log.Info("Release prepared", elapsed)
	return res, nil
}

func (s *Service) openHistory(ctx context.Context, runID, ver string, log *slog.Logger) (*eventstore.Recorder, func()) {
	if s.historyStore != nil {
		return eventstore.NewRecorder(ctx, s.historyStore, runID, ver), func() {}
	}
	if s.cfg.History.Path == "" {
		return nil, func() {}
	}
	store, err := eventstore.NewSQLiteStore(s.cfg.History.Path)
	if err != nil {
		log.Warn("Release history disabled", logfields.Path(s.cfg.History.Path), logfields.Error(err))
		return nil, func() {}
	}
	return eventstore.NewRecorder(ctx, store, runID, ver), func() {
		if err := store.Close(); err != nil {
			log.Warn("Failed to close release history", logfields.Error(err))
		}
	}
}

// previousAttempt logs how the last run of the same version ended. A history
// read failure only costs the log line.
func (s *Service) previousAttempt(history *eventstore.Recorder, log *slog.Logger) *eventstore.Record {
	prev, err := history.Previous()
	if err != nil {
		log.Warn("Release history unreadable", logfields.Error(err))
		return nil
	}
	if prev == nil {
		return nil
	}
	code := 0
	if prev.ExitCode != nil {
		code = *prev.ExitCode
	}
	log.Info("Version attempted before",
		slog.String("previous_run_id", prev.RunID),
		logfields.ExitCode(code),
		logfields.Stage(prev.Stage),
		slog.Time("finished_at", prev.Timestamp))
	return prev
}

func (s *Service) metricsRecorder() *metrics.PrometheusRecorder {
	if s.recorder != nil {
		return s.recorder
	}
	if s.cfg.Metrics.Textfile == "" {
		return nil
	}
	return metrics.NewPrometheusRecorder(nil)
}

func metricsOrNoop(r *metrics.PrometheusRecorder) metrics.Recorder {
	if r == nil {
		return metrics.NoopRecorder{}
	}
	return r
}

func producedArtifacts(arts artifact.Set, withManual bool) []string {
	out := []string{arts.DistArchive, arts.DocArchive}
	if withManual {
		out = append(out, arts.Manual)
	}
	return out
}

// digestArtifacts hashes each produced file. A file that cannot be hashed is
// logged and left out; the release itself already succeeded.
func digestArtifacts(sourceRoot string, names []string, log *slog.Logger) map[string]string {
	digests := make(map[string]string, len(names))
	for _, name := range names {
		path := filepath.Join(sourceRoot, name)
		t0 := time.Now()
		sum, err := artifact.Blake3(path)
		if err != nil {
			log.Warn("Artifact not fingerprinted", logfields.Path(path), logfields.Error(err))
			continue
		}
		digests[name] = sum
		log.Info("Artifact ready", logfields.Path(path), logfields.Digest(sum),
			logfields.DurationMS(float64(time.Since(t0).Microseconds())/1000))
	}
	return digests
}
