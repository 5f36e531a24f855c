package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyVersion    = "version"
	KeyProject    = "project"
	KeyStage      = "stage"
	KeyStageIndex = "stage_index"
	KeyExitCode   = "exit_code"
	KeyCategory   = "category"
	KeyDurationMS = "duration_ms"
	KeyPath       = "path"
	KeyCommand    = "command"
	KeyDir        = "dir"
	KeyCommit     = "commit"
	KeyDigest     = "digest"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Version(v string) slog.Attr      { return slog.String(KeyVersion, v) }
func Project(p string) slog.Attr      { return slog.String(KeyProject, p) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func StageIndex(i int) slog.Attr      { return slog.Int(KeyStageIndex, i) }
func ExitCode(code int) slog.Attr     { return slog.Int(KeyExitCode, code) }
func Category(c string) slog.Attr     { return slog.String(KeyCategory, c) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Command(c string) slog.Attr      { return slog.String(KeyCommand, c) }
func Dir(d string) slog.Attr          { return slog.String(KeyDir, d) }
func Commit(sha string) slog.Attr     { return slog.String(KeyCommit, sha) }
func Digest(d string) slog.Attr       { return slog.String(KeyDigest, d) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
