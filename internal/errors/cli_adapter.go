package errors

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// CLIErrorAdapter handles error presentation and exit code determination for the CLI.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
	out     io.Writer
}

// NewCLIErrorAdapter creates a new CLI error adapter.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{
		verbose: verbose,
		logger:  logger,
		out:     os.Stderr,
	}
}

// WithOutput redirects the user-facing message (tests).
func (a *CLIErrorAdapter) WithOutput(w io.Writer) *CLIErrorAdapter {
	a.out = w
	return a
}

// ExitCodeFor determines the exit code for an error. A stage-stamped code wins;
// otherwise the category decides, and unclassified errors are internal faults.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if re, ok := As(err); ok {
		if re.Code != 0 {
			return re.Code
		}
		return a.exitCodeFromCategory(re.Category)
	}

	return ExitInternal
}

// exitCodeFromCategory covers errors no stage stamped. Only startup and
// validation faults are expected here; anything else is a fault of the tool.
func (a *CLIErrorAdapter) exitCodeFromCategory(c ErrorCategory) int {
	switch c {
	case CategoryUsage, CategoryConfig:
		return ExitUsage
	case CategoryValidation:
		return 1
	default:
		return ExitInternal
	}
}

// FormatError formats an error for user-friendly display.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}

	re, ok := As(err)
	if !ok {
		return fmt.Sprintf("Error: %v", err)
	}
	if a.verbose {
		return re.Error()
	}

	switch re.Category {
	case CategoryUsage, CategoryValidation:
		return re.Message
	default:
		if re.Stage != "" {
			return fmt.Sprintf("%s: stage %s failed (exit %d)", re.Category, re.Stage, a.ExitCodeFor(re))
		}
		return fmt.Sprintf("%s: %s", re.Category, re.Message)
	}
}

// Report logs and prints an error and returns the exit code the process should use.
func (a *CLIErrorAdapter) Report(err error) int {
	if err == nil {
		return ExitSuccess
	}
	code := a.ExitCodeFor(err)
	a.logError(err, code)
	_, _ = fmt.Fprintln(a.out, a.FormatError(err))
	return code
}

// logError logs an error with appropriate level and context.
func (a *CLIErrorAdapter) logError(err error, code int) {
	re, ok := As(err)
	if !ok {
		a.logger.Error("Unclassified error", "error", err, "exit_code", code)
		return
	}

	attrs := []slog.Attr{
		slog.String("category", string(re.Category)),
		slog.Int("exit_code", code),
	}
	if re.Stage != "" {
		attrs = append(attrs, slog.String("stage", re.Stage))
	}
	if re.Cause != nil {
		attrs = append(attrs, slog.String("error", re.Cause.Error()))
	}
	for k, v := range re.Context {
		attrs = append(attrs, slog.Any(k, v))
	}
	a.logger.LogAttrs(context.Background(), a.slogLevel(re.Severity), re.Message, attrs...)
}

func (a *CLIErrorAdapter) slogLevel(severity ErrorSeverity) slog.Level {
	switch severity {
	case SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
