// Package command launches the external tools of a release (make, the
// autotools scripts, tar) and reports their completion status.
package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"git.home.luguber.info/inful/prepdist/internal/logfields"
)

//go:generate mockgen -source=command.go -destination=mocks/mock_runner.go -package=mocks

// Spec describes one external invocation.
type Spec struct {
	Name string
	Args []string
	Dir  string
}

// String renders the invocation as a shell-like line for logs.
func (s Spec) String() string {
	if len(s.Args) == 0 {
		return s.Name
	}
	return s.Name + " " + strings.Join(s.Args, " ")
}

// Runner executes a Spec and blocks until it exits. A non-zero exit status is
// returned as an error; the tool's own output is passed through untouched.
type Runner interface {
	Run(ctx context.Context, spec Spec) error
}

// ExitError reports a tool that ran but did not succeed.
type ExitError struct {
	Spec     Spec
	ExitCode int
	Err      error
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.Spec.Name, e.ExitCode)
}

func (e *ExitError) Unwrap() error { return e.Err }

// ExecRunner runs tools as child processes, streaming their output.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
	Env    []string
}

// NewExecRunner creates a runner wired to the process's stdout and stderr.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{Stdout: os.Stdout, Stderr: os.Stderr}
}

func (r *ExecRunner) Run(ctx context.Context, spec Spec) error {
	if spec.Name == "" {
		return errors.New("command name is empty")
	}
	if spec.Dir != "" {
		if stat, err := os.Stat(spec.Dir); err != nil {
			return fmt.Errorf("working directory not found: %w", err)
		} else if !stat.IsDir() {
			return fmt.Errorf("working directory %s is not a directory", spec.Dir)
		}
	}

	cmd := exec.CommandContext(ctx, spec.Name, spec.Args...)
	cmd.Dir = spec.Dir
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	if r.Env != nil {
		cmd.Env = r.Env
	}

	slog.Debug("Invoking external tool", logfields.Command(spec.String()), logfields.Dir(spec.Dir))

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ExitError{Spec: spec, ExitCode: exitErr.ExitCode(), Err: err}
		}
		return fmt.Errorf("start %s: %w", spec.Name, err)
	}
	return nil
}
