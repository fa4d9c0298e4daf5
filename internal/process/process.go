// Package process runs external commands on behalf of the installer.
//
// Host detection (uname, sysctl, getent, dscl) and every filesystem mutation
// (mkdir, install, rm) go through the Runner interface so tests can replay
// any platform without a real multi-platform host.
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// Result is the outcome of a finished command.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Runner executes a command and waits for it to finish.
//
// A command that starts but exits non-zero returns its Result together with
// an *ExitError. A command that cannot start at all (missing binary) returns
// an error wrapping exec.ErrNotFound or the underlying os error.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (Result, error)
}

// ExitError reports a command that exited with a non-zero status.
type ExitError struct {
	Command string
	Code    int
	Stderr  string
}

func (e *ExitError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		return fmt.Sprintf("%s: exit status %d", e.Command, e.Code)
	}
	return fmt.Sprintf("%s: exit status %d: %s", e.Command, e.Code, msg)
}

// ExitCode returns the exit status carried by err, 0 for nil and -1 when err
// is not an *ExitError.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return -1
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	log *zap.Logger
}

// NewExecRunner creates a runner that logs each invocation at debug level.
func NewExecRunner(log *zap.Logger) *ExecRunner {
	if log == nil {
		log = zap.NewNop()
	}
	return &ExecRunner{log: log}
}

// Run executes name with args. Stdin is inherited so an elevation tool can
// prompt for a password; stdout and stderr are captured.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	cmdStr := CommandString(name, args...)
	r.log.Debug("Running command", zap.String("command", cmdStr))

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = os.Stdin

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			r.log.Debug("Command failed",
				zap.String("command", cmdStr),
				zap.Int("exit_code", result.ExitCode),
				zap.String("stderr", strings.TrimSpace(result.Stderr)))
			return result, &ExitError{Command: cmdStr, Code: result.ExitCode, Stderr: result.Stderr}
		}
		r.log.Debug("Command could not start", zap.String("command", cmdStr), zap.Error(err))
		return result, fmt.Errorf("run %s: %w", name, err)
	}

	return result, nil
}

// Output runs a detection command and returns its trimmed stdout.
func Output(ctx context.Context, r Runner, name string, args ...string) (string, error) {
	res, err := r.Run(ctx, name, args...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(res.Stdout), nil
}

// CommandString renders a command line for logs and error messages.
func CommandString(name string, args ...string) string {
	if len(args) == 0 {
		return name
	}
	return name + " " + strings.Join(args, " ")
}
