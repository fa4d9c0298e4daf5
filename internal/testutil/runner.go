package testutil

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"github.com/algorithmiaio/mia-install/internal/process"
)

// Call is one recorded Runner invocation.
type Call struct {
	Name string
	Args []string
}

// String renders the call as a command line.
func (c Call) String() string {
	return process.CommandString(c.Name, c.Args...)
}

// Elevated reports whether the call was wrapped in sudo.
func (c Call) Elevated() bool {
	return c.Name == "sudo"
}

type response struct {
	result process.Result
	err    error
}

// FakeRunner is a scripted process.Runner.
//
// Commands are matched on their full command line. Unmatched commands fail
// as if the binary were missing, unless Passthrough is set, in which case
// they are executed for real with any leading sudo stripped.
type FakeRunner struct {
	Passthrough bool

	mu        sync.Mutex
	responses map[string]response
	calls     []Call
}

// NewFakeRunner creates an empty FakeRunner.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{responses: make(map[string]response)}
}

// On scripts a successful command with the given stdout.
func (f *FakeRunner) On(cmdline, stdout string) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[cmdline] = response{result: process.Result{Stdout: stdout}}
	return f
}

// Fail scripts a command that exits with code.
func (f *FakeRunner) Fail(cmdline string, code int) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[cmdline] = response{
		result: process.Result{ExitCode: code},
		err:    &process.ExitError{Command: cmdline, Code: code},
	}
	return f
}

// Run implements process.Runner.
func (f *FakeRunner) Run(ctx context.Context, name string, args ...string) (process.Result, error) {
	call := Call{Name: name, Args: append([]string(nil), args...)}

	f.mu.Lock()
	f.calls = append(f.calls, call)
	resp, ok := f.responses[call.String()]
	passthrough := f.Passthrough
	f.mu.Unlock()

	if ok {
		return resp.result, resp.err
	}
	if passthrough {
		if name == "sudo" && len(args) > 0 {
			name, args = args[0], args[1:]
		}
		return process.NewExecRunner(nil).Run(ctx, name, args...)
	}
	return process.Result{ExitCode: -1}, fmt.Errorf("run %s: %w", name, exec.ErrNotFound)
}

// Calls returns a copy of the recorded invocations.
func (f *FakeRunner) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// CallsTo returns recorded invocations whose effective command is name,
// looking through a leading sudo.
func (f *FakeRunner) CallsTo(name string) []Call {
	var out []Call
	for _, c := range f.Calls() {
		effective := c.Name
		if c.Elevated() && len(c.Args) > 0 {
			effective = c.Args[0]
		}
		if effective == name {
			out = append(out, c)
		}
	}
	return out
}

// CommandLines returns every recorded call rendered as a string.
func (f *FakeRunner) CommandLines() []string {
	calls := f.Calls()
	out := make([]string, 0, len(calls))
	for _, c := range calls {
		out = append(out, c.String())
	}
	return out
}

// HasCall reports whether a call with the exact command line was recorded.
func (f *FakeRunner) HasCall(cmdline string) bool {
	for _, c := range f.Calls() {
		if c.String() == cmdline {
			return true
		}
	}
	return false
}

// Mutations returns calls that change the filesystem.
func (f *FakeRunner) Mutations() []Call {
	var out []Call
	for _, c := range f.Calls() {
		name := c.Name
		if c.Elevated() && len(c.Args) > 0 {
			name = c.Args[0]
		}
		switch name {
		case "mkdir", "install", "rm", "cp", "mv":
			out = append(out, c)
		}
	}
	return out
}

// Contains reports whether any recorded command line contains substr.
func (f *FakeRunner) Contains(substr string) bool {
	for _, line := range f.CommandLines() {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}
