// Package runnertest provides a scripted CommandRunner for tests.
package runnertest

import (
	"context"
	"strings"

	"github.com/ethanolivertroy/tamper-check/internal/runner"
	"github.com/pkg/errors"
)

// Call records a single Run invocation
type Call struct {
	Dir  string
	Env  []string
	Name string
	Args []string
}

// Line returns the command line, space separated
func (c Call) Line() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Response is returned for calls whose command line starts with Prefix
type Response struct {
	Prefix string
	Result runner.Result
	Err    error
	// Hook runs before the response is returned, e.g. to create files in Dir
	Hook func(Call)
}

// FakeRunner returns scripted results and records every call
type FakeRunner struct {
	Responses []Response
	// Executables are the names LookPath resolves, everything else is missing
	Executables []string
	Calls       []Call
}

// OK is a successful result with the given stdout
func OK(stdout string) runner.Result {
	return runner.Result{OK: true, Stdout: stdout}
}

// Fail is a failed result with the given stderr and exit code 1
func Fail(stderr string) runner.Result {
	return runner.Result{OK: false, Stderr: stderr, ExitCode: 1}
}

// Run implements runner.CommandRunner.
// The first matching response wins; unmatched calls succeed with no output.
func (f *FakeRunner) Run(ctx context.Context, opts runner.Options, name string, args ...string) (runner.Result, error) {
	call := Call{Dir: opts.Dir, Env: opts.Env, Name: name, Args: args}
	f.Calls = append(f.Calls, call)

	line := call.Line()
	for _, r := range f.Responses {
		if strings.HasPrefix(line, r.Prefix) {
			if r.Hook != nil {
				r.Hook(call)
			}
			return r.Result, r.Err
		}
	}
	return OK(""), nil
}

// LookPath implements runner.CommandRunner
func (f *FakeRunner) LookPath(file string) (string, error) {
	for _, e := range f.Executables {
		if e == file {
			return "/usr/bin/" + file, nil
		}
	}
	return "", errors.Wrap(runner.ErrExecutableNotFound, file)
}

// Lines returns the command lines of all recorded calls
func (f *FakeRunner) Lines() []string {
	lines := make([]string, 0, len(f.Calls))
	for _, c := range f.Calls {
		lines = append(lines, c.Line())
	}
	return lines
}
