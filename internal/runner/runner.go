// Package runner runs external commands with captured output.
package runner

import (
	"bytes"
	"context"
	"io"
	"log"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ErrExecutableNotFound is returned by LookPath when a required tool is missing
var ErrExecutableNotFound = errors.New("executable not found in PATH")

// Options configures a single command execution
type Options struct {
	// Dir is the directory in which the command is run
	Dir string
	// Env is appended to the current environment
	Env []string
}

// Result is the captured outcome of a command that ran to completion
type Result struct {
	OK       bool
	Stdout   string
	Stderr   string
	ExitCode int
}

// Message returns trimmed stderr, falling back to trimmed stdout
func (r Result) Message() string {
	if msg := strings.TrimSpace(r.Stderr); msg != "" {
		return msg
	}
	return strings.TrimSpace(r.Stdout)
}

// CommandRunner abstracts command execution so installers can be tested without package managers
type CommandRunner interface {
	// Run executes name with args and waits for it.
	// A non-zero exit is reported through Result; err is only set when the command could not be run.
	Run(ctx context.Context, opts Options, name string, args ...string) (Result, error)
	// LookPath searches for an executable named file in PATH
	LookPath(file string) (string, error)
}

// ExecRunner implements CommandRunner using os/exec
type ExecRunner struct {
	// Timeout bounds each command, zero means no limit
	Timeout time.Duration
	// Logger receives the command lines, nil discards them
	Logger *log.Logger
}

// New creates an ExecRunner
func New(timeout time.Duration, logger *log.Logger) *ExecRunner {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &ExecRunner{Timeout: timeout, Logger: logger}
}

// Run implements CommandRunner
func (r *ExecRunner) Run(ctx context.Context, opts Options, name string, args ...string) (Result, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = opts.Dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// Orphaned grandchildren must not hold the output pipes open past the timeout
	if r.Timeout > 0 {
		cmd.WaitDelay = time.Second
	}
	if len(opts.Env) > 0 {
		cmd.Env = append(os.Environ(), opts.Env...)
	}
	if r.Logger != nil {
		r.Logger.Printf("Executing %s (dir=%q)", cmd.String(), opts.Dir)
	}

	err := cmd.Run()
	res := Result{
		OK:       err == nil,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode(cmd, err),
	}

	switch {
	case err == nil:
		return res, nil
	case errors.Is(ctx.Err(), context.DeadlineExceeded) && r.Timeout > 0:
		res.Stderr = strings.TrimSpace(res.Stderr + "\ncommand timed out after " + r.Timeout.String())
		return res, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return res, nil
	}
	return res, errors.Wrapf(err, "running %s", name)
}

// LookPath implements CommandRunner
func (r *ExecRunner) LookPath(file string) (string, error) {
	path, err := exec.LookPath(file)
	if err != nil {
		return "", errors.Wrap(ErrExecutableNotFound, file)
	}
	return path, nil
}

// exitCode extracts the exit code from the finished command
func exitCode(cmd *exec.Cmd, err error) int {
	if err == nil {
		return 0
	}
	if cmd.ProcessState != nil && cmd.ProcessState.ExitCode() >= 0 {
		return cmd.ProcessState.ExitCode()
	}
	return -1
}
