// Copyright (C) 2026 CTLR Labs (dev@ctlr-labs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package check

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"time"
)

// =============================================================================
// STEP RUNNER
// =============================================================================

// StepRunner executes a single planned step.
//
// The orchestrator depends on this interface; tests substitute a recording
// implementation to assert invocation sequences without spawning processes.
type StepRunner interface {
	// Run executes the step and returns its result. Execution-level
	// failures (missing tool, spawn error) are reported inside the
	// result rather than aborting the run.
	Run(ctx context.Context, step Step) StepResult
}

// ExecRunner runs steps as subprocesses.
//
// Thread Safety: Safe for concurrent use. Each execution creates its own
// process.
type ExecRunner struct {
	workingDir string
	maxOutput  int
	logger     *slog.Logger
}

// RunnerOption configures the ExecRunner.
type RunnerOption func(*ExecRunner)

// WithWorkingDir sets the directory the tools run from.
func WithWorkingDir(dir string) RunnerOption {
	return func(r *ExecRunner) {
		r.workingDir = dir
	}
}

// WithMaxOutput caps the captured output per step, in bytes.
func WithMaxOutput(limit int) RunnerOption {
	return func(r *ExecRunner) {
		r.maxOutput = limit
	}
}

// WithRunnerLogger sets the structured logger.
func WithRunnerLogger(logger *slog.Logger) RunnerOption {
	return func(r *ExecRunner) {
		r.logger = logger
	}
}

// NewExecRunner creates a subprocess-backed step runner.
func NewExecRunner(opts ...RunnerOption) *ExecRunner {
	r := &ExecRunner{
		maxOutput: DefaultMaxOutputBytes,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the step as a subprocess.
//
// Description:
//
//	Resolves the executable, spawns it with the step's timeout, and
//	captures stdout and stderr through a size-limited writer. Exit codes
//	are taken from the process; tool findings never surface as errors.
//	The step's standard streams are the tool's own diagnostic surface
//	and are returned verbatim (up to the capture limit), not parsed.
//
// Inputs:
//
//	ctx - Context for cancellation
//	step - The planned invocation
//
// Outputs:
//
//	StepResult - The outcome, including Err for execution-level failures
//
// Thread Safety: Safe for concurrent use.
func (r *ExecRunner) Run(ctx context.Context, step Step) StepResult {
	result := StepResult{
		Name:       step.Name,
		Kind:       step.Kind,
		Suppressed: step.SuppressFailure,
	}

	if ctx == nil {
		result.ExitCode = -1
		result.Err = ErrNilContext
		return result
	}

	if _, err := exec.LookPath(step.Command); err != nil {
		r.logger.Warn("Tool not installed",
			slog.String("step", step.Name),
			slog.String("command", step.Command),
		)
		result.ExitCode = -1
		result.Err = &StepExecutionError{
			StepName: step.Name,
			Command:  step.Command,
			ExitCode: -1,
			Cause:    fmt.Errorf("%w: %s", ErrToolNotFound, step.Command),
		}
		return result
	}

	timeout := step.Timeout
	if timeout == 0 {
		timeout = DefaultStepTimeout
	}
	cmdCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, step.Command, step.Args...)
	if r.workingDir != "" {
		cmd.Dir = r.workingDir
	}

	var output bytes.Buffer
	limited := &limitedWriter{w: &output, limit: r.maxOutput}
	cmd.Stdout = limited
	cmd.Stderr = limited

	r.logger.Debug("Executing step",
		slog.String("step", step.Name),
		slog.String("command", step.Command),
		slog.Any("args", step.Args),
		slog.Duration("timeout", timeout),
	)

	start := time.Now()
	err := cmd.Run()
	result.Duration = time.Since(start)
	result.Output = output.String()
	result.Truncated = limited.truncated

	if cmdCtx.Err() == context.DeadlineExceeded {
		result.TimedOut = true
		result.ExitCode = -1
		result.Err = &StepExecutionError{
			StepName: step.Name,
			Command:  step.Command,
			ExitCode: -1,
			Output:   tail(result.Output, 2048),
			Cause:    ErrStepTimeout,
		}
		r.logger.Warn("Step timed out",
			slog.String("step", step.Name),
			slog.Duration("timeout", timeout),
		)
		return result
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// The tool ran and reported findings through its exit code.
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = -1
			result.Err = &StepExecutionError{
				StepName: step.Name,
				Command:  step.Command,
				ExitCode: -1,
				Output:   tail(result.Output, 2048),
				Cause:    err,
			}
		}
	}

	return result
}

// tail returns at most n trailing bytes of s.
func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

// =============================================================================
// LIMITED WRITER
// =============================================================================

// limitedWriter wraps a writer with a size limit.
type limitedWriter struct {
	w         io.Writer
	limit     int
	written   int
	truncated bool
}

func (lw *limitedWriter) Write(p []byte) (n int, err error) {
	full := len(p)
	if lw.written >= lw.limit {
		lw.truncated = true
		return full, nil // Silently discard
	}

	remaining := lw.limit - lw.written
	if len(p) > remaining {
		p = p[:remaining]
		lw.truncated = true
	}

	n, err = lw.w.Write(p)
	lw.written += n
	// Report the full length so the copier never sees a short write.
	return full, err
}
