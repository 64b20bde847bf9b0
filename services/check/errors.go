// Copyright (C) 2026 CTLR Labs (dev@ctlr-labs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package check

import (
	"errors"
	"strconv"
)

// =============================================================================
// SENTINEL ERRORS
// =============================================================================

var (
	// ErrNilContext indicates a nil context.Context was passed.
	ErrNilContext = errors.New("context must not be nil")

	// ErrInvalidConfig indicates the configuration failed validation.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrToolNotFound indicates a step's executable is not on PATH.
	ErrToolNotFound = errors.New("tool not found in PATH")

	// ErrStepTimeout indicates a step exceeded its timeout.
	ErrStepTimeout = errors.New("step execution timeout")

	// ErrEmptyPlan indicates planning produced no steps.
	ErrEmptyPlan = errors.New("plan contains no steps")
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// StepExecutionError provides details about a step that failed to execute.
//
// Tool findings are not execution errors: a linter or test runner that
// starts, runs, and exits nonzero reports through StepResult.ExitCode.
type StepExecutionError struct {
	// StepName is the name of the step that failed.
	StepName string

	// Command is the executable that was invoked.
	Command string

	// ExitCode is the exit code, or -1 if the process never started.
	ExitCode int

	// Output is the tail of the captured output, if any.
	Output string

	// Cause is the underlying error.
	Cause error
}

// Error implements the error interface.
func (e *StepExecutionError) Error() string {
	if e.Cause != nil {
		return "step " + e.StepName + " failed: " + e.Cause.Error()
	}
	return "step " + e.StepName + " failed: exit code " + strconv.Itoa(e.ExitCode)
}

// Unwrap returns the underlying error.
func (e *StepExecutionError) Unwrap() error {
	return e.Cause
}
