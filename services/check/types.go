// Copyright (C) 2026 CTLR Labs (dev@ctlr-labs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package check

import (
	"time"
)

// =============================================================================
// MODE
// =============================================================================

// Mode selects between the reduced smoke scope and the full check scope.
type Mode string

const (
	// ModeSmoke runs static checks only, over the reduced directory set.
	ModeSmoke Mode = "smoke"

	// ModeFull runs static checks plus the marker-filtered test suites,
	// over every checked directory.
	ModeFull Mode = "full"
)

// ParseMode maps a CLI token to a Mode.
//
// Description:
//
//	Only the exact literal "smoke" selects ModeSmoke. Any other token,
//	including the empty string, selects ModeFull.
//
// Inputs:
//
//	token - The raw mode argument, possibly empty
//
// Outputs:
//
//	Mode - The resolved mode
func ParseMode(token string) Mode {
	if token == string(ModeSmoke) {
		return ModeSmoke
	}
	return ModeFull
}

// String returns the mode name.
func (m Mode) String() string {
	return string(m)
}

// =============================================================================
// TARGET SET
// =============================================================================

// TargetSet is an ordered, immutable sequence of directory names to check.
//
// Thread Safety: Immutable after creation.
type TargetSet struct {
	dirs []string
}

// NewTargetSet creates a target set from the given directories, in order.
func NewTargetSet(dirs ...string) TargetSet {
	owned := make([]string, len(dirs))
	copy(owned, dirs)
	return TargetSet{dirs: owned}
}

// SmokeTargets returns the reduced directory set checked in smoke mode.
func SmokeTargets() TargetSet {
	return NewTargetSet("config", "seminars")
}

// FullTargets returns every checked directory.
//
// The smoke set is always a strict prefix of this set.
func FullTargets() TargetSet {
	return NewTargetSet("config", "seminars", "core_utils", "lab_5_scrapper", "lab_6_pipeline")
}

// TargetsFor returns the target set bound to the given mode.
func TargetsFor(mode Mode) TargetSet {
	if mode == ModeSmoke {
		return SmokeTargets()
	}
	return FullTargets()
}

// Dirs returns a copy of the ordered directory names.
func (t TargetSet) Dirs() []string {
	out := make([]string, len(t.dirs))
	copy(out, t.dirs)
	return out
}

// Len returns the number of directories in the set.
func (t TargetSet) Len() int {
	return len(t.dirs)
}

// Contains reports whether dir is a member of the set.
func (t TargetSet) Contains(dir string) bool {
	for _, d := range t.dirs {
		if d == dir {
			return true
		}
	}
	return false
}

// SubsetOf reports whether every member of t is a member of other.
func (t TargetSet) SubsetOf(other TargetSet) bool {
	for _, d := range t.dirs {
		if !other.Contains(d) {
			return false
		}
	}
	return true
}

// =============================================================================
// STEP
// =============================================================================

// StepKind classifies a planned tool invocation.
type StepKind int

const (
	// KindLint is a linter invocation.
	KindLint StepKind = iota

	// KindTypecheck is a type checker invocation.
	KindTypecheck

	// KindStyle is a style checker invocation.
	KindStyle

	// KindTest is a marker-filtered test suite invocation.
	KindTest
)

// String returns the kind name.
func (k StepKind) String() string {
	switch k {
	case KindLint:
		return "lint"
	case KindTypecheck:
		return "typecheck"
	case KindStyle:
		return "style"
	case KindTest:
		return "test"
	default:
		return "unknown"
	}
}

// Step is one planned external tool invocation.
//
// Thread Safety: Treat as immutable after planning.
type Step struct {
	// Name uniquely identifies the step within a plan (e.g., "lint",
	// "test[mark10 and lab_5_scrapper]").
	Name string

	// Kind classifies the tool being invoked.
	Kind StepKind

	// Command is the executable to run.
	Command string

	// Args are the arguments passed to the executable.
	Args []string

	// SuppressFailure marks the step's exit status as advisory: a nonzero
	// exit never fails the overall run. Applied to the linter step.
	SuppressFailure bool

	// Timeout bounds the step's wall-clock runtime. Zero means the
	// runner's default applies.
	Timeout time.Duration
}

// Clone returns a deep copy of the step.
func (s *Step) Clone() *Step {
	clone := &Step{
		Name:            s.Name,
		Kind:            s.Kind,
		Command:         s.Command,
		Args:            make([]string, len(s.Args)),
		SuppressFailure: s.SuppressFailure,
		Timeout:         s.Timeout,
	}
	copy(clone.Args, s.Args)
	return clone
}

// =============================================================================
// STEP RESULT
// =============================================================================

// StepResult captures the outcome of a single step execution.
//
// Thread Safety: Immutable after creation by the runner.
type StepResult struct {
	// Name is the step name this result belongs to.
	Name string `json:"name"`

	// Kind is the step kind.
	Kind StepKind `json:"-"`

	// ExitCode is the subprocess exit code. -1 when the process could
	// not be started or was killed before exiting.
	ExitCode int `json:"exit_code"`

	// Output is the combined, size-limited stdout and stderr.
	Output string `json:"output,omitempty"`

	// Truncated indicates the output hit the capture limit.
	Truncated bool `json:"truncated,omitempty"`

	// Duration is how long the step ran.
	Duration time.Duration `json:"duration"`

	// TimedOut indicates the step exceeded its timeout.
	TimedOut bool `json:"timed_out,omitempty"`

	// Suppressed mirrors the step's SuppressFailure policy.
	Suppressed bool `json:"suppressed,omitempty"`

	// Err records an execution-level failure (tool missing, spawn error).
	// Tool findings are not errors; they surface through ExitCode.
	Err error `json:"-"`
}

// Passed reports whether the step succeeded on its own terms.
func (r *StepResult) Passed() bool {
	return r.Err == nil && !r.TimedOut && r.ExitCode == 0
}

// Fatal reports whether this result fails the overall run.
//
// A suppressed step never contributes a failure, whatever its outcome.
func (r *StepResult) Fatal() bool {
	return !r.Suppressed && !r.Passed()
}

// =============================================================================
// REPORT
// =============================================================================

// Report aggregates the outcome of one orchestrator run.
//
// Thread Safety: Immutable after creation by the orchestrator.
type Report struct {
	// RunID uniquely identifies this run in logs.
	RunID string `json:"run_id"`

	// Mode is the mode the run was bound to.
	Mode Mode `json:"mode"`

	// Directories is the ordered target directory set.
	Directories []string `json:"directories"`

	// Results holds one entry per executed step, in invocation order.
	Results []StepResult `json:"results"`

	// Duration is the total wall-clock time of the run.
	Duration time.Duration `json:"duration"`
}

// Failed reports whether any non-suppressed step failed.
func (r *Report) Failed() bool {
	for i := range r.Results {
		if r.Results[i].Fatal() {
			return true
		}
	}
	return false
}

// FailedSteps returns the names of the steps that fail the run.
func (r *Report) FailedSteps() []string {
	var names []string
	for i := range r.Results {
		if r.Results[i].Fatal() {
			names = append(names, r.Results[i].Name)
		}
	}
	return names
}
