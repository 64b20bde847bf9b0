// Copyright (C) 2026 CTLR Labs (dev@ctlr-labs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package check

import (
	"fmt"
	"time"
)

// =============================================================================
// FAILURE POLICY
// =============================================================================

// FailurePolicy maps a step kind to whether its failures are suppressed.
//
// A suppressed step still runs and still reports its findings; its exit
// status simply never fails the overall run.
type FailurePolicy map[StepKind]bool

// DefaultFailurePolicy returns the standard policy: linter findings are
// advisory (exit-zero), everything else is fatal.
func DefaultFailurePolicy() FailurePolicy {
	return FailurePolicy{
		KindLint:      true,
		KindTypecheck: false,
		KindStyle:     false,
		KindTest:      false,
	}
}

// Suppresses reports whether the policy suppresses failures of the kind.
func (p FailurePolicy) Suppresses(kind StepKind) bool {
	return p[kind]
}

// =============================================================================
// PLANNING
// =============================================================================

// Well-known step names.
const (
	StepNameLint      = "lint"
	StepNameTypecheck = "typecheck"
	StepNameStyle     = "style"
)

// Plan builds the ordered invocation plan for the configuration.
//
// Description:
//
//	Produces the fixed sequence: linter, type checker, style checker,
//	then (full mode only) one test suite run per configured marker
//	expression. Planning is pure: the same config always yields the
//	same plan, and the plan never depends on filesystem state.
//
// Inputs:
//
//	cfg - The validated run configuration
//
// Outputs:
//
//	[]Step - The ordered steps to execute
//	error - Non-nil if the configuration is invalid
func Plan(cfg Config) ([]Step, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	policy := cfg.Policy
	if policy == nil {
		policy = DefaultFailurePolicy()
	}

	dirs := cfg.Directories
	timeout := time.Duration(cfg.StepTimeout)

	steps := []Step{
		{
			Name:            StepNameLint,
			Kind:            KindLint,
			Command:         cfg.Python,
			Args:            appendDirs([]string{"-m", "pylint", "--rcfile", cfg.LintConfigPath, "--exit-zero"}, dirs),
			SuppressFailure: policy.Suppresses(KindLint),
			Timeout:         timeout,
		},
		{
			Name:            StepNameTypecheck,
			Kind:            KindTypecheck,
			Command:         cfg.Python,
			Args:            appendDirs([]string{"-m", "mypy"}, dirs),
			SuppressFailure: policy.Suppresses(KindTypecheck),
			Timeout:         timeout,
		},
		{
			Name:            StepNameStyle,
			Kind:            KindStyle,
			Command:         cfg.Python,
			Args:            appendDirs([]string{"-m", "flake8"}, dirs),
			SuppressFailure: policy.Suppresses(KindStyle),
			Timeout:         timeout,
		},
	}

	if cfg.Mode == ModeFull {
		for _, marker := range cfg.TestMarkers {
			steps = append(steps, Step{
				Name:            fmt.Sprintf("test[%s]", marker),
				Kind:            KindTest,
				Command:         cfg.Python,
				Args:            []string{"-m", "pytest", "-m", marker},
				SuppressFailure: policy.Suppresses(KindTest),
				Timeout:         timeout,
			})
		}
	}

	if len(steps) == 0 {
		return nil, ErrEmptyPlan
	}
	return steps, nil
}

// appendDirs appends the target directories to a fresh argument slice.
func appendDirs(base []string, dirs []string) []string {
	out := make([]string, 0, len(base)+len(dirs))
	out = append(out, base...)
	out = append(out, dirs...)
	return out
}
