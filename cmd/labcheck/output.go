// Copyright (C) 2026 CTLR Labs (dev@ctlr-labs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/ctlr-labs/labcheck/pkg/ux"
	"github.com/ctlr-labs/labcheck/services/check"
)

// =============================================================================
// Report Rendering
// =============================================================================

// renderReport prints the per-step statuses and the run summary.
//
// Step output is only echoed for steps that failed; passing tools keep
// the terminal quiet.
func renderReport(report *check.Report) {
	ux.Title(fmt.Sprintf("labcheck %s (%s)", report.Mode, report.RunID))
	ux.Muted("targets: " + strings.Join(report.Directories, ", "))

	for i := range report.Results {
		result := &report.Results[i]
		switch {
		case result.Passed():
			ux.Success(fmt.Sprintf("%s (%s)", result.Name, result.Duration.Round(timePrecision)))
		case result.Suppressed:
			ux.Warning(fmt.Sprintf("%s failed (suppressed, exit %d)", result.Name, result.ExitCode))
		case result.TimedOut:
			ux.Error(fmt.Sprintf("%s timed out after %s", result.Name, result.Duration.Round(timePrecision)))
		default:
			ux.Error(fmt.Sprintf("%s failed (exit %d)", result.Name, result.ExitCode))
		}
		if !result.Passed() && len(result.Output) > 0 {
			content := result.Output
			if result.Truncated {
				content = "[output truncated]\n" + content
			}
			ux.Box(result.Name, strings.TrimRight(content, "\n"))
		}
	}

	if report.Failed() {
		ux.Error(fmt.Sprintf("FAILED in %s: %s",
			report.Duration.Round(timePrecision),
			strings.Join(report.FailedSteps(), ", ")))
		return
	}
	ux.Success("PASSED in " + report.Duration.Round(timePrecision).String())
}

// renderPlan prints the steps the gate would run for the configuration.
func renderPlan(cfg check.Config, steps []check.Step) {
	ux.Title(fmt.Sprintf("labcheck plan (%s mode)", cfg.Mode))
	ux.Muted("targets: " + strings.Join(cfg.Directories, ", "))
	for _, step := range steps {
		line := fmt.Sprintf("%s: %s %s", step.Name, step.Command, strings.Join(step.Args, " "))
		if step.SuppressFailure {
			line += "  [failure suppressed]"
		}
		ux.Info(line)
	}
}

// timePrecision rounds durations for display.
const timePrecision = 10 * time.Millisecond
