// Copyright (C) 2026 CTLR Labs (dev@ctlr-labs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ctlr-labs/labcheck/pkg/logging"
	"github.com/ctlr-labs/labcheck/pkg/ux"
	"github.com/ctlr-labs/labcheck/services/check"
)

// errChecksFailed marks a run where at least one non-suppressed step
// failed. main maps it to exit code 1; every other error exits 2.
var errChecksFailed = errors.New("checks failed")

// =============================================================================
// Check Command
// =============================================================================

// runCheck executes the quality gate for the resolved mode.
//
// Description:
//
//	Builds the configuration from the mode argument, the optional YAML
//	overlay, and the flag overrides, then either runs the gate once or
//	enters watch mode. The report is rendered to stdout in both cases.
//
// Inputs:
//
//	cmd - The cobra command (unused beyond the signature)
//	args - At most one element, the raw mode token
//
// Outputs:
//
//	error - errChecksFailed on gate failure, another error on
//	        configuration or execution problems, nil on success
func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(args)
	if err != nil {
		return err
	}

	logger := logging.New(logging.Config{
		Level:   logging.ParseLevel(logLevel),
		LogDir:  logDir,
		Service: "labcheck",
	})
	defer logger.Close()

	runner := check.NewExecRunner(
		check.WithWorkingDir(cfg.WorkingDir),
		check.WithMaxOutput(cfg.MaxOutputBytes),
		check.WithRunnerLogger(logger.Slog()),
	)
	orch := check.NewOrchestrator(runner, logger.Slog())

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if watchMode {
		watcher := check.NewWatcher(orch, cfg, func(report *check.Report) {
			renderReport(report)
		}, logger.Slog())
		if err := watcher.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	}

	steps, err := check.Plan(cfg)
	if err != nil {
		return err
	}
	spinner := ux.NewStepSpinner("running checks", len(steps))
	spinner.Start()
	orch.OnStepStart = func(step check.Step, index, total int) {
		spinner.Advance(step.Name)
	}

	report, err := orch.Run(ctx, cfg)
	spinner.Stop()
	if err != nil {
		return err
	}
	renderReport(report)
	if report.Failed() {
		return fmt.Errorf("%w: %v", errChecksFailed, report.FailedSteps())
	}
	return nil
}

// =============================================================================
// Plan Command
// =============================================================================

// runPlan prints the steps the gate would execute, without running any.
func runPlan(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(args)
	if err != nil {
		return err
	}
	steps, err := check.Plan(cfg)
	if err != nil {
		return err
	}
	renderPlan(cfg, steps)
	return nil
}

// =============================================================================
// Configuration Assembly
// =============================================================================

// buildConfig resolves the effective configuration for a command run.
//
// Precedence, lowest to highest: mode defaults, YAML overlay, flags.
func buildConfig(args []string) (check.Config, error) {
	token := ""
	if len(args) == 1 {
		token = args[0]
	}
	cfg := check.NewConfig(token)

	if configPath != "" {
		if err := cfg.LoadFile(configPath); err != nil {
			return check.Config{}, err
		}
	}
	if repoDir != "" {
		cfg.WorkingDir = repoDir
	}
	if stepTimeout != "" {
		d, err := time.ParseDuration(stepTimeout)
		if err != nil {
			return check.Config{}, fmt.Errorf("parsing --timeout: %w", err)
		}
		cfg.StepTimeout = check.Duration(d)
	}

	if err := cfg.Validate(); err != nil {
		return check.Config{}, err
	}
	return cfg, nil
}
