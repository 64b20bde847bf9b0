// Copyright (C) 2026 CTLR Labs (dev@ctlr-labs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package check

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ORCHESTRATOR
// =============================================================================

// Orchestrator plans and executes a check run.
//
// Thread Safety: Safe for concurrent use; each Run is independent.
type Orchestrator struct {
	runner StepRunner
	logger *slog.Logger

	// OnStepStart, when non-nil, is invoked before each step with the
	// step and its 1-based position out of the total. Used by the CLI
	// for progress display. Set before the first Run call.
	OnStepStart func(step Step, index, total int)
}

// NewOrchestrator creates an orchestrator over the given step runner.
//
// Inputs:
//
//	runner - Executes individual steps; nil selects a default ExecRunner
//	logger - Logger for structured logging; nil selects slog.Default
//
// Outputs:
//
//	*Orchestrator - The configured orchestrator
func NewOrchestrator(runner StepRunner, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	if runner == nil {
		runner = NewExecRunner(WithRunnerLogger(logger))
	}
	return &Orchestrator{
		runner: runner,
		logger: logger,
	}
}

// Run executes every planned step sequentially and aggregates a report.
//
// Description:
//
//	Plans the fixed step sequence for the configuration, runs each step
//	to completion before starting the next, and records every outcome.
//	A failing step never aborts the rest of the run: all steps execute,
//	all statuses are reported, and the report fails iff any
//	non-suppressed step failed.
//
// Inputs:
//
//	ctx - Context for cancellation
//	cfg - The validated run configuration
//
// Outputs:
//
//	*Report - One result per executed step, in invocation order
//	error - Non-nil if the run could not start (nil ctx, bad config)
//
// Thread Safety: Safe for concurrent use.
func (o *Orchestrator) Run(ctx context.Context, cfg Config) (*Report, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}

	steps, err := Plan(cfg)
	if err != nil {
		return nil, err
	}

	report := &Report{
		RunID:       uuid.NewString(),
		Mode:        cfg.Mode,
		Directories: cfg.Targets().Dirs(),
	}

	logger := o.logger.With(slog.String("run_id", report.RunID))
	logger.Info("Check run started",
		slog.String("mode", cfg.Mode.String()),
		slog.Any("directories", report.Directories),
		slog.Int("steps", len(steps)),
	)

	start := time.Now()
	for i, step := range steps {
		if ctx.Err() != nil {
			logger.Warn("Check run cancelled",
				slog.String("step", step.Name),
			)
			break
		}

		if o.OnStepStart != nil {
			o.OnStepStart(step, i+1, len(steps))
		}

		result := o.runner.Run(ctx, step)

		logger.Info("Step completed",
			slog.String("step", step.Name),
			slog.String("kind", step.Kind.String()),
			slog.Bool("passed", result.Passed()),
			slog.Bool("suppressed", result.Suppressed),
			slog.Int("exit_code", result.ExitCode),
			slog.Duration("duration", result.Duration),
		)

		report.Results = append(report.Results, result)
	}
	report.Duration = time.Since(start)

	logger.Info("Check run finished",
		slog.Bool("failed", report.Failed()),
		slog.Any("failed_steps", report.FailedSteps()),
		slog.Duration("duration", report.Duration),
	)

	return report, nil
}
