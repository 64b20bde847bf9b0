// Copyright (C) 2026 CTLR Labs (dev@ctlr-labs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package check

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner records invocations and replies with scripted exit codes.
type fakeRunner struct {
	mu        sync.Mutex
	steps     []Step
	exitCodes map[string]int
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{exitCodes: make(map[string]int)}
}

func (f *fakeRunner) Run(_ context.Context, step Step) StepResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.steps = append(f.steps, *step.Clone())
	return StepResult{
		Name:       step.Name,
		Kind:       step.Kind,
		ExitCode:   f.exitCodes[step.Name],
		Suppressed: step.SuppressFailure,
	}
}

func (f *fakeRunner) names() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.steps))
	for i, s := range f.steps {
		out[i] = s.Name
	}
	return out
}

func TestOrchestrator_SmokeSequence(t *testing.T) {
	runner := newFakeRunner()
	orch := NewOrchestrator(runner, nil)

	report, err := orch.Run(context.Background(), NewConfig("smoke"))
	require.NoError(t, err)

	assert.Equal(t, []string{"lint", "typecheck", "style"}, runner.names())
	assert.Equal(t, ModeSmoke, report.Mode)
	assert.Equal(t, []string{"config", "seminars"}, report.Directories)
	assert.Len(t, report.Results, 3)
	assert.False(t, report.Failed())
}

func TestOrchestrator_FullSequence(t *testing.T) {
	for _, token := range []string{"", "xyz"} {
		t.Run("token="+token, func(t *testing.T) {
			runner := newFakeRunner()
			orch := NewOrchestrator(runner, nil)

			report, err := orch.Run(context.Background(), NewConfig(token))
			require.NoError(t, err)

			assert.Equal(t, []string{
				"lint",
				"typecheck",
				"style",
				"test[mark10 and lab_5_scrapper]",
				"test[mark10 and lab_6_pipeline]",
			}, runner.names())
			assert.Equal(t, ModeFull, report.Mode)
			assert.Len(t, report.Results, 5)
		})
	}
}

func TestOrchestrator_LintFailureIsSuppressed(t *testing.T) {
	runner := newFakeRunner()
	runner.exitCodes["lint"] = 16 // pylint bitmask exit, would be nonzero without --exit-zero

	orch := NewOrchestrator(runner, nil)
	report, err := orch.Run(context.Background(), NewConfig("smoke"))
	require.NoError(t, err)

	assert.False(t, report.Failed(), "lint findings must never fail the run")
	assert.Empty(t, report.FailedSteps())
}

func TestOrchestrator_TypecheckFailureIsFatal(t *testing.T) {
	runner := newFakeRunner()
	runner.exitCodes["typecheck"] = 1

	orch := NewOrchestrator(runner, nil)
	report, err := orch.Run(context.Background(), NewConfig("smoke"))
	require.NoError(t, err)

	assert.True(t, report.Failed())
	assert.Equal(t, []string{"typecheck"}, report.FailedSteps())
}

func TestOrchestrator_RunAllSemantics(t *testing.T) {
	runner := newFakeRunner()
	runner.exitCodes["typecheck"] = 1

	orch := NewOrchestrator(runner, nil)
	report, err := orch.Run(context.Background(), NewConfig(""))
	require.NoError(t, err)

	// A failing type check never aborts the remaining steps.
	assert.Len(t, runner.names(), 5)
	assert.True(t, report.Failed())
}

func TestOrchestrator_Idempotent(t *testing.T) {
	cfg := NewConfig("smoke")

	first := newFakeRunner()
	_, err := NewOrchestrator(first, nil).Run(context.Background(), cfg)
	require.NoError(t, err)

	second := newFakeRunner()
	_, err = NewOrchestrator(second, nil).Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, first.steps, second.steps, "same mode must yield the same invocation sequence")
}

func TestOrchestrator_NilContext(t *testing.T) {
	orch := NewOrchestrator(newFakeRunner(), nil)

	//nolint:staticcheck // passing nil ctx on purpose
	_, err := orch.Run(nil, NewConfig("smoke"))
	require.ErrorIs(t, err, ErrNilContext)
}

func TestOrchestrator_InvalidConfig(t *testing.T) {
	cfg := NewConfig("smoke")
	cfg.Python = ""

	_, err := NewOrchestrator(newFakeRunner(), nil).Run(context.Background(), cfg)
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestOrchestrator_CancelledContextStopsRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := newFakeRunner()
	report, err := NewOrchestrator(runner, nil).Run(ctx, NewConfig("smoke"))
	require.NoError(t, err)

	assert.Empty(t, runner.names(), "no step may start after cancellation")
	assert.Empty(t, report.Results)
}

func TestOrchestrator_OnStepStartHook(t *testing.T) {
	orch := NewOrchestrator(newFakeRunner(), nil)

	var names []string
	var totals []int
	orch.OnStepStart = func(step Step, index, total int) {
		names = append(names, step.Name)
		totals = append(totals, total)
		require.Equal(t, len(names), index, "index must be 1-based and sequential")
	}

	_, err := orch.Run(context.Background(), NewConfig("smoke"))
	require.NoError(t, err)

	assert.Equal(t, []string{StepNameLint, StepNameTypecheck, StepNameStyle}, names)
	assert.Equal(t, []int{3, 3, 3}, totals)
}

func TestOrchestrator_RunIDUnique(t *testing.T) {
	orch := NewOrchestrator(newFakeRunner(), nil)

	first, err := orch.Run(context.Background(), NewConfig("smoke"))
	require.NoError(t, err)
	second, err := orch.Run(context.Background(), NewConfig("smoke"))
	require.NoError(t, err)

	assert.NotEqual(t, first.RunID, second.RunID)
}
