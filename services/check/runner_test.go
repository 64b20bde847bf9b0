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
	"runtime"
	"strings"
	"testing"
	"time"
)

// shellStep builds a step that runs a short shell snippet.
func shellStep(name, script string) Step {
	return Step{
		Name:    name,
		Kind:    KindStyle,
		Command: "sh",
		Args:    []string{"-c", script},
		Timeout: 10 * time.Second,
	}
}

func skipWithoutShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}

func TestExecRunner_CleanExit(t *testing.T) {
	skipWithoutShell(t)

	runner := NewExecRunner()
	result := runner.Run(context.Background(), shellStep("ok", "echo checked; exit 0"))

	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if result.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", result.ExitCode)
	}
	if !strings.Contains(result.Output, "checked") {
		t.Errorf("Output = %q, want it to contain tool output", result.Output)
	}
	if !result.Passed() {
		t.Error("clean exit must pass")
	}
}

func TestExecRunner_NonzeroExitIsNotAnError(t *testing.T) {
	skipWithoutShell(t)

	runner := NewExecRunner()
	result := runner.Run(context.Background(), shellStep("findings", "echo issue found >&2; exit 3"))

	if result.Err != nil {
		t.Fatalf("tool findings must not surface as errors, got: %v", result.Err)
	}
	if result.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", result.ExitCode)
	}
	if result.Passed() {
		t.Error("nonzero exit must not pass")
	}
}

func TestExecRunner_CapturesStderr(t *testing.T) {
	skipWithoutShell(t)

	runner := NewExecRunner()
	result := runner.Run(context.Background(), shellStep("stderr", "echo diagnostics >&2"))

	if !strings.Contains(result.Output, "diagnostics") {
		t.Errorf("Output = %q, want stderr captured", result.Output)
	}
}

func TestExecRunner_ToolNotFound(t *testing.T) {
	runner := NewExecRunner()
	step := Step{
		Name:    "missing",
		Kind:    KindTypecheck,
		Command: "definitely-not-a-real-tool-4f1a",
		Timeout: time.Second,
	}

	result := runner.Run(context.Background(), step)

	if !errors.Is(result.Err, ErrToolNotFound) {
		t.Fatalf("Err = %v, want ErrToolNotFound", result.Err)
	}
	if result.ExitCode != -1 {
		t.Errorf("ExitCode = %d, want -1", result.ExitCode)
	}

	var execErr *StepExecutionError
	if !errors.As(result.Err, &execErr) {
		t.Fatal("Err must be a *StepExecutionError")
	}
	if execErr.StepName != "missing" {
		t.Errorf("StepName = %q, want %q", execErr.StepName, "missing")
	}
}

func TestExecRunner_Timeout(t *testing.T) {
	skipWithoutShell(t)

	runner := NewExecRunner()
	step := shellStep("slow", "sleep 5")
	step.Timeout = 100 * time.Millisecond

	result := runner.Run(context.Background(), step)

	if !result.TimedOut {
		t.Fatal("step must report a timeout")
	}
	if !errors.Is(result.Err, ErrStepTimeout) {
		t.Errorf("Err = %v, want ErrStepTimeout", result.Err)
	}
	if result.Passed() {
		t.Error("timed out step must not pass")
	}
}

func TestExecRunner_OutputLimit(t *testing.T) {
	skipWithoutShell(t)

	runner := NewExecRunner(WithMaxOutput(64))
	result := runner.Run(context.Background(), shellStep("noisy", "yes x | head -n 1000"))

	if !result.Truncated {
		t.Error("output beyond the cap must be marked truncated")
	}
	if len(result.Output) > 64 {
		t.Errorf("Output length = %d, want <= 64", len(result.Output))
	}
}

func TestExecRunner_WorkingDir(t *testing.T) {
	skipWithoutShell(t)

	dir := t.TempDir()
	runner := NewExecRunner(WithWorkingDir(dir))
	result := runner.Run(context.Background(), shellStep("pwd", "pwd"))

	if !strings.Contains(result.Output, dir) {
		t.Errorf("Output = %q, want working dir %q", result.Output, dir)
	}
}

func TestExecRunner_NilContext(t *testing.T) {
	runner := NewExecRunner()
	result := runner.Run(nil, shellStep("nilctx", "true")) //nolint:staticcheck

	if !errors.Is(result.Err, ErrNilContext) {
		t.Errorf("Err = %v, want ErrNilContext", result.Err)
	}
}

func TestExecRunner_SuppressionCarriesThrough(t *testing.T) {
	skipWithoutShell(t)

	runner := NewExecRunner()
	step := shellStep("advisory", "exit 7")
	step.SuppressFailure = true

	result := runner.Run(context.Background(), step)

	if !result.Suppressed {
		t.Error("result must mirror the step's suppression policy")
	}
	if result.Fatal() {
		t.Error("suppressed failure must not be fatal")
	}
}

func TestLimitedWriter(t *testing.T) {
	var buf bytes.Buffer
	lw := &limitedWriter{w: &buf, limit: 5}

	n, err := lw.Write([]byte("hello world"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != len("hello world") {
		t.Errorf("n = %d, want original length %d", n, len("hello world"))
	}
	if buf.String() != "hello" {
		t.Errorf("buffer = %q, want %q", buf.String(), "hello")
	}
	if !lw.truncated {
		t.Error("writer must be marked truncated")
	}

	// Further writes are discarded without error.
	if _, err := lw.Write([]byte("more")); err != nil {
		t.Fatalf("unexpected error on discard: %v", err)
	}
	if buf.String() != "hello" {
		t.Errorf("buffer grew after limit: %q", buf.String())
	}
}
