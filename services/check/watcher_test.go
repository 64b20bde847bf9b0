// Copyright (C) 2026 CTLR Labs (dev@ctlr-labs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package check

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatcher_ShouldIgnore(t *testing.T) {
	w := NewWatcher(nil, NewConfig("smoke"), nil, nil)

	tests := []struct {
		path string
		want bool
	}{
		{"config/__pycache__", true},
		{"lab_5_scrapper/.mypy_cache", true},
		{"config/scrapper.swp", true},
		{"config/editor.tmp", true},
		{"config/constants.py", false},
		{".git", true},
	}

	for _, tt := range tests {
		if got := w.shouldIgnore(tt.path); got != tt.want {
			t.Errorf("shouldIgnore(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestWatcher_NilContext(t *testing.T) {
	w := NewWatcher(nil, NewConfig("smoke"), nil, nil)
	require.ErrorIs(t, w.Watch(nil), ErrNilContext) //nolint:staticcheck
}

func TestWatcher_RunsOnChange(t *testing.T) {
	repo := t.TempDir()
	for _, dir := range SmokeTargets().Dirs() {
		require.NoError(t, os.MkdirAll(filepath.Join(repo, dir), 0o750))
	}

	cfg := NewConfig("smoke")
	cfg.WorkingDir = repo

	runner := newFakeRunner()
	reports := make(chan *Report, 8)
	w := NewWatcher(NewOrchestrator(runner, nil), cfg, func(r *Report) {
		reports <- r
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- w.Watch(ctx)
	}()

	// The watcher runs once up front.
	select {
	case <-reports:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the initial run")
	}

	// A file change triggers a re-run.
	require.NoError(t, os.WriteFile(filepath.Join(repo, "config", "constants.py"), []byte("X = 1\n"), 0o600))

	select {
	case <-reports:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the change-triggered run")
	}

	cancel()
	select {
	case err := <-done:
		require.True(t, errors.Is(err, context.Canceled))
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop on cancellation")
	}
}
