// Copyright (C) 2026 CTLR Labs (dev@ctlr-labs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package check

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"
)

// =============================================================================
// WATCHER
// =============================================================================

// ReportHandler is called with the report of each completed watch-mode run.
type ReportHandler func(*Report)

// Watcher re-runs the check sequence when files under the target
// directories change.
//
// # Description
//
// Watches every configured directory recursively. Change bursts (editor
// save storms, branch switches) are coalesced through a rate limiter so
// at most one run starts per coalescing window; events arriving while a
// run is pending fold into that run.
//
// # Thread Safety
//
// Watch must be called at most once per Watcher.
type Watcher struct {
	orch    *Orchestrator
	cfg     Config
	handler ReportHandler
	limiter *rate.Limiter
	logger  *slog.Logger
	ignore  []string
}

// NewWatcher creates a watcher over the orchestrator and configuration.
//
// Inputs:
//
//	orch - The orchestrator to re-run, must be non-nil
//	cfg - The validated run configuration
//	handler - Called after every run; nil disables reporting
//	logger - Logger for structured logging; nil selects slog.Default
func NewWatcher(orch *Orchestrator, cfg Config, handler ReportHandler, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		orch:    orch,
		cfg:     cfg,
		handler: handler,
		limiter: rate.NewLimiter(rate.Every(watchCoalesceWindow), 1),
		logger:  logger,
		ignore:  []string{".git", "__pycache__", ".mypy_cache", ".pytest_cache", "*.swp", "*.tmp"},
	}
}

// watchCoalesceWindow bounds how often change events may trigger a run.
const watchCoalesceWindow = 2 * time.Second

// Watch runs the checks once, then re-runs them on every coalesced change
// until the context is cancelled.
//
// Outputs:
//
//	error - Non-nil if the watcher could not start; ctx.Err() on cancel
func (w *Watcher) Watch(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	for _, dir := range w.cfg.Directories {
		root := dir
		if w.cfg.WorkingDir != "" {
			root = filepath.Join(w.cfg.WorkingDir, dir)
		}
		if err := w.addRecursive(fsw, root); err != nil {
			w.logger.Warn("Cannot watch directory",
				slog.String("directory", root),
				slog.String("error", err.Error()),
			)
		}
	}

	w.runOnce(ctx)

	// The ticker flushes a pending run that arrived while the limiter
	// was saturated and no further event showed up.
	flush := time.NewTicker(watchCoalesceWindow / 2)
	defer flush.Stop()

	pending := false
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-flush.C:

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename) {
				continue
			}
			if w.shouldIgnore(event.Name) {
				continue
			}
			if event.Has(fsnotify.Create) {
				// New subdirectories need their own watch entry.
				_ = w.addRecursive(fsw, event.Name)
			}
			pending = true

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watch error", slog.String("error", err.Error()))
		}

		if pending && w.limiter.Allow() {
			pending = false
			w.runOnce(ctx)
		}
	}
}

// runOnce executes one full check run and hands the report off.
func (w *Watcher) runOnce(ctx context.Context) {
	report, err := w.orch.Run(ctx, w.cfg)
	if err != nil {
		w.logger.Error("Watch-mode run failed to start",
			slog.String("error", err.Error()),
		)
		return
	}
	if w.handler != nil {
		w.handler(report)
	}
}

// addRecursive adds a directory tree to the fsnotify watch list.
func (w *Watcher) addRecursive(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Ignore errors, continue walking
		}
		if !d.IsDir() {
			return nil
		}
		if w.shouldIgnore(path) {
			return filepath.SkipDir
		}
		return fsw.Add(path)
	})
}

// shouldIgnore checks if a path matches any ignore pattern.
func (w *Watcher) shouldIgnore(path string) bool {
	base := filepath.Base(path)
	for _, pattern := range w.ignore {
		if base == pattern {
			return true
		}
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}
	return false
}
