// Copyright (C) 2026 CTLR Labs (dev@ctlr-labs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ctlr-labs/labcheck/pkg/ux"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// --- Global Command Variables ---
var (
	configPath  string
	repoDir     string
	stepTimeout string
	watchMode   bool
	plainOutput bool
	logLevel    string
	logDir      string

	rootCmd = &cobra.Command{
		Use:   "labcheck [mode]",
		Short: "Run the course repository quality gates",
		Long: `labcheck sequentially invokes the linter, the type checker, the style
checker, and (outside smoke mode) the two marker-filtered test suites
over a mode-selected set of directories.

Only the exact mode token "smoke" selects the reduced scope; anything
else, including no token, selects the full gate.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			ux.InitPlainMode()
			if plainOutput {
				ux.SetPlain(true)
			}
		},
		RunE: runCheck, // Defined in cmd_check.go
	}

	// --- Plan ---
	planCmd = &cobra.Command{
		Use:   "plan [mode]",
		Short: "Print the invocation plan without running anything",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runPlan, // Defined in cmd_check.go
	}

	// --- Version ---
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the labcheck version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("labcheck", Version)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config overlay (defaults apply when omitted)")
	rootCmd.PersistentFlags().StringVarP(&repoDir, "repo", "r", "", "repository root the tools run from (default: current directory)")
	rootCmd.PersistentFlags().StringVar(&stepTimeout, "timeout", "", "per-step timeout, e.g. 10m or 90s")
	rootCmd.PersistentFlags().BoolVar(&plainOutput, "plain", false, "disable styled output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "", "directory for JSON log files (disabled when empty)")

	rootCmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "re-run the gate when files under the target directories change")

	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(versionCmd)
}
