// Copyright (C) 2026 CTLR Labs (dev@ctlr-labs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Command labcheck orchestrates the course repository quality gates.
//
// Usage:
//
//	labcheck [mode]
//	labcheck smoke            # lint + typecheck + style over config, seminars
//	labcheck                  # full gate, including the marker-filtered test suites
//	labcheck plan             # print the invocation plan without running anything
//	labcheck --watch          # re-run the gate on file changes
//
// Any mode token other than the exact literal "smoke" (including none at
// all) selects the full gate.
package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "labcheck:", err)
		if errors.Is(err, errChecksFailed) {
			os.Exit(1)
		}
		os.Exit(2)
	}
}
