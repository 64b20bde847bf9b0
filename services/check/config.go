// Copyright (C) 2026 CTLR Labs (dev@ctlr-labs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package check

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// DEFAULTS
// =============================================================================

const (
	// DefaultPython is the interpreter used to launch every tool.
	DefaultPython = "python3"

	// DefaultLintConfigPath is the rcfile handed to the linter.
	DefaultLintConfigPath = "config/stage_1_style_tests/.pylintrc"

	// DefaultStepTimeout bounds a single tool invocation.
	DefaultStepTimeout = 10 * time.Minute

	// DefaultMaxOutputBytes caps captured output per step.
	DefaultMaxOutputBytes = 1 << 20
)

// DefaultTestMarkers returns the marker expressions for the two test suite
// runs, in invocation order.
func DefaultTestMarkers() []string {
	return []string{
		"mark10 and lab_5_scrapper",
		"mark10 and lab_6_pipeline",
	}
}

// =============================================================================
// DURATION
// =============================================================================

// Duration is a time.Duration that unmarshals from YAML strings like "10m".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// =============================================================================
// CONFIGURATION
// =============================================================================

// Config is the explicit, immutable run configuration.
//
// Description:
//
//	Constructed once at process start and passed by value into the
//	planning and orchestration logic. Directory lists, the lint config
//	path, and the failure policy all live here rather than as ambient
//	package state.
//
// Thread Safety: Treat as immutable after construction.
type Config struct {
	// Mode selects the check scope.
	Mode Mode `yaml:"mode" validate:"required,oneof=smoke full"`

	// Directories is the ordered target directory set.
	Directories []string `yaml:"directories" validate:"required,min=1,dive,required"`

	// Python is the interpreter executable.
	Python string `yaml:"python" validate:"required"`

	// LintConfigPath is the rcfile passed to the linter.
	LintConfigPath string `yaml:"lint_config" validate:"required"`

	// TestMarkers are the pytest marker expressions run in full mode,
	// one suite invocation per expression, in order.
	TestMarkers []string `yaml:"test_markers" validate:"required_if=Mode full,dive,required"`

	// WorkingDir is the repository root the tools run from.
	// Empty means the current directory.
	WorkingDir string `yaml:"working_dir"`

	// StepTimeout bounds each tool invocation.
	StepTimeout Duration `yaml:"step_timeout" validate:"min=0"`

	// MaxOutputBytes caps the captured output per step.
	MaxOutputBytes int `yaml:"max_output_bytes" validate:"min=0"`

	// Policy maps step kinds to failure suppression. Not serialized;
	// defaults to DefaultFailurePolicy.
	Policy FailurePolicy `yaml:"-"`
}

// configValidate is the validator instance for check configuration.
var configValidate = validator.New()

// NewConfig builds the default configuration for a raw mode token.
//
// Description:
//
//	Resolves the mode per ParseMode, binds the matching target directory
//	set, and fills every other field with defaults. The result is valid
//	without further adjustment.
//
// Inputs:
//
//	modeToken - The raw CLI mode argument, possibly empty
//
// Outputs:
//
//	Config - The populated configuration
func NewConfig(modeToken string) Config {
	mode := ParseMode(modeToken)
	return Config{
		Mode:           mode,
		Directories:    TargetsFor(mode).Dirs(),
		Python:         DefaultPython,
		LintConfigPath: DefaultLintConfigPath,
		TestMarkers:    DefaultTestMarkers(),
		StepTimeout:    Duration(DefaultStepTimeout),
		MaxOutputBytes: DefaultMaxOutputBytes,
		Policy:         DefaultFailurePolicy(),
	}
}

// LoadFile overlays settings from a YAML file onto the config.
//
// Fields absent from the file keep their current values.
func (c *Config) LoadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

// Validate checks structural invariants via go-playground/validator tags,
// plus the smoke-subset invariant.
func (c Config) Validate() error {
	if err := configValidate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if !SmokeTargets().SubsetOf(FullTargets()) {
		return fmt.Errorf("%w: smoke set is not a subset of the full set", ErrInvalidConfig)
	}
	return nil
}

// Targets returns the configured directories as a TargetSet.
func (c Config) Targets() TargetSet {
	return NewTargetSet(c.Directories...)
}
