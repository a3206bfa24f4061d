package config

import (
	"strings"

	"github.com/YuminosukeSato/housereg/dataset"
	"github.com/YuminosukeSato/housereg/linear"
	"github.com/YuminosukeSato/housereg/pkg/errors"
	"github.com/YuminosukeSato/housereg/pkg/log"
	"github.com/YuminosukeSato/housereg/report"
)

// Validate checks that every option names a known value.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DataPath) == "" {
		return errors.NewValueError("config", "data path is required")
	}
	if _, err := linear.ParseSolver(c.Solver); err != nil {
		return err
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if _, err := report.ParseFormat(c.Output); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case "auto", "console", "json":
	default:
		return errors.NewValueError("config", "unknown log format "+c.LogFormat+" (want auto, console or json)")
	}
	if c.ConditionThreshold < 0 {
		return errors.NewValueError("config", "condition_threshold must not be negative")
	}
	if strings.TrimSpace(c.Sample) != "" {
		if _, err := dataset.ParseFeatures(c.Sample); err != nil {
			return err
		}
	}
	return nil
}

// SolverName returns the parsed solver. Call Validate first.
func (c *Config) SolverName() linear.Solver {
	s, _ := linear.ParseSolver(c.Solver)
	return s
}

// OutputFormat returns the parsed output format. Call Validate first.
func (c *Config) OutputFormat() report.Format {
	f, _ := report.ParseFormat(c.Output)
	return f
}
