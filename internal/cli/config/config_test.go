package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/housereg/pkg/errors"
)

func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("config", "", "")
	fs.String("data", DefaultDataPath, "")
	fs.String("solver", DefaultSolver, "")
	fs.String("predict", DefaultSample, "")
	fs.String("log-level", DefaultLogLevel, "")
	fs.StringP("output", "o", DefaultOutput, "")
	return fs
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "housereg.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, used, err := Load("", nil)
	require.NoError(t, err)

	assert.Empty(t, used)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "qr", string(cfg.SolverName()))
	assert.Equal(t, "auto", string(cfg.OutputFormat()))
}

func TestLoadPrecedence(t *testing.T) {
	path := writeConfig(t, `
data: from-file.csv
solver: svd
predict: "2000,4,5,2"
log_level: info
condition_threshold: 1e10
`)

	t.Run("file overrides defaults", func(t *testing.T) {
		cfg, used, err := Load(path, nil)
		require.NoError(t, err)
		assert.Equal(t, path, used)
		assert.Equal(t, "from-file.csv", cfg.DataPath)
		assert.Equal(t, "svd", cfg.Solver)
		assert.Equal(t, "2000,4,5,2", cfg.Sample)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.InDelta(t, 1e10, cfg.ConditionThreshold, 1)
		assert.Equal(t, DefaultOutput, cfg.Output)
	})

	t.Run("env overrides file", func(t *testing.T) {
		t.Setenv("HOUSEREG_SOLVER", "inverse")
		t.Setenv("HOUSEREG_LOG_LEVEL", "debug")

		cfg, _, err := Load(path, nil)
		require.NoError(t, err)
		assert.Equal(t, "inverse", cfg.Solver)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, "from-file.csv", cfg.DataPath)
	})

	t.Run("changed flags override env", func(t *testing.T) {
		t.Setenv("HOUSEREG_SOLVER", "inverse")

		fs := newFlags()
		require.NoError(t, fs.Parse([]string{"--solver", "qr", "-o", "json"}))

		cfg, _, err := Load(path, fs)
		require.NoError(t, err)
		assert.Equal(t, "qr", cfg.Solver)
		assert.Equal(t, "json", cfg.Output)
		// 未指定のフラグは既定値で上書きしない
		assert.Equal(t, "from-file.csv", cfg.DataPath)
		assert.Equal(t, "2000,4,5,2", cfg.Sample)
	})
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown solver", "solver: cholesky\n"},
		{"unknown log level", "log_level: loud\n"},
		{"unknown output", "output: yaml\n"},
		{"unknown log format", "log_format: xml\n"},
		{"bad sample", "predict: 1800,three\n"},
		{"negative threshold", "condition_threshold: -1\n"},
		{"empty data path", "data: \"\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Load(writeConfig(t, tt.content), nil)
			assert.Error(t, err)
		})
	}

	t.Run("missing explicit config file", func(t *testing.T) {
		_, _, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
		var nf *errors.NotFoundError
		assert.True(t, errors.As(err, &nf), "got %v", err)
	})
}

func TestContext(t *testing.T) {
	assert.Equal(t, Default(), FromContext(context.Background()))

	cfg := &Config{DataPath: "x.csv"}
	ctx := WithContext(context.Background(), cfg)
	assert.Same(t, cfg, FromContext(ctx))
}
