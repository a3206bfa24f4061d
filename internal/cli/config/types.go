// Package config provides configuration management for the housereg CLI.
//
// Values are layered with koanf: built-in defaults, then housereg.yaml (or the
// file named by --config), then HOUSEREG_* environment variables, then flags
// that were explicitly set on the command line.
package config

import "context"

// Default values: the bundled dataset, QR solver and the sample house [1800, 3, 10, 1].
const (
	DefaultDataPath  = "data/housing.csv"
	DefaultSolver    = "qr"
	DefaultSample    = "1800,3,10,1"
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "auto"
	DefaultOutput    = "auto"

	// EnvPrefix is the prefix of environment variables read by the loader.
	EnvPrefix = "HOUSEREG_"
)

// ConfigFileNames are searched in the working directory when --config is not given.
var ConfigFileNames = []string{"housereg.yaml", "housereg.yml"}

// Config holds all CLI configuration options.
type Config struct {
	DataPath  string `koanf:"data"`
	Solver    string `koanf:"solver"`
	Sample    string `koanf:"predict"`
	PlotPath  string `koanf:"plot"`
	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"`
	Output    string `koanf:"output"`

	// ConditionThreshold overrides the singularity cut-off on the design
	// matrix condition number. Zero keeps the solver default.
	ConditionThreshold float64 `koanf:"condition_threshold"`
}

type configKey struct{}

// WithContext returns a copy of ctx carrying cfg.
func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext retrieves the config stored by WithContext.
// A config with default values is returned when none is present.
func FromContext(ctx context.Context) *Config {
	if ctx != nil {
		if c, ok := ctx.Value(configKey{}).(*Config); ok {
			return c
		}
	}
	return Default()
}

// Default returns a Config populated with the default values.
func Default() *Config {
	return &Config{
		DataPath:  DefaultDataPath,
		Solver:    DefaultSolver,
		Sample:    DefaultSample,
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,
		Output:    DefaultOutput,
	}
}
