package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/YuminosukeSato/housereg/pkg/errors"
)

// findConfigFile finds the config file to use.
// Priority: explicit path > housereg.yaml > housereg.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range ConfigFileNames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Load loads configuration from defaults, file, environment variables and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults.
// It returns the config and the path of the config file that was read, if any.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, string, error) {
	k := koanf.New(".")

	// 1. Load defaults
	d := Default()
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"data":                d.DataPath,
		"solver":              d.Solver,
		"predict":             d.Sample,
		"plot":                "",
		"log_level":           d.LogLevel,
		"log_format":          d.LogFormat,
		"output":              d.Output,
		"condition_threshold": 0.0,
	}, "."), nil); err != nil {
		return nil, "", errors.Wrap(err, "failed to load defaults")
	}

	// 2. Config file
	used := findConfigFile(cfgFile)
	if used != "" {
		if _, err := os.Stat(used); err != nil {
			return nil, "", errors.NewNotFoundError(used, err)
		}
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, "", errors.Wrapf(err, "error reading config file %s", used)
		}
	}

	// 3. Environment variables: HOUSEREG_LOG_LEVEL -> log_level
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, "", errors.Wrap(err, "failed to load env vars")
	}

	// 4. Flags (only those explicitly set)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed || f.Name == "config" {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, "", errors.Wrap(err, "failed to load flags")
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, "", errors.Wrap(err, "unable to decode config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return &cfg, used, nil
}
