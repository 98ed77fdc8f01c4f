// Package config provides configuration loading for the application.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/Veraticus/basket/internal/common"
	"github.com/Veraticus/basket/internal/dataset"
	"github.com/Veraticus/basket/internal/engine"
	"github.com/Veraticus/basket/internal/mining"
	"github.com/Veraticus/basket/internal/report"
	"github.com/Veraticus/basket/internal/rules"
)

// Config is the typed view of the viper settings.
type Config struct {
	Logging LoggingConfig
	Output  OutputConfig
	Storage StorageConfig
	Input   InputConfig
	Mining  MiningConfig
}

// MiningConfig holds the algorithm thresholds and policies.
type MiningConfig struct {
	Join          string
	Threshold     string
	MinSupport    int
	MinConfidence float64
	Precision     int
}

// InputConfig selects the transaction file format.
type InputConfig struct {
	Format string
}

// OutputConfig controls where and how reports are written.
type OutputConfig struct {
	Dir    string
	Format string
	Suffix string
}

// StorageConfig controls the run history database.
type StorageConfig struct {
	Path    string
	Enabled bool
}

// LoggingConfig controls slog setup.
type LoggingConfig struct {
	Level  string
	Format string
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	defaults := engine.DefaultConfig()
	v.SetDefault("mining.min_support", defaults.MinSupport)
	v.SetDefault("mining.min_confidence", defaults.MinConfidence)
	v.SetDefault("mining.precision", defaults.Precision)
	v.SetDefault("mining.join", string(defaults.Join))
	v.SetDefault("mining.threshold", string(defaults.Threshold))
	v.SetDefault("input.format", string(dataset.FormatAuto))
	v.SetDefault("output.dir", ".")
	v.SetDefault("output.format", string(report.FormatText))
	v.SetDefault("output.suffix", "")
	v.SetDefault("storage.enabled", true)
	v.SetDefault("storage.path", "~/.local/share/basket/runs.db")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Load reads the typed configuration from v.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Mining: MiningConfig{
			MinSupport:    v.GetInt("mining.min_support"),
			MinConfidence: v.GetFloat64("mining.min_confidence"),
			Precision:     v.GetInt("mining.precision"),
			Join:          v.GetString("mining.join"),
			Threshold:     v.GetString("mining.threshold"),
		},
		Input: InputConfig{
			Format: v.GetString("input.format"),
		},
		Output: OutputConfig{
			Dir:    ExpandPath(v.GetString("output.dir")),
			Format: v.GetString("output.format"),
			Suffix: v.GetString("output.suffix"),
		},
		Storage: StorageConfig{
			Enabled: v.GetBool("storage.enabled"),
			Path:    ExpandPath(v.GetString("storage.path")),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("logging.level"),
			Format: v.GetString("logging.format"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the enumerated settings. Numeric thresholds are validated
// by the engine so the error names the exact parameter.
func (c *Config) Validate() error {
	if _, err := mining.ParseJoinStrategy(c.Mining.Join); err != nil {
		return err
	}
	if _, err := rules.ParseThresholdPolicy(c.Mining.Threshold); err != nil {
		return err
	}
	if _, err := dataset.ParseFormat(c.Input.Format); err != nil {
		return fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}
	if _, err := report.ParseFormat(c.Output.Format); err != nil {
		return err
	}
	if c.Storage.Enabled && c.Storage.Path == "" {
		return fmt.Errorf("%w: storage.path", common.ErrMissingConfig)
	}
	return nil
}

// Engine converts the mining section into an engine configuration.
func (c *Config) Engine() engine.Config {
	return engine.Config{
		MinSupport:    c.Mining.MinSupport,
		MinConfidence: c.Mining.MinConfidence,
		Precision:     c.Mining.Precision,
		Join:          mining.JoinStrategy(c.Mining.Join),
		Threshold:     rules.ThresholdPolicy(c.Mining.Threshold),
	}
}

// ExpandPath expands ~ and environment variables in a file path.
func ExpandPath(path string) string {
	if path == "" || path == ":memory:" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}
