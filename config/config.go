// Package config holds the ngram CLI settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/clems4ever/dialog-ngram/report"
)

// EnvConfigPath names a YAML config file when --config is not given.
const EnvConfigPath = "NGRAM_CONFIG"

var ErrInvalid = errors.New("invalid configuration")

// Config is the root configuration. Priority: flags > ENV > YAML > defaults.
type Config struct {
	Counter CounterConfig `yaml:"counter"`
	Report  ReportConfig  `yaml:"report"`
	Log     LogConfig     `yaml:"log"`
}

// CounterConfig controls how documents are read and tokens counted.
type CounterConfig struct {
	CaseInsensitive bool   `yaml:"case_insensitive" env:"NGRAM_INSENSITIVE" env-default:"false"`
	Lenient         bool   `yaml:"lenient"          env:"NGRAM_LENIENT"     env-default:"false"`
	Subwords        bool   `yaml:"subwords"         env:"NGRAM_SUBWORDS"    env-default:"false"`
	Encoding        string `yaml:"encoding"         env:"NGRAM_ENCODING"    env-default:"cl100k_base"`
}

// ReportConfig controls the output of the counters.
type ReportConfig struct {
	Format string `yaml:"format" env:"NGRAM_FORMAT" env-default:"text"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"NGRAM_LOG_LEVEL"  env-default:"warn"`
	Format string `yaml:"format" env:"NGRAM_LOG_FORMAT" env-default:"text"`
}

// Load reads the YAML file at path, or at $NGRAM_CONFIG when path is empty,
// then applies environment variables. With no file at all, configuration comes
// from ENV and defaults only.
//
// Load does not validate: callers apply their own overrides first, then call
// Normalize and Validate.
func Load(path string) (*Config, error) {
	var cfg Config

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}

	if path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	return &cfg, nil
}

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"text", "json"}
)

// Normalize lower-cases the enumerated settings so that "JSON" and "json" are
// the same value.
func (c *Config) Normalize() {
	c.Report.Format = normalize(c.Report.Format)
	c.Log.Level = normalize(c.Log.Level)
	c.Log.Format = normalize(c.Log.Format)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Validate checks enumerated settings. Values must already be normalized.
func (c *Config) Validate() error {
	var errs []error
	if !slices.Contains(report.Formats, c.Report.Format) {
		errs = append(errs, fmt.Errorf("report.format %q not one of %s", c.Report.Format, strings.Join(report.Formats, ", ")))
	}
	if !slices.Contains(logLevels, c.Log.Level) {
		errs = append(errs, fmt.Errorf("log.level %q not one of %s", c.Log.Level, strings.Join(logLevels, ", ")))
	}
	if !slices.Contains(logFormats, c.Log.Format) {
		errs = append(errs, fmt.Errorf("log.format %q not one of %s", c.Log.Format, strings.Join(logFormats, ", ")))
	}
	if c.Counter.Subwords && c.Counter.Encoding == "" {
		errs = append(errs, errors.New("counter.encoding must be set when subwords are enabled"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}
