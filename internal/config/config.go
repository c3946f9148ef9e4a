// Package config loads engine and CLI settings from a config file and
// MATHSTEP_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment override, for example
// MATHSTEP_DECIMAL_PRECISION.
const EnvPrefix = "MATHSTEP"

// DefaultPrecision is the number of extra digits searched by decimal division.
const DefaultPrecision = 10

// Config is the complete settings tree.
type Config struct {
	Decimal  DecimalConfig  `mapstructure:"decimal"`
	Registry RegistryConfig `mapstructure:"registry"`
	Log      LogConfig      `mapstructure:"log"`
}

// DecimalConfig configures exact decimal arithmetic.
type DecimalConfig struct {
	Precision int `mapstructure:"precision"`
}

// RegistryConfig selects the rule catalog. An empty Path uses the embedded one.
type RegistryConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // text or json
	File   string `mapstructure:"file"`   // empty writes to stderr
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() *Config {
	return &Config{
		Decimal: DecimalConfig{Precision: DefaultPrecision},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Load reads settings. path names an explicit config file; when empty,
// mathstep.{yaml,toml,json} is searched for in dirs. A missing file is not
// an error. Environment variables override file values.
func Load(path string, dirs ...string) (*Config, error) {
	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("mathstep")
		for _, dir := range dirs {
			v.AddConfigPath(dir)
		}
	}

	if path != "" || len(dirs) > 0 {
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if path != "" || !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()

	def := DefaultConfig()
	v.SetDefault("decimal.precision", def.Decimal.Precision)
	v.SetDefault("registry.path", def.Registry.Path)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.format", def.Log.Format)
	v.SetDefault("log.file", def.Log.File)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Validate checks field values.
func (c *Config) Validate() error {
	if c.Decimal.Precision < 1 {
		return &ConfigError{Field: "decimal.precision", Message: fmt.Sprintf("must be positive, got %d", c.Decimal.Precision)}
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &ConfigError{Field: "log.level", Message: fmt.Sprintf("unknown level %q", c.Log.Level)}
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return &ConfigError{Field: "log.format", Message: fmt.Sprintf("unknown format %q", c.Log.Format)}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
