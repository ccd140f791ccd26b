package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the runtime configuration of the importer. Credentials live
// separately in the CLI credential store; everything here has a sane
// default and can be overridden by a config file or ABIMPORT_* env vars.
type Config struct {
	Log    LogConfig    `mapstructure:"log"`
	HTTP   HTTPConfig   `mapstructure:"http"`
	Import ImportConfig `mapstructure:"import"`
}

// LogConfig configures the logging system.
type LogConfig struct {
	Level     string `mapstructure:"level"`
	Format    string `mapstructure:"format"`
	Output    string `mapstructure:"output"`
	FilePath  string `mapstructure:"file_path"`
	AddSource bool   `mapstructure:"add_source"`
}

// HTTPConfig configures both API clients.
type HTTPConfig struct {
	Timeout  time.Duration `mapstructure:"timeout"`
	PageSize int           `mapstructure:"page_size"` // source records per page fetch
}

// ImportConfig configures run behavior.
type ImportConfig struct {
	// OnError is the default per-record failure policy: "abort" or
	// "skip". The import command's flag overrides it per run.
	OnError string `mapstructure:"on_error"`
}

// Load reads configuration from an optional config file and the
// environment. A missing config file is fine; defaults apply.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.output", "stderr")
	v.SetDefault("log.add_source", false)
	v.SetDefault("http.timeout", 30*time.Second)
	v.SetDefault("http.page_size", 100)
	v.SetDefault("import.on_error", "abort")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("abimport")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.abimport")
	}

	v.SetEnvPrefix("ABIMPORT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// Only an explicitly named file must exist.
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}

	if c.Log.Format != "json" && c.Log.Format != "text" {
		return fmt.Errorf("invalid log format: %s, must be 'json' or 'text'", c.Log.Format)
	}

	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("http.timeout must be positive")
	}
	if c.HTTP.PageSize <= 0 {
		return fmt.Errorf("http.page_size must be positive")
	}

	if c.Import.OnError != "abort" && c.Import.OnError != "skip" {
		return fmt.Errorf("invalid import.on_error: %s, must be 'abort' or 'skip'", c.Import.OnError)
	}

	return nil
}
