// Package config provides configuration management for the bloatmap CLI.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Convert ConvertConfig `mapstructure:"convert"`
	Log     LogConfig     `mapstructure:"log"`
}

// ConvertConfig holds conversion defaults. Flags override these values; the
// resolved result is passed explicitly into the attribution pipeline.
type ConvertConfig struct {
	OutputName string `mapstructure:"output_name"`
	LockPath   string `mapstructure:"lock_path"`
	Deep       int    `mapstructure:"deep"`
	NoSections bool   `mapstructure:"no_sections"`
	MaxWorkers int    `mapstructure:"max_workers"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from the specified file path. An empty path
// falls back to the standard search locations; a missing file yields the
// defaults.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("bloatmap")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/bloatmap")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// No config file, use defaults.
		} else if os.IsNotExist(err) {
			// File specified but doesn't exist, use defaults.
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("BLOATMAP")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Convert.Deep < 0 {
		return fmt.Errorf("convert.deep must be >= 0, got %d", c.Convert.Deep)
	}
	if c.Convert.MaxWorkers < 0 {
		return fmt.Errorf("convert.max_workers must be >= 0, got %d", c.Convert.MaxWorkers)
	}
	if c.Convert.OutputName == "" {
		return fmt.Errorf("convert.output_name must not be empty")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error; got %q", c.Log.Level)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("convert.output_name", "binary")
	v.SetDefault("convert.lock_path", "Cargo.lock")
	v.SetDefault("convert.deep", 0)
	v.SetDefault("convert.no_sections", false)
	v.SetDefault("convert.max_workers", 0)
	v.SetDefault("log.level", "info")
}
