package metadata

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the file form of the snapshot settings.
//
//	threshold: 16
//	log_level: debug
type Config struct {
	// Threshold is the largest entry count kept in the linear tier.
	// Default: 8
	Threshold int `yaml:"threshold,omitempty"`

	// LogLevel is the minimum level for tier transition logs written to
	// stderr: debug, info, warn or error. Empty keeps slog.Default().
	LogLevel string `yaml:"log_level,omitempty"`
}

// GetThreshold returns the configured threshold or DefaultThreshold.
func (c *Config) GetThreshold() int {
	if c == nil || c.Threshold <= 0 {
		return DefaultThreshold
	}
	return c.Threshold
}

// Validate checks the configured values.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if c.Threshold < 0 {
		return fmt.Errorf("%w: threshold %d: %w", ErrInvalidConfig, c.Threshold, ErrInvalidThreshold)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Options converts the configuration into builder options.
func (c *Config) Options() []Option {
	opts := []Option{WithThreshold(c.GetThreshold())}
	if c == nil || c.LogLevel == "" {
		return opts
	}
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return opts
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return append(opts, WithLogger(slog.New(handler)))
}

func parseLevel(s string) (slog.Level, error) {
	if s == "" {
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("log_level %q: %w", s, err)
	}
	return level, nil
}

// ParseConfig parses and validates YAML configuration data.
func ParseConfig(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, NewConfigurationError("ParseConfig", fmt.Errorf("%w: %w", ErrInvalidConfig, err))
	}
	if err := config.Validate(); err != nil {
		return nil, NewConfigurationError("ParseConfig", err)
	}
	return &config, nil
}

// LoadConfig reads and parses a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewConfigurationError("LoadConfig", fmt.Errorf("failed to read config file: %w", err))
	}
	return ParseConfig(data)
}
