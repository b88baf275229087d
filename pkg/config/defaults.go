package config

import (
	"os"
	"time"

	"github.com/ccollicutt/errtally/pkg/source"
)

// Default values for configuration.
const (
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "console"
	DefaultWebhookTimeout = 10 * time.Second
)

// Environment variable names.
const (
	EnvLogLevel  = "ERRTALLY_LOG_LEVEL"
	EnvLogFormat = "ERRTALLY_LOG_FORMAT"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		LogSources:   []string{},
		LogLevel:     DefaultLogLevel,
		LogFormat:    DefaultLogFormat,
		MaxReadBytes: source.DefaultMaxReadBytes,
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() {
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.LogLevel = level
	}
	if format := os.Getenv(EnvLogFormat); format != "" {
		c.LogFormat = format
	}
}
