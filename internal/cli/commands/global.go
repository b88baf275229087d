package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/ccollicutt/errtally/internal/logging"
	"github.com/ccollicutt/errtally/pkg/config"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// GlobalOptions holds the flags shared by every command.
type GlobalOptions struct {
	ConfigPath string
	LogLevel   string
	LogFormat  string
}

// loadConfig reads the config file, if any, and applies flag overrides.
func (g *GlobalOptions) loadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := config.Load(ctx, g.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if g.LogLevel != "" {
		cfg.LogLevel = g.LogLevel
	}
	if g.LogFormat != "" {
		cfg.LogFormat = g.LogFormat
	}
	return cfg, nil
}

// logger builds the zerolog logger for a command.
func (g *GlobalOptions) logger(w io.Writer, cfg *config.Config) (zerolog.Logger, error) {
	log, err := logging.New(w, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("configuring logging: %w", err)
	}
	return log, nil
}
