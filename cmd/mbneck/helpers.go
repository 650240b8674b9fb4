package main

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/mbneck/internal/config"
	"github.com/danielpatrickdp/mbneck/internal/logging"
	"github.com/danielpatrickdp/mbneck/internal/trace"
)

// loadConfig reads the config file (or defaults) and applies the global flags.
// Subcommands apply their own flags afterwards through override.
func loadConfig(root *rootFlags) (config.Config, error) {
	cfg := config.Default()
	if root.config != "" {
		var err error
		if cfg, err = config.Load(root.config); err != nil {
			return cfg, err
		}
	}
	if root.logLevel != "" {
		cfg.Log.Level = root.logLevel
	}
	if root.logFormat != "" {
		cfg.Log.Format = root.logFormat
	}
	return cfg, nil
}

// finish validates the config after flag overrides and builds the logger.
func finish(cmd *cobra.Command, cfg config.Config) (*slog.Logger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return logging.New(cfg.Log, cmd.ErrOrStderr())
}

// override runs set only when the named flag was given on the command line.
func override(cmd *cobra.Command, name string, set func()) {
	if cmd.Flags().Changed(name) {
		set()
	}
}

// parseAngle accepts decimal or 0x-prefixed 16-bit values.
func parseAngle(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("parse angle %q: %w", s, err)
	}
	return uint16(v), nil
}

func loadTrace(path string) (trace.Trace, error) {
	if path == "" {
		return nil, fmt.Errorf("no trace given: set --trace or trace.path")
	}
	return trace.LoadFile(path)
}
