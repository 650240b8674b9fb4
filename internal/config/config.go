// Package config loads the YAML run configuration. Every section has a
// usable default, so a file only needs the fields it changes.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/danielpatrickdp/mbneck/internal/difficulty"
	"github.com/danielpatrickdp/mbneck/internal/format"
	"github.com/danielpatrickdp/mbneck/internal/logging"
	"github.com/danielpatrickdp/mbneck/internal/neck"
	"github.com/danielpatrickdp/mbneck/internal/search"
)

// #region types
// Config is the full run configuration.
type Config struct {
	Trace      TraceConfig       `yaml:"trace"`
	Goal       GoalConfig        `yaml:"goal"`
	Search     SearchConfig      `yaml:"search"`
	Sweep      SweepConfig       `yaml:"sweep"`
	Difficulty difficulty.Config `yaml:"difficulty"`
	Output     OutputConfig      `yaml:"output"`
	Log        logging.Config    `yaml:"log"`
}

// TraceConfig locates the recorded trace.
type TraceConfig struct {
	Path string `yaml:"path"`
}

// GoalConfig defines the stood-up condition on the final state.
type GoalConfig struct {
	MinLower uint16 `yaml:"min_lower"` // hex accepted, e.g. 0x8000
}

// SearchConfig bounds graph construction and the backward walk.
type SearchConfig struct {
	search.Config `yaml:",inline"`
	Workers       int  `yaml:"workers"` // parallel layer expansion; <= 1 is sequential
	Check         bool `yaml:"check"`   // verify graph soundness after building
}

// SweepConfig bounds the jump-window sweep.
type SweepConfig struct {
	MaxLen  int `yaml:"max_len"`
	Workers int `yaml:"workers"`
}

// OutputConfig controls what a run emits.
type OutputConfig struct {
	Table string `yaml:"table"` // ascii | markdown
	Limit int    `yaml:"limit"` // rows printed; 0 prints all
	PNG   string `yaml:"png"`   // optional image path
	DB    string `yaml:"db"`    // optional SQLite path for run history
}

// #endregion types

// #region defaults
// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Goal:       GoalConfig{MinLower: neck.StoodUpAngle},
		Search:     SearchConfig{Config: search.DefaultConfig(), Workers: 1},
		Sweep:      SweepConfig{MaxLen: 16, Workers: 4},
		Difficulty: difficulty.DefaultConfig(),
		Output:     OutputConfig{Table: "ascii", Limit: 20},
		Log:        logging.DefaultConfig(),
	}
}

// #endregion defaults

// #region load
// Load reads a YAML file over the defaults. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("load config file: %w", err)
	}
	if err := cfg.decode(data); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Marshal renders the configuration as YAML, as stored with each run.
func (c Config) Marshal() (string, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("marshal config: %w", err)
	}
	return string(out), nil
}

// #endregion load

// #region validate
// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	var errs []error
	if c.Search.StepCap < 1 {
		errs = append(errs, fmt.Errorf("search.step_cap must be >= 1, got %d", c.Search.StepCap))
	}
	if c.Search.FinalCap < 1 {
		errs = append(errs, fmt.Errorf("search.final_cap must be >= 1, got %d", c.Search.FinalCap))
	}
	if c.Search.Workers < 0 {
		errs = append(errs, fmt.Errorf("search.workers must be >= 0, got %d", c.Search.Workers))
	}
	if c.Sweep.MaxLen < 1 {
		errs = append(errs, fmt.Errorf("sweep.max_len must be >= 1, got %d", c.Sweep.MaxLen))
	}
	if c.Sweep.Workers < 0 {
		errs = append(errs, fmt.Errorf("sweep.workers must be >= 0, got %d", c.Sweep.Workers))
	}
	if c.Output.Limit < 0 {
		errs = append(errs, fmt.Errorf("output.limit must be >= 0, got %d", c.Output.Limit))
	}
	if _, err := format.ParseMode(c.Output.Table); err != nil {
		errs = append(errs, fmt.Errorf("output.table: %w", err))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

// #endregion validate
