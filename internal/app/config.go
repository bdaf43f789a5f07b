package app

import (
	"errors"
	"fmt"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	InputPath  string // payload file, or a directory of .hcl files
	OutputPath string // bundle root; unused on dry runs

	// Format is one of "auto", "json", "yaml" or "hcl".
	Format string

	LogFormat string
	LogLevel  string
	Workers   int

	VerifyLua    bool
	StrictCycles bool
	DryRun       bool
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.InputPath == "" {
		return nil, errors.New("InputPath is a required configuration field and cannot be empty")
	}
	if cfg.OutputPath == "" && !cfg.DryRun {
		return nil, errors.New("OutputPath is required unless DryRun is set")
	}
	if cfg.Format == "" {
		cfg.Format = "auto"
	}
	switch cfg.Format {
	case "auto", "json", "yaml", "hcl":
	default:
		return nil, fmt.Errorf("unknown payload format %q", cfg.Format)
	}
	if cfg.Workers < 1 {
		return nil, fmt.Errorf("Workers must be at least 1, got %d", cfg.Workers)
	}
	return &cfg, nil
}
