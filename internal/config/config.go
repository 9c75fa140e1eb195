// Package config provides configuration loading for componentize.
//
// Configuration Hierarchy (highest to lowest priority):
//  1. Environment variables (COMPONENTIZE_*)
//  2. Project config (.componentize/config.yml)
//  3. Built-in defaults
//
// Nested fields map to underscores: extract.scan_shapes is read from
// COMPONENTIZE_EXTRACT_SCAN_SHAPES.
package config

import (
	"fmt"

	"github.com/mvp-joe/componentize/internal/extract"
	"github.com/mvp-joe/componentize/internal/keywords"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Config represents the complete componentize configuration.
type Config struct {
	Extract  ExtractConfig   `yaml:"extract" mapstructure:"extract"`
	Keywords keywords.Tables `yaml:"keywords" mapstructure:"keywords"`
	Output   OutputConfig    `yaml:"output" mapstructure:"output"`
	Log      LogConfig       `yaml:"log" mapstructure:"log"`
}

// ExtractConfig tunes the extraction phases.
type ExtractConfig struct {
	VisibilityGears bool `yaml:"visibility_gears" mapstructure:"visibility_gears"` // display gears on detected state layers
	ScanShapes      bool `yaml:"scan_shapes" mapstructure:"scan_shapes"`           // hand pure-shape subtrees to the render pipeline
}

// OutputConfig controls how results are written.
type OutputConfig struct {
	Format     string `yaml:"format" mapstructure:"format"`           // "json" or "yaml"
	ResourceDB string `yaml:"resource_db" mapstructure:"resource_db"` // SQLite path; empty disables persistence
	Manifest   string `yaml:"manifest" mapstructure:"manifest"`       // render job manifest path; empty disables it
}

// LogConfig configures the structured logger.
type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"` // debug, info, warn or error
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Extract: ExtractConfig{
			VisibilityGears: false,
			ScanShapes:      true,
		},
		Keywords: keywords.DefaultTables(),
		Output: OutputConfig{
			Format: FormatJSON,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Policy compiles the keyword tables.
func (c *Config) Policy() (*keywords.Policy, error) {
	p, err := keywords.New(c.Keywords)
	if err != nil {
		return nil, fmt.Errorf("failed to compile keyword policy: %w", err)
	}
	return p, nil
}

// ToExtractorConfig converts a Config to an extract.Config. The pipeline and
// logger are supplied by the caller.
func (c *Config) ToExtractorConfig() (*extract.Config, error) {
	policy, err := c.Policy()
	if err != nil {
		return nil, err
	}
	return &extract.Config{
		Policy:          policy,
		VisibilityGears: c.Extract.VisibilityGears,
		ScanShapes:      c.Extract.ScanShapes,
	}, nil
}
