package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// DirName is the project directory holding the config file.
const DirName = ".componentize"

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir string
}

// NewLoader creates a new configuration loader for the given root directory.
func NewLoader(rootDir string) Loader {
	return &loader{
		rootDir: rootDir,
	}
}

// Load reads .componentize/config.yml (or .yaml) under the root directory,
// applies COMPONENTIZE_* overrides and validates the result.
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join(l.rootDir, DirName))

	v.SetEnvPrefix("COMPONENTIZE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.BindEnv("extract.visibility_gears")
	v.BindEnv("extract.scan_shapes")
	v.BindEnv("output.format")
	v.BindEnv("output.resource_db")
	v.BindEnv("output.manifest")
	v.BindEnv("log.level")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// Missing file is fine; defaults and env still apply
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("extract.visibility_gears", defaults.Extract.VisibilityGears)
	v.SetDefault("extract.scan_shapes", defaults.Extract.ScanShapes)

	v.SetDefault("keywords.title", defaults.Keywords.Title)
	v.SetDefault("keywords.icon", defaults.Keywords.Icon)
	v.SetDefault("keywords.bar", defaults.Keywords.Bar)
	v.SetDefault("keywords.grip", defaults.Keywords.Grip)
	v.SetDefault("keywords.states", defaults.Keywords.States)
	v.SetDefault("keywords.denylist", defaults.Keywords.Denylist)

	v.SetDefault("output.format", defaults.Output.Format)
	v.SetDefault("output.resource_db", defaults.Output.ResourceDB)
	v.SetDefault("output.manifest", defaults.Output.Manifest)

	v.SetDefault("log.level", defaults.Log.Level)
}

// LoadConfigFromDir loads configuration from a specific directory.
func LoadConfigFromDir(rootDir string) (*Config, error) {
	return NewLoader(rootDir).Load()
}
