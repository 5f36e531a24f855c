// Package config loads the release configuration: built-in defaults, an
// optional prepdist.yaml in the source root, then PREPDIST_* environment
// overrides. A .env file next to the configuration is loaded first and never
// overrides variables already set.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	rerrors "git.home.luguber.info/inful/prepdist/internal/errors"
)

// DefaultFileName is the optional configuration file looked up in the source root.
const DefaultFileName = "prepdist.yaml"

// Config represents the release configuration.
type Config struct {
	Project         string        `yaml:"project"`
	StagingSubdir   string        `yaml:"staging_subdir"`
	BuildManual     bool          `yaml:"build_manual"` // Typeset and ship the PDF manual
	VersionFile     string        `yaml:"version_file"`
	BuildConfigFile string        `yaml:"build_config_file"`
	Tools           ToolsConfig   `yaml:"tools"`
	Metrics         MetricsConfig `yaml:"metrics"`
	History         HistoryConfig `yaml:"history"`
	Logging         LoggingConfig `yaml:"log"`

	// Resolved at startup, never read from the file.
	SourceRoot string `yaml:"-"`
	HomeDir    string `yaml:"-"`
}

// ToolsConfig names the external executables.
type ToolsConfig struct {
	Make string `yaml:"make"`
	Tar  string `yaml:"tar"`
}

// MetricsConfig controls the Prometheus textfile export.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"` // Empty disables metrics export
}

// HistoryConfig controls the release event history.
type HistoryConfig struct {
	Path string `yaml:"path"` // SQLite database; empty disables history
}

// LoggingConfig controls slog output.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// StagingRoot is the directory the distribution is extracted into.
func (c *Config) StagingRoot() string {
	return filepath.Join(c.HomeDir, c.StagingSubdir)
}

// Load builds the configuration for a release run in sourceRoot. homeDir is
// the operator's home directory, resolved by the caller.
func Load(sourceRoot, homeDir string) (*Config, error) {
	if err := loadEnvFile(sourceRoot); err != nil {
		return nil, rerrors.ConfigLoadFailed(filepath.Join(sourceRoot, envFileName), err)
	}

	cfg := Defaults()
	cfg.SourceRoot = sourceRoot
	cfg.HomeDir = homeDir

	path := filepath.Join(sourceRoot, DefaultFileName)
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		// Expand environment variables in the YAML content
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
			return nil, rerrors.ConfigLoadFailed(path, fmt.Errorf("failed to unmarshal config: %w", err))
		}
	case os.IsNotExist(err):
	default:
		return nil, rerrors.ConfigLoadFailed(path, err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
