package config

import (
	"path/filepath"
	"strings"

	rerrors "git.home.luguber.info/inful/prepdist/internal/errors"
)

// Validate checks a fully defaulted configuration.
func Validate(cfg *Config) error {
	if strings.TrimSpace(cfg.Project) == "" {
		return rerrors.ConfigInvalid("project", "must not be empty")
	}
	if strings.ContainsRune(cfg.Project, filepath.Separator) {
		return rerrors.ConfigInvalid("project", "must not contain a path separator")
	}
	if cfg.SourceRoot == "" {
		return rerrors.ConfigInvalid("source_root", "must not be empty")
	}
	if cfg.HomeDir == "" {
		return rerrors.ConfigInvalid("home", "home directory is not set")
	}
	if filepath.IsAbs(cfg.StagingSubdir) || strings.HasPrefix(filepath.Clean(cfg.StagingSubdir), "..") {
		return rerrors.ConfigInvalid("staging_subdir", "must be relative to the home directory")
	}
	if strings.TrimSpace(cfg.Tools.Make) == "" || strings.TrimSpace(cfg.Tools.Tar) == "" {
		return rerrors.ConfigInvalid("tools", "make and tar must be set")
	}
	return nil
}
