package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rerrors "git.home.luguber.info/inful/prepdist/internal/errors"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvBuildManual, EnvLogLevel, EnvHistoryPath, EnvMetricsTextfile} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	clearEnv(t)
	src := t.TempDir()

	cfg, err := Load(src, "/home/op")
	require.NoError(t, err)

	assert.Equal(t, DefaultProject, cfg.Project)
	assert.False(t, cfg.BuildManual)
	assert.Equal(t, "make", cfg.Tools.Make)
	assert.Equal(t, "tar", cfg.Tools.Tar)
	assert.Equal(t, filepath.Join("/home/op", "tmp"), cfg.StagingRoot())
	assert.Equal(t, LogLevelInfo, cfg.Logging.Level)
	assert.Empty(t, cfg.History.Path)
	assert.Empty(t, cfg.Metrics.Textfile)
}

func TestLoad_FileAndEnvExpansion(t *testing.T) {
	clearEnv(t)
	t.Setenv("PREPDIST_TEST_DB", "/var/lib/prepdist/history.db")
	src := t.TempDir()
	yml := `project: bricks
build_manual: true
staging_subdir: stage
tools:
  make: gmake
history:
  path: ${PREPDIST_TEST_DB}
log:
  level: DEBUG
  format: json
`
	require.NoError(t, os.WriteFile(filepath.Join(src, DefaultFileName), []byte(yml), 0o600))

	cfg, err := Load(src, "/home/op")
	require.NoError(t, err)

	assert.Equal(t, "bricks", cfg.Project)
	assert.True(t, cfg.BuildManual)
	assert.Equal(t, "gmake", cfg.Tools.Make)
	assert.Equal(t, "tar", cfg.Tools.Tar)
	assert.Equal(t, "/var/lib/prepdist/history.db", cfg.History.Path)
	assert.Equal(t, filepath.Join("/home/op", "stage"), cfg.StagingRoot())
	assert.Equal(t, LogLevelDebug, cfg.Logging.Level)
	assert.Equal(t, LogFormatJSON, cfg.Logging.Format)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, DefaultFileName), []byte("build_manual: true\n"), 0o600))
	t.Setenv(EnvBuildManual, "false")
	t.Setenv(EnvMetricsTextfile, "/tmp/prepdist.prom")

	cfg, err := Load(src, "/home/op")
	require.NoError(t, err)
	assert.False(t, cfg.BuildManual)
	assert.Equal(t, "/tmp/prepdist.prom", cfg.Metrics.Textfile)
}

func TestLoad_DotEnvDoesNotOverrideProcessEnv(t *testing.T) {
	clearEnv(t)
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, ".env"),
		[]byte("PREPDIST_BUILD_MANUAL=true\nPREPDIST_LOG_LEVEL=error\n"), 0o600))
	t.Setenv(EnvLogLevel, "warn")
	t.Cleanup(func() { _ = os.Unsetenv(EnvBuildManual) })

	cfg, err := Load(src, "/home/op")
	require.NoError(t, err)
	assert.True(t, cfg.BuildManual)
	assert.Equal(t, LogLevelWarn, cfg.Logging.Level)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)

	t.Run("malformed yaml", func(t *testing.T) {
		src := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(src, DefaultFileName), []byte("project: [\n"), 0o600))
		_, err := Load(src, "/home/op")
		require.Error(t, err)
		assert.True(t, rerrors.IsCategory(err, rerrors.CategoryConfig))
	})

	t.Run("missing home", func(t *testing.T) {
		_, err := Load(t.TempDir(), "")
		require.Error(t, err)
		re, ok := rerrors.As(err)
		require.True(t, ok)
		assert.Equal(t, rerrors.ExitUsage, re.Code)
	})
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		c := Defaults()
		c.SourceRoot = "/src"
		c.HomeDir = "/home/op"
		return c
	}

	require.NoError(t, Validate(base()))

	tests := []struct {
		name  string
		tweak func(*Config)
		field string
	}{
		{"empty project", func(c *Config) { c.Project = " " }, "project"},
		{"project with separator", func(c *Config) { c.Project = "a/b" }, "project"},
		{"absolute staging", func(c *Config) { c.StagingSubdir = "/tmp" }, "staging_subdir"},
		{"escaping staging", func(c *Config) { c.StagingSubdir = "../tmp" }, "staging_subdir"},
		{"no tar", func(c *Config) { c.Tools.Tar = "" }, "tools"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.tweak(c)
			err := Validate(c)
			require.Error(t, err)
			re, ok := rerrors.As(err)
			require.True(t, ok)
			assert.Equal(t, tt.field, re.Context["field"])
		})
	}
}

func TestLogging(t *testing.T) {
	assert.Equal(t, LogLevelWarn, NormalizeLogLevel("Warning"))
	assert.Equal(t, LogLevelInfo, NormalizeLogLevel("verbose"))
	assert.Equal(t, LogFormatText, NormalizeLogFormat("yaml"))
	assert.Equal(t, slog.LevelDebug, LogLevelDebug.SlogLevel())

	logger := LoggingConfig{Level: LogLevelError, Format: LogFormatJSON}.NewLogger(os.Stderr)
	assert.False(t, logger.Enabled(t.Context(), slog.LevelWarn))
	assert.True(t, logger.Enabled(t.Context(), slog.LevelError))
}
