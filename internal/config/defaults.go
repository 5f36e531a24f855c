package config

// Built-in values.
const (
	DefaultProject         = "brickportability"
	DefaultStagingSubdir   = "tmp"
	DefaultVersionFile     = "VERSION.TXT"
	DefaultBuildConfigFile = "configure.ac"
	DefaultMake            = "make"
	DefaultTar             = "tar"
)

// Defaults returns a configuration holding only built-in values.
func Defaults() *Config {
	return &Config{
		Project:         DefaultProject,
		StagingSubdir:   DefaultStagingSubdir,
		VersionFile:     DefaultVersionFile,
		BuildConfigFile: DefaultBuildConfigFile,
		Tools: ToolsConfig{
			Make: DefaultMake,
			Tar:  DefaultTar,
		},
		Logging: LoggingConfig{
			Level:  LogLevelInfo,
			Format: LogFormatText,
		},
	}
}

// applyDefaults fills fields a config file left empty.
func applyDefaults(cfg *Config) {
	if cfg.StagingSubdir == "" {
		cfg.StagingSubdir = DefaultStagingSubdir
	}
	if cfg.VersionFile == "" {
		cfg.VersionFile = DefaultVersionFile
	}
	if cfg.BuildConfigFile == "" {
		cfg.BuildConfigFile = DefaultBuildConfigFile
	}
	if cfg.Tools.Make == "" {
		cfg.Tools.Make = DefaultMake
	}
	if cfg.Tools.Tar == "" {
		cfg.Tools.Tar = DefaultTar
	}
	cfg.Logging.Level = NormalizeLogLevel(string(cfg.Logging.Level))
	cfg.Logging.Format = NormalizeLogFormat(string(cfg.Logging.Format))
}
