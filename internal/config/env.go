package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

const envFileName = ".env"

// Environment overrides.
const (
	EnvBuildManual     = "PREPDIST_BUILD_MANUAL"
	EnvLogLevel        = "PREPDIST_LOG_LEVEL"
	EnvHistoryPath     = "PREPDIST_HISTORY_PATH"
	EnvMetricsTextfile = "PREPDIST_METRICS_TEXTFILE"
)

// loadEnvFile loads sourceRoot/.env when present. Existing process
// environment variables are not overwritten.
func loadEnvFile(sourceRoot string) error {
	path := filepath.Join(sourceRoot, envFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}

func applyEnvOverrides(cfg *Config) {
	if v, ok := os.LookupEnv(EnvBuildManual); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.BuildManual = b
		}
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok && v != "" {
		cfg.Logging.Level = LogLevel(v)
	}
	if v, ok := os.LookupEnv(EnvHistoryPath); ok {
		cfg.History.Path = v
	}
	if v, ok := os.LookupEnv(EnvMetricsTextfile); ok {
		cfg.Metrics.Textfile = v
	}
}
