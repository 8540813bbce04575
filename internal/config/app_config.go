package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"

	"github.com/shaharia-lab/vscode-testkit/internal/logger"
)

// AppConfig holds all application-level configuration loaded from environment variables.
type AppConfig struct {
	// DataDir is the root data directory. Defaults to ~/.vscode-testkit.
	DataDir string `envconfig:"TESTKIT_DATA_DIR"`

	// LogLevel sets the minimum log level (trace, debug, info, warn, error, off). Defaults to info.
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// ScenariosDir is where the run command looks for scenario files when no
	// paths are given.
	ScenariosDir string `envconfig:"TESTKIT_SCENARIOS_DIR" default:"testdata/scenarios"`

	// HostVersion is the editor version the mocked host reports. Scenario
	// engine constraints are checked against it.
	HostVersion string `envconfig:"TESTKIT_HOST_VERSION" default:"1.90.0"`

	// LogMaxSizeMB is the size at which system.log is rotated.
	LogMaxSizeMB int `envconfig:"TESTKIT_LOG_MAX_SIZE_MB" default:"10"`

	// LogMaxBackups is the number of rotated system logs kept.
	LogMaxBackups int `envconfig:"TESTKIT_LOG_MAX_BACKUPS" default:"3"`
}

// Load reads AppConfig from environment variables using envconfig.
// DataDir defaults to ~/.vscode-testkit if not set.
func Load() (*AppConfig, error) {
	var c AppConfig
	if err := envconfig.Process("", &c); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if c.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving home directory: %w", err)
		}
		c.DataDir = filepath.Join(home, ".vscode-testkit")
	}
	return &c, nil
}

// ChannelLevel converts the LogLevel string to the output channel level.
// Unknown values default to logger.Info.
func (c *AppConfig) ChannelLevel() logger.LogLevel {
	return logger.ParseLogLevel(c.LogLevel)
}

// SlogLevel converts the LogLevel string to a slog.Level that admits every
// record the output channel at ChannelLevel lets through.
func (c *AppConfig) SlogLevel() slog.Level {
	return c.ChannelLevel().SlogLevel()
}

// LogDir returns the path to the log directory (~/.vscode-testkit/logs).
func (c *AppConfig) LogDir() string {
	return filepath.Join(c.DataDir, "logs")
}
