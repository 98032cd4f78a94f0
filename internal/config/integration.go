package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

//nolint:gochecknoglobals // Singleton pattern for configuration
var (
	globalConfig   *Config
	globalConfigMu sync.RWMutex
)

// SetGlobalConfig installs cfg as the process-wide configuration. The CLI
// calls it once after loading.
func SetGlobalConfig(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalConfigForTest clears the global configuration.
func ResetGlobalConfigForTest() {
	SetGlobalConfig(nil)
}

// GetGlobalConfig returns the global configuration, installing the
// defaults on first use when none has been set.
func GetGlobalConfig() *Config {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	if globalConfig == nil {
		globalConfig = Defaults()
	}
	return globalConfig
}

// GetConfigDir returns the footprint configuration directory: $FOOTPRINT_HOME
// when set, otherwise ~/.footprint.
func GetConfigDir() (string, error) {
	if home := os.Getenv(EnvHome); home != "" {
		return home, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".footprint"), nil
}

// EnsureConfigDir creates the configuration directory if needed.
func EnsureConfigDir() error {
	dir, err := GetConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0700)
}

// EnsureLogDir creates the parent directory of the configured log file. It
// does nothing when logging to stderr.
func EnsureLogDir() error {
	cfg := GetGlobalConfig()
	if cfg.Logging.File == "" {
		return nil
	}
	logDir := filepath.Dir(cfg.Logging.File)
	if err := os.MkdirAll(logDir, 0700); err != nil {
		return fmt.Errorf("failed to create log directory %q: %w", logDir, err)
	}
	return nil
}
