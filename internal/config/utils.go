package config

import (
	"os"
	"path/filepath"
	"time"
)

// GetConfigBaseDir returns the base directory for configuration files
func GetConfigBaseDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, ConfigDirName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", ConfigDirName)
}

// GetConfigPath returns the full path to a configuration file
func GetConfigPath(filename string) string {
	return filepath.Join(GetConfigBaseDir(), filename)
}

// GetClientConfigPath returns the full path to the CLI configuration file
func GetClientConfigPath() string {
	return GetConfigPath(ConfigFilename)
}

// ValidateExporterInterval clamps the polling interval to the minimum allowed value
func ValidateExporterInterval(interval time.Duration) time.Duration {
	if interval < MinExporterInterval {
		return MinExporterInterval
	}
	return interval
}
