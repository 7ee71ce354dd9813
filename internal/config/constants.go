package config

import "time"

// Common constants shared by the CLI and the exporter
const (
	// ConfigDirName is the name of the config directory within XDG_CONFIG_HOME
	ConfigDirName = "bulbctl"

	// ConfigFilename is the base filename for the CLI config
	ConfigFilename = "bulbctl.yaml"

	// EnvPrefix prefixes every environment override, e.g. BULBCTL_DEVICE_IP
	EnvPrefix = "BULBCTL"

	// DefaultDevicePort is the UDP port bulbs listen on
	DefaultDevicePort = 9999

	// DefaultBroadcastAddress receives discovery requests
	DefaultBroadcastAddress = "255.255.255.255"

	// DefaultExporterListenAddress is the default exporter HTTP listen address
	DefaultExporterListenAddress = ":9134"

	// DefaultExporterRateLimit is the default requests per minute per client IP
	DefaultExporterRateLimit = 120
)

// Default timeouts and intervals
const (
	// DefaultDeviceTimeout bounds a single exchange with a bulb
	DefaultDeviceTimeout = 3500 * time.Millisecond

	// DefaultDiscoveryTimeout is how long discovery collects replies
	DefaultDiscoveryTimeout = 2 * time.Second

	// DefaultExporterInterval is the default polling interval of the exporter
	DefaultExporterInterval = 15 * time.Second

	// MinExporterInterval is the minimum allowed polling interval
	MinExporterInterval = 1 * time.Second
)

// Logging constants
const (
	// LogLevelDebug represents debug log level
	LogLevelDebug = "debug"

	// LogLevelInfo represents info log level
	LogLevelInfo = "info"

	// LogLevelWarn represents warning log level
	LogLevelWarn = "warn"

	// LogLevelError represents error log level
	LogLevelError = "error"

	// LogFormatText represents text log format
	LogFormatText = "text"

	// LogFormatJSON represents JSON log format
	LogFormatJSON = "json"
)
