package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Device    DeviceConfig
	Discovery DiscoveryConfig
	Exporter  ExporterConfig
	Logging   LoggingConfig

	// Devices maps an alias to a device IP
	Devices map[string]string

	// Internal viper instance
	v *viper.Viper
}

// DeviceConfig describes the bulb commands are sent to
type DeviceConfig struct {
	IP        string
	Port      int
	TimeoutMS int `mapstructure:"timeout_ms"`
}

// Timeout returns the exchange timeout as a duration
func (d DeviceConfig) Timeout() time.Duration {
	return time.Duration(d.TimeoutMS) * time.Millisecond
}

// DiscoveryConfig represents the discovery configuration
type DiscoveryConfig struct {
	Broadcast string
	TimeoutMS int `mapstructure:"timeout_ms"`
}

// Timeout returns the discovery window as a duration
func (d DiscoveryConfig) Timeout() time.Duration {
	return time.Duration(d.TimeoutMS) * time.Millisecond
}

// ExporterConfig represents the metrics exporter configuration
type ExporterConfig struct {
	Listen    string
	Interval  time.Duration
	RateLimit int `mapstructure:"rate_limit"` // Requests per minute per client IP, 0 disables
}

// LoggingConfig represents the logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// New wraps an existing viper instance, applying defaults
func New(v *viper.Viper) *Config {
	setDefaults(v)
	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("device.ip", "")
	v.SetDefault("device.port", DefaultDevicePort)
	v.SetDefault("device.timeout_ms", int(DefaultDeviceTimeout.Milliseconds()))
	v.SetDefault("discovery.broadcast", DefaultBroadcastAddress)
	v.SetDefault("discovery.timeout_ms", int(DefaultDiscoveryTimeout.Milliseconds()))
	v.SetDefault("exporter.listen", DefaultExporterListenAddress)
	v.SetDefault("exporter.interval", DefaultExporterInterval)
	v.SetDefault("exporter.rate_limit", DefaultExporterRateLimit)
	v.SetDefault("logging.level", LogLevelInfo)
	v.SetDefault("logging.format", LogFormatText)
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Device: DeviceConfig{
			IP:        v.GetString("device.ip"),
			Port:      v.GetInt("device.port"),
			TimeoutMS: v.GetInt("device.timeout_ms"),
		},
		Discovery: DiscoveryConfig{
			Broadcast: v.GetString("discovery.broadcast"),
			TimeoutMS: v.GetInt("discovery.timeout_ms"),
		},
		Exporter: ExporterConfig{
			Listen:    v.GetString("exporter.listen"),
			Interval:  v.GetDuration("exporter.interval"),
			RateLimit: v.GetInt("exporter.rate_limit"),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("logging.level"),
			Format: v.GetString("logging.format"),
		},
		Devices: v.GetStringMapString("devices"),
		v:       v,
	}
}

// Load loads configuration from a file and environment variables. A missing
// file is not an error; an unreadable or malformed one is.
func Load(configName, configFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		slog.Debug("Using config file from command line", "path", configFile)
	} else {
		configPath := GetConfigPath(configName)
		v.SetConfigFile(configPath)
		if _, err := os.Stat(configPath); err == nil {
			slog.Debug("Using default config file", "path", configPath)
		}
	}

	if err := v.ReadInConfig(); err != nil && !isNotFound(err) {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return fromViper(v), nil
}

// ResolveDevice returns the IP for an alias from Devices, or nameOrIP itself
// when it is not a known alias
func (c *Config) ResolveDevice(nameOrIP string) string {
	if ip, ok := c.Devices[strings.ToLower(nameOrIP)]; ok {
		return ip
	}
	return nameOrIP
}

// Save saves the configuration to the file it was loaded from, or to the
// default location when it was not loaded from a file
func (c *Config) Save() error {
	logger := slog.Default()
	configPath := c.path()

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	c.v.Set("device.ip", c.Device.IP)
	c.v.Set("device.port", c.Device.Port)
	c.v.Set("device.timeout_ms", c.Device.TimeoutMS)
	c.v.Set("discovery.broadcast", c.Discovery.Broadcast)
	c.v.Set("discovery.timeout_ms", c.Discovery.TimeoutMS)
	c.v.Set("exporter.listen", c.Exporter.Listen)
	c.v.Set("exporter.interval", c.Exporter.Interval.String())
	c.v.Set("exporter.rate_limit", c.Exporter.RateLimit)
	c.v.Set("logging.level", c.Logging.Level)
	c.v.Set("logging.format", c.Logging.Format)
	if len(c.Devices) > 0 {
		c.v.Set("devices", c.Devices)
	}

	if err := c.v.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	logger.Debug("Configuration saved", "path", configPath)
	return nil
}

// SaveDevices writes the devices map to the config file and leaves every
// other key as it is on disk, so flag and environment overrides applied to c
// are not persisted.
func (c *Config) SaveDevices() error {
	configPath := c.path()

	disk := viper.New()
	disk.SetConfigType("yaml")
	disk.SetConfigFile(configPath)
	if err := disk.ReadInConfig(); err != nil && !isNotFound(err) {
		return fmt.Errorf("error reading config file: %w", err)
	}
	disk.Set("devices", c.Devices)

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}
	if err := disk.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	slog.Debug("Devices saved", "path", configPath, "devices", len(c.Devices))
	return nil
}

// path returns the file c was loaded from, or the default location
func (c *Config) path() string {
	if c.v != nil {
		if used := c.v.ConfigFileUsed(); used != "" {
			return used
		}
	}
	return GetClientConfigPath()
}

func isNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}

// Get retrieves a value from the configuration
func (c *Config) Get(key string) interface{} {
	if c.v == nil {
		return nil
	}
	return c.v.Get(key)
}
