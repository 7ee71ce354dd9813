package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmylchreest/bulbctl/internal/config"
	"github.com/jmylchreest/bulbctl/internal/errors"
	"github.com/jmylchreest/bulbctl/internal/utils"
	"github.com/jmylchreest/bulbctl/pkg/bulb"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewRootCommand creates the root command
func NewRootCommand(logger *slog.Logger, version, commit, buildDate string) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "bulbctl",
		Short:        "Control smart bulbs over UDP",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(cmd)
		},
	}

	// Add global flags
	cmd.PersistentFlags().String("config", "", "Path to config file")
	cmd.PersistentFlags().String("ip", "", "IP address of the bulb")
	cmd.PersistentFlags().StringP("device", "d", "", "Device alias from the config file, or an IP")
	cmd.PersistentFlags().Int("port", config.DefaultDevicePort, "UDP port of the bulb")
	cmd.PersistentFlags().Duration("timeout", config.DefaultDeviceTimeout, "Exchange timeout")
	cmd.PersistentFlags().Duration("transition", 0, "Transition period for state changes")
	cmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("log-format", "text", "Log format (text, json)")

	// Add commands
	cmd.AddCommand(newVersionCommand(version, commit, buildDate))
	cmd.AddCommand(newInfoCommand())
	cmd.AddCommand(newStateCommand())
	cmd.AddCommand(newPowerCommand())
	cmd.AddCommand(newBrightnessCommand())
	cmd.AddCommand(newColorCommand())
	cmd.AddCommand(newScheduleCommand())
	cmd.AddCommand(newCloudCommand())
	cmd.AddCommand(newUsageCommand())
	cmd.AddCommand(newSendCommand())
	cmd.AddCommand(newDiscoverCommand())
	cmd.AddCommand(newExporterCommand())

	if logger != nil {
		cmd.SetContext(context.WithValue(context.Background(), loggerContextKey{}, logger))
	}

	return cmd
}

// setup loads the configuration, applies flag overrides and installs the
// configured logger on the command context. Flags beat environment and file.
func setup(cmd *cobra.Command) error {
	flags := cmd.Flags()

	configFile, _ := flags.GetString("config")
	cfg, err := config.Load(config.ConfigFilename, configFile)
	if err != nil {
		return errors.Wrap(errors.ErrConfiguration, err, "failed to load configuration")
	}

	if flags.Changed("log-level") {
		cfg.Logging.Level, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format, _ = flags.GetString("log-format")
	}
	if flags.Changed("device") {
		name, _ := flags.GetString("device")
		cfg.Device.IP = cfg.ResolveDevice(name)
	}
	if flags.Changed("ip") {
		cfg.Device.IP, _ = flags.GetString("ip")
	}
	if flags.Changed("port") {
		cfg.Device.Port, _ = flags.GetInt("port")
	}
	if flags.Changed("timeout") {
		timeout, _ := flags.GetDuration("timeout")
		cfg.Device.TimeoutMS = int(timeout.Milliseconds())
	}

	logger := utils.SetupLogger(cfg.Logging.Level, cfg.Logging.Format)
	utils.SetAsDefaultLogger(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, loggerContextKey{}, logger)
	ctx = context.WithValue(ctx, configContextKey{}, cfg)
	cmd.SetContext(ctx)
	return nil
}

// configFromCmd returns the loaded configuration, or defaults when setup did not run
func configFromCmd(cmd *cobra.Command) *config.Config {
	if ctx := cmd.Context(); ctx != nil {
		if cfg, ok := ctx.Value(configContextKey{}).(*config.Config); ok {
			return cfg
		}
	}
	return config.New(viper.New())
}

// endpointFromConfig returns the bulb endpoint described by cfg
func endpointFromConfig(cfg *config.Config) bulb.Endpoint {
	return bulb.Endpoint{
		IP:      cfg.Device.IP,
		Port:    cfg.Device.Port,
		Timeout: cfg.Device.Timeout(),
	}
}

// senderFromCmd returns the injected Sender or a UDP client for the configured device
func senderFromCmd(cmd *cobra.Command, observer ...bulb.Observer) (bulb.Sender, error) {
	if s, ok := senderFromContext(cmd.Context()); ok {
		return s, nil
	}
	cfg := configFromCmd(cmd)
	if cfg.Device.IP == "" {
		return nil, errors.Configurationf("no device given, use --ip or --device")
	}
	return bulb.NewClient(endpointFromConfig(cfg), getLoggerFromCmd(cmd), observer...), nil
}

// bulbFromCmd returns a Bulb for the configured device with the --transition period applied
func bulbFromCmd(cmd *cobra.Command) (*bulb.Bulb, error) {
	sender, err := senderFromCmd(cmd)
	if err != nil {
		return nil, err
	}
	b := bulb.New(sender, getLoggerFromCmd(cmd))
	b.Transition, _ = cmd.Flags().GetDuration("transition")
	return b, nil
}

// newVersionCommand creates the version command
func newVersionCommand(version, commit, buildDate string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Version:    %s\n", version)
			fmt.Printf("Commit:     %s\n", commit)
			fmt.Printf("Build Date: %s\n", buildDate)
		},
	}
}
