package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/jmylchreest/bulbctl/pkg/bulb"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// newDiscoverCommand creates the discover command
func newDiscoverCommand() *cobra.Command {
	var (
		parseable bool
		save      bool
		broadcast string
		wait      time.Duration
	)
	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Find bulbs on the local network",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFromCmd(cmd)
			if !cmd.Flags().Changed("broadcast") {
				broadcast = cfg.Discovery.Broadcast
			}
			if !cmd.Flags().Changed("wait") {
				wait = cfg.Discovery.Timeout()
			}

			devices, err := bulb.Discover(cmd.Context(), bulb.DiscoverOptions{
				Broadcast: broadcast,
				Port:      cfg.Device.Port,
				Timeout:   wait,
				Logger:    getLoggerFromCmd(cmd),
			})
			if err != nil {
				return fmt.Errorf("discovery failed: %w", err)
			}

			if save && len(devices) > 0 {
				if cfg.Devices == nil {
					cfg.Devices = make(map[string]string)
				}
				for _, d := range devices {
					if d.SysInfo.Alias != "" {
						cfg.Devices[aliasKey(d.SysInfo.Alias)] = d.IP
					}
				}
				if err := cfg.SaveDevices(); err != nil {
					return fmt.Errorf("failed to save devices: %w", err)
				}
			}

			if len(devices) == 0 {
				if !parseable {
					pterm.Info.Println("No devices found")
				}
				return nil
			}
			if parseable {
				for _, d := range devices {
					fmt.Println(DeviceParseable(d))
				}
				return nil
			}
			return pterm.DefaultTable.WithHasHeader().WithData(DeviceTableData(devices)).Render()
		},
	}
	cmd.Flags().BoolVarP(&parseable, "parseable", "p", false, "Output in parseable format (key=value)")
	cmd.Flags().BoolVar(&save, "save", false, "Store discovered aliases in the config file")
	cmd.Flags().StringVar(&broadcast, "broadcast", bulb.DefaultBroadcast, "Address the discovery request is sent to")
	cmd.Flags().DurationVar(&wait, "wait", bulb.DefaultDiscoveryTimeout, "How long to collect replies")
	return cmd
}

// aliasKey turns a device alias into a config key usable with --device
func aliasKey(alias string) string {
	return strings.NewReplacer(" ", "-", ".", "-").Replace(strings.ToLower(alias))
}
