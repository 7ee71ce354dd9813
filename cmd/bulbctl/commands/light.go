package commands

import (
	"fmt"
	"strconv"

	"github.com/jmylchreest/bulbctl/internal/errors"
	"github.com/jmylchreest/bulbctl/pkg/bulb"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// newInfoCommand creates the info command
func newInfoCommand() *cobra.Command {
	var parseable bool
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show the device description",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := bulbFromCmd(cmd)
			if err != nil {
				return err
			}
			info, err := b.Info(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get device info: %w", err)
			}

			if parseable {
				fmt.Println(SysInfoParseable(info))
				return nil
			}
			return pterm.DefaultTable.WithData(SysInfoTableData(info)).Render()
		},
	}
	cmd.Flags().BoolVarP(&parseable, "parseable", "p", false, "Output in parseable format (key=value)")
	return cmd
}

// newStateCommand creates the state command
func newStateCommand() *cobra.Command {
	var parseable bool
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Show the current light state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := bulbFromCmd(cmd)
			if err != nil {
				return err
			}
			state, err := b.State(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get light state: %w", err)
			}
			return printState(state, parseable)
		},
	}
	cmd.Flags().BoolVarP(&parseable, "parseable", "p", false, "Output in parseable format (key=value)")
	return cmd
}

// newPowerCommand creates the power command
func newPowerCommand() *cobra.Command {
	var parseable bool
	cmd := &cobra.Command{
		Use:       "power on|off",
		Short:     "Switch the light on or off",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var on bool
			switch args[0] {
			case "on":
				on = true
			case "off":
			default:
				return errors.InvalidInputf("power must be on or off, got %q", args[0])
			}

			b, err := bulbFromCmd(cmd)
			if err != nil {
				return err
			}
			state, err := b.SetPower(cmd.Context(), on)
			if err != nil {
				return fmt.Errorf("failed to set power: %w", err)
			}
			return printState(state, parseable)
		},
	}
	cmd.Flags().BoolVarP(&parseable, "parseable", "p", false, "Output in parseable format (key=value)")
	return cmd
}

// newBrightnessCommand creates the brightness command
func newBrightnessCommand() *cobra.Command {
	var parseable bool
	cmd := &cobra.Command{
		Use:   "brightness PERCENT",
		Short: "Set the brightness (0-100)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			brightness, err := intArg("brightness", args[0])
			if err != nil {
				return err
			}

			b, err := bulbFromCmd(cmd)
			if err != nil {
				return err
			}
			state, err := b.SetBrightness(cmd.Context(), brightness)
			if err != nil {
				return fmt.Errorf("failed to set brightness: %w", err)
			}
			return printState(state, parseable)
		},
	}
	cmd.Flags().BoolVarP(&parseable, "parseable", "p", false, "Output in parseable format (key=value)")
	return cmd
}

// newColorCommand creates the color command
func newColorCommand() *cobra.Command {
	var parseable bool
	cmd := &cobra.Command{
		Use:   "color HUE SATURATION [TEMPERATURE]",
		Short: "Set hue (0-360), saturation (0-100) and optionally colour temperature",
		Long: `Set the light colour. Without a temperature, or with 0, the bulb is put in
colour mode. A temperature between 2500 and 9000 kelvin selects white mode.`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			hue, err := intArg("hue", args[0])
			if err != nil {
				return err
			}
			saturation, err := intArg("saturation", args[1])
			if err != nil {
				return err
			}
			temp := 0
			if len(args) == 3 {
				if temp, err = intArg("temperature", args[2]); err != nil {
					return err
				}
			}

			b, err := bulbFromCmd(cmd)
			if err != nil {
				return err
			}
			on := true
			state, err := b.Apply(cmd.Context(), bulb.LightTransition{
				On:            &on,
				Hue:           &hue,
				Saturation:    &saturation,
				ColorTemp:     &temp,
				Mode:          "normal",
				IgnoreDefault: true,
			})
			if err != nil {
				return fmt.Errorf("failed to set color: %w", err)
			}
			return printState(state, parseable)
		},
	}
	cmd.Flags().BoolVarP(&parseable, "parseable", "p", false, "Output in parseable format (key=value)")
	return cmd
}

func printState(state *bulb.LightStateInfo, parseable bool) error {
	if parseable {
		fmt.Println(StateParseable(state))
		return nil
	}
	return pterm.DefaultTable.WithHasHeader().WithData(StateTableData(state)).Render()
}

func intArg(name, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.InvalidInputf("%s must be an integer, got %q", name, value)
	}
	return n, nil
}
