package commands

import (
	"fmt"
	"time"

	"github.com/jmylchreest/bulbctl/internal/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// newScheduleCommand creates the schedule command
func newScheduleCommand() *cobra.Command {
	var parseable bool
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "List the schedule rules stored on the device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := bulbFromCmd(cmd)
			if err != nil {
				return err
			}
			rules, err := b.Schedule(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get schedule: %w", err)
			}

			if len(rules.RuleList) == 0 {
				if !parseable {
					pterm.Info.Println("No schedule rules")
				}
				return nil
			}
			if parseable {
				for _, r := range rules.RuleList {
					fmt.Println(ScheduleParseable(r))
				}
				return nil
			}
			return pterm.DefaultTable.WithHasHeader().WithData(ScheduleTableData(rules)).Render()
		},
	}
	cmd.Flags().BoolVarP(&parseable, "parseable", "p", false, "Output in parseable format (key=value)")
	return cmd
}

// newCloudCommand creates the cloud command
func newCloudCommand() *cobra.Command {
	var parseable bool
	cmd := &cobra.Command{
		Use:   "cloud",
		Short: "Show the cloud binding status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := bulbFromCmd(cmd)
			if err != nil {
				return err
			}
			status, err := b.Cloud(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get cloud status: %w", err)
			}

			if parseable {
				fmt.Println(CloudParseable(status))
				return nil
			}
			return pterm.DefaultTable.WithHasHeader().WithData(CloudTableData(status)).Render()
		},
	}
	cmd.Flags().BoolVarP(&parseable, "parseable", "p", false, "Output in parseable format (key=value)")
	return cmd
}

// newUsageCommand creates the usage command
func newUsageCommand() *cobra.Command {
	var parseable bool
	cmd := &cobra.Command{
		Use:   "usage [YEAR MONTH]",
		Short: "Show daily energy use for a month (default: the current month)",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 2 {
				return errors.InvalidInputf("accepts no arguments or YEAR MONTH, received %d", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			year, month := now.Year(), int(now.Month())
			if len(args) == 2 {
				var err error
				if year, err = intArg("year", args[0]); err != nil {
					return err
				}
				if month, err = intArg("month", args[1]); err != nil {
					return err
				}
			}

			b, err := bulbFromCmd(cmd)
			if err != nil {
				return err
			}
			stats, err := b.Usage(cmd.Context(), year, month)
			if err != nil {
				return fmt.Errorf("failed to get usage: %w", err)
			}

			if parseable {
				for _, d := range stats.DayList {
					fmt.Printf("year=%d month=%d day=%d energy_wh=%d\n", d.Year, d.Month, d.Day, d.EnergyWh)
				}
				fmt.Printf("total_wh=%d\n", stats.TotalWh())
				return nil
			}
			return pterm.DefaultTable.WithHasHeader().WithData(UsageTableData(stats)).Render()
		},
	}
	cmd.Flags().BoolVarP(&parseable, "parseable", "p", false, "Output in parseable format (key=value)")
	return cmd
}
