package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmylchreest/bulbctl/internal/config"
	"github.com/jmylchreest/bulbctl/internal/metrics"
	"github.com/jmylchreest/bulbctl/internal/server"
	"github.com/jmylchreest/bulbctl/pkg/bulb"
	"github.com/spf13/cobra"
)

// newExporterCommand creates the exporter command
func newExporterCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exporter",
		Short: "Serve Prometheus metrics for a bulb",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFromCmd(cmd)
			logger := getLoggerFromCmd(cmd)

			if cmd.Flags().Changed("listen") {
				cfg.Exporter.Listen, _ = cmd.Flags().GetString("listen")
			}
			if cmd.Flags().Changed("interval") {
				cfg.Exporter.Interval, _ = cmd.Flags().GetDuration("interval")
			}
			cfg.Exporter.Interval = config.ValidateExporterInterval(cfg.Exporter.Interval)

			m := metrics.NewMetrics()
			sender, err := senderFromCmd(cmd, m)
			if err != nil {
				return err
			}

			srv := server.New(logger, cfg, m, bulb.New(sender, logger), cfg.Device.IP)
			if err := srv.Start(); err != nil {
				return fmt.Errorf("failed to start exporter: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			<-ctx.Done()

			srv.Stop()
			return nil
		},
	}
	cmd.Flags().String("listen", config.DefaultExporterListenAddress, "HTTP listen address")
	cmd.Flags().Duration("interval", config.DefaultExporterInterval, "Polling interval")
	return cmd
}
