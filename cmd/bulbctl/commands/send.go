package commands

import (
	"encoding/json"
	"fmt"

	"github.com/jmylchreest/bulbctl/internal/errors"
	"github.com/jmylchreest/bulbctl/pkg/bulb"
	"github.com/spf13/cobra"
)

// newSendCommand creates the send command
func newSendCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "send JSON",
		Short: "Send a raw JSON command and print the reply",
		Example: `  bulbctl --ip 192.168.1.40 send '{"system":{"get_sysinfo":{}}}'
  bulbctl -d kitchen send '{"smartlife.iot.common.emeter":{"get_realtime":{}}}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var command bulb.Command
			if err := json.Unmarshal([]byte(args[0]), &command); err != nil {
				return errors.Wrap(errors.ErrInvalidInput, err, "command must be a JSON object")
			}
			if command == nil {
				return errors.InvalidInputf("command must be a JSON object")
			}

			sender, err := senderFromCmd(cmd)
			if err != nil {
				return err
			}
			resp, err := sender.Send(cmd.Context(), command)
			if err != nil {
				return fmt.Errorf("failed to send command: %w", err)
			}

			out, err := json.MarshalIndent(resp, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to format reply: %w", err)
			}
			fmt.Println(string(out))
			return nil
		},
	}
}
