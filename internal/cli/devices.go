package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/healthsync/internal/tui"
)

// NewDevicesCmd creates the devices command listing paired wearables.
func NewDevicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List paired wearable devices",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := sessionFromCommand(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.Close()

			view := sess.orch.LoadDevices(cmd.Context())

			out := cmd.OutOrStdout()
			if view.Tier.Degraded() {
				fmt.Fprintf(out, "! showing %s data", view.Tier)
				if view.Message != "" {
					fmt.Fprintf(out, " (%s)", view.Message)
				}
				fmt.Fprintln(out)
			}

			if len(view.Devices) == 0 {
				fmt.Fprintln(out, "No paired devices.")
				return nil
			}

			fmt.Fprintf(out, "%-24s %-14s %-7s %10s %s\n",
				"DEVICE", "TYPE", "ACTIVE", "SYNCED", "LAST SYNC")
			for _, device := range view.Devices {
				active := "no"
				if device.IsActive {
					active = "yes"
				}
				lastSync := "never"
				if device.LastSync != nil {
					lastSync = tui.FormatRecency(*device.LastSync)
				}
				fmt.Fprintf(out, "%-24s %-14s %-7s %10s %s\n",
					device.DeviceName, device.DeviceType, active,
					printer.Sprintf("%d", device.TotalMetricsSynced), lastSync)
			}
			return nil
		},
	}
}
