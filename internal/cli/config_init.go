package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rshade/healthsync/internal/config"
)

// NewConfigInitCmd creates the config init command: writes a default config
// file, refusing to overwrite an existing one unless --force is given.
func NewConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a default configuration file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString("config")
			if path == "" {
				path = config.DefaultPath()
			}

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
			}

			cfg := config.New()
			if baseURL, _ := cmd.Flags().GetString("base-url"); baseURL != "" {
				cfg.Backend.BaseURL = baseURL
			}
			if patient, _ := cmd.Flags().GetString("patient"); patient != "" {
				cfg.Sync.PatientID = patient
			}

			if err := cfg.Write(path); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	return cmd
}
