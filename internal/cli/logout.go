package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewLogoutCmd creates the logout command: clears the reactive store, stops
// background work, and removes the durable profile cache.
func NewLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear all cached health data",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := sessionFromCommand(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.Close()

			sess.orch.Logout()
			if err := sess.profiles.Clear(); err != nil {
				return fmt.Errorf("clearing profile cache: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Cached data cleared.")
			return nil
		},
	}
}
