package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/healthsync/internal/fallback"
)

// NewProfileCmd creates the profile command. The load prefers a cached copy
// within its TTL; on network failure any cached copy — however old — is
// served as a degraded success. Only an empty cache plus a failed fetch
// produces an error.
func NewProfileCmd() *cobra.Command {
	var forceRefresh bool

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show the patient profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := sessionFromCommand(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.Close()

			result, err := sess.profiles.Load(cmd.Context(), sess.cfg.Sync.PatientID, forceRefresh)
			if err != nil {
				return fmt.Errorf("no profile available: %w", err)
			}

			out := cmd.OutOrStdout()
			if result.Tier == fallback.StaleCacheOnError {
				fmt.Fprintf(out, "! offline: showing cached profile from %s ago\n",
					result.Age.Round(time.Second))
			}

			p := result.Profile
			fmt.Fprintf(out, "Name:       %s\n", p.Name)
			fmt.Fprintf(out, "Age:        %d\n", p.Age)
			fmt.Fprintf(out, "Gender:     %s\n", p.Gender)
			fmt.Fprintf(out, "Blood type: %s\n", p.BloodType)
			fmt.Fprintf(out, "Contact:    %s\n", p.Contact)
			fmt.Fprintf(out, "Email:      %s\n", p.Email)
			return nil
		},
	}

	cmd.Flags().BoolVar(&forceRefresh, "refresh", false, "bypass the cached profile")
	return cmd
}
