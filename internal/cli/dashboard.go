package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rshade/healthsync/internal/tui"
)

// NewDashboardCmd creates the interactive dashboard command.
func NewDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Interactive health dashboard",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !isTerminal(os.Stdout) {
				return fmt.Errorf("dashboard requires an interactive terminal")
			}

			sess, err := sessionFromCommand(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.Close()

			model := tui.NewDashboardModel(cmd.Context(), sess.orch)
			program := tea.NewProgram(model, tea.WithAltScreen())
			if _, err := program.Run(); err != nil {
				return fmt.Errorf("running dashboard: %w", err)
			}
			return nil
		},
	}
}
