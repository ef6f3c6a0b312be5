package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rshade/healthsync/internal/syncer"
	"github.com/rshade/healthsync/internal/tui"
)

// printer formats step and calorie counts with thousand separators.
//
//nolint:gochecknoglobals // Global printer is idiomatic for x/text/message usage.
var printer = message.NewPrinter(language.English)

// NewSummaryCmd creates the summary command. The load is cache-first: a warm
// cache is served instantly while a background refresh runs; with --refresh
// the network is hit unconditionally. Failures degrade to cached data or a
// placeholder — the command itself only errors on configuration problems.
func NewSummaryCmd() *cobra.Command {
	var forceRefresh bool

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show today's health summary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := sessionFromCommand(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.Close()

			var view syncer.SummaryView
			if forceRefresh {
				view = sess.orch.Refresh(cmd.Context())
			} else {
				view = sess.orch.LoadSummary(cmd.Context())
			}

			renderSummaryView(cmd.OutOrStdout(), view, sess)
			return nil
		},
	}

	cmd.Flags().BoolVar(&forceRefresh, "refresh", false, "bypass the cache and fetch from the backend")
	return cmd
}

// renderSummaryView writes the summary view as plain text.
func renderSummaryView(w io.Writer, view syncer.SummaryView, sess *session) {
	if view.Tier.Degraded() {
		fmt.Fprintf(w, "! showing %s data\n", view.Tier)
	}
	if view.Message != "" {
		fmt.Fprintf(w, "! fetch failed: %s\n", view.Message)
	}

	s := view.Summary
	fmt.Fprintf(w, "Steps:      %s%s\n", printer.Sprintf("%d", s.Steps), changeSuffix(s.StepsChange))
	fmt.Fprintf(w, "Heart rate: %.0f bpm (%s)\n", s.HeartRateAvg, s.HeartRateStatus)
	fmt.Fprintf(w, "Calories:   %s (%d%% of goal)\n", printer.Sprintf("%d", s.Calories), s.CaloriesPercentage)
	fmt.Fprintf(w, "Sleep:      %.1fh (%.0f%% efficiency)\n", s.SleepHours, s.SleepEfficiency)
	fmt.Fprintf(w, "Last sync:  %s\n", tui.FormatRecency(sess.orch.LastSync()))
}

// changeSuffix renders a signed percentage delta, empty when there is none.
func changeSuffix(change int) string {
	if change == 0 {
		return ""
	}
	return fmt.Sprintf(" (%+d%% vs yesterday)", change)
}
