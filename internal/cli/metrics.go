package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/healthsync/internal/api"
)

// Metrics window flag bounds.
const (
	minWindowDays = 1
	maxWindowDays = 365
)

// NewMetricsCmd creates the metrics command showing one aggregated window.
func NewMetricsCmd() *cobra.Command {
	var (
		period string
		days   int
	)

	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Show aggregated metrics for a time window",
		RunE: func(cmd *cobra.Command, _ []string) error {
			aggPeriod, err := parsePeriod(period)
			if err != nil {
				return err
			}
			if days < minWindowDays || days > maxWindowDays {
				return fmt.Errorf("--days must be between %d and %d, got %d",
					minWindowDays, maxWindowDays, days)
			}

			sess, err := sessionFromCommand(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.Close()

			view := sess.orch.LoadMetrics(cmd.Context(), aggPeriod, days)

			out := cmd.OutOrStdout()
			if view.Tier.Degraded() {
				fmt.Fprintf(out, "! showing %s data", view.Tier)
				if view.Message != "" {
					fmt.Fprintf(out, " (%s)", view.Message)
				}
				fmt.Fprintln(out)
			}

			if len(view.Aggregate.Points) == 0 {
				fmt.Fprintln(out, "No data for this window.")
				return nil
			}

			fmt.Fprintf(out, "%-12s %8s %6s %9s %6s\n", "BUCKET", "STEPS", "BPM", "CALORIES", "SLEEP")
			for _, point := range view.Aggregate.Points {
				fmt.Fprintf(out, "%-12s %8s %6.0f %9s %5.1fh\n",
					point.Label,
					printer.Sprintf("%d", point.Steps),
					point.AvgHeartRate,
					printer.Sprintf("%d", point.Calories),
					point.SleepHours,
				)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&period, "period", string(api.PeriodDaily),
		"aggregation period: hourly, daily, or weekly")
	cmd.Flags().IntVar(&days, "days", 7, "day window to aggregate over")
	return cmd
}

// parsePeriod validates the --period flag.
func parsePeriod(raw string) (api.AggregationPeriod, error) {
	switch api.AggregationPeriod(raw) {
	case api.PeriodHourly, api.PeriodDaily, api.PeriodWeekly:
		return api.AggregationPeriod(raw), nil
	default:
		return "", fmt.Errorf("invalid period %q: must be hourly, daily, or weekly", raw)
	}
}
