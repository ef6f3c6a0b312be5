package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rshade/healthsync/internal/syncer"
)

// printer is the locale-aware number formatter for step and calorie counts.
//
//nolint:gochecknoglobals // Global printer is idiomatic for x/text/message usage.
var printer = message.NewPrinter(language.English)

// View renders the dashboard.
func (m DashboardModel) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("HEALTH DASHBOARD"))
	b.WriteString("\n\n")

	if !m.hasSummary {
		b.WriteString(m.spinner.View())
		b.WriteString(" loading today's summary…\n")
	} else {
		b.WriteString(renderSummary(m.summary, m.lastSync))
	}

	b.WriteString("\n")
	b.WriteString(TitleStyle.Render("PAIRED DEVICES"))
	b.WriteString("\n")
	switch {
	case !m.hasDevices:
		b.WriteString(m.spinner.View())
		b.WriteString(" loading devices…\n")
	case len(m.devices.Devices) == 0:
		b.WriteString(LabelStyle.Render("No paired devices.\n"))
	default:
		b.WriteString(m.deviceTable.View())
		b.WriteString("\n")
	}

	if m.refreshing {
		b.WriteString("\n")
		b.WriteString(m.spinner.View())
		b.WriteString(" refreshing…")
	}

	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("r refresh • q quit"))
	b.WriteString("\n")
	return b.String()
}

// renderSummary renders the boxed summary panel with its tier banner.
func renderSummary(view syncer.SummaryView, lastSync time.Time) string {
	var content strings.Builder

	if view.Tier.Degraded() {
		content.WriteString(BannerStyle.Render(
			fmt.Sprintf("Showing %s data", view.Tier)))
		content.WriteString("\n")
	}
	if view.Message != "" {
		content.WriteString(ErrorStyle.Render("Fetch failed: " + view.Message))
		content.WriteString("\n")
	}

	s := view.Summary
	content.WriteString(LabelStyle.Render("Steps:       "))
	content.WriteString(ValueStyle.Render(printer.Sprintf("%d", s.Steps)))
	content.WriteString(renderChange(s.StepsChange))
	content.WriteString("\n")

	content.WriteString(LabelStyle.Render("Heart rate:  "))
	content.WriteString(ValueStyle.Render(fmt.Sprintf("%.0f bpm (%s)", s.HeartRateAvg, s.HeartRateStatus)))
	content.WriteString("\n")

	content.WriteString(LabelStyle.Render("Calories:    "))
	content.WriteString(ValueStyle.Render(printer.Sprintf("%d", s.Calories)))
	content.WriteString(LabelStyle.Render(fmt.Sprintf("  (%d%% of goal)", s.CaloriesPercentage)))
	content.WriteString("\n")

	content.WriteString(LabelStyle.Render("Sleep:       "))
	content.WriteString(ValueStyle.Render(fmt.Sprintf("%.1fh", s.SleepHours)))
	content.WriteString(LabelStyle.Render(fmt.Sprintf("  (%.0f%% efficiency)", s.SleepEfficiency)))
	content.WriteString("\n")

	content.WriteString(LabelStyle.Render("Last sync:   "))
	content.WriteString(ValueStyle.Render(FormatRecency(lastSync)))

	return BoxStyle.Render(content.String()) + "\n"
}

// renderChange renders a signed percentage delta next to a metric.
func renderChange(change int) string {
	if change == 0 {
		return ""
	}
	return LabelStyle.Render(fmt.Sprintf("  (%+d%% vs yesterday)", change))
}

// deviceRows converts a device view into table rows.
func deviceRows(view syncer.DevicesView) []table.Row {
	rows := make([]table.Row, 0, len(view.Devices))
	for _, device := range view.Devices {
		active := "no"
		if device.IsActive {
			active = "yes"
		}
		rows = append(rows, table.Row{
			device.DeviceName,
			device.DeviceType,
			active,
			printer.Sprintf("%d", device.TotalMetricsSynced),
		})
	}
	return rows
}

// FormatRecency renders a timestamp as a relative age ("2 mins ago").
func FormatRecency(t time.Time) string {
	if t.IsZero() {
		return "never"
	}

	elapsed := time.Since(t)
	switch {
	case elapsed < time.Minute:
		return "just now"
	case elapsed < 2*time.Minute:
		return "1 min ago"
	case elapsed < time.Hour:
		return fmt.Sprintf("%d mins ago", int(elapsed.Minutes()))
	case elapsed < 2*time.Hour:
		return "1 hour ago"
	case elapsed < 24*time.Hour:
		return fmt.Sprintf("%d hours ago", int(elapsed.Hours()))
	default:
		return t.Format("Jan 2 15:04")
	}
}
