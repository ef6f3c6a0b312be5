package tui

import "github.com/charmbracelet/lipgloss"

// Shared color palette for the dashboard.
var (
	// ColorTitle is used for section headers.
	ColorTitle = lipgloss.Color("12")

	// ColorLabel is used for metric labels.
	ColorLabel = lipgloss.Color("8")

	// ColorValue is used for metric values.
	ColorValue = lipgloss.Color("15")

	// ColorWarn is used for degraded-data banners.
	ColorWarn = lipgloss.Color("11")

	// ColorError is used for failure messages.
	ColorError = lipgloss.Color("9")
)

// Shared styles for the dashboard.
var (
	// TitleStyle renders section headers.
	TitleStyle = lipgloss.NewStyle().Foreground(ColorTitle).Bold(true)

	// LabelStyle renders metric labels.
	LabelStyle = lipgloss.NewStyle().Foreground(ColorLabel)

	// ValueStyle renders metric values.
	ValueStyle = lipgloss.NewStyle().Foreground(ColorValue).Bold(true)

	// BannerStyle renders the "showing cached data" banner.
	BannerStyle = lipgloss.NewStyle().Foreground(ColorWarn).Italic(true)

	// ErrorStyle renders failure messages.
	ErrorStyle = lipgloss.NewStyle().Foreground(ColorError)

	// BoxStyle frames the summary panel.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)

	// HelpStyle renders the key bindings footer.
	HelpStyle = lipgloss.NewStyle().Foreground(ColorLabel).Italic(true)
)
