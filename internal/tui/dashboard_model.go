// Package tui implements the interactive health dashboard.
//
// The dashboard is a thin consumer of the sync orchestrator: it loads the
// today summary cache-first, shows which fallback tier the data came from,
// lists paired devices, and offers a manual refresh key. All data access goes
// through the orchestrator's read-only views; the model never touches the
// store or the network directly.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rshade/healthsync/internal/syncer"
)

// recencyTickInterval drives the "last synced N ago" label updates.
const recencyTickInterval = 10 * time.Second

// SummaryLoadedMsg is sent when the today-summary view is ready.
type SummaryLoadedMsg struct {
	View syncer.SummaryView
}

// DevicesLoadedMsg is sent when the paired-device list is ready.
type DevicesLoadedMsg struct {
	View syncer.DevicesView
}

// recencyTickMsg refreshes the sync recency label.
type recencyTickMsg struct{}

// DashboardModel is the Bubble Tea model for the health dashboard.
//
//nolint:recvcheck // Bubble Tea requires value receivers for Init/Update/View interface methods.
type DashboardModel struct {
	orch *syncer.Orchestrator
	ctx  context.Context

	summary    syncer.SummaryView
	devices    syncer.DevicesView
	lastSync   time.Time
	hasSummary bool
	hasDevices bool
	refreshing bool

	spinner     spinner.Model
	deviceTable table.Model
	width       int
}

// NewDashboardModel constructs the dashboard bound to an orchestrator.
func NewDashboardModel(ctx context.Context, orch *syncer.Orchestrator) DashboardModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	columns := []table.Column{
		{Title: "Device", Width: 24},
		{Title: "Type", Width: 14},
		{Title: "Active", Width: 8},
		{Title: "Synced", Width: 10},
	}
	deviceTable := table.New(table.WithColumns(columns), table.WithHeight(6))

	return DashboardModel{
		orch:        orch,
		ctx:         ctx,
		spinner:     sp,
		deviceTable: deviceTable,
	}
}

// Init kicks off the initial loads and starts background prefetch. Prefetch is
// off the critical path: the screen renders as soon as the summary arrives.
func (m DashboardModel) Init() tea.Cmd {
	m.orch.Prefetch()
	return tea.Batch(
		m.loadSummaryCmd(),
		m.loadDevicesCmd(),
		m.spinner.Tick,
		recencyTick(),
	)
}

// Update handles messages.
func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			if !m.refreshing {
				m.refreshing = true
				return m, m.refreshCmd()
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case SummaryLoadedMsg:
		m.summary = msg.View
		m.hasSummary = true
		m.refreshing = false
		m.lastSync = m.orch.LastSync()

	case DevicesLoadedMsg:
		m.devices = msg.View
		m.hasDevices = true
		m.deviceTable.SetRows(deviceRows(msg.View))

	case recencyTickMsg:
		m.lastSync = m.orch.LastSync()
		return m, recencyTick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.deviceTable, cmd = m.deviceTable.Update(msg)
	return m, cmd
}

// loadSummaryCmd runs the cache-first summary load.
func (m DashboardModel) loadSummaryCmd() tea.Cmd {
	return func() tea.Msg {
		return SummaryLoadedMsg{View: m.orch.LoadSummary(m.ctx)}
	}
}

// refreshCmd runs an unconditional manual refresh.
func (m DashboardModel) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		return SummaryLoadedMsg{View: m.orch.Refresh(m.ctx)}
	}
}

// loadDevicesCmd loads the paired-device list.
func (m DashboardModel) loadDevicesCmd() tea.Cmd {
	return func() tea.Msg {
		return DevicesLoadedMsg{View: m.orch.LoadDevices(m.ctx)}
	}
}

func recencyTick() tea.Cmd {
	return tea.Tick(recencyTickInterval, func(time.Time) tea.Msg {
		return recencyTickMsg{}
	})
}
