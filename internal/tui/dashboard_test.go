package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/healthsync/internal/api"
	"github.com/rshade/healthsync/internal/fallback"
	"github.com/rshade/healthsync/internal/metrics"
	"github.com/rshade/healthsync/internal/store"
	"github.com/rshade/healthsync/internal/syncer"
)

// noopRemote satisfies api.RemoteHealthDataSource with empty results.
type noopRemote struct{}

func (noopRemote) TodaySummary(context.Context, string) (*api.SummaryPayload, error) {
	return &api.SummaryPayload{}, nil
}

func (noopRemote) AggregatedMetrics(context.Context, string, api.AggregationPeriod, int) (*api.MetricsAggregate, error) {
	return &api.MetricsAggregate{}, nil
}

func (noopRemote) PairedDevices(context.Context, string) ([]api.PairedDevice, error) {
	return nil, nil
}

func (noopRemote) Profile(context.Context, string) (*api.Profile, error) {
	return &api.Profile{}, nil
}

func newTestModel(t *testing.T) DashboardModel {
	t.Helper()
	orch := syncer.New(syncer.Options{
		Remote:      noopRemote{},
		Store:       store.New(),
		Logger:      zerolog.Nop(),
		CalorieGoal: 2000,
	})
	t.Cleanup(orch.Close)
	return NewDashboardModel(context.Background(), orch)
}

func TestDashboardInitialView(t *testing.T) {
	m := newTestModel(t)
	view := m.View()
	assert.Contains(t, view, "HEALTH DASHBOARD")
	assert.Contains(t, view, "loading today's summary")
}

func TestDashboardSummaryLoaded(t *testing.T) {
	m := newTestModel(t)

	summary := syncer.SummaryView{
		Summary: metrics.HealthSummary{
			Steps:              4932,
			HeartRateAvg:       76,
			HeartRateStatus:    metrics.HeartRateNormal,
			Calories:           1877,
			CaloriesPercentage: 94,
			SleepHours:         6.0,
			SleepEfficiency:    75.0,
		},
		Tier: fallback.LiveFromNetwork,
	}

	updated, _ := m.Update(SummaryLoadedMsg{View: summary})
	view := updated.View()

	assert.Contains(t, view, "4,932", "step count uses thousand separators")
	assert.Contains(t, view, "Normal")
	assert.Contains(t, view, "94% of goal")
	assert.NotContains(t, view, "Showing", "live data needs no banner")
}

func TestDashboardDegradedBanner(t *testing.T) {
	m := newTestModel(t)

	updated, _ := m.Update(SummaryLoadedMsg{View: syncer.SummaryView{
		Summary: metrics.HealthSummary{HeartRateStatus: metrics.HeartRateNoData},
		Tier:    fallback.StaleCacheOnError,
		Message: "transport error",
	}})
	view := updated.View()

	assert.Contains(t, view, "Showing stale-cache data")
	assert.Contains(t, view, "Fetch failed: transport error")
}

func TestDashboardDevicesLoaded(t *testing.T) {
	m := newTestModel(t)

	updated, _ := m.Update(DevicesLoadedMsg{View: syncer.DevicesView{
		Devices: []api.PairedDevice{{
			DeviceName:         "Apple Watch",
			DeviceType:         "smart_watch",
			IsActive:           true,
			TotalMetricsSynced: 1200,
		}},
		Tier: fallback.LiveFromNetwork,
	}})
	view := updated.View()

	assert.Contains(t, view, "Apple Watch")
}

func TestDashboardQuitKeys(t *testing.T) {
	m := newTestModel(t)
	for _, key := range []string{"q", "esc", "ctrl+c"} {
		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
		if key != "q" {
			continue
		}
		require.NotNil(t, cmd, "q should quit")
	}
}

func TestFormatRecency(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"never", time.Time{}, "never"},
		{"just now", now.Add(-10 * time.Second), "just now"},
		{"one minute", now.Add(-90 * time.Second), "1 min ago"},
		{"minutes", now.Add(-2 * time.Minute), "2 mins ago"},
		{"one hour", now.Add(-90 * time.Minute), "1 hour ago"},
		{"hours", now.Add(-3 * time.Hour), "3 hours ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatRecency(tt.t))
		})
	}

	old := now.Add(-48 * time.Hour)
	assert.True(t, strings.Contains(FormatRecency(old), old.Format("Jan")))
}
