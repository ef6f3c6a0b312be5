package syncer

import (
	"time"

	"github.com/rshade/healthsync/internal/api"
	"github.com/rshade/healthsync/internal/fallback"
	"github.com/rshade/healthsync/internal/metrics"
)

// SummaryView is the today-summary view model handed to the UI, tagged with
// the fallback tier it was served from.
type SummaryView struct {
	Summary metrics.HealthSummary
	Tier    fallback.Tier

	// Message carries a non-destructive failure note for display next to
	// otherwise valid data. Empty on clean loads.
	Message string

	// ServedAt is when this view was assembled.
	ServedAt time.Time
}

// MetricsView is an aggregated-metrics window tagged with its fallback tier.
type MetricsView struct {
	Aggregate *api.MetricsAggregate
	Tier      fallback.Tier
	Message   string
}

// DevicesView is the paired-device list tagged with its fallback tier.
type DevicesView struct {
	Devices []api.PairedDevice
	Tier    fallback.Tier
	Message string
}

// staticDefaultSummary is the hard-coded placeholder served when neither
// network nor cache can produce data. The screen renders zeros and a
// "no data" heart-rate status instead of crashing or going blank.
func staticDefaultSummary() metrics.HealthSummary {
	return metrics.HealthSummary{
		HeartRateStatus: metrics.HeartRateNoData,
	}
}
