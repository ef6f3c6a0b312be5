package store

import (
	"fmt"

	"github.com/rshade/healthsync/internal/api"
)

// Well-known cache keys. Keys are flat strings composed of a category and
// qualifiers so that the store stays schema-free.
const (
	// KeySummaryToday holds the current day's SummaryPayload.
	KeySummaryToday = "summary:today"

	// KeyDevices holds the paired-device list.
	KeyDevices = "devices"

	// KeyLastSync holds the last successful sync timestamp.
	KeyLastSync = "lastSync"
)

// MetricsKey derives the cache key for an aggregated-metrics window,
// e.g. "metrics:daily:7".
func MetricsKey(period api.AggregationPeriod, days int) string {
	return fmt.Sprintf("metrics:%s:%d", period, days)
}
