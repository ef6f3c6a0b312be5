package helpers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rshade/healthsync/internal/api"
)

// Backend is a stub CloudCare server with per-endpoint hit counters and a
// failure toggle, so tests can verify cache behavior and offline fallback.
type Backend struct {
	Server *httptest.Server

	mu      sync.Mutex
	failing bool

	SummaryHits int64
	MetricsHits int64
	DevicesHits int64
	ProfileHits int64

	// LastMetricsQuery captures the query string of the most recent
	// aggregated-metrics request.
	LastMetricsQuery atomic.Value
}

// NewBackend starts a stub backend serving deterministic wearables data.
func NewBackend(t *testing.T) *Backend {
	t.Helper()

	b := &Backend{}
	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/wearables/summary", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&b.SummaryHits, 1)
		if b.refuse(w) {
			return
		}
		change := "+12%"
		now := time.Now().UTC()
		b.respond(w, api.SummaryPayload{
			Steps:      api.StepsPayload{Total: 4932, Change: &change},
			HeartRate:  api.HeartRatePayload{Avg: 76},
			Calories:   api.CaloriesPayload{Total: 1877},
			Sleep:      api.SleepPayload{TimeInBed: 8, TimeAsleep: 6.5},
			DataPoints: 1440,
			LastSync:   &now,
		})
	})

	mux.HandleFunc("/api/v1/wearables/metrics/recent", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&b.MetricsHits, 1)
		b.LastMetricsQuery.Store(r.URL.RawQuery)
		if b.refuse(w) {
			return
		}
		b.respond(w, api.MetricsAggregate{
			Period: api.AggregationPeriod(r.URL.Query().Get("period")),
			Points: []api.AggregatePoint{
				{Label: "2025-11-11", Steps: 7410, AvgHeartRate: 73, Calories: 2010, SleepHours: 7.2},
				{Label: "2025-11-12", Steps: 8003, AvgHeartRate: 71, Calories: 1950, SleepHours: 6.8},
			},
		})
	})

	mux.HandleFunc("/api/v1/wearables/devices/paired", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&b.DevicesHits, 1)
		if b.refuse(w) {
			return
		}
		b.respond(w, []api.PairedDevice{
			{PairingID: "pair-1", DeviceName: "Apple Watch", DeviceType: "smart_watch", IsActive: true},
		})
	})

	mux.HandleFunc("/api/v1/patient/p1/profile", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&b.ProfileHits, 1)
		if b.refuse(w) {
			return
		}
		b.respond(w, api.Profile{
			ID: "p1", Name: "Asha Rao", Age: 34, Gender: "female",
			BloodType: "O+", Contact: "555-0142", Email: "asha@example.com",
		})
	})

	b.Server = httptest.NewServer(mux)
	t.Cleanup(b.Server.Close)
	return b
}

// URL returns the backend base URL.
func (b *Backend) URL() string { return b.Server.URL }

// SetFailing makes every endpoint return 503 until toggled back.
func (b *Backend) SetFailing(failing bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failing = failing
}

func (b *Backend) refuse(w http.ResponseWriter) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.failing {
		return false
	}
	w.WriteHeader(http.StatusServiceUnavailable)
	_, _ = w.Write([]byte(`{"detail": "backend unavailable"}`))
	return true
}

func (b *Backend) respond(w http.ResponseWriter, body any) {
	w.Header().Set("X-Api-Version", "1.4.2")
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}
