// Package syncer implements the synchronization orchestrator: cache-first
// loads with a four-tier fallback chain, non-destructive manual refresh, and a
// paced, single-flight background prefetch queue.
//
// The orchestrator is the sole writer of the store's sync state and the sole
// trigger of network fetches. UI-facing loads never fail hard while any cached
// value exists; the chain degrades live → fresh cache → stale cache → static
// default, and the tier served is recorded on every view.
package syncer

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/rshade/healthsync/internal/api"
	"github.com/rshade/healthsync/internal/fallback"
	"github.com/rshade/healthsync/internal/metrics"
	"github.com/rshade/healthsync/internal/store"
)

// summaryFlightKey dedups concurrent background refreshes of the today
// summary so a cache hit never launches a second in-flight fetch.
const summaryFlightKey = "summary:refresh"

// Orchestrator drives all synchronization between the reactive store and the
// remote data source. Construct with New and release with Close.
type Orchestrator struct {
	remote api.RemoteHealthDataSource
	cache  *store.Store
	logger zerolog.Logger

	patientID     string
	androidUserID string
	calorieGoal   int
	prefetchDelay time.Duration

	// flight dedups concurrent background summary refreshes.
	flight singleflight.Group

	// bgCtx scopes background work (refresh-after-hit, prefetch) to the
	// orchestrator itself rather than to any caller. Navigating away from a
	// screen cancels the caller's context, not this one.
	bgCtx    context.Context
	bgCancel context.CancelFunc

	prefetch prefetchState
}

// Options configures an Orchestrator.
type Options struct {
	Remote        api.RemoteHealthDataSource
	Store         *store.Store
	Logger        zerolog.Logger
	PatientID     string
	AndroidUserID string

	// CalorieGoal is the daily goal used for percentage mapping.
	CalorieGoal int

	// PrefetchDelay is the pacing delay between prefetch network calls.
	PrefetchDelay time.Duration
}

// New constructs an orchestrator. The background context lives until Close.
func New(opts Options) *Orchestrator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Orchestrator{
		remote:        opts.Remote,
		cache:         opts.Store,
		logger:        opts.Logger,
		patientID:     opts.PatientID,
		androidUserID: opts.AndroidUserID,
		calorieGoal:   opts.CalorieGoal,
		prefetchDelay: opts.PrefetchDelay,
		bgCtx:         ctx,
		bgCancel:      cancel,
	}
}

// Close cancels all background work. Any in-flight prefetch run stops at its
// next suspension point.
func (o *Orchestrator) Close() {
	o.bgCancel()
}

// Logout clears the reactive store and stops background work. The durable
// profile cache is cleared separately by the profile repository.
func (o *Orchestrator) Logout() {
	o.bgCancel()
	o.cache.ClearAll()
}

// SyncPhase reports whether a refresh or prefetch run is in flight.
// Read-only, side-effect-free.
func (o *Orchestrator) SyncPhase() store.SyncPhase {
	return o.cache.Phase()
}

// LastSync returns the time of the most recent successful fetch; zero when
// never synced. Read-only, side-effect-free.
func (o *Orchestrator) LastSync() time.Time {
	return o.cache.LastSync()
}

// Observe exposes the store's push-based observation stream for a key.
func (o *Orchestrator) Observe(key string) (<-chan store.Snapshot, func()) {
	return o.cache.Observe(key)
}

// LoadSummary serves the today summary cache-first.
//
// If the store already holds a value for the key, that value is returned
// immediately as FreshCacheHit — presence alone counts as fresh for this key,
// the cache being refreshed opportunistically on every load — and a background
// refresh is kicked off without blocking the caller. On a cold cache the fetch
// runs synchronously and failures degrade through StaleCacheOnError and
// StaticDefault. The returned view is never blank.
func (o *Orchestrator) LoadSummary(ctx context.Context) SummaryView {
	if snap, ok := o.cache.Get(store.KeySummaryToday); ok {
		if payload, valid := snap.Value.(*api.SummaryPayload); valid {
			o.refreshSummaryAsync()
			return SummaryView{
				Summary:  metrics.MapSummary(payload, o.calorieGoal),
				Tier:     fallback.FreshCacheHit,
				ServedAt: time.Now(),
			}
		}
	}

	return o.fetchSummary(ctx)
}

// Refresh re-fetches the summary unconditionally, bypassing the cache-first
// path. The store's sync phase is set for the duration so the UI can show
// progress, and cleared regardless of outcome. A failed refresh does not
// discard displayed data: the previous cached view is returned with the
// failure message attached.
func (o *Orchestrator) Refresh(ctx context.Context) SummaryView {
	o.cache.SetPhase(store.SyncActive)
	defer o.cache.SetPhase(store.SyncIdle)

	return o.fetchSummary(ctx)
}

// refreshSummaryAsync starts a deduplicated background refresh on the
// orchestrator's own context.
func (o *Orchestrator) refreshSummaryAsync() {
	go func() {
		_, _, _ = o.flight.Do(summaryFlightKey, func() (any, error) {
			o.fetchSummary(o.bgCtx)
			return nil, nil
		})
	}()
}

// fetchSummary runs the network fetch and the full fallback chain. It never
// returns an error and never panics; defense in depth catches anything
// escaping the fetch path and degrades it like a fetch failure.
func (o *Orchestrator) fetchSummary(ctx context.Context) (view SummaryView) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error().Interface("panic", r).Msg("summary fetch panicked")
			view = o.degradedSummary(fmt.Errorf("internal error: %v", r))
		}
	}()

	payload, err := o.remote.TodaySummary(ctx, o.patientID)
	if err != nil {
		o.logger.Warn().Err(err).Msg("today-summary fetch failed")
		return o.degradedSummary(err)
	}

	now := time.Now()
	o.cache.Put(store.KeySummaryToday, payload)
	o.cache.Put(store.KeyLastSync, now)
	o.cache.SetLastSync(now)

	return SummaryView{
		Summary:  metrics.MapSummary(payload, o.calorieGoal),
		Tier:     fallback.LiveFromNetwork,
		ServedAt: now,
	}
}

// degradedSummary serves the best remaining tier after a failed fetch:
// a previously cached payload with the failure attached, or the static
// default when the cache is empty.
func (o *Orchestrator) degradedSummary(cause error) SummaryView {
	if snap, ok := o.cache.Get(store.KeySummaryToday); ok {
		if payload, valid := snap.Value.(*api.SummaryPayload); valid {
			return SummaryView{
				Summary:  metrics.MapSummary(payload, o.calorieGoal),
				Tier:     fallback.StaleCacheOnError,
				Message:  cause.Error(),
				ServedAt: time.Now(),
			}
		}
	}

	return SummaryView{
		Summary:  staticDefaultSummary(),
		Tier:     fallback.StaticDefault,
		Message:  cause.Error(),
		ServedAt: time.Now(),
	}
}

// LoadMetrics serves one aggregated-metrics window with the same cache-first
// pattern as the summary.
func (o *Orchestrator) LoadMetrics(ctx context.Context, period api.AggregationPeriod, days int) MetricsView {
	key := store.MetricsKey(period, days)

	if snap, ok := o.cache.Get(key); ok {
		if aggregate, valid := snap.Value.(*api.MetricsAggregate); valid {
			return MetricsView{Aggregate: aggregate, Tier: fallback.FreshCacheHit}
		}
	}

	aggregate, err := o.remote.AggregatedMetrics(ctx, o.patientID, period, days)
	if err != nil {
		o.logger.Warn().Err(err).Str("key", key).Msg("metrics fetch failed")
		return MetricsView{
			Aggregate: &api.MetricsAggregate{Period: period, Days: days},
			Tier:      fallback.StaticDefault,
			Message:   err.Error(),
		}
	}

	now := time.Now()
	o.cache.Put(key, aggregate)
	o.cache.Put(store.KeyLastSync, now)
	o.cache.SetLastSync(now)
	return MetricsView{Aggregate: aggregate, Tier: fallback.LiveFromNetwork}
}

// LoadDevices serves the paired-device list with the same cache-first pattern.
func (o *Orchestrator) LoadDevices(ctx context.Context) DevicesView {
	if snap, ok := o.cache.Get(store.KeyDevices); ok {
		if devices, valid := snap.Value.([]api.PairedDevice); valid {
			return DevicesView{Devices: devices, Tier: fallback.FreshCacheHit}
		}
	}

	devices, err := o.remote.PairedDevices(ctx, o.androidUserID)
	if err != nil {
		o.logger.Warn().Err(err).Msg("paired-devices fetch failed")
		return DevicesView{Tier: fallback.StaticDefault, Message: err.Error()}
	}

	o.cache.Put(store.KeyDevices, devices)
	return DevicesView{Devices: devices, Tier: fallback.LiveFromNetwork}
}
