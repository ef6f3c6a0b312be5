package syncer

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rshade/healthsync/internal/api"
	"github.com/rshade/healthsync/internal/store"
)

// PrefetchRequest is one immutable unit of background work: fill the cache for
// a single (aggregation-period, day-window) pair.
type PrefetchRequest struct {
	Period api.AggregationPeriod
	Days   int
}

// DefaultPrefetchQueue is the fixed, ordered list of windows warmed in the
// background ahead of UI demand.
func DefaultPrefetchQueue() []PrefetchRequest {
	return []PrefetchRequest{
		{Period: api.PeriodHourly, Days: 1},
		{Period: api.PeriodDaily, Days: 7},
		{Period: api.PeriodDaily, Days: 30},
		{Period: api.PeriodWeekly, Days: 90},
	}
}

// PrefetchHandle lets callers await or observe a prefetch run. Production code
// fires and forgets; tests call Wait to complete deterministically.
type PrefetchHandle struct {
	done chan struct{}

	// fetched counts network calls actually made during the run.
	fetched atomic.Int32
}

// Wait blocks until the run completes or its context is cancelled.
func (h *PrefetchHandle) Wait() {
	<-h.done
}

// Fetched returns the number of network calls the run made.
func (h *PrefetchHandle) Fetched() int {
	return int(h.fetched.Load())
}

// prefetchState holds the single-flight guard for the prefetch queue. The
// guard is the invariant that keeps background prefetch and duplicate triggers
// from ever racing a second run onto the same keys.
type prefetchState struct {
	mu     sync.Mutex
	active bool
	handle *PrefetchHandle
}

// Prefetch walks the fixed queue and fills the cache for each missing key,
// pacing itself with a fixed delay between network calls so the backend never
// sees a burst. If a run is already active, the existing run's handle is
// returned and no new work starts.
//
// The run executes on the orchestrator's own background context: it is
// deliberately independent of any UI scope, so navigating away does not abort
// in-progress cache filling, while Close and Logout do.
func (o *Orchestrator) Prefetch() *PrefetchHandle {
	o.prefetch.mu.Lock()
	defer o.prefetch.mu.Unlock()

	if o.prefetch.active {
		return o.prefetch.handle
	}

	handle := &PrefetchHandle{done: make(chan struct{})}
	o.prefetch.active = true
	o.prefetch.handle = handle

	go o.runPrefetch(handle)
	return handle
}

// runPrefetch executes one prefetch pass. Failures are logged and skipped —
// prefetch is opportunistic and never surfaces errors to the UI.
func (o *Orchestrator) runPrefetch(handle *PrefetchHandle) {
	defer func() {
		o.prefetch.mu.Lock()
		o.prefetch.active = false
		o.prefetch.mu.Unlock()
		close(handle.done)
	}()

	o.cache.SetPhase(store.SyncActive)
	defer o.cache.SetPhase(store.SyncIdle)

	o.logger.Debug().Msg("prefetch run started")

	if !o.cache.HasFresh(store.KeyDevices) {
		handle.fetched.Add(1)
		devices, err := o.remote.PairedDevices(o.bgCtx, o.androidUserID)
		if err != nil {
			o.logger.Debug().Err(err).Msg("prefetch: device list fetch failed, continuing")
		} else {
			o.cache.Put(store.KeyDevices, devices)
		}
		if !o.pace() {
			return
		}
	}

	for _, request := range DefaultPrefetchQueue() {
		key := store.MetricsKey(request.Period, request.Days)
		if o.cache.HasFresh(key) {
			continue
		}

		handle.fetched.Add(1)
		aggregate, err := o.remote.AggregatedMetrics(o.bgCtx, o.patientID, request.Period, request.Days)
		if err != nil {
			o.logger.Debug().Err(err).Str("key", key).Msg("prefetch: metrics fetch failed, skipping")
		} else {
			now := time.Now()
			o.cache.Put(key, aggregate)
			o.cache.Put(store.KeyLastSync, now)
			o.cache.SetLastSync(now)
		}

		if !o.pace() {
			return
		}
	}

	o.logger.Debug().Int("fetched", handle.Fetched()).Msg("prefetch run completed")
}

// pace sleeps the configured inter-request delay. Returns false when the
// background context was cancelled mid-delay and the run should stop.
func (o *Orchestrator) pace() bool {
	if o.prefetchDelay <= 0 {
		return o.bgCtx.Err() == nil
	}

	timer := time.NewTimer(o.prefetchDelay)
	defer timer.Stop()

	select {
	case <-o.bgCtx.Done():
		return false
	case <-timer.C:
		return true
	}
}
