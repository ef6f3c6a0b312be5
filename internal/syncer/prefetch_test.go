package syncer

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/healthsync/internal/api"
	"github.com/rshade/healthsync/internal/store"
)

func TestPrefetchFillsAllKeys(t *testing.T) {
	remote := &fakeRemote{devices: []api.PairedDevice{{DeviceName: "Apple Watch"}}}
	orch, cache := newTestOrchestrator(remote)
	defer orch.Close()

	handle := orch.Prefetch()
	handle.Wait()

	assert.True(t, cache.HasFresh(store.KeyDevices))
	for _, request := range DefaultPrefetchQueue() {
		assert.True(t, cache.HasFresh(store.MetricsKey(request.Period, request.Days)),
			"missing %s", store.MetricsKey(request.Period, request.Days))
	}

	// One device call plus one per queued window.
	assert.Equal(t, len(DefaultPrefetchQueue())+1, handle.Fetched())
	assert.False(t, cache.LastSync().IsZero())
	assert.True(t, cache.HasFresh(store.KeyLastSync),
		"prefetch updates the observable lastSync entry")
	assert.Equal(t, store.SyncIdle, cache.Phase())
}

func TestPrefetchSingleFlight(t *testing.T) {
	remote := &fakeRemote{}
	orch, _ := newTestOrchestrator(remote)
	defer orch.Close()

	first := orch.Prefetch()
	second := orch.Prefetch()

	// A trigger while a run is active is a no-op returning the active handle.
	assert.Same(t, first, second)
	first.Wait()

	_, metricsCalls, devicesCalls := remote.counts()
	assert.Equal(t, len(DefaultPrefetchQueue()), metricsCalls)
	assert.Equal(t, 1, devicesCalls)
}

func TestPrefetchRunsAgainAfterCompletion(t *testing.T) {
	remote := &fakeRemote{devicesErr: api.ErrTransport, metricsErr: api.ErrTransport}
	orch, _ := newTestOrchestrator(remote)
	defer orch.Close()

	first := orch.Prefetch()
	first.Wait()

	// Nothing was cached (all fetches failed), so a new run re-attempts.
	second := orch.Prefetch()
	second.Wait()
	assert.NotSame(t, first, second)

	_, metricsCalls, devicesCalls := remote.counts()
	assert.Equal(t, 2*len(DefaultPrefetchQueue()), metricsCalls)
	assert.Equal(t, 2, devicesCalls)
}

func TestPrefetchSkipsCachedKeys(t *testing.T) {
	remote := &fakeRemote{devices: []api.PairedDevice{}}
	orch, cache := newTestOrchestrator(remote)
	defer orch.Close()

	cache.Put(store.KeyDevices, []api.PairedDevice{})
	cache.Put(store.MetricsKey(api.PeriodDaily, 7), &api.MetricsAggregate{})

	handle := orch.Prefetch()
	handle.Wait()

	_, metricsCalls, devicesCalls := remote.counts()
	assert.Zero(t, devicesCalls, "cached device list is not re-fetched")
	assert.Equal(t, len(DefaultPrefetchQueue())-1, metricsCalls)
}

func TestPrefetchFailuresAreSilentAndSkipped(t *testing.T) {
	remote := &fakeRemote{metricsErr: api.ErrTransport, devicesErr: api.ErrTransport}
	orch, cache := newTestOrchestrator(remote)
	defer orch.Close()

	handle := orch.Prefetch()
	handle.Wait()

	// Every fetch was attempted despite failures; nothing was cached.
	assert.Equal(t, len(DefaultPrefetchQueue())+1, handle.Fetched())
	assert.False(t, cache.HasFresh(store.KeyDevices))
	for _, request := range DefaultPrefetchQueue() {
		assert.False(t, cache.HasFresh(store.MetricsKey(request.Period, request.Days)))
	}
}

func TestPrefetchStopsOnClose(t *testing.T) {
	remote := &fakeRemote{}
	cache := store.New()
	orch := New(Options{
		Remote:        remote,
		Store:         cache,
		Logger:        zerolog.Nop(),
		PatientID:     "p1",
		AndroidUserID: "a1",
		CalorieGoal:   2000,
		// Long pacing delay so Close lands mid-run.
		PrefetchDelay: 5 * time.Second,
	})

	handle := orch.Prefetch()
	orch.Close()

	done := make(chan struct{})
	go func() {
		handle.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("prefetch did not stop after Close")
	}

	require.Less(t, handle.Fetched(), len(DefaultPrefetchQueue())+1,
		"run cancelled before draining the queue")
}
