package store

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/healthsync/internal/api"
)

func TestStoreGetPut(t *testing.T) {
	s := New()

	_, ok := s.Get(KeySummaryToday)
	assert.False(t, ok)
	assert.False(t, s.HasFresh(KeySummaryToday))

	s.Put(KeySummaryToday, "v1")
	snap, ok := s.Get(KeySummaryToday)
	require.True(t, ok)
	assert.Equal(t, "v1", snap.Value)
	assert.WithinDuration(t, time.Now(), snap.WrittenAt, time.Second)
	assert.True(t, s.HasFresh(KeySummaryToday))

	// Last writer wins, no merge.
	s.Put(KeySummaryToday, "v2")
	snap, _ = s.Get(KeySummaryToday)
	assert.Equal(t, "v2", snap.Value)
}

func TestStoreConcurrentPuts(t *testing.T) {
	s := New()
	const writers = 50

	written := make(map[string]bool)
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			value := fmt.Sprintf("value-%d", i)
			mu.Lock()
			written[value] = true
			mu.Unlock()
			s.Put(KeySummaryToday, value)
		}(i)
	}
	wg.Wait()

	// Exactly one of the written values survives, never a corrupted mix.
	snap, ok := s.Get(KeySummaryToday)
	require.True(t, ok)
	assert.True(t, written[snap.Value.(string)])
}

func TestStoreConcurrentDistinctKeys(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := MetricsKey(api.PeriodDaily, i)
			s.Put(key, i)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 20; i++ {
		snap, ok := s.Get(MetricsKey(api.PeriodDaily, i))
		require.True(t, ok)
		assert.Equal(t, i, snap.Value)
	}
}

func TestStoreObserve(t *testing.T) {
	s := New()
	s.Put(KeyDevices, "initial")

	ch, cancel := s.Observe(KeyDevices)
	defer cancel()

	// Seeded with the current value.
	snap := <-ch
	assert.Equal(t, "initial", snap.Value)

	s.Put(KeyDevices, "updated")
	select {
	case snap = <-ch:
		assert.Equal(t, "updated", snap.Value)
	case <-time.After(time.Second):
		t.Fatal("observer did not receive update")
	}
}

func TestStoreObserveLatestWins(t *testing.T) {
	s := New()
	ch, cancel := s.Observe(KeySummaryToday)
	defer cancel()

	// A slow observer sees the latest write, and writers never block.
	for i := 0; i < 10; i++ {
		s.Put(KeySummaryToday, i)
	}

	var last any
	deadline := time.After(time.Second)
	for {
		select {
		case snap := <-ch:
			last = snap.Value
			if last == 9 {
				return
			}
		case <-deadline:
			assert.Equal(t, 9, last)
			return
		}
	}
}

func TestStoreObserveCancel(t *testing.T) {
	s := New()
	ch, cancel := s.Observe(KeyDevices)
	cancel()
	cancel() // safe to call twice

	_, open := <-ch
	assert.False(t, open)

	// Writes after cancel must not panic.
	s.Put(KeyDevices, "after-cancel")
}

func TestStoreClearAll(t *testing.T) {
	s := New()
	s.Put(KeySummaryToday, "v")
	s.Put(KeyDevices, "d")
	s.SetPhase(SyncActive)
	s.SetLastSync(time.Now())

	ch, cancel := s.Observe(KeySummaryToday)
	defer cancel()
	<-ch // drain seed

	s.ClearAll()

	assert.False(t, s.HasFresh(KeySummaryToday))
	assert.False(t, s.HasFresh(KeyDevices))
	assert.Equal(t, SyncIdle, s.Phase())
	assert.True(t, s.LastSync().IsZero())

	// Observer streams are closed on clear.
	_, open := <-ch
	assert.False(t, open)
}

func TestSyncPhaseString(t *testing.T) {
	assert.Equal(t, "idle", SyncIdle.String())
	assert.Equal(t, "syncing", SyncActive.String())
}

func TestMetricsKey(t *testing.T) {
	assert.Equal(t, "metrics:daily:7", MetricsKey(api.PeriodDaily, 7))
	assert.Equal(t, "metrics:hourly:1", MetricsKey(api.PeriodHourly, 1))
}
