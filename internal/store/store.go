// Package store implements the process-wide reactive cache for health data.
//
// The store maps string keys ("summary:today", "devices", "metrics:daily:7")
// to immutable value snapshots and pushes updates to observers. It is the only
// resource shared between the UI path and background prefetch; all mutation
// goes through Put, which replaces atomically per key (last-writer-wins, no
// merge). The store is explicitly constructed and injected — there is no
// package-level singleton — so its lifecycle is bound to a session: created at
// login, cleared at logout.
//
// The store tracks presence only. TTL policy belongs to the profilecache
// package and to the orchestrator's own refresh logic.
package store

import (
	"sync"
	"time"
)

// observerBuffer is the per-observer channel capacity. Observers keep only the
// latest value: a slow reader is overtaken, never blocks a writer.
const observerBuffer = 1

// SyncPhase describes what the sync engine is currently doing.
type SyncPhase int

// Sync phases.
const (
	// SyncIdle means no synchronization is in progress.
	SyncIdle SyncPhase = iota

	// SyncActive means a refresh or prefetch run is in flight.
	SyncActive
)

// String returns the phase name for logging and display.
func (p SyncPhase) String() string {
	if p == SyncActive {
		return "syncing"
	}
	return "idle"
}

// Snapshot is a read-only view of one cache entry. Value must be treated as
// immutable; callers never mutate a retrieved value in place.
type Snapshot struct {
	Value     any
	WrittenAt time.Time
}

// Store is the reactive keyed cache. Safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	entries   map[string]Snapshot
	observers map[string][]chan Snapshot

	phase    SyncPhase
	lastSync time.Time
}

// New creates an empty store.
func New() *Store {
	return &Store{
		entries:   make(map[string]Snapshot),
		observers: make(map[string][]chan Snapshot),
	}
}

// Get returns the current snapshot for key. Non-blocking, never triggers I/O.
func (s *Store) Get(key string) (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.entries[key]
	return snap, ok
}

// HasFresh reports whether any value exists for key. Presence only; the store
// does not enforce TTL.
func (s *Store) HasFresh(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entries[key]
	return ok
}

// Put atomically replaces the entry for key and notifies observers of that
// key. The overwritten value is discarded.
func (s *Store) Put(key string, value any) {
	snap := Snapshot{Value: value, WrittenAt: time.Now()}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = snap
	for _, ch := range s.observers[key] {
		offer(ch, snap)
	}
}

// Observe returns a live stream of values for key, seeded with the current
// value if one exists. The returned cancel function detaches the observer and
// closes the channel; it is safe to call more than once.
func (s *Store) Observe(key string) (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, observerBuffer)

	s.mu.Lock()
	if snap, ok := s.entries[key]; ok {
		ch <- snap
	}
	s.observers[key] = append(s.observers[key], ch)
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.detachLocked(key, ch)
		})
	}
	return ch, cancel
}

// ClearAll resets every key to absent, resets the sync state, and closes all
// observer streams. Used on logout; observers re-observe when a new session
// starts.
func (s *Store) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]Snapshot)
	for _, chans := range s.observers {
		for _, ch := range chans {
			close(ch)
		}
	}
	s.observers = make(map[string][]chan Snapshot)
	s.phase = SyncIdle
	s.lastSync = time.Time{}
}

// SetPhase records the sync engine's current phase. Called only by the
// orchestrator.
func (s *Store) SetPhase(phase SyncPhase) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = phase
}

// Phase returns the sync engine's current phase.
func (s *Store) Phase() SyncPhase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase
}

// SetLastSync records the timestamp of the most recent successful fetch.
// Called only by the orchestrator.
func (s *Store) SetLastSync(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSync = t
}

// LastSync returns the last successful sync time; zero when never synced.
func (s *Store) LastSync() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSync
}

// offer delivers snap to ch, displacing a pending undelivered value so the
// observer always sees the latest write.
func offer(ch chan Snapshot, snap Snapshot) {
	for {
		select {
		case ch <- snap:
			return
		default:
			select {
			case <-ch:
			default:
			}
		}
	}
}

// detachLocked removes ch from the observer list for key and closes it.
// Must be called with s.mu held.
func (s *Store) detachLocked(key string, ch chan Snapshot) {
	chans := s.observers[key]
	for i, candidate := range chans {
		if candidate == ch {
			s.observers[key] = append(chans[:i], chans[i+1:]...)
			close(ch)
			return
		}
	}
}
