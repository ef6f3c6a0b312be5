// Package fallback defines the ranked degradation tiers used by the sync
// engine and repositories. Every view returned to the UI carries the tier it
// was served from so screens can distinguish live data from cached or default
// data and show the appropriate banner.
package fallback

// Tier is one rank in the degradation chain, ordered best to worst.
type Tier int

// Degradation tiers.
const (
	// LiveFromNetwork means the value came straight from a successful fetch.
	LiveFromNetwork Tier = iota

	// FreshCacheHit means the value was served from cache without hitting the
	// network first.
	FreshCacheHit

	// StaleCacheOnError means the network failed and a previously cached value
	// was served instead.
	StaleCacheOnError

	// StaticDefault means neither network nor cache had anything; a hard-coded
	// placeholder was served so the screen never renders blank.
	StaticDefault
)

// String returns the tier name for logging and display.
func (t Tier) String() string {
	switch t {
	case LiveFromNetwork:
		return "live"
	case FreshCacheHit:
		return "fresh-cache"
	case StaleCacheOnError:
		return "stale-cache"
	case StaticDefault:
		return "static-default"
	default:
		return "unknown"
	}
}

// Degraded reports whether the tier indicates the UI should show a
// "showing cached/offline data" banner.
func (t Tier) Degraded() bool {
	return t == StaleCacheOnError || t == StaticDefault
}
