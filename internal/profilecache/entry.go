package profilecache

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/rshade/healthsync/internal/api"
)

// CachedProfile wraps a persisted profile with its write timestamp.
// The timestamp drives TTL validity checks; the record itself carries no
// expiry so that an expired profile can still be served as a degraded
// fallback when the network is down.
type CachedProfile struct {
	// Profile is the persisted patient profile.
	Profile api.Profile `json:"profile"`

	// WrittenAt is when the profile was fetched and stored.
	WrittenAt time.Time `json:"written_at"`
}

// Age returns the duration since the profile was written.
func (c *CachedProfile) Age() time.Duration {
	return time.Since(c.WrittenAt)
}

// MarshalJSON formats the write timestamp as RFC3339 for readability in the
// cache file.
func (c *CachedProfile) MarshalJSON() ([]byte, error) {
	type Alias CachedProfile
	return json.Marshal(&struct {
		*Alias

		WrittenAt string `json:"written_at"`
	}{
		Alias:     (*Alias)(c),
		WrittenAt: c.WrittenAt.Format(time.RFC3339),
	})
}

// UnmarshalJSON parses the RFC3339 write timestamp.
func (c *CachedProfile) UnmarshalJSON(data []byte) error {
	if c == nil {
		return errors.New("cannot unmarshal into nil CachedProfile")
	}
	type Alias CachedProfile
	aux := &struct {
		*Alias

		WrittenAt string `json:"written_at"`
	}{
		Alias: (*Alias)(c),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	writtenAt, err := time.Parse(time.RFC3339, aux.WrittenAt)
	if err != nil {
		return err
	}
	c.WrittenAt = writtenAt
	return nil
}
