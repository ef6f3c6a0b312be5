// Package repository provides the profile repository facade that combines the
// durable profile cache with the network data source.
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/rshade/healthsync/internal/api"
	"github.com/rshade/healthsync/internal/fallback"
	"github.com/rshade/healthsync/internal/profilecache"
)

// ProfileResult is a profile plus the tier it was served from. Callers use
// the tier to decide whether to display a staleness banner.
type ProfileResult struct {
	Profile *api.Profile
	Tier    fallback.Tier

	// Age is how old the cached record was when served; zero for live data.
	Age time.Duration
}

// ProfileRepository serves patient profiles with a stale-preferred-over-empty
// policy: a cached profile of any age beats a hard failure. The policy is
// deliberate — for this entity availability wins over freshness.
type ProfileRepository struct {
	remote api.RemoteHealthDataSource
	cache  *profilecache.FileStore
	logger zerolog.Logger
}

// NewProfileRepository constructs the repository.
func NewProfileRepository(
	remote api.RemoteHealthDataSource,
	cache *profilecache.FileStore,
	logger zerolog.Logger,
) *ProfileRepository {
	return &ProfileRepository{remote: remote, cache: cache, logger: logger}
}

// Load returns the patient profile. The policy, in order:
//
//  1. Unless forceRefresh is set, a cached profile that is still within its
//     TTL is returned without touching the network.
//  2. Otherwise the network is called. On success the profile is persisted
//     and returned live.
//  3. On network failure the cache is read again and any cached profile —
//     valid or expired — is returned as a degraded success. Only when no
//     cached profile exists at all does the failure propagate.
func (r *ProfileRepository) Load(ctx context.Context, patientID string, forceRefresh bool) (*ProfileResult, error) {
	if !forceRefresh {
		if cached, ok := r.cache.Read(); ok && r.cache.IsValid(cached) {
			r.logger.Debug().Str("patient_id", patientID).
				Dur("age", cached.Age()).Msg("serving profile from fresh cache")
			return &ProfileResult{
				Profile: &cached.Profile,
				Tier:    fallback.FreshCacheHit,
				Age:     cached.Age(),
			}, nil
		}
	}

	profile, err := r.remote.Profile(ctx, patientID)
	if err == nil {
		if writeErr := r.cache.Write(&profilecache.CachedProfile{Profile: *profile}); writeErr != nil {
			// A failed cache write must not fail a successful fetch.
			r.logger.Warn().Err(writeErr).Msg("could not persist profile to cache")
		}
		return &ProfileResult{Profile: profile, Tier: fallback.LiveFromNetwork}, nil
	}

	// Re-read even if step 1 saw an invalid entry: an expired profile is
	// still better than nothing.
	if cached, ok := r.cache.Read(); ok {
		r.logger.Warn().Err(err).Str("patient_id", patientID).
			Dur("age", cached.Age()).Msg("network failed, serving cached profile")
		return &ProfileResult{
			Profile: &cached.Profile,
			Tier:    fallback.StaleCacheOnError,
			Age:     cached.Age(),
		}, nil
	}

	return nil, fmt.Errorf("loading profile %s: %w", patientID, err)
}

// Clear removes the persisted profile. Used on logout.
func (r *ProfileRepository) Clear() error {
	return r.cache.Clear()
}
