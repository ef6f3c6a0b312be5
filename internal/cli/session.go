package cli

import (
	"context"
	"fmt"

	"github.com/rshade/healthsync/internal/api"
	"github.com/rshade/healthsync/internal/config"
	"github.com/rshade/healthsync/internal/logging"
	"github.com/rshade/healthsync/internal/profilecache"
	"github.com/rshade/healthsync/internal/repository"
	"github.com/rshade/healthsync/internal/store"
	"github.com/rshade/healthsync/internal/syncer"
)

// session holds the explicitly constructed engine for one CLI invocation:
// the reactive store, the orchestrator driving it, and the profile
// repository over the durable cache. Created per command, torn down by Close.
// This replaces any notion of a process-global cache singleton so tests and
// commands are hermetic.
type session struct {
	cfg      *config.Config
	store    *store.Store
	orch     *syncer.Orchestrator
	profiles *repository.ProfileRepository
}

// newSession validates config and wires the engine.
func newSession(ctx context.Context, cfg *config.Config) (*session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := logging.FromContext(ctx)

	client, err := api.NewClient(api.Options{
		BaseURL:           cfg.Backend.BaseURL,
		AuthToken:         cfg.Backend.AuthToken,
		VersionConstraint: cfg.Backend.APIVersionConstraint,
		Timeout:           cfg.Backend.Timeout(),
		Logger:            logging.ComponentLogger(*log, "api"),
	})
	if err != nil {
		return nil, fmt.Errorf("creating backend client: %w", err)
	}

	profileStore, err := profilecache.NewFileStore(cfg.Cache.Dir, cfg.Cache.ProfileTTL())
	if err != nil {
		return nil, fmt.Errorf("creating profile cache: %w", err)
	}

	reactive := store.New()
	orch := syncer.New(syncer.Options{
		Remote:        client,
		Store:         reactive,
		Logger:        logging.ComponentLogger(*log, "syncer"),
		PatientID:     cfg.Sync.PatientID,
		AndroidUserID: cfg.Sync.AndroidUserID,
		CalorieGoal:   cfg.Sync.CalorieGoal,
		PrefetchDelay: cfg.Sync.PrefetchDelay(),
	})

	profiles := repository.NewProfileRepository(
		client, profileStore, logging.ComponentLogger(*log, "repository"))

	return &session{
		cfg:      cfg,
		store:    reactive,
		orch:     orch,
		profiles: profiles,
	}, nil
}

// Close stops background work owned by the session.
func (s *session) Close() {
	s.orch.Close()
}

// sessionFromCommand builds a session from the command's context config.
func sessionFromCommand(ctx context.Context) (*session, error) {
	cfg, err := configFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return newSession(ctx, cfg)
}
