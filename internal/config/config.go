// Package config loads and validates healthsync configuration.
//
// Configuration is resolved in precedence order: CLI flags override environment
// variables, which override the YAML config file, which overrides built-in
// defaults. The config file lives at ~/.healthsync/config.yaml by default.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variable overrides.
const (
	EnvBaseURL       = "HEALTHSYNC_BASE_URL"
	EnvAuthToken     = "HEALTHSYNC_AUTH_TOKEN"
	EnvCacheDir      = "HEALTHSYNC_CACHE_DIR"
	EnvProfileTTL    = "HEALTHSYNC_PROFILE_TTL_SECONDS"
	EnvLogLevel      = "HEALTHSYNC_LOG_LEVEL"
	EnvLogFormat     = "HEALTHSYNC_LOG_FORMAT"
	EnvPrefetchDelay = "HEALTHSYNC_PREFETCH_DELAY_MS"
)

// Defaults applied when neither file nor environment provides a value.
const (
	// DefaultProfileTTLSeconds is the durable profile cache TTL (5 minutes).
	DefaultProfileTTLSeconds = 300

	// DefaultPrefetchDelayMS is the pacing delay between prefetch network calls.
	DefaultPrefetchDelayMS = 50

	// DefaultCalorieGoal is the daily calorie goal used for percentage mapping.
	DefaultCalorieGoal = 2000

	// DefaultRequestTimeout bounds every backend call.
	DefaultRequestTimeout = 15 * time.Second

	// DefaultAPIVersionConstraint is the semver range of backend versions this
	// client knows how to talk to.
	DefaultAPIVersionConstraint = ">= 1.0.0, < 2.0.0"

	configFileName = "config.yaml"
)

// ErrInvalidConfig is returned when a loaded configuration fails validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// BackendConfig describes the CloudCare REST backend connection.
type BackendConfig struct {
	// BaseURL is the backend root, e.g. "https://api.cloudcare.example".
	BaseURL string `yaml:"base_url"`

	// AuthToken is the bearer token attached to every request.
	AuthToken string `yaml:"auth_token"`

	// APIVersionConstraint is a semver range checked against the backend's
	// X-Api-Version response header.
	APIVersionConstraint string `yaml:"api_version_constraint"`

	// TimeoutSeconds bounds each request; 0 means the default.
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// Timeout returns the request timeout as a duration.
func (b BackendConfig) Timeout() time.Duration {
	if b.TimeoutSeconds <= 0 {
		return DefaultRequestTimeout
	}
	return time.Duration(b.TimeoutSeconds) * time.Second
}

// CacheConfig describes durable cache storage.
type CacheConfig struct {
	// Dir is the directory holding durable cache files.
	Dir string `yaml:"dir"`

	// ProfileTTLSeconds is the freshness window for the persisted profile.
	ProfileTTLSeconds int `yaml:"profile_ttl_seconds"`
}

// ProfileTTL returns the profile TTL as a duration.
func (c CacheConfig) ProfileTTL() time.Duration {
	if c.ProfileTTLSeconds <= 0 {
		return DefaultProfileTTLSeconds * time.Second
	}
	return time.Duration(c.ProfileTTLSeconds) * time.Second
}

// SyncConfig tunes the synchronization engine.
type SyncConfig struct {
	// PatientID identifies the patient whose records are synchronized.
	PatientID string `yaml:"patient_id"`

	// AndroidUserID identifies the account used for paired-device lookups.
	AndroidUserID string `yaml:"android_user_id"`

	// PrefetchDelayMS is the pacing delay between prefetch network calls.
	PrefetchDelayMS int `yaml:"prefetch_delay_ms"`

	// CalorieGoal is the daily calorie goal used for percentage mapping.
	CalorieGoal int `yaml:"calorie_goal"`
}

// PrefetchDelay returns the prefetch pacing delay as a duration.
func (s SyncConfig) PrefetchDelay() time.Duration {
	if s.PrefetchDelayMS <= 0 {
		return DefaultPrefetchDelayMS * time.Millisecond
	}
	return time.Duration(s.PrefetchDelayMS) * time.Millisecond
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// Config is the root configuration object.
type Config struct {
	Backend BackendConfig `yaml:"backend"`
	Cache   CacheConfig   `yaml:"cache"`
	Sync    SyncConfig    `yaml:"sync"`
	Logging LoggingConfig `yaml:"logging"`
}

// DefaultDir returns the healthsync home directory (~/.healthsync).
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".healthsync"
	}
	return filepath.Join(home, ".healthsync")
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), configFileName)
}

// New returns a Config populated with built-in defaults.
func New() *Config {
	return &Config{
		Backend: BackendConfig{
			APIVersionConstraint: DefaultAPIVersionConstraint,
		},
		Cache: CacheConfig{
			Dir:               filepath.Join(DefaultDir(), "cache"),
			ProfileTTLSeconds: DefaultProfileTTLSeconds,
		},
		Sync: SyncConfig{
			PrefetchDelayMS: DefaultPrefetchDelayMS,
			CalorieGoal:     DefaultCalorieGoal,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads configuration from path, falling back to defaults when the file
// does not exist, then applies environment overrides. A malformed file is an
// error; a missing one is not.
func Load(path string) (*Config, error) {
	cfg := New()

	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// No config file: defaults + environment only.
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		if unmarshalErr := yaml.Unmarshal(data, cfg); unmarshalErr != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, unmarshalErr)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overlays HEALTHSYNC_* environment variables onto the config.
func (c *Config) applyEnv() {
	if v := os.Getenv(EnvBaseURL); v != "" {
		c.Backend.BaseURL = v
	}
	if v := os.Getenv(EnvAuthToken); v != "" {
		c.Backend.AuthToken = v
	}
	if v := os.Getenv(EnvCacheDir); v != "" {
		c.Cache.Dir = v
	}
	if v := os.Getenv(EnvProfileTTL); v != "" {
		if ttl, err := strconv.Atoi(v); err == nil && ttl > 0 {
			c.Cache.ProfileTTLSeconds = ttl
		}
	}
	if v := os.Getenv(EnvPrefetchDelay); v != "" {
		if delay, err := strconv.Atoi(v); err == nil && delay > 0 {
			c.Sync.PrefetchDelayMS = delay
		}
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Logging.Format = v
	}
}

// Validate checks that the configuration is usable for network operations.
func (c *Config) Validate() error {
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("%w: backend.base_url is required", ErrInvalidConfig)
	}
	if c.Cache.ProfileTTLSeconds <= 0 {
		return fmt.Errorf("%w: cache.profile_ttl_seconds must be > 0, got %d",
			ErrInvalidConfig, c.Cache.ProfileTTLSeconds)
	}
	if c.Sync.PrefetchDelayMS < 0 {
		return fmt.Errorf("%w: sync.prefetch_delay_ms must be >= 0, got %d",
			ErrInvalidConfig, c.Sync.PrefetchDelayMS)
	}
	return nil
}

// Write serializes the config to path, creating parent directories as needed.
// Used by `healthsync config init`.
func (c *Config) Write(path string) error {
	if path == "" {
		path = DefaultPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
