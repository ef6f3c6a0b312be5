// Package profilecache provides the durable, TTL-checked cache for the patient
// profile.
//
// The cache holds exactly one record, stored as a JSON file under the
// healthsync cache directory. Writes are atomic (temp file + rename) and a
// corrupt or unreadable file is treated as cache-absent rather than surfaced
// as an error: the profile repository decides whether an expired entry is
// still worth serving, so the cache itself never loses data to a failed
// freshness check.
package profilecache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// profileFileName is the durable cache file name within the cache directory.
const profileFileName = "profile.json"

// DefaultTTL is the profile freshness window.
const DefaultTTL = 5 * time.Minute

// ErrInvalidCacheDir is returned when the store is created without a directory.
var ErrInvalidCacheDir = errors.New("cache directory cannot be empty")

// FileStore persists a single CachedProfile to disk. Thread-safe.
type FileStore struct {
	directory string
	ttl       time.Duration
	mu        sync.RWMutex
}

// NewFileStore creates the store, creating the cache directory if needed.
// A non-positive TTL falls back to DefaultTTL.
func NewFileStore(directory string, ttl time.Duration) (*FileStore, error) {
	if directory == "" {
		return nil, ErrInvalidCacheDir
	}

	if err := os.MkdirAll(directory, 0750); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &FileStore{directory: directory, ttl: ttl}, nil
}

// Read loads the cached profile from disk. The second return value is false
// when no profile was ever written or the file is corrupt; corruption is
// swallowed here and treated as absence.
func (s *FileStore) Read() (*CachedProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path())
	if err != nil {
		return nil, false
	}

	var cached CachedProfile
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, false
	}
	return &cached, true
}

// Write stores the profile with the current timestamp, overwriting any prior
// value wholesale. The write goes to a temp file first and is renamed into
// place for atomicity.
func (s *FileStore) Write(cached *CachedProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cached.WrittenAt.IsZero() {
		cached.WrittenAt = time.Now()
	}

	data, err := json.MarshalIndent(cached, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cached profile: %w", err)
	}

	filePath := s.path()
	tempPath := filePath + ".tmp"
	if writeErr := os.WriteFile(tempPath, data, 0600); writeErr != nil {
		return fmt.Errorf("failed to write profile cache file: %w", writeErr)
	}

	if renameErr := os.Rename(tempPath, filePath); renameErr != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename profile cache file: %w", renameErr)
	}

	return nil
}

// IsValid reports whether cached is still within the freshness window.
func (s *FileStore) IsValid(cached *CachedProfile) bool {
	if cached == nil {
		return false
	}
	return time.Since(cached.WrittenAt) < s.ttl
}

// TTL returns the configured freshness window.
func (s *FileStore) TTL() time.Duration {
	return s.ttl
}

// Clear removes the durable entry. Idempotent: a missing file is not an error.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path())
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete profile cache file: %w", err)
	}
	return nil
}

func (s *FileStore) path() string {
	return filepath.Join(s.directory, profileFileName)
}
