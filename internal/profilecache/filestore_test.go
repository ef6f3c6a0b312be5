package profilecache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/healthsync/internal/api"
)

func testProfile() api.Profile {
	return api.Profile{
		ID:        "patient-001",
		Name:      "Asha Rao",
		Age:       34,
		Gender:    "Female",
		BloodType: "O+",
		Contact:   "+911234567890",
		Email:     "asha@example.com",
	}
}

func TestFileStoreWriteRead(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), DefaultTTL)
	require.NoError(t, err)

	_, ok := store.Read()
	assert.False(t, ok, "empty cache should read as absent")

	require.NoError(t, store.Write(&CachedProfile{Profile: testProfile()}))

	cached, ok := store.Read()
	require.True(t, ok)
	assert.Equal(t, "patient-001", cached.Profile.ID)
	assert.Equal(t, "Asha Rao", cached.Profile.Name)
	assert.WithinDuration(t, time.Now(), cached.WrittenAt, time.Second)
	assert.True(t, store.IsValid(cached))
}

func TestFileStoreOverwrite(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), DefaultTTL)
	require.NoError(t, err)

	first := testProfile()
	require.NoError(t, store.Write(&CachedProfile{Profile: first}))

	second := testProfile()
	second.Name = "Asha R. Rao"
	require.NoError(t, store.Write(&CachedProfile{Profile: second}))

	cached, ok := store.Read()
	require.True(t, ok)
	assert.Equal(t, "Asha R. Rao", cached.Profile.Name)
}

func TestFileStoreTTL(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), 50*time.Millisecond)
	require.NoError(t, err)

	expired := &CachedProfile{
		Profile:   testProfile(),
		WrittenAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, store.Write(expired))

	cached, ok := store.Read()
	require.True(t, ok, "expired entry is still readable")
	assert.False(t, store.IsValid(cached), "but no longer valid")
	assert.Greater(t, cached.Age(), 50*time.Millisecond)
}

func TestFileStoreCorruptFile(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir, DefaultTTL)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, profileFileName), []byte("{not json"), 0600))

	// Corruption is swallowed and treated as absence.
	_, ok := store.Read()
	assert.False(t, ok)
}

func TestFileStoreClear(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), DefaultTTL)
	require.NoError(t, err)

	require.NoError(t, store.Write(&CachedProfile{Profile: testProfile()}))
	require.NoError(t, store.Clear())

	_, ok := store.Read()
	assert.False(t, ok)

	// Clearing an empty cache is idempotent.
	require.NoError(t, store.Clear())
}

func TestFileStoreValidation(t *testing.T) {
	_, err := NewFileStore("", DefaultTTL)
	assert.ErrorIs(t, err, ErrInvalidCacheDir)

	store, err := NewFileStore(t.TempDir(), 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultTTL, store.TTL())
}

func TestFileStoreIsValidNil(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), DefaultTTL)
	require.NoError(t, err)
	assert.False(t, store.IsValid(nil))
}
