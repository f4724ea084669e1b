package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper: create a test settings store
func createTestSettingsStore(t *testing.T) *SettingsStore {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")
	store, err := NewSettingsStore(dbPath)
	require.NoError(t, err, "should create settings store")
	t.Cleanup(func() { store.Close() })
	return store
}

// TestGetSettings_Default verifies defaults are returned when nothing is
// stored
func TestGetSettings_Default(t *testing.T) {
	store := createTestSettingsStore(t)

	settings, err := store.GetSettings()
	require.NoError(t, err)
	require.NotNil(t, settings)
	assert.Equal(t, DefaultSettings(), *settings)
	assert.Equal(t, 10, settings.TimeoutSeconds)
	assert.Equal(t, 10000, settings.TimeoutMillis())
	assert.Equal(t, 10*time.Second, settings.Timeout())
	assert.False(t, settings.LoadInBrowser)
	assert.False(t, settings.DarkTheme)
}

// TestUpdateSettings_Success verifies every field round-trips
func TestUpdateSettings_Success(t *testing.T) {
	store := createTestSettingsStore(t)

	want := Settings{
		TimeoutSeconds:              25,
		LoadInBrowser:               true,
		DarkTheme:                   true,
		LearnedNavigation:           true,
		LearnedPressCuttingsWarning: true,
	}
	require.NoError(t, store.UpdateSettings(&want))

	got, err := store.GetSettings()
	require.NoError(t, err)
	assert.Equal(t, want, *got)
	assert.Equal(t, 25*time.Second, store.Timeout())
}

// TestUpdateSettings_Overwrites verifies updating replaces old values
func TestUpdateSettings_Overwrites(t *testing.T) {
	store := createTestSettingsStore(t)

	require.NoError(t, store.UpdateSettings(&Settings{TimeoutSeconds: 5, DarkTheme: true}))
	require.NoError(t, store.UpdateSettings(&Settings{TimeoutSeconds: 15}))

	got, err := store.GetSettings()
	require.NoError(t, err)
	assert.Equal(t, 15, got.TimeoutSeconds)
	assert.False(t, got.DarkTheme)
}

// TestUpdateSettings_TimeoutBounds verifies the 5..25 second range
func TestUpdateSettings_TimeoutBounds(t *testing.T) {
	store := createTestSettingsStore(t)

	tests := []struct {
		seconds int
		valid   bool
	}{
		{4, false},
		{5, true},
		{25, true},
		{26, false},
		{0, false},
	}

	for _, tt := range tests {
		err := store.UpdateSettings(&Settings{TimeoutSeconds: tt.seconds})
		if tt.valid {
			assert.NoError(t, err, "%d seconds should be accepted", tt.seconds)
		} else {
			assert.ErrorIs(t, err, ErrInvalidTimeout, "%d seconds should be rejected", tt.seconds)
		}
	}

	got, err := store.GetSettings()
	require.NoError(t, err)
	assert.Equal(t, 25, got.TimeoutSeconds, "rejected updates leave the store unchanged")
}

// TestUpdateSettings_Nil verifies nil settings are rejected
func TestUpdateSettings_Nil(t *testing.T) {
	store := createTestSettingsStore(t)
	assert.Error(t, store.UpdateSettings(nil))
}

// TestGetSettings_CorruptValue verifies unparsable values are reported
func TestGetSettings_CorruptValue(t *testing.T) {
	store := createTestSettingsStore(t)

	_, err := store.db.Exec("INSERT INTO settings (key, value) VALUES (?, ?)", keyDarkTheme, "maybe")
	require.NoError(t, err)

	_, err = store.GetSettings()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid value for dark_theme")
	assert.Equal(t, DefaultSettings().Timeout(), store.Timeout(), "timeout falls back to default")
}

// TestGetSettings_UnknownKeyIgnored verifies forward compatibility
func TestGetSettings_UnknownKeyIgnored(t *testing.T) {
	store := createTestSettingsStore(t)

	_, err := store.db.Exec("INSERT INTO settings (key, value) VALUES (?, ?)", "font_size", "large")
	require.NoError(t, err)

	got, err := store.GetSettings()
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), *got)
}

// TestNewSettingsStore_ExistingDatabase verifies reopening keeps data
func TestNewSettingsStore_ExistingDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store1, err := NewSettingsStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, store1.UpdateSettings(&Settings{TimeoutSeconds: 20, LoadInBrowser: true}))
	require.NoError(t, store1.Close())

	store2, err := NewSettingsStore(dbPath)
	require.NoError(t, err)
	defer store2.Close()

	got, err := store2.GetSettings()
	require.NoError(t, err)
	assert.Equal(t, 20, got.TimeoutSeconds)
	assert.True(t, got.LoadInBrowser)
}

// TestSettingsSet verifies parsing of individual settings
func TestSettingsSet(t *testing.T) {
	settings := DefaultSettings()

	require.NoError(t, settings.Set("timeout_seconds", "20"))
	require.NoError(t, settings.Set("load_in_browser", "true"))
	require.NoError(t, settings.Set("dark_theme", "1"))
	assert.Equal(t, 20, settings.TimeoutSeconds)
	assert.True(t, settings.LoadInBrowser)
	assert.True(t, settings.DarkTheme)

	assert.ErrorIs(t, settings.Set("font_size", "large"), ErrUnknownSetting)

	err := settings.Set("timeout_seconds", "ten")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid value for timeout_seconds")

	assert.Len(t, SettingKeys(), 5)
	for _, key := range SettingKeys() {
		assert.NotErrorIs(t, settings.Set(key, "1"), ErrUnknownSetting, key)
	}
}
