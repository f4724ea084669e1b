package config

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Timeout bounds, in seconds, accepted for network requests.
const (
	MinTimeoutSeconds     = 5
	MaxTimeoutSeconds     = 25
	DefaultTimeoutSeconds = 10
)

// Setting keys as stored in the settings table.
const (
	keyTimeout                     = "timeout_seconds"
	keyLoadInBrowser               = "load_in_browser"
	keyDarkTheme                   = "dark_theme"
	keyLearnedNavigation           = "learned_navigation"
	keyLearnedPressCuttingsWarning = "learned_press_cuttings_warning"
)

// Custom errors for settings operations
var (
	ErrInvalidTimeout = fmt.Errorf("timeout_seconds must be between %d and %d", MinTimeoutSeconds, MaxTimeoutSeconds)
	ErrUnknownSetting = errors.New("unknown setting")
)

// SettingKeys lists the names accepted by Settings.Set.
func SettingKeys() []string {
	return []string{
		keyTimeout,
		keyLoadInBrowser,
		keyDarkTheme,
		keyLearnedNavigation,
		keyLearnedPressCuttingsWarning,
	}
}

// Settings are the user's reader preferences.
type Settings struct {
	TimeoutSeconds int  `json:"timeout_seconds"`
	LoadInBrowser  bool `json:"load_in_browser"`
	DarkTheme      bool `json:"dark_theme"`
	// LearnedNavigation and LearnedPressCuttingsWarning record that the
	// user has dismissed the corresponding hints.
	LearnedNavigation           bool `json:"learned_navigation"`
	LearnedPressCuttingsWarning bool `json:"learned_press_cuttings_warning"`
}

// DefaultSettings returns the settings used before anything is saved.
func DefaultSettings() Settings {
	return Settings{TimeoutSeconds: DefaultTimeoutSeconds}
}

// Timeout returns the network timeout as a duration.
func (s Settings) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// TimeoutMillis returns the network timeout in milliseconds.
func (s Settings) TimeoutMillis() int {
	return s.TimeoutSeconds * 1000
}

// Validate checks the settings before they are stored.
func (s Settings) Validate() error {
	if s.TimeoutSeconds < MinTimeoutSeconds || s.TimeoutSeconds > MaxTimeoutSeconds {
		return ErrInvalidTimeout
	}
	return nil
}

// SettingsStore manages user settings using SQLite.
type SettingsStore struct {
	db *sql.DB
}

// NewSettingsStore creates a new settings store with the given database
// path.
func NewSettingsStore(dbPath string) (*SettingsStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SettingsStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the settings table if it doesn't exist.
func (s *SettingsStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SettingsStore) Close() error {
	return s.db.Close()
}

// GetSettings retrieves the user settings. Keys that were never saved keep
// their default values.
func (s *SettingsStore) GetSettings() (*Settings, error) {
	rows, err := s.db.Query("SELECT key, value FROM settings")
	if err != nil {
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}
	defer rows.Close()

	settings := DefaultSettings()
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		// Unknown keys are skipped so older binaries can read newer databases
		if err := settings.Set(key, value); err != nil && !errors.Is(err, ErrUnknownSetting) {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	return &settings, nil
}

// Set parses value and assigns it to the setting named key.
func (s *Settings) Set(key, value string) error {
	var err error
	switch key {
	case keyTimeout:
		s.TimeoutSeconds, err = strconv.Atoi(value)
	case keyLoadInBrowser:
		s.LoadInBrowser, err = strconv.ParseBool(value)
	case keyDarkTheme:
		s.DarkTheme, err = strconv.ParseBool(value)
	case keyLearnedNavigation:
		s.LearnedNavigation, err = strconv.ParseBool(value)
	case keyLearnedPressCuttingsWarning:
		s.LearnedPressCuttingsWarning, err = strconv.ParseBool(value)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownSetting, key)
	}
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return nil
}

// UpdateSettings validates and stores every setting in one transaction.
func (s *SettingsStore) UpdateSettings(settings *Settings) error {
	if settings == nil {
		return errors.New("settings are nil")
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	values := map[string]string{
		keyTimeout:                     strconv.Itoa(settings.TimeoutSeconds),
		keyLoadInBrowser:               strconv.FormatBool(settings.LoadInBrowser),
		keyDarkTheme:                   strconv.FormatBool(settings.DarkTheme),
		keyLearnedNavigation:           strconv.FormatBool(settings.LearnedNavigation),
		keyLearnedPressCuttingsWarning: strconv.FormatBool(settings.LearnedPressCuttingsWarning),
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := "INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)"
	for key, value := range values {
		if _, err := tx.Exec(query, key, value); err != nil {
			return fmt.Errorf("failed to update settings: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit settings: %w", err)
	}
	return nil
}

// Timeout returns the stored network timeout, falling back to the default
// when the store cannot be read.
func (s *SettingsStore) Timeout() time.Duration {
	settings, err := s.GetSettings()
	if err != nil {
		return DefaultSettings().Timeout()
	}
	return settings.Timeout()
}
