// Package cache remembers the last listing fetched for each source so a
// reader can show it again without going back to the network.
package cache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pevans/crimetalk/scraper"
)

// ErrSnapshotNotFound is returned when no snapshot exists for a source.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Snapshot is the listing last fetched for one source.
type Snapshot struct {
	SnapshotID uuid.UUID                `json:"snapshot_id"`
	SourceURL  string                   `json:"source_url"`
	FetchedAt  time.Time                `json:"fetched_at"`
	Items      []scraper.ArticleSummary `json:"items"`
}

// SnapshotStore manages listing snapshots using SQLite.
type SnapshotStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSnapshotStore creates a new snapshot store with the given database
// path.
func NewSnapshotStore(dbPath string) (*SnapshotStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SnapshotStore{db: db, now: time.Now}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the snapshots table if it doesn't exist.
func (s *SnapshotStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		source_url TEXT PRIMARY KEY,
		snapshot_id TEXT NOT NULL,
		fetched_at TEXT NOT NULL,
		items TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SnapshotStore) Close() error {
	return s.db.Close()
}

// Save replaces the snapshot for sourceURL with items under a new
// snapshot ID.
func (s *SnapshotStore) Save(sourceURL string, items []scraper.ArticleSummary) (*Snapshot, error) {
	if sourceURL == "" {
		return nil, errors.New("source URL is required")
	}
	if items == nil {
		items = []scraper.ArticleSummary{}
	}

	snapshot := &Snapshot{
		SnapshotID: uuid.New(),
		SourceURL:  sourceURL,
		FetchedAt:  s.now().Truncate(0),
		Items:      items,
	}

	data, err := json.Marshal(snapshot.Items)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal items: %w", err)
	}

	query := `
		INSERT OR REPLACE INTO snapshots (source_url, snapshot_id, fetched_at, items)
		VALUES (?, ?, ?, ?)
	`
	if _, err := s.db.Exec(query,
		snapshot.SourceURL,
		snapshot.SnapshotID.String(),
		formatTime(snapshot.FetchedAt),
		string(data),
	); err != nil {
		return nil, fmt.Errorf("failed to save snapshot: %w", err)
	}

	return snapshot, nil
}

// Get retrieves the snapshot for sourceURL.
func (s *SnapshotStore) Get(sourceURL string) (*Snapshot, error) {
	query := `
		SELECT source_url, snapshot_id, fetched_at, items
		FROM snapshots
		WHERE source_url = ?
	`

	var url, idStr, fetchedAtStr, itemsJSON string
	err := s.db.QueryRow(query, sourceURL).Scan(&url, &idStr, &fetchedAtStr, &itemsJSON)
	if err == sql.ErrNoRows {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot: %w", err)
	}

	return scanSnapshot(url, idStr, fetchedAtStr, itemsJSON)
}

// Delete removes the snapshot for sourceURL.
func (s *SnapshotStore) Delete(sourceURL string) error {
	result, err := s.db.Exec("DELETE FROM snapshots WHERE source_url = ?", sourceURL)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrSnapshotNotFound
	}

	return nil
}

// List returns every snapshot ordered by source URL.
func (s *SnapshotStore) List() ([]Snapshot, error) {
	query := `
		SELECT source_url, snapshot_id, fetched_at, items
		FROM snapshots
		ORDER BY source_url
	`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := []Snapshot{}
	for rows.Next() {
		var url, idStr, fetchedAtStr, itemsJSON string
		if err := rows.Scan(&url, &idStr, &fetchedAtStr, &itemsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}

		snapshot, err := scanSnapshot(url, idStr, fetchedAtStr, itemsJSON)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, *snapshot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read snapshots: %w", err)
	}

	return snapshots, nil
}

func scanSnapshot(url, idStr, fetchedAtStr, itemsJSON string) (*Snapshot, error) {
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse snapshot_id: %w", err)
	}

	var items []scraper.ArticleSummary
	if err := json.Unmarshal([]byte(itemsJSON), &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal items: %w", err)
	}
	if items == nil {
		items = []scraper.ArticleSummary{}
	}

	return &Snapshot{
		SnapshotID: id,
		SourceURL:  url,
		FetchedAt:  parseTime(fetchedAtStr),
		Items:      items,
	}, nil
}

func formatTime(t time.Time) string {
	// Strip monotonic clock for consistent storage and comparisons
	return t.Truncate(0).Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	// Try RFC3339Nano first, fall back to RFC3339 for compatibility
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		t, _ = time.Parse(time.RFC3339, s)
	}
	return t.Truncate(0)
}
