package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"spotlike/internal/shared"
)

// HistoryEntry records one verified mutation against the user's library.
type HistoryEntry struct {
	ID        string
	TrackID   string
	TrackName string
	Artist    string
	Action    string // "like", "unlike", or "save"
	Converged bool
	Attempts  int
	Elapsed   time.Duration
	CreatedAt time.Time
}

// HistoryRepository persists action history entries to SQLite.
type HistoryRepository struct {
	db *sql.DB
}

// NewHistoryRepository creates a new HistoryRepository with the given database connection
func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Init creates the history table if it does not exist.
func (r *HistoryRepository) Init() error {
	query := `
		CREATE TABLE IF NOT EXISTS action_history (
			id TEXT PRIMARY KEY,
			track_id TEXT NOT NULL,
			track_name TEXT NOT NULL,
			artist TEXT NOT NULL,
			action TEXT NOT NULL,
			converged INTEGER NOT NULL,
			attempts INTEGER NOT NULL,
			elapsed_ms INTEGER NOT NULL,
			created_at TIMESTAMP NOT NULL
		)
	`
	if _, err := r.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create action_history table: %w", err)
	}
	return nil
}

// Create inserts a new history entry, generating its ID and timestamp.
func (r *HistoryRepository) Create(entry *HistoryEntry) error {
	if entry.TrackID == "" || entry.Action == "" {
		return fmt.Errorf("%w: history entry requires track_id and action", shared.ErrInvalidInput)
	}

	entry.ID = shared.GenerateID()
	entry.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO action_history (id, track_id, track_name, artist, action, converged, attempts, elapsed_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		entry.ID, entry.TrackID, entry.TrackName, entry.Artist, entry.Action,
		entry.Converged, entry.Attempts, entry.Elapsed.Milliseconds(), entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert history entry: %w", err)
	}

	return nil
}

// List returns the most recent entries, newest first, up to limit.
func (r *HistoryRepository) List(limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, track_id, track_name, artist, action, converged, attempts, elapsed_ms, created_at
		FROM action_history
		ORDER BY created_at DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var entry HistoryEntry
		var elapsedMS int64
		if err := rows.Scan(&entry.ID, &entry.TrackID, &entry.TrackName, &entry.Artist,
			&entry.Action, &entry.Converged, &entry.Attempts, &elapsedMS, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entry.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history rows: %w", err)
	}

	return entries, nil
}
