// Package storage provides SQLite-based persistence for interaction session
// statistics. Uses the pure-Go modernc.org/sqlite driver to avoid CGO
// dependencies. Grid state itself is never persisted; only usage counters
// survive a session.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for session persistence.
type Store struct {
	db *sql.DB
}

// SessionRecord summarizes one finished interaction session.
type SessionRecord struct {
	ID           int64
	Layout       string
	Strategy     string
	Moves        int
	Blocked      int
	Transfers    int
	Taps         int
	Flips        int
	DurationSecs int
	CreatedAt    time.Time
}

// LayoutStats contains aggregated statistics for a layout.
type LayoutStats struct {
	Layout        string
	SessionsCount int
	TotalMoves    int64
	AvgDuration   float64
	LastPlayed    time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			layout TEXT NOT NULL,
			strategy TEXT NOT NULL,
			moves INTEGER NOT NULL DEFAULT 0,
			blocked INTEGER NOT NULL DEFAULT 0,
			transfers INTEGER NOT NULL DEFAULT 0,
			taps INTEGER NOT NULL DEFAULT 0,
			flips INTEGER NOT NULL DEFAULT 0,
			duration_secs INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_layout ON sessions(layout);
		CREATE INDEX IF NOT EXISTS idx_sessions_recent ON sessions(created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveSession records a finished session.
// Returns the ID of the inserted record.
func (s *Store) SaveSession(rec SessionRecord) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO sessions (layout, strategy, moves, blocked, transfers, taps, flips, duration_secs)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Layout, rec.Strategy, rec.Moves, rec.Blocked, rec.Transfers, rec.Taps, rec.Flips, rec.DurationSecs,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save session: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// RecentSessions retrieves the most recent sessions across all layouts.
func (s *Store) RecentSessions(limit int) ([]SessionRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, layout, strategy, moves, blocked, transfers, taps, flips, duration_secs, created_at
		 FROM sessions
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sessions: %w", err)
	}
	defer rows.Close()

	var records []SessionRecord
	for rows.Next() {
		var rec SessionRecord
		var createdAt any
		if err := rows.Scan(
			&rec.ID, &rec.Layout, &rec.Strategy,
			&rec.Moves, &rec.Blocked, &rec.Transfers, &rec.Taps, &rec.Flips,
			&rec.DurationSecs, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		rec.CreatedAt = parseTimestamp(createdAt)
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return records, nil
}

// LayoutSessions retrieves the most recent sessions for one layout.
func (s *Store) LayoutSessions(layout string, limit int) ([]SessionRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, layout, strategy, moves, blocked, transfers, taps, flips, duration_secs, created_at
		 FROM sessions
		 WHERE layout = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		layout, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sessions: %w", err)
	}
	defer rows.Close()

	var records []SessionRecord
	for rows.Next() {
		var rec SessionRecord
		var createdAt any
		if err := rows.Scan(
			&rec.ID, &rec.Layout, &rec.Strategy,
			&rec.Moves, &rec.Blocked, &rec.Transfers, &rec.Taps, &rec.Flips,
			&rec.DurationSecs, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		rec.CreatedAt = parseTimestamp(createdAt)
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return records, nil
}

// GetLayoutStats retrieves aggregated statistics for a specific layout.
func (s *Store) GetLayoutStats(layout string) (*LayoutStats, error) {
	stats := &LayoutStats{Layout: layout}

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(moves), 0), COALESCE(AVG(duration_secs), 0)
		 FROM sessions WHERE layout = ?`,
		layout,
	).Scan(&stats.SessionsCount, &stats.TotalMoves, &stats.AvgDuration)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get layout stats: %w", err)
	}

	var lastPlayed any
	err = s.db.QueryRow(
		`SELECT created_at FROM sessions WHERE layout = ? ORDER BY created_at DESC LIMIT 1`,
		layout,
	).Scan(&lastPlayed)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		stats.LastPlayed = parseTimestamp(lastPlayed)
	}

	return stats, nil
}

// ClearSessions deletes all sessions for the given layout.
func (s *Store) ClearSessions(layout string) error {
	_, err := s.db.Exec("DELETE FROM sessions WHERE layout = ?", layout)
	if err != nil {
		return fmt.Errorf("storage: cannot clear sessions: %w", err)
	}
	return nil
}

// parseTimestamp handles the driver returning either time.Time or a string.
func parseTimestamp(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
