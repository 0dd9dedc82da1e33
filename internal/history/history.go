// Package history archives finished coding-assistant sessions in a local
// SQLite database so they survive log-directory cleanup.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Coxless/wtenv/internal/task"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	session_id    TEXT PRIMARY KEY,
	working_area  TEXT NOT NULL,
	status        TEXT NOT NULL,
	started_at    INTEGER NOT NULL,
	ended_at      INTEGER NOT NULL,
	last_activity TEXT NOT NULL,
	event_count   INTEGER NOT NULL
);
`

// Entry is one archived session.
type Entry struct {
	SessionID    string
	WorkingArea  string
	Status       string
	StartedAt    time.Time
	EndedAt      time.Time
	LastActivity string
	EventCount   int
}

// Store wraps the archive database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the archive at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// RecordTasks upserts every terminal task. Non-terminal tasks are skipped;
// repeated recording of the same session is idempotent (last write wins, and
// a finished session's fold no longer changes).
func (s *Store) RecordTasks(tasks []task.ClaudeTask) error {
	for _, t := range tasks {
		if !t.Ended && !t.Status.Terminal() {
			continue
		}
		_, err := s.db.Exec(`
			INSERT INTO sessions (session_id, working_area, status, started_at, ended_at, last_activity, event_count)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(session_id) DO UPDATE SET
				working_area = excluded.working_area,
				status = excluded.status,
				ended_at = excluded.ended_at,
				last_activity = excluded.last_activity,
				event_count = excluded.event_count`,
			t.SessionID, t.WorkingArea, string(t.Status),
			t.StartedAt.Unix(), t.LastActivityAt.Unix(),
			t.LastActivity, t.EventCount,
		)
		if err != nil {
			return fmt.Errorf("record session %s: %w", t.SessionID, err)
		}
	}
	return nil
}

// Recent returns up to limit archived sessions, most recently ended first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	rows, err := s.db.Query(`
		SELECT session_id, working_area, status, started_at, ended_at, last_activity, event_count
		FROM sessions ORDER BY ended_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var started, ended int64
		if err := rows.Scan(&e.SessionID, &e.WorkingArea, &e.Status, &started, &ended, &e.LastActivity, &e.EventCount); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		e.StartedAt = time.Unix(started, 0).UTC()
		e.EndedAt = time.Unix(ended, 0).UTC()
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// DefaultPath returns ~/.local/share/wtenv/history.db.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".local", "share", "wtenv", "history.db")
	}
	return filepath.Join(home, ".local", "share", "wtenv", "history.db")
}
