package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Transcription is one saved transcription-history record.
type Transcription struct {
	ID        int64
	Text      string
	Model     string
	CreatedAt time.Time
}

// TranscriptionStore holds the transcription history in SQLite at
// <dir>/transcriptions.db with an in-memory view on top, matching the
// Clear/Save store contract.
type TranscriptionStore struct {
	db *sql.DB

	mu      sync.Mutex
	entries []Transcription
}

var _ Store = (*TranscriptionStore)(nil)

// OpenTranscriptions opens (and creates if needed) the history database and
// loads the persisted rows into memory.
func OpenTranscriptions(ctx context.Context, dir string) (*TranscriptionStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create stores directory: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, "transcriptions.db"))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := db.ExecContext(pctx, "PRAGMA busy_timeout = 5000;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy_timeout: %w", err)
	}
	if _, err := db.ExecContext(pctx, `CREATE TABLE IF NOT EXISTS transcriptions (
  id         INTEGER PRIMARY KEY AUTOINCREMENT,
  text       TEXT NOT NULL,
  model      TEXT NOT NULL DEFAULT '',
  created_at TEXT NOT NULL
);`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap transcriptions table: %w", err)
	}

	s := &TranscriptionStore{db: db}
	if err := s.load(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *TranscriptionStore) load(ctx context.Context) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, text, model, created_at FROM transcriptions ORDER BY id;")
	if err != nil {
		return fmt.Errorf("read transcriptions: %w", err)
	}
	defer rows.Close()

	var entries []Transcription
	for rows.Next() {
		var tr Transcription
		var created string
		if err := rows.Scan(&tr.ID, &tr.Text, &tr.Model, &created); err != nil {
			return fmt.Errorf("scan transcription: %w", err)
		}
		tr.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		entries = append(entries, tr)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate transcriptions: %w", err)
	}

	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()
	return nil
}

func (s *TranscriptionStore) Name() string { return "transcriptions" }

// Append records a new transcription in memory and persists it immediately.
func (s *TranscriptionStore) Append(ctx context.Context, text, model string) error {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO transcriptions(text, model, created_at) VALUES(?, ?, ?);",
		text, model, now.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert transcription: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("read insert id: %w", err)
	}

	s.mu.Lock()
	s.entries = append(s.entries, Transcription{ID: id, Text: text, Model: model, CreatedAt: now})
	s.mu.Unlock()
	return nil
}

// History returns a copy of the in-memory view.
func (s *TranscriptionStore) History() []Transcription {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Transcription, len(s.entries))
	copy(out, s.entries)
	return out
}

// Clear empties the in-memory view.
func (s *TranscriptionStore) Clear() {
	s.mu.Lock()
	s.entries = nil
	s.mu.Unlock()
}

// Save makes the persisted rows match the in-memory view inside one
// transaction.
func (s *TranscriptionStore) Save() error {
	s.mu.Lock()
	entries := make([]Transcription, len(s.entries))
	copy(entries, s.entries)
	s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM transcriptions;"); err != nil {
		return fmt.Errorf("clear transcriptions: %w", err)
	}
	for _, tr := range entries {
		if _, err := tx.Exec(
			"INSERT INTO transcriptions(id, text, model, created_at) VALUES(?, ?, ?, ?);",
			tr.ID, tr.Text, tr.Model, tr.CreatedAt.Format(time.RFC3339Nano)); err != nil {
			return fmt.Errorf("write transcription %d: %w", tr.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *TranscriptionStore) Close() error {
	return s.db.Close()
}
