package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"tableflip.dev/calnotes/pkg/datekey"
	"tableflip.dev/calnotes/pkg/note"
)

const notesSchemaSQL = `
CREATE TABLE IF NOT EXISTS notes (
	id         TEXT PRIMARY KEY,
	note_date  TEXT NOT NULL,
	content    TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_notes_date ON notes(note_date);
`

// SQLite keeps rows in a single-table SQLite database.
type SQLite struct {
	conn *sql.DB
	path string
	now  func() time.Time
}

// OpenSQLite opens (or creates) the database at path and applies the schema.
func OpenSQLite(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("store: ensure db directory: %w", err)
		}
	}
	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := conn.Exec(notesSchemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &SQLite{conn: conn, path: path, now: time.Now}, nil
}

// Close closes the underlying database.
func (s *SQLite) Close() error {
	return s.conn.Close()
}

// Probe runs a bounded count query.
func (s *SQLite) Probe(ctx context.Context) error {
	var n int
	if err := s.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM (SELECT id FROM notes LIMIT 1)`).Scan(&n); err != nil {
		return fmt.Errorf("store: probe: %w", err)
	}
	return nil
}

func (s *SQLite) Range(ctx context.Context, start, end datekey.Key) ([]note.Row, error) {
	rs, err := s.conn.QueryContext(ctx, `
		SELECT id, note_date, content, created_at
		FROM notes
		WHERE note_date >= ? AND note_date <= ?
		ORDER BY created_at ASC, rowid ASC
	`, start.String(), end.String())
	if err != nil {
		return nil, fmt.Errorf("store: range query: %w", err)
	}
	defer rs.Close()

	rows := make([]note.Row, 0)
	for rs.Next() {
		var (
			r    note.Row
			date string
		)
		if err := rs.Scan(&r.ID, &date, &r.Content, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("store: scan row: %w", err)
		}
		r.Date = datekey.Key(date)
		rows = append(rows, r)
	}
	if err := rs.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate rows: %w", err)
	}
	return rows, nil
}

func (s *SQLite) Insert(ctx context.Context, date datekey.Key, content string) error {
	if !date.Valid() {
		return fmt.Errorf("%w: %q", datekey.ErrMalformedKey, date)
	}
	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO notes (id, note_date, content, created_at) VALUES (?, ?, ?, ?)`,
		uuid.NewString(), date.String(), content, s.now().UTC())
	if err != nil {
		return fmt.Errorf("store: insert note: %w", err)
	}
	return nil
}

func (s *SQLite) Delete(ctx context.Context, id string) error {
	if _, err := s.conn.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id); err != nil {
		return fmt.Errorf("store: delete note: %w", err)
	}
	return nil
}
