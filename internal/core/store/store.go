// Package store keeps a queryable history of processed recordings in a
// local SQLite database. The journal text files stay the source of truth;
// the database exists for the status command and date-range lookups.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Record kinds.
const (
	KindTranscript = "transcript"
	KindOrganized  = "organized"
	KindSummary    = "summary"
)

// Record is one processed artifact.
type Record struct {
	ID         string
	Kind       string
	Date       string // YYYY-MM-DD the entry belongs to
	SourceFile string // audio or journal file the record came from
	Content    string
	CreatedAt  time.Time
}

// RecordStore persists processing history.
type RecordStore interface {
	Save(ctx context.Context, rec Record) (string, error)
	Latest(ctx context.Context, n int) ([]Record, error)
	ByDateRange(ctx context.Context, from, to string) ([]Record, error)
	Close() error
}

// SQLite implements RecordStore on a local database file.
type SQLite struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS records (
	id          TEXT PRIMARY KEY,
	kind        TEXT NOT NULL,
	date        TEXT NOT NULL,
	source_file TEXT NOT NULL DEFAULT '',
	content     TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_records_date ON records(date);
CREATE INDEX IF NOT EXISTS idx_records_created ON records(created_at);
`

// Open opens (creating if needed) the database at path.
func Open(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Save inserts a record and returns its generated id.
func (s *SQLite) Save(ctx context.Context, rec Record) (string, error) {
	id := rec.ID
	if id == "" {
		id = uuid.NewString()
	}
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO records (id, kind, date, source_file, content, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, rec.Kind, rec.Date, rec.SourceFile, rec.Content, createdAt,
	)
	if err != nil {
		return "", fmt.Errorf("failed to save record: %w", err)
	}
	return id, nil
}

// Latest returns the n most recent records, newest first.
func (s *SQLite) Latest(ctx context.Context, n int) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, date, source_file, content, created_at
		 FROM records ORDER BY created_at DESC, id LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// ByDateRange returns records whose entry date falls in [from, to],
// both YYYY-MM-DD inclusive, oldest first.
func (s *SQLite) ByDateRange(ctx context.Context, from, to string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, date, source_file, content, created_at
		 FROM records WHERE date >= ? AND date <= ?
		 ORDER BY date, created_at`, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func scanRecords(rows *sql.Rows) ([]Record, error) {
	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.Kind, &r.Date, &r.SourceFile, &r.Content, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}
	return out, nil
}
