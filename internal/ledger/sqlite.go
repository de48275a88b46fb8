// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/codex-curator/pkg/types"
)

// SQLite appends transfer records to a table with no keys on the record
// itself; the same URL may appear any number of times.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path and its schema.
func OpenSQLite(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating ledger directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	const schema = `CREATE TABLE IF NOT EXISTS transfers (
		rowid INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT NOT NULL,
		file_path TEXT NOT NULL,
		recorded_at TEXT NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Append inserts rec as a new row.
func (s *SQLite) Append(ctx context.Context, rec types.TransferRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO transfers (url, file_path, recorded_at) VALUES (?, ?, ?)`,
		rec.URL, rec.FilePath, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting transfer record: %w", err)
	}
	return nil
}

// Records returns every row in insertion order. The pipeline never calls
// it; it exists for inspection and tests.
func (s *SQLite) Records(ctx context.Context) ([]types.TransferRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT url, file_path FROM transfers ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("querying transfers: %w", err)
	}
	defer rows.Close()

	var out []types.TransferRecord
	for rows.Next() {
		var rec types.TransferRecord
		if err := rows.Scan(&rec.URL, &rec.FilePath); err != nil {
			return nil, fmt.Errorf("scanning transfer: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Close releases the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}
