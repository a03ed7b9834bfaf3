// Package state persists the document signature store: the mapping from
// document identifier to the cheap content signature last folded into the
// master dataset.
package state

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS document_state (
	path       TEXT PRIMARY KEY,
	signature  TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
);`

// Store is the SQLite-backed signature store.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewStore opens (creating if needed) the signature database at dbPath.
func NewStore(dbPath string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating state directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening state database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating state schema: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Signature is the cheap content proxy for change detection: byte size
// plus modification time at second precision.
func Signature(fi os.FileInfo) string {
	return strconv.FormatInt(fi.Size(), 10) + "-" + strconv.FormatInt(fi.ModTime().Unix(), 10)
}

// Load reads all stored signatures.
func (s *Store) Load(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT path, signature FROM document_state`)
	if err != nil {
		return nil, fmt.Errorf("loading signatures: %w", err)
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var path, sig string
		if err := rows.Scan(&path, &sig); err != nil {
			return nil, fmt.Errorf("scanning signature row: %w", err)
		}
		out[path] = sig
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating signatures: %w", err)
	}
	return out, nil
}

// Put upserts all given signatures in one transaction. Callers invoke it
// only after the master dataset write has succeeded, so a crash never
// marks a document done whose records were not persisted.
func (s *Store) Put(ctx context.Context, sigs map[string]string) error {
	if len(sigs) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning state tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO document_state (path, signature, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET signature = excluded.signature, updated_at = excluded.updated_at`)
	if err != nil {
		return fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for path, sig := range sigs {
		if _, err := stmt.ExecContext(ctx, path, sig, now); err != nil {
			return fmt.Errorf("upserting signature for %s: %w", path, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing state tx: %w", err)
	}
	s.logger.Debug("state.signatures.saved", "count", len(sigs))
	return nil
}
