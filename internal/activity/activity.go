// Package activity persists per-user link activity in SQLite: visited and
// saved link hashes, hidden templates, and suggestion domains the user has
// marked irrelevant.
package activity

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS link_marks (
	hash       TEXT PRIMARY KEY,
	visited    INTEGER NOT NULL DEFAULT 0,
	saved      INTEGER NOT NULL DEFAULT 0,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS hidden_links (
	record_id TEXT NOT NULL DEFAULT '',
	hash      TEXT NOT NULL,
	UNIQUE(record_id, hash)
);

CREATE INDEX IF NOT EXISTS idx_hidden_record ON hidden_links(record_id);

CREATE TABLE IF NOT EXISTS skipped_domains (
	domain TEXT PRIMARY KEY
);
`

// Store wraps a sql.DB with activity-specific operations.
type Store struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*Store, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("activity: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("activity: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("activity: apply schema: %w", err)
	}
	return &Store{conn: conn}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}
