package database

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Open opens (creating if needed) the embedded SQLite database and applies
// the schema. The daemon stores only small operational state here: the last
// refreshed OAuth token and the publish history.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database %s: %w", path, err)
	}
	// A single writer avoids SQLITE_BUSY between the scheduler and HTTP handlers.
	db.SetMaxOpenConns(1)

	if err := migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func migrate(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS google_oauth_token (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			access_token TEXT NOT NULL,
			refresh_token TEXT NOT NULL,
			token_type TEXT NOT NULL,
			expiry INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS publish_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			feed TEXT NOT NULL,
			topic TEXT NOT NULL,
			bytes INTEGER NOT NULL,
			item_count INTEGER NOT NULL,
			degraded INTEGER NOT NULL DEFAULT 0,
			published_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_publish_history_feed ON publish_history (feed, published_at)`,
	}
	for _, statement := range statements {
		if _, err := db.Exec(statement); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
