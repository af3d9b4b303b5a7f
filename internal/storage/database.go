package storage

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// New opens a SQLite database connection at the given path.
// It enables foreign keys on every pooled connection and sets pool settings.
func New(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, err
	}

	if path == MemoryPath {
		// Each connection would otherwise see its own empty database.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
	}
	db.SetConnMaxLifetime(5 * time.Minute)

	// Verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate creates the build manifest tables.
// It is idempotent and can be run multiple times safely.
func Migrate(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS builds (
			id TEXT PRIMARY KEY,
			site TEXT NOT NULL,
			started_at TEXT NOT NULL,
			finished_at TEXT,
			documents INTEGER NOT NULL DEFAULT 0,
			chunks INTEGER NOT NULL DEFAULT 0,
			vocabulary_size INTEGER NOT NULL DEFAULT 0,
			tokenizer_version TEXT NOT NULL,
			index_version TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE INDEX IF NOT EXISTS idx_builds_site_finished ON builds (site, finished_at);`,
		`CREATE TABLE IF NOT EXISTS files (
			build_id TEXT NOT NULL,
			rel_path TEXT NOT NULL,
			hash TEXT NOT NULL,
			chunk_count INTEGER NOT NULL,
			PRIMARY KEY (build_id, rel_path),
			FOREIGN KEY (build_id) REFERENCES builds(id) ON DELETE CASCADE
		);`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
