package store

import (
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// journalPragmas are applied to every connection before the schema.
var journalPragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA synchronous = NORMAL",
	"PRAGMA busy_timeout = 5000",
	"PRAGMA foreign_keys = ON",
}

// journalUpgrades[v] moves a journal from user_version v to v+1. Each one
// must be a no-op on a journal created from the current schema.sql.
var journalUpgrades = []func(*sql.Tx) error{
	addHistoryIndex,
	addCallNote,
}

// JournalVersion is the user_version of an up to date journal.
var JournalVersion = len(journalUpgrades)

// Store holds the sync settings and the cycle journal in one SQLite file.
type Store struct {
	db *sql.DB
}

// Open opens or creates the journal at path and brings it to
// JournalVersion. Opening the same file again is safe. The path ":memory:"
// gives a private journal for tests and scenarios.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}
	// One connection: the engine is the only writer and an in-memory
	// journal lives on a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, p := range journalPragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("open journal: %q: %w", p, err)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("open journal: schema: %w", err)
	}
	if err := upgrade(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the journal. A zero Store closes cleanly.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// upgrade runs the journal upgrades past the stored user_version, each in
// its own transaction together with the version bump.
func upgrade(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("journal version: %w", err)
	}
	if version > JournalVersion {
		return fmt.Errorf("journal version %d is newer than supported %d", version, JournalVersion)
	}
	for v := version; v < JournalVersion; v++ {
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("upgrade journal to v%d: %w", v+1, err)
		}
		if err := journalUpgrades[v](tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("upgrade journal to v%d: %w", v+1, err)
		}
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", v+1)); err != nil {
			tx.Rollback()
			return fmt.Errorf("upgrade journal to v%d: %w", v+1, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("upgrade journal to v%d: %w", v+1, err)
		}
	}
	return nil
}

// addHistoryIndex backs history filtering by kind.
func addHistoryIndex(tx *sql.Tx) error {
	_, err := tx.Exec(`CREATE INDEX IF NOT EXISTS idx_cycles_kind_seq ON cycles(kind, seq)`)
	return err
}

// addCallNote adds the per-call note used for leg constraint windows.
func addCallNote(tx *sql.Tx) error {
	var n int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM pragma_table_info('commands') WHERE name = 'note'`).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	_, err := tx.Exec(`ALTER TABLE commands ADD COLUMN note TEXT NOT NULL DEFAULT ''`)
	return err
}
