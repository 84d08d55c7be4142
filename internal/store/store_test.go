package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err, "database file was not created")
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 3; i++ {
		s, err := Open(path)
		require.NoError(t, err, "iteration %d", i)
		require.NoError(t, s.Close())
	}
}

func TestOpen_Pragmas(t *testing.T) {
	s := createTestStore(t)

	assert.Equal(t, "wal", pragma(t, s.db, "journal_mode"))
	assert.Equal(t, "1", pragma(t, s.db, "foreign_keys"))
	assert.Equal(t, "2", pragma(t, s.db, "user_version"))
}

func TestOpen_UpgradesV1Journal(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "v1.db")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = db.Exec(`
		CREATE TABLE cycles (
			id TEXT PRIMARY KEY, seq INTEGER NOT NULL UNIQUE, kind TEXT NOT NULL,
			outcome TEXT NOT NULL, error TEXT NOT NULL DEFAULT '',
			commands INTEGER NOT NULL DEFAULT 0, snapshot BLOB
		);
		CREATE TABLE commands (
			cycle_id TEXT NOT NULL REFERENCES cycles(id) ON DELETE CASCADE,
			idx INTEGER NOT NULL, side TEXT NOT NULL, name TEXT NOT NULL,
			args BLOB, failed INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (cycle_id, idx)
		);
		CREATE INDEX idx_cycles_kind_seq ON cycles(kind, seq);
		INSERT INTO cycles (id, seq, kind, outcome, commands) VALUES ('old', 1, 'load', 'completed', 1);
		INSERT INTO commands (cycle_id, idx, side, name) VALUES ('old', 0, 'host', 'LOAD_CURRENT_ATC_FLIGHTPLAN');
		PRAGMA user_version = 1;
	`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, "2", pragma(t, s.db, "user_version"))
	old, err := s.ReadCycle(ctx, "old")
	require.NoError(t, err)
	assert.Equal(t, []Call{{Side: "host", Name: "LOAD_CURRENT_ATC_FLIGHTPLAN"}}, old.Calls)

	noted := Cycle{ID: "new", Seq: 2, Kind: "save", Outcome: "completed", Calls: []Call{
		{Side: "host", Name: "ADD_WAYPOINT", Args: []any{"W K6    WPT1 ", 1, false}, Note: "alt 11000..+Inf"},
	}}
	require.NoError(t, s.WriteCycle(ctx, noted))
	got, err := s.ReadCycle(ctx, "new")
	require.NoError(t, err)
	assert.Equal(t, "alt 11000..+Inf", got.Calls[0].Note)
}

func TestOpen_RejectsNewerJournal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "future.db")
	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.db.Exec("PRAGMA user_version = 99")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = Open(path)
	assert.ErrorContains(t, err, "newer than supported")
}

func TestOpen_InvalidPath(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing", "dir", "test.db"))
	assert.Error(t, err)
}

func TestClose_NilDB(t *testing.T) {
	assert.NoError(t, (&Store{}).Close())
}
