package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/fpsync/internal/fms"
	"github.com/roach88/fpsync/internal/store"
)

const worldYAML = `
host:
  plan:
    cruising_altitude: 35000
    waypoints:
      - {type: A, ident: KJFK}
      - {region: K6, ident: WPT1}
      - {type: A, ident: KLAX}
fms:
  active:
    origin: KJFK
    destination: KLAX
    cruise_flight_level: 350
    enroute_legs:
      - leg: {waypoint: {database_id: "WK6    WPT1 ", ident: WPT1}}
`

// fastConfig keeps load runs from sleeping.
const fastConfig = `
poll: {
	initial_delay: "0s"
	interval:      "0s"
	max_attempts:  3
}
`

// testEnv is a temporary database, fixture and config.
type testEnv struct {
	dir     string
	db      string
	fixture string
	config  string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	env := &testEnv{
		dir:     dir,
		db:      filepath.Join(dir, "fpsync.db"),
		fixture: filepath.Join(dir, "world.yaml"),
		config:  filepath.Join(dir, "fpsync.cue"),
	}
	require.NoError(t, os.WriteFile(env.fixture, []byte(worldYAML), 0o644))
	require.NoError(t, os.WriteFile(env.config, []byte(fastConfig), 0o644))
	return env
}

func (e *testEnv) rootOpts(format string) *RootOptions {
	return &RootOptions{Format: format, ConfigPath: e.config, Database: e.db}
}

// lockedBuffer is a bytes.Buffer safe for a writer goroutine.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}

func openEnvStore(t *testing.T, env *testEnv) *store.Store {
	t.Helper()
	st, err := store.Open(env.db)
	require.NoError(t, err)
	return st
}

func savedSnapshot() *fms.FlightPlanSnapshot {
	return &fms.FlightPlanSnapshot{
		OriginAirport:      "KJFK",
		DestinationAirport: "KLAX",
		CruiseFlightLevel:  350,
	}
}

