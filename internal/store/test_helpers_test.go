package store

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/fpsync/internal/fms"
)

// createTestStore opens a fresh store in a temp dir.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// pragma reads one PRAGMA value as text.
func pragma(t *testing.T, db *sql.DB, name string) string {
	t.Helper()
	var v string
	require.NoError(t, db.QueryRow("PRAGMA "+name).Scan(&v))
	return v
}

func testSnapshot() *fms.FlightPlanSnapshot {
	return &fms.FlightPlanSnapshot{
		OriginAirport:      "KJFK",
		DestinationAirport: "KLAX",
		CruiseFlightLevel:  350,
		EnrouteLegs: []fms.Element{
			fms.LegElement(fms.Leg{
				Waypoint: fms.Waypoint{DatabaseID: "W K6    WPT1 ", Ident: "WPT1", Location: fms.LatLong{Lat: 40.5, Long: -75.25}},
				Altitude: &fms.AltitudeConstraint{Descriptor: fms.BetweenAlt1Alt2, Altitude1: 15000, Altitude2: 11000},
			}),
			fms.DiscontinuityElement(),
		},
		Procedures: fms.ProcedureDetails{DestinationRunway: "25L", ApproachIdent: "I25L"},
	}
}

func testCycle(id string, seq int64, kind string) Cycle {
	c := Cycle{
		ID:      id,
		Seq:     seq,
		Kind:    kind,
		Outcome: "completed",
		Calls: []Call{
			{Side: "host", Name: "SET_CURRENT_FLIGHTPLAN_INDEX", Args: []any{0, true}},
			{Side: "host", Name: "CLEAR_CURRENT_FLIGHT_PLAN"},
			{Side: "host", Name: "SET_ORIGIN", Args: []any{"A      KJFK ", false}},
			{Side: "host", Name: "SET_CRUISE_ALTITUDE", Args: []any{35000}, Failed: true},
		},
	}
	if kind == "save" {
		c.Snapshot = testSnapshot()
	}
	return c
}
