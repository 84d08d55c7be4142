package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/fpsync/internal/fms"
	"github.com/roach88/fpsync/internal/host"
)

func TestWaypoint_Enroute(t *testing.T) {
	f := host.Facility{
		ICAO: host.MakeICAO(host.FacilityIntersection, "K6", "", "WPT1"),
		Name: " WAYPOINT ONE ",
		Lat:  40.5,
		Long: -73.25,
	}

	w := Waypoint(f)

	assert.Equal(t, string(f.ICAO), w.DatabaseID)
	assert.Equal(t, "K6", w.ICAOCode)
	assert.Equal(t, "WPT1", w.Ident)
	assert.Equal(t, "WAYPOINT ONE", w.Name)
	assert.Equal(t, fms.LatLong{Lat: 40.5, Long: -73.25}, w.Location)
	assert.Equal(t, fms.AreaEnroute, w.Area)
}

func TestWaypoint_Terminal(t *testing.T) {
	f := host.Facility{ICAO: host.MakeICAO(host.FacilityIntersection, "K2", "KLAX", "SADDE")}
	assert.Equal(t, fms.AreaTerminal, Waypoint(f).Area)
}

func TestWaypoint_NormalizesName(t *testing.T) {
	// "e" followed by a combining acute accent.
	f := host.Facility{ICAO: host.MakeICAO(host.FacilityVOR, "LF", "", "BRY"), Name: "Bre\u0301ly"}
	assert.Equal(t, "Br\u00e9ly", Waypoint(f).Name)
}

func TestFacility_RoundTrip(t *testing.T) {
	f := host.Facility{ICAO: host.MakeICAO(host.FacilityNDB, "EG", "", "LAM"), Name: "LAMBOURNE", Lat: 51.6, Long: 0.15}
	assert.Equal(t, f, Facility(Waypoint(f)))
}
