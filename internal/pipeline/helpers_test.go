package pipeline

import (
	"sync/atomic"
	"testing"

	"github.com/roach88/fpsync/internal/fms"
	"github.com/roach88/fpsync/internal/host"
	"github.com/roach88/fpsync/internal/hostsim"
)

// switchableMode is a ModeReader tests can flip mid-run.
type switchableMode struct{ v atomic.Value }

func newMode(m Mode) *switchableMode {
	s := &switchableMode{}
	s.v.Store(m)
	return s
}

func (s *switchableMode) Mode() Mode  { return s.v.Load().(Mode) }
func (s *switchableMode) Set(m Mode) { s.v.Store(m) }

func kjfk() *host.Airport {
	return &host.Airport{
		ICAO: host.AirportICAO("KJFK"),
		Runways: []host.Runway{
			{Designation: "4-22", DesignatorPrimary: host.RunwayDesignatorL, DesignatorSecondary: host.RunwayDesignatorR},
			{Designation: "4-22", DesignatorPrimary: host.RunwayDesignatorR, DesignatorSecondary: host.RunwayDesignatorL},
			{Designation: "13-31", DesignatorPrimary: host.RunwayDesignatorR, DesignatorSecondary: host.RunwayDesignatorL},
			{Designation: "13-31", DesignatorPrimary: host.RunwayDesignatorL, DesignatorSecondary: host.RunwayDesignatorR},
		},
		Departures: []host.Procedure{
			{Name: "DEEZZ5", EnrouteTransitions: []host.Transition{{Name: "CANDR"}, {Name: "HEOMI"}}},
			{Name: "JFK5", EnrouteTransitions: []host.Transition{{Name: "BETTE"}}},
		},
	}
}

func klax() *host.Airport {
	return &host.Airport{
		ICAO: host.AirportICAO("KLAX"),
		Runways: []host.Runway{
			{Designation: "6-24", DesignatorPrimary: host.RunwayDesignatorL, DesignatorSecondary: host.RunwayDesignatorR},
			{Designation: "6-24", DesignatorPrimary: host.RunwayDesignatorR, DesignatorSecondary: host.RunwayDesignatorL},
			{Designation: "7-25", DesignatorPrimary: host.RunwayDesignatorR, DesignatorSecondary: host.RunwayDesignatorL},
			{Designation: "7-25", DesignatorPrimary: host.RunwayDesignatorL, DesignatorSecondary: host.RunwayDesignatorR},
		},
		Arrivals: []host.Procedure{
			{Name: "ANJLL4", EnrouteTransitions: []host.Transition{{Name: "TNP"}}},
			{Name: "SEAVU2", EnrouteTransitions: []host.Transition{{Name: "HEC"}, {Name: "LAS"}}},
		},
		Approaches: []host.Approach{
			{Name: "ILS 24R", RunwayNumber: 24, RunwayDesignator: host.RunwayDesignatorR, Type: host.ApproachILS},
			{Name: "RNAV Y 25L", RunwayNumber: 25, RunwayDesignator: host.RunwayDesignatorL, Type: host.ApproachRNAV, Suffix: "Y"},
			{Name: "RNAV Z 25L", RunwayNumber: 25, RunwayDesignator: host.RunwayDesignatorL, Type: host.ApproachRNAV, Suffix: "Z"},
			{Name: "ILS 25L", RunwayNumber: 25, RunwayDesignator: host.RunwayDesignatorL, Type: host.ApproachILS,
				Transitions: []host.Transition{{Name: "SEAVU"}, {Name: "CIVET"}}},
		},
	}
}

func wptID(ident string) string {
	return string(host.MakeICAO(host.FacilityIntersection, "K6", "", ident))
}

func wpt(ident string) fms.Element {
	return fms.LegElement(fms.Leg{Waypoint: fms.Waypoint{DatabaseID: wptID(ident), Ident: ident}})
}

// exampleSnapshot is KJFK to KLAX at FL350 via WPT1 and WPT2.
func exampleSnapshot() *fms.FlightPlanSnapshot {
	origin := fms.LegElement(fms.Leg{Waypoint: fms.Waypoint{DatabaseID: string(host.AirportICAO("KJFK")), Ident: "KJFK"}})
	wpt1 := wpt("WPT1")
	wpt1.Leg.Altitude = &fms.AltitudeConstraint{Descriptor: fms.AtOrAboveAlt1, Altitude1: 11000}
	return &fms.FlightPlanSnapshot{
		OriginAirport:      "KJFK",
		DestinationAirport: "KLAX",
		CruiseFlightLevel:  350,
		EnrouteLegs:        []fms.Element{origin, wpt1, fms.DiscontinuityElement(), wpt("WPT2")},
		Procedures: fms.ProcedureDetails{
			OriginRunway:             "RW31L",
			DepartureIdent:           "DEEZZ5",
			DepartureTransitionIdent: "HEOMI",
			ArrivalIdent:             "SEAVU2",
			ArrivalTransitionIdent:   "LAS",
			DestinationRunway:        "25L",
			ApproachIdent:            "I25L",
			ApproachTransitionIdent:  "CIVET",
		},
	}
}

type testWorld struct {
	*hostsim.World
	mode   *switchableMode
	runner *Runner
}

func newTestWorld(t *testing.T, mode Mode, plan *host.Plan) *testWorld {
	t.Helper()
	f := &hostsim.Fixture{FMS: hostsim.FMSFixture{Active: &fms.FlightPlanSnapshot{}}}
	w := f.Build()
	t.Cleanup(w.Close)
	w.Host = hostsim.NewHost(plan, kjfk(), klax())

	m := newMode(mode)
	return &testWorld{
		World: w,
		mode:  m,
		runner: &Runner{
			Host:       w.Host,
			Facilities: w.Host,
			NewClient:  func() fms.Client { return fms.NewBusClient(w.Bus) },
			Bus:        w.Bus,
			Mode:       m,
			Poll:       PollConfig{MaxAttempts: 3},
		},
	}
}

func names(cmds []host.Command) []string {
	out := make([]string, len(cmds))
	for i, c := range cmds {
		out[i] = c.Name
	}
	return out
}

func facility(typ byte, ident string) host.Facility {
	region := "K6"
	if typ == host.FacilityAirport {
		region = ""
	}
	return host.Facility{ICAO: host.MakeICAO(typ, region, "", ident), Name: ident}
}

// hostPlan is KJFK DEP1 WPT1 <blank> WPT2 ARR1 KLAX at 35000 ft with a
// two waypoint departure and a one waypoint arrival.
func hostPlan() *host.Plan {
	return &host.Plan{
		CruisingAltitude:   35000,
		DepartureWaypoints: 2,
		ArrivalWaypoints:   1,
		Waypoints: []host.Facility{
			facility(host.FacilityAirport, "KJFK"),
			facility(host.FacilityIntersection, "DEP1"),
			facility(host.FacilityIntersection, "WPT1"),
			{ICAO: "            "},
			facility(host.FacilityVOR, "WPT2"),
			facility(host.FacilityIntersection, "ARR1"),
			facility(host.FacilityAirport, "KLAX"),
		},
	}
}

func legIdents(p *fms.FlightPlanSnapshot) []string {
	var out []string
	for _, e := range p.EnrouteLegs {
		if e.Leg != nil {
			out = append(out, e.Leg.Waypoint.Ident)
		}
	}
	return out
}
