package fms

import "fmt"

// PlanIndex selects one of the flight management plan slots.
type PlanIndex int

const (
	PlanActive    PlanIndex = 0
	PlanTemporary PlanIndex = 1
	PlanUplink    PlanIndex = 2
)

func (p PlanIndex) String() string {
	switch p {
	case PlanActive:
		return "active"
	case PlanTemporary:
		return "temporary"
	case PlanUplink:
		return "uplink"
	default:
		return fmt.Sprintf("plan(%d)", int(p))
	}
}

// EnrouteSegment is the segment index of the enroute segment in a plan.
const EnrouteSegment = 4

// WaypointArea classifies a waypoint as terminal or enroute.
type WaypointArea int

const (
	AreaEnroute WaypointArea = iota
	AreaTerminal
)

func (a WaypointArea) String() string {
	if a == AreaTerminal {
		return "terminal"
	}
	return "enroute"
}

type LatLong struct {
	Lat  float64 `yaml:"lat" json:"lat"`
	Long float64 `yaml:"long" json:"long"`
}

// Waypoint is a navigation fix. DatabaseID is the host facility identifier
// and is the only field used to address the waypoint on the host side.
type Waypoint struct {
	DatabaseID string       `yaml:"database_id" json:"database_id"`
	ICAOCode   string       `yaml:"icao_code,omitempty" json:"icao_code,omitempty"`
	Ident      string       `yaml:"ident" json:"ident"`
	Name       string       `yaml:"name,omitempty" json:"name,omitempty"`
	Location   LatLong      `yaml:"location" json:"location"`
	Area       WaypointArea `yaml:"area,omitempty" json:"area,omitempty"`
}

// IsAirport reports whether the waypoint's database id names an airport
// facility. Airports are the plan endpoints and are never inserted as
// enroute waypoints.
func (w Waypoint) IsAirport() bool {
	return len(w.DatabaseID) > 0 && w.DatabaseID[0] == 'A'
}

// Leg is a single leg of the plan terminating at Waypoint.
type Leg struct {
	Waypoint Waypoint            `yaml:"waypoint" json:"waypoint"`
	Altitude *AltitudeConstraint `yaml:"altitude,omitempty" json:"altitude,omitempty"`
	Speed    *SpeedConstraint    `yaml:"speed,omitempty" json:"speed,omitempty"`
}

// Element is one entry of a leg sequence: either a leg or a discontinuity.
type Element struct {
	Discontinuity bool `yaml:"discontinuity,omitempty" json:"discontinuity,omitempty"`
	Leg           *Leg `yaml:"leg,omitempty" json:"leg,omitempty"`
}

// LegElement wraps l as a sequence element.
func LegElement(l Leg) Element { return Element{Leg: &l} }

// DiscontinuityElement returns a discontinuity marker.
func DiscontinuityElement() Element { return Element{Discontinuity: true} }

// ProcedureDetails holds the textual procedure identifiers selected in the
// active plan. Empty strings mean "none selected".
type ProcedureDetails struct {
	OriginRunway                 string `yaml:"origin_runway,omitempty" json:"origin_runway,omitempty"`
	DepartureIdent               string `yaml:"departure,omitempty" json:"departure,omitempty"`
	DepartureTransitionIdent     string `yaml:"departure_transition,omitempty" json:"departure_transition,omitempty"`
	ArrivalIdent                 string `yaml:"arrival,omitempty" json:"arrival,omitempty"`
	ArrivalTransitionIdent       string `yaml:"arrival_transition,omitempty" json:"arrival_transition,omitempty"`
	ArrivalRunwayTransitionIdent string `yaml:"arrival_runway_transition,omitempty" json:"arrival_runway_transition,omitempty"`
	DestinationRunway            string `yaml:"destination_runway,omitempty" json:"destination_runway,omitempty"`
	ApproachIdent                string `yaml:"approach,omitempty" json:"approach,omitempty"`
	ApproachTransitionIdent      string `yaml:"approach_transition,omitempty" json:"approach_transition,omitempty"`
}

// FlightPlanSnapshot is a point-in-time copy of a flight management plan.
// The engine never mutates a snapshot after capture, and never reorders
// EnrouteLegs.
type FlightPlanSnapshot struct {
	OriginAirport      string           `yaml:"origin" json:"origin"`
	DestinationAirport string           `yaml:"destination" json:"destination"`
	CruiseFlightLevel  int              `yaml:"cruise_flight_level,omitempty" json:"cruise_flight_level,omitempty"`
	EnrouteLegs        []Element        `yaml:"enroute_legs,omitempty" json:"enroute_legs,omitempty"`
	Procedures         ProcedureDetails `yaml:"procedures,omitempty" json:"procedures,omitempty"`
}

// HasCityPair reports whether both endpoints are set.
func (s *FlightPlanSnapshot) HasCityPair() bool {
	return s != nil && s.OriginAirport != "" && s.DestinationAirport != ""
}

// Clone returns a deep copy so that later bus traffic cannot alter a
// captured snapshot.
func (s *FlightPlanSnapshot) Clone() *FlightPlanSnapshot {
	if s == nil {
		return nil
	}
	c := *s
	c.EnrouteLegs = CloneElements(s.EnrouteLegs)
	return &c
}

// CloneElements deep-copies a leg sequence, preserving order.
func CloneElements(elems []Element) []Element {
	if elems == nil {
		return nil
	}
	out := make([]Element, len(elems))
	for i, e := range elems {
		out[i] = e
		if e.Leg != nil {
			l := *e.Leg
			if e.Leg.Altitude != nil {
				a := *e.Leg.Altitude
				l.Altitude = &a
			}
			if e.Leg.Speed != nil {
				sp := *e.Leg.Speed
				l.Speed = &sp
			}
			out[i].Leg = &l
		}
	}
	return out
}
