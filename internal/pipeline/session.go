package pipeline

import "github.com/roach88/fpsync/internal/fms"

// Session is the synchronization state owned by the sync controller and
// handed to each pipeline run.
type Session struct {
	// Snapshot is the most recent capture of the active flight management
	// plan. Nil until the first sync response arrives.
	Snapshot *fms.FlightPlanSnapshot

	// Runs counts pipeline runs started in this session.
	Runs int

	// Last is the report of the most recent run.
	Last *Report
}

// Capture replaces the session snapshot with a copy of s.
func (s *Session) Capture(snap *fms.FlightPlanSnapshot) {
	s.Snapshot = snap.Clone()
}

// SetEnrouteLegs replaces the enroute legs of the captured plan, creating
// an empty capture when none exists yet.
func (s *Session) SetEnrouteLegs(legs []fms.Element) {
	if s.Snapshot == nil {
		s.Snapshot = &fms.FlightPlanSnapshot{}
	} else {
		s.Snapshot = s.Snapshot.Clone()
	}
	s.Snapshot.EnrouteLegs = fms.CloneElements(legs)
}

// SetCruiseFlightLevel updates the cruise level of the captured plan.
func (s *Session) SetCruiseFlightLevel(fl int) {
	if s.Snapshot == nil {
		s.Snapshot = &fms.FlightPlanSnapshot{}
	} else {
		s.Snapshot = s.Snapshot.Clone()
	}
	s.Snapshot.CruiseFlightLevel = fl
}
