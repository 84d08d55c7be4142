package engine

import (
	"github.com/roach88/fpsync/internal/fms"
	"github.com/roach88/fpsync/internal/pipeline"
)

// Effects is what a batch of events asks the controller to do next.
type Effects struct {
	// RequestSync asks the flight management side for fresh snapshots.
	RequestSync bool
	// Load runs the load pipeline.
	Load bool
	// Save runs the full save pipeline.
	Save bool
	// Cruise runs the cruise-only save with this flight level.
	Cruise int
}

// Empty reports whether there is nothing to do.
func (fx Effects) Empty() bool {
	return !fx.RequestSync && !fx.Load && !fx.Save && fx.Cruise == 0
}

// merge folds o into fx. A later cruise level replaces an earlier one.
func (fx *Effects) merge(o Effects) {
	fx.RequestSync = fx.RequestSync || o.RequestSync
	fx.Load = fx.Load || o.Load
	fx.Save = fx.Save || o.Save
	if o.Cruise > 0 {
		fx.Cruise = o.Cruise
	}
}

// reduce folds one event into the session. mode is the sync mode at the
// time the event is processed; it gates every flight management trigger.
// The returned session never shares a snapshot with s.
func reduce(s pipeline.Session, mode pipeline.Mode, ev Event) (pipeline.Session, Effects) {
	if ev.Kind == EventModeChanged {
		switch ev.Mode {
		case pipeline.ModeLoad:
			return s, Effects{Load: true}
		case pipeline.ModeSave:
			if s.Snapshot == nil {
				return s, Effects{RequestSync: true}
			}
			return s, Effects{Save: true}
		}
		return s, Effects{}
	}

	if mode != pipeline.ModeSave {
		return s, Effects{}
	}

	switch ev.Kind {
	case EventSyncResponse:
		active := ev.Sync.Plan(fms.PlanActive)
		if active == nil {
			return s, Effects{}
		}
		s.Capture(active)
		return s, Effects{Save: true}

	case EventCruiseChanged:
		if ev.Cruise.Plan != fms.PlanActive || ev.Cruise.FlightLevel <= 0 {
			return s, Effects{}
		}
		s.SetCruiseFlightLevel(ev.Cruise.FlightLevel)
		return s, Effects{Cruise: ev.Cruise.FlightLevel}

	case EventSegmentLegs:
		if ev.Legs.Plan != fms.PlanActive || ev.Legs.Segment != fms.EnrouteSegment {
			return s, Effects{}
		}
		s.SetEnrouteLegs(ev.Legs.Legs)
		return s, Effects{Save: true}

	case EventPlanCopied:
		if ev.Copied.Target == fms.PlanActive {
			return s, Effects{RequestSync: true}
		}

	case EventPlanCreated:
		if ev.Created.Plan == fms.PlanActive {
			return s, Effects{RequestSync: true}
		}
	}
	return s, Effects{}
}

// validEvent reports whether ev carries the payload its Kind requires.
func validEvent(ev Event) bool {
	switch ev.Kind {
	case EventModeChanged:
		return true
	case EventSyncResponse:
		return ev.Sync != nil
	case EventCruiseChanged:
		return ev.Cruise != nil
	case EventSegmentLegs:
		return ev.Legs != nil
	case EventPlanCopied:
		return ev.Copied != nil
	case EventPlanCreated:
		return ev.Created != nil
	}
	return false
}
