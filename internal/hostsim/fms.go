package hostsim

import (
	"sync"
	"sync/atomic"

	"github.com/roach88/fpsync/internal/bus"
	"github.com/roach88/fpsync/internal/fms"
)

// FMS is an in-memory flight management side. It answers sync requests
// with snapshots of its plans and applies plan commands from the bus,
// publishing the same change notifications a real plan manager would.
type FMS struct {
	bus    bus.Publisher
	mu     sync.Mutex
	plans  map[fms.PlanIndex]*fms.FlightPlanSnapshot
	silent atomic.Bool
	unsub  []func()
}

// NewFMS attaches a responder to b. active, when non-nil, seeds the active
// plan.
func NewFMS(b interface {
	bus.Publisher
	bus.Subscriber
}, active *fms.FlightPlanSnapshot) *FMS {
	f := &FMS{bus: b, plans: make(map[fms.PlanIndex]*fms.FlightPlanSnapshot)}
	if active != nil {
		f.plans[fms.PlanActive] = active.Clone()
	}
	f.unsub = append(f.unsub,
		b.Subscribe(bus.TopicSyncRequest, func(bus.Message) { f.respond() }),
		b.Subscribe(bus.TopicPlanCommand, f.onCommand),
	)
	return f
}

// Close detaches the responder from the bus.
func (f *FMS) Close() {
	for _, u := range f.unsub {
		u()
	}
}

// SetSilent stops (or resumes) answering sync requests.
func (f *FMS) SetSilent(v bool) { f.silent.Store(v) }

// Plan returns a copy of the plan in slot idx, or nil.
func (f *FMS) Plan(idx fms.PlanIndex) *fms.FlightPlanSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.plans[idx].Clone()
}

func (f *FMS) respond() {
	if f.silent.Load() {
		return
	}
	f.mu.Lock()
	resp := fms.SyncResponse{Plans: make(map[fms.PlanIndex]*fms.FlightPlanSnapshot, len(f.plans))}
	for idx, p := range f.plans {
		resp.Plans[idx] = p.Clone()
	}
	f.mu.Unlock()
	f.bus.Publish(bus.Message{Topic: bus.TopicSyncResponse, Payload: resp})
}

func (f *FMS) plan(idx fms.PlanIndex) *fms.FlightPlanSnapshot {
	p, ok := f.plans[idx]
	if !ok {
		p = &fms.FlightPlanSnapshot{}
		f.plans[idx] = p
	}
	return p
}

func (f *FMS) onCommand(m bus.Message) {
	cmd, ok := m.Payload.(fms.PlanCommand)
	if !ok {
		return
	}
	var out bus.Message
	f.mu.Lock()
	switch cmd.Op {
	case fms.OpNewCityPair:
		f.plans[cmd.Plan] = &fms.FlightPlanSnapshot{OriginAirport: cmd.From, DestinationAirport: cmd.To}
		out = bus.Message{Topic: bus.TopicPlanCreated, Payload: fms.PlanCreated{Plan: cmd.Plan}}
	case fms.OpSetCruiseFlightLevel:
		f.plan(cmd.Plan).CruiseFlightLevel = cmd.FlightLevel
		out = bus.Message{Topic: bus.TopicCruiseFlightLevel, Payload: fms.CruiseFlightLevelChanged{Plan: cmd.Plan, FlightLevel: cmd.FlightLevel}}
	case fms.OpNextWaypoint:
		p := f.plan(cmd.Plan)
		at := cmd.At - 1
		if at < 0 {
			at = 0
		}
		if at > len(p.EnrouteLegs) {
			at = len(p.EnrouteLegs)
		}
		legs := append(p.EnrouteLegs, fms.Element{})
		copy(legs[at+1:], legs[at:])
		legs[at] = fms.LegElement(fms.Leg{Waypoint: *cmd.Waypoint})
		p.EnrouteLegs = legs
		out = bus.Message{Topic: bus.TopicSegmentLegs, Payload: fms.SegmentLegsChanged{
			Plan: cmd.Plan, Segment: fms.EnrouteSegment, Legs: fms.CloneElements(legs),
		}}
	case fms.OpUplinkInsert:
		up, ok := f.plans[fms.PlanUplink]
		if !ok {
			f.mu.Unlock()
			return
		}
		f.plans[fms.PlanActive] = up
		delete(f.plans, fms.PlanUplink)
		out = bus.Message{Topic: bus.TopicPlanCopied, Payload: fms.PlanCopied{Source: fms.PlanUplink, Target: fms.PlanActive}}
	default:
		f.mu.Unlock()
		return
	}
	f.mu.Unlock()
	f.bus.Publish(out)
}

// EditActive applies edit to the active plan as a pilot would and publishes
// the resulting leg and performance notifications.
func (f *FMS) EditActive(edit func(*fms.FlightPlanSnapshot)) {
	f.mu.Lock()
	p := f.plan(fms.PlanActive)
	fl := p.CruiseFlightLevel
	edit(p)
	legs := fms.CloneElements(p.EnrouteLegs)
	newFL := p.CruiseFlightLevel
	f.mu.Unlock()

	f.bus.Publish(bus.Message{Topic: bus.TopicSegmentLegs, Payload: fms.SegmentLegsChanged{
		Plan: fms.PlanActive, Segment: fms.EnrouteSegment, Legs: legs,
	}})
	if newFL != fl {
		f.bus.Publish(bus.Message{Topic: bus.TopicCruiseFlightLevel, Payload: fms.CruiseFlightLevelChanged{
			Plan: fms.PlanActive, FlightLevel: newFL,
		}})
	}
}
