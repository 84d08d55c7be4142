package hostsim

import (
	"context"
	"fmt"
	"sync"

	"github.com/roach88/fpsync/internal/host"
)

// StoredPlan is the host plan as built up by commands.
type StoredPlan struct {
	Origin      host.ICAO `yaml:"origin,omitempty" json:"origin,omitempty"`
	Destination host.ICAO `yaml:"destination,omitempty" json:"destination,omitempty"`
	// Waypoints holds inserted enroute ids; position 1 is the first slot
	// after the origin.
	Waypoints []string       `yaml:"waypoints,omitempty" json:"waypoints,omitempty"`
	Indices   map[string]int `yaml:"indices,omitempty" json:"indices,omitempty"`
	Cruise    int            `yaml:"cruise_altitude,omitempty" json:"cruise_altitude,omitempty"`
}

// Host is an in-memory host store. It is safe for concurrent use.
type Host struct {
	mu       sync.Mutex
	plan     *host.Plan
	atcPlan  *host.Plan
	airports map[host.ICAO]*host.Airport
	current  int
	stored   StoredPlan
	log      []host.Command
	loads    int
	failOn   map[string]error

	// OnCall, when set, runs after each command is applied and outside the
	// lock. Tests use it to change the sync mode mid-pipeline.
	OnCall func(host.Command)
}

// NewHost returns a host whose current plan is plan.
func NewHost(plan *host.Plan, airports ...*host.Airport) *Host {
	h := &Host{
		plan:     plan,
		airports: make(map[host.ICAO]*host.Airport),
		failOn:   make(map[string]error),
	}
	for _, ap := range airports {
		h.airports[ap.ICAO] = ap
	}
	return h
}

// SetATCPlan sets the plan LOAD_CURRENT_ATC_FLIGHTPLAN switches to.
func (h *Host) SetATCPlan(p *host.Plan) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.atcPlan = p
}

// FailOn makes every command named name fail with err.
func (h *Host) FailOn(name string, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.failOn[name] = err
}

func (h *Host) Call(ctx context.Context, cmd host.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h.mu.Lock()
	h.log = append(h.log, cmd)
	err := h.failOn[cmd.Name]
	if err == nil {
		err = h.apply(cmd)
	}
	hook := h.OnCall
	h.mu.Unlock()

	if hook != nil {
		hook(cmd)
	}
	return err
}

func (h *Host) apply(cmd host.Command) error {
	switch cmd.Name {
	case host.CmdSelectActivePlan:
		i, err := cmd.Int(0)
		if err != nil {
			return err
		}
		h.current = i
	case host.CmdClearPlan:
		h.stored = StoredPlan{}
	case host.CmdSetOrigin, host.CmdSetDestination:
		id, err := cmd.Str(0)
		if err != nil {
			return err
		}
		if cmd.Name == host.CmdSetOrigin {
			h.stored.Origin = host.ICAO(id)
		} else {
			h.stored.Destination = host.ICAO(id)
		}
	case host.CmdInsertWaypoint:
		id, err := cmd.Str(0)
		if err != nil {
			return err
		}
		at, err := cmd.Int(1)
		if err != nil {
			return err
		}
		if at < 1 || at > len(h.stored.Waypoints)+1 {
			return fmt.Errorf("%s: index %d out of range", cmd.Name, at)
		}
		wps := append(h.stored.Waypoints, "")
		copy(wps[at:], wps[at-1:])
		wps[at-1] = id
		h.stored.Waypoints = wps
	case host.CmdSetCruiseAltitude:
		ft, err := cmd.Int(0)
		if err != nil {
			return err
		}
		h.stored.Cruise = ft
	case host.CmdLoadATCFlightPlan:
		if h.atcPlan != nil {
			h.plan = h.atcPlan
		}
	case host.CmdRecomputeActiveLeg:
	default:
		i, err := cmd.Int(0)
		if err != nil {
			return err
		}
		if h.stored.Indices == nil {
			h.stored.Indices = make(map[string]int)
		}
		h.stored.Indices[cmd.Name] = i
	}
	return nil
}

// FlightPlan returns a copy of the host's current plan.
func (h *Host) FlightPlan(ctx context.Context) (*host.Plan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.plan == nil {
		return &host.Plan{DepartureWaypoints: host.UnknownSegmentSize, ArrivalWaypoints: host.UnknownSegmentSize}, nil
	}
	p := *h.plan
	p.Waypoints = append([]host.Facility(nil), h.plan.Waypoints...)
	return &p, nil
}

// Airport implements host.FacilityLoader.
func (h *Host) Airport(ctx context.Context, id host.ICAO) (*host.Airport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.loads++
	ap, ok := h.airports[id]
	if !ok {
		return nil, fmt.Errorf("airport %q not found", id.Ident())
	}
	return ap, nil
}

// Stored returns a copy of the plan built by commands so far.
func (h *Host) Stored() StoredPlan {
	h.mu.Lock()
	defer h.mu.Unlock()
	s := h.stored
	s.Waypoints = append([]string(nil), h.stored.Waypoints...)
	if h.stored.Indices != nil {
		s.Indices = make(map[string]int, len(h.stored.Indices))
		for k, v := range h.stored.Indices {
			s.Indices[k] = v
		}
	}
	return s
}

// Commands returns every command received, in order.
func (h *Host) Commands() []host.Command {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]host.Command(nil), h.log...)
}

// AirportLoads counts catalog reads.
func (h *Host) AirportLoads() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.loads
}

// Reset forgets received commands.
func (h *Host) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.log = nil
}
