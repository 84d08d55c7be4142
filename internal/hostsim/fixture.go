package hostsim

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/fpsync/internal/bus"
	"github.com/roach88/fpsync/internal/fms"
	"github.com/roach88/fpsync/internal/host"
)

// Fixture describes both sides of a simulated world.
type Fixture struct {
	Host HostFixture `yaml:"host"`
	FMS  FMSFixture  `yaml:"fms"`
}

// HostFixture seeds a Host.
type HostFixture struct {
	Plan     *PlanSpec     `yaml:"plan,omitempty"`
	ATCPlan  *PlanSpec     `yaml:"atc_plan,omitempty"`
	Airports []AirportSpec `yaml:"airports,omitempty"`
}

// FMSFixture seeds an FMS.
type FMSFixture struct {
	Active *fms.FlightPlanSnapshot `yaml:"active,omitempty"`
	// Silent makes the responder ignore sync requests.
	Silent bool `yaml:"silent,omitempty"`
}

// PlanSpec is a host plan written with readable facility fields. Nil
// segment sizes mean the host did not report them.
type PlanSpec struct {
	DirectTo           bool           `yaml:"direct_to,omitempty"`
	CruisingAltitude   int            `yaml:"cruising_altitude"`
	DepartureWaypoints *int           `yaml:"departure_waypoints,omitempty"`
	ArrivalWaypoints   *int           `yaml:"arrival_waypoints,omitempty"`
	Waypoints          []FacilitySpec `yaml:"waypoints"`
}

// FacilitySpec is a facility with its identifier spelled out by field.
// Type defaults to "W" (intersection); Blank yields an all-space
// identifier.
type FacilitySpec struct {
	Type    string  `yaml:"type,omitempty"`
	Region  string  `yaml:"region,omitempty"`
	Airport string  `yaml:"airport,omitempty"`
	Ident   string  `yaml:"ident,omitempty"`
	Name    string  `yaml:"name,omitempty"`
	Lat     float64 `yaml:"lat,omitempty"`
	Long    float64 `yaml:"long,omitempty"`
	Blank   bool    `yaml:"blank,omitempty"`
}

// AirportSpec is a catalog keyed by airport ident.
type AirportSpec struct {
	Ident        string `yaml:"ident"`
	host.Airport `yaml:",inline"`
}

// Facility converts s to a host facility.
func (s FacilitySpec) Facility() host.Facility {
	f := host.Facility{Name: s.Name, Lat: s.Lat, Long: s.Long}
	switch {
	case s.Blank:
		f.ICAO = host.ICAO("            ")
	default:
		typ := host.FacilityIntersection
		if s.Type != "" {
			typ = s.Type[0]
		}
		f.ICAO = host.MakeICAO(typ, s.Region, s.Airport, s.Ident)
	}
	return f
}

// Plan converts s to a host plan.
func (s *PlanSpec) Plan() *host.Plan {
	if s == nil {
		return nil
	}
	p := &host.Plan{
		IsDirectTo:         s.DirectTo,
		CruisingAltitude:   s.CruisingAltitude,
		DepartureWaypoints: host.UnknownSegmentSize,
		ArrivalWaypoints:   host.UnknownSegmentSize,
	}
	if s.DepartureWaypoints != nil {
		p.DepartureWaypoints = *s.DepartureWaypoints
	}
	if s.ArrivalWaypoints != nil {
		p.ArrivalWaypoints = *s.ArrivalWaypoints
	}
	for _, w := range s.Waypoints {
		p.Waypoints = append(p.Waypoints, w.Facility())
	}
	return p
}

// Catalog converts s to a host airport, filling in the identifier.
func (s AirportSpec) Catalog() *host.Airport {
	ap := s.Airport
	if ap.ICAO == "" {
		ap.ICAO = host.AirportICAO(s.Ident)
	}
	return &ap
}

// LoadFixture reads a fixture file, rejecting unknown fields.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture file: %w", err)
	}
	return ParseFixture(data)
}

// ParseFixture decodes a YAML fixture.
func ParseFixture(data []byte) (*Fixture, error) {
	var f Fixture
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse fixture: %w", err)
	}
	for i, ap := range f.Host.Airports {
		if ap.Ident == "" && ap.ICAO == "" {
			return nil, fmt.Errorf("airports[%d]: ident is required", i)
		}
	}
	return &f, nil
}

// World is a Host and an FMS wired to one bus.
type World struct {
	Bus  *bus.Bus
	Host *Host
	FMS  *FMS
}

// Build creates a world from f.
func (f *Fixture) Build() *World {
	b := bus.New()
	airports := make([]*host.Airport, 0, len(f.Host.Airports))
	for _, ap := range f.Host.Airports {
		airports = append(airports, ap.Catalog())
	}
	h := NewHost(f.Host.Plan.Plan(), airports...)
	if atc := f.Host.ATCPlan.Plan(); atc != nil {
		h.SetATCPlan(atc)
	}
	fm := NewFMS(b, f.FMS.Active)
	fm.SetSilent(f.FMS.Silent)
	return &World{Bus: b, Host: h, FMS: fm}
}

// Close detaches the FMS from the bus.
func (w *World) Close() { w.FMS.Close() }
