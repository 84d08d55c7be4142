package host

// Facility is a waypoint record as the host returns it inside a plan.
type Facility struct {
	ICAO ICAO    `yaml:"icao" json:"icao"`
	Name string  `yaml:"name,omitempty" json:"name,omitempty"`
	Lat  float64 `yaml:"lat" json:"lat"`
	Long float64 `yaml:"long" json:"long"`
}

// UnknownSegmentSize marks a departure or arrival segment whose size the
// host did not report.
const UnknownSegmentSize = -1

// Plan is the host's readout of its current flight plan.
//
// DepartureWaypoints and ArrivalWaypoints count the procedure waypoints at
// the start and end of Waypoints, or are UnknownSegmentSize.
type Plan struct {
	IsDirectTo         bool       `yaml:"is_direct_to,omitempty" json:"is_direct_to,omitempty"`
	Waypoints          []Facility `yaml:"waypoints" json:"waypoints"`
	CruisingAltitude   int        `yaml:"cruising_altitude" json:"cruising_altitude"`
	DepartureWaypoints int        `yaml:"departure_waypoints" json:"departure_waypoints"`
	ArrivalWaypoints   int        `yaml:"arrival_waypoints" json:"arrival_waypoints"`
}

// EnrouteRange returns the half-open index range [start, end) of the
// enroute waypoints of p, excluding the origin, the destination and any
// procedure waypoints. The range is empty (start >= end) when nothing is
// left between the procedures.
func (p *Plan) EnrouteRange() (start, end int) {
	start = 1
	if p.DepartureWaypoints != UnknownSegmentSize {
		start = p.DepartureWaypoints
	}
	arrival := 0
	if p.ArrivalWaypoints != UnknownSegmentSize {
		arrival = p.ArrivalWaypoints
	}
	end = len(p.Waypoints) - arrival - 1
	return start, end
}

// Enroute returns the enroute slice of p.Waypoints in order.
func (p *Plan) Enroute() []Facility {
	start, end := p.EnrouteRange()
	if start < 0 {
		start = 0
	}
	if end > len(p.Waypoints) {
		end = len(p.Waypoints)
	}
	if start >= end {
		return nil
	}
	return p.Waypoints[start:end]
}
