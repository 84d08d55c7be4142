package host

import (
	"strconv"
	"strings"
)

// Airport is the read-only procedure catalog the host publishes for an
// airport facility. Slice order is significant: the host selects runways
// and procedures by their position in these lists.
type Airport struct {
	ICAO       ICAO        `yaml:"icao" json:"icao"`
	Runways    []Runway    `yaml:"runways,omitempty" json:"runways,omitempty"`
	Departures []Procedure `yaml:"departures,omitempty" json:"departures,omitempty"`
	Arrivals   []Procedure `yaml:"arrivals,omitempty" json:"arrivals,omitempty"`
	Approaches []Approach  `yaml:"approaches,omitempty" json:"approaches,omitempty"`
}

// Runway is one physical runway. Designation lists both ends separated by
// a dash, e.g. "6-24" or "13L-31R".
type Runway struct {
	Designation         string           `yaml:"designation" json:"designation"`
	DesignatorPrimary   RunwayDesignator `yaml:"designator_primary,omitempty" json:"designator_primary,omitempty"`
	DesignatorSecondary RunwayDesignator `yaml:"designator_secondary,omitempty" json:"designator_secondary,omitempty"`
}

// Ends returns the designation tokens of r in catalog order.
func (r Runway) Ends() []string {
	return strings.Split(r.Designation, "-")
}

// RunwayNumber extracts the numeric part of a runway designation token or
// runway ident ("06", "6L", "RW06L"). It returns false when there is no
// number.
func RunwayNumber(s string) (int, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "RW")
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// Transition is an enroute or runway transition of a procedure.
type Transition struct {
	Name string `yaml:"name" json:"name"`
}

// Procedure is a departure or arrival.
type Procedure struct {
	Name               string       `yaml:"name" json:"name"`
	EnrouteTransitions []Transition `yaml:"enroute_transitions,omitempty" json:"enroute_transitions,omitempty"`
	RunwayTransitions  []Transition `yaml:"runway_transitions,omitempty" json:"runway_transitions,omitempty"`
}

// Approach is an approach procedure. Suffix is the optional multiple
// approach indicator ("Y" of "RNAV (GPS) Y RWY 25L").
type Approach struct {
	Name             string           `yaml:"name" json:"name"`
	RunwayNumber     int              `yaml:"runway_number" json:"runway_number"`
	RunwayDesignator RunwayDesignator `yaml:"runway_designator,omitempty" json:"runway_designator,omitempty"`
	Type             ApproachType     `yaml:"type" json:"type"`
	Suffix           string           `yaml:"suffix,omitempty" json:"suffix,omitempty"`
	Transitions      []Transition     `yaml:"transitions,omitempty" json:"transitions,omitempty"`
}
