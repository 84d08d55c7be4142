package host

import (
	"context"
	"fmt"
	"strings"
)

// Host command names.
const (
	CmdSelectActivePlan            = "SET_CURRENT_FLIGHTPLAN_INDEX"
	CmdClearPlan                   = "CLEAR_CURRENT_FLIGHT_PLAN"
	CmdSetOrigin                   = "SET_ORIGIN"
	CmdSetDestination              = "SET_DESTINATION"
	CmdInsertWaypoint              = "ADD_WAYPOINT"
	CmdSetOriginRunwayIndex        = "SET_ORIGIN_RUNWAY_INDEX"
	CmdSetDepartureRunwayIndex     = "SET_DEPARTURE_RUNWAY_INDEX"
	CmdSetDepartureProcedureIndex  = "SET_DEPARTURE_PROC_INDEX"
	CmdSetDepartureTransitionIndex = "SET_DEPARTURE_ENROUTE_TRANSITION_INDEX"
	CmdSetArrivalRunwayIndex       = "SET_ARRIVAL_RUNWAY_INDEX"
	CmdSetArrivalProcedureIndex    = "SET_ARRIVAL_PROC_INDEX"
	CmdSetArrivalTransitionIndex   = "SET_ARRIVAL_ENROUTE_TRANSITION_INDEX"
	CmdSetApproachIndex            = "SET_APPROACH_INDEX"
	CmdSetApproachTransitionIndex  = "SET_APPROACH_TRANSITION_INDEX"
	CmdSetCruiseAltitude           = "SET_CRUISE_ALTITUDE"
	CmdRecomputeActiveLeg          = "RECOMPUTE_ACTIVE_WAYPOINT_INDEX"
	CmdLoadATCFlightPlan           = "LOAD_CURRENT_ATC_FLIGHTPLAN"
)

// Command is one positional call on the host store. Args hold only
// strings, ints and bools.
type Command struct {
	Name string `yaml:"name" json:"name"`
	Args []any  `yaml:"args,omitempty" json:"args,omitempty"`
}

func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		if s, ok := a.(string); ok {
			parts[i] = fmt.Sprintf("%q", s)
		} else {
			parts[i] = fmt.Sprint(a)
		}
	}
	return c.Name + "(" + strings.Join(parts, ", ") + ")"
}

// Int returns argument i as an int.
func (c Command) Int(i int) (int, error) {
	if i >= len(c.Args) {
		return 0, fmt.Errorf("%s: missing argument %d", c.Name, i)
	}
	v, ok := c.Args[i].(int)
	if !ok {
		return 0, fmt.Errorf("%s: argument %d is %T, not int", c.Name, i, c.Args[i])
	}
	return v, nil
}

// Str returns argument i as a string.
func (c Command) Str(i int) (string, error) {
	if i >= len(c.Args) {
		return "", fmt.Errorf("%s: missing argument %d", c.Name, i)
	}
	v, ok := c.Args[i].(string)
	if !ok {
		return "", fmt.Errorf("%s: argument %d is %T, not string", c.Name, i, c.Args[i])
	}
	return v, nil
}

func SelectActivePlan(index int) Command {
	return Command{Name: CmdSelectActivePlan, Args: []any{index, true}}
}

func ClearPlan() Command { return Command{Name: CmdClearPlan} }

func SetOrigin(id ICAO) Command {
	return Command{Name: CmdSetOrigin, Args: []any{string(id), false}}
}

func SetDestination(id ICAO) Command {
	return Command{Name: CmdSetDestination, Args: []any{string(id), false}}
}

// InsertWaypoint adds the facility id at position index of the route.
func InsertWaypoint(id string, index int) Command {
	return Command{Name: CmdInsertWaypoint, Args: []any{id, index, false}}
}

func indexCommand(name string, i int) Command {
	return Command{Name: name, Args: []any{i}}
}

func SetOriginRunwayIndex(i int) Command        { return indexCommand(CmdSetOriginRunwayIndex, i) }
func SetDepartureRunwayIndex(i int) Command     { return indexCommand(CmdSetDepartureRunwayIndex, i) }
func SetDepartureProcedureIndex(i int) Command  { return indexCommand(CmdSetDepartureProcedureIndex, i) }
func SetDepartureTransitionIndex(i int) Command { return indexCommand(CmdSetDepartureTransitionIndex, i) }
func SetArrivalRunwayIndex(i int) Command       { return indexCommand(CmdSetArrivalRunwayIndex, i) }
func SetArrivalProcedureIndex(i int) Command    { return indexCommand(CmdSetArrivalProcedureIndex, i) }
func SetArrivalTransitionIndex(i int) Command   { return indexCommand(CmdSetArrivalTransitionIndex, i) }
func SetApproachIndex(i int) Command            { return indexCommand(CmdSetApproachIndex, i) }
func SetApproachTransitionIndex(i int) Command  { return indexCommand(CmdSetApproachTransitionIndex, i) }

// SetCruiseAltitude sets the cruise altitude in feet.
func SetCruiseAltitude(feet int) Command { return indexCommand(CmdSetCruiseAltitude, feet) }

func RecomputeActiveLeg() Command { return indexCommand(CmdRecomputeActiveLeg, 0) }

// LoadATCFlightPlan asks the host to load its filed ATC plan as the current
// plan.
func LoadATCFlightPlan() Command { return Command{Name: CmdLoadATCFlightPlan} }

// Channel is the command channel to the host store. Each call suspends the
// caller until the host has answered.
type Channel interface {
	Call(ctx context.Context, cmd Command) error
	// FlightPlan returns a snapshot of the host's current plan.
	FlightPlan(ctx context.Context) (*Plan, error)
}

// FacilityLoader returns the procedure catalog of an airport.
type FacilityLoader interface {
	Airport(ctx context.Context, id ICAO) (*Airport, error)
}
