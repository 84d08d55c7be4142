package harness

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/roach88/fpsync/internal/fms"
	"github.com/roach88/fpsync/internal/host"
	"github.com/roach88/fpsync/internal/hostsim"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
	Trace    string // Rendered journal for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if e.Trace != "" {
		fmt.Fprintf(&buf, "\nJournal:\n%s", e.Trace)
	}

	return buf.String()
}

// AssertionContext gives assertions access to the simulated world.
type AssertionContext struct {
	Host *hostsim.Host
	FMS  *hostsim.FMS
}

// assertCycles checks kind:outcome of every cycle, in order.
func assertCycles(result *Result, a Assertion) error {
	got := result.Outcomes()
	want := a.Cycles
	if want == nil {
		want = []string{}
	}
	if !reflect.DeepEqual(got, want) {
		return &AssertionError{
			Type:     AssertCycles,
			Expected: fmt.Sprintf("%v", want),
			Actual:   fmt.Sprintf("%v", got),
			Trace:    result.Trace,
		}
	}
	return nil
}

// assertCommandCount checks the command was received exactly Count times.
func assertCommandCount(result *Result, cmds []host.Command, a Assertion) error {
	count := 0
	for _, c := range cmds {
		if c.Name == a.Command {
			count++
		}
	}
	if count != a.Count {
		return &AssertionError{
			Type:     AssertCommandCount,
			Expected: fmt.Sprintf("%d occurrences of %s", a.Count, a.Command),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Trace:    result.Trace,
		}
	}
	return nil
}

// assertCommandOrder checks that commands appear in the specified order.
// Commands don't need to be consecutive (intervening commands are allowed).
func assertCommandOrder(result *Result, cmds []host.Command, a Assertion) error {
	next := 0
	for _, c := range cmds {
		if next < len(a.Commands) && c.Name == a.Commands[next] {
			next++
		}
	}
	if next < len(a.Commands) {
		return &AssertionError{
			Type:     AssertCommandOrder,
			Expected: fmt.Sprintf("commands in order: %v", a.Commands),
			Actual:   fmt.Sprintf("%s not found after %v", a.Commands[next], a.Commands[:next]),
			Trace:    result.Trace,
		}
	}
	return nil
}

// assertStoredPlan compares the set fields of a.Stored with the host's
// built plan.
func assertStoredPlan(result *Result, stored hostsim.StoredPlan, a Assertion) error {
	want := a.Stored
	var diffs []string

	if want.Origin != "" && stored.Origin.Ident() != want.Origin {
		diffs = append(diffs, fmt.Sprintf("origin %q, want %q", stored.Origin.Ident(), want.Origin))
	}
	if want.Destination != "" && stored.Destination.Ident() != want.Destination {
		diffs = append(diffs, fmt.Sprintf("destination %q, want %q", stored.Destination.Ident(), want.Destination))
	}
	if want.Waypoints != nil {
		got := make([]string, len(stored.Waypoints))
		for i, id := range stored.Waypoints {
			got[i] = host.ICAO(id).Ident()
		}
		if !reflect.DeepEqual(got, want.Waypoints) {
			diffs = append(diffs, fmt.Sprintf("waypoints %v, want %v", got, want.Waypoints))
		}
	}
	if want.Cruise != nil && stored.Cruise != *want.Cruise {
		diffs = append(diffs, fmt.Sprintf("cruise %d, want %d", stored.Cruise, *want.Cruise))
	}
	for name, idx := range want.Indices {
		got, ok := stored.Indices[name]
		if !ok || got != idx {
			diffs = append(diffs, fmt.Sprintf("%s = %d (set: %t), want %d", name, got, ok, idx))
		}
	}

	if len(diffs) > 0 {
		return &AssertionError{
			Type:     AssertStoredPlan,
			Expected: "host plan to match",
			Actual:   strings.Join(diffs, "; "),
			Trace:    result.Trace,
		}
	}
	return nil
}

// assertFMSActive compares the set fields of a.Active with the active
// flight management plan.
func assertFMSActive(result *Result, active *fms.FlightPlanSnapshot, a Assertion) error {
	if active == nil {
		return &AssertionError{
			Type:     AssertFMSActive,
			Expected: "an active plan",
			Actual:   "no active plan",
			Trace:    result.Trace,
		}
	}

	want := a.Active
	var diffs []string

	if want.Origin != "" && active.OriginAirport != want.Origin {
		diffs = append(diffs, fmt.Sprintf("origin %q, want %q", active.OriginAirport, want.Origin))
	}
	if want.Destination != "" && active.DestinationAirport != want.Destination {
		diffs = append(diffs, fmt.Sprintf("destination %q, want %q", active.DestinationAirport, want.Destination))
	}
	if want.CruiseFlightLevel != nil && active.CruiseFlightLevel != *want.CruiseFlightLevel {
		diffs = append(diffs, fmt.Sprintf("cruise flight level %d, want %d", active.CruiseFlightLevel, *want.CruiseFlightLevel))
	}
	if want.Waypoints != nil {
		got := []string{}
		for _, e := range active.EnrouteLegs {
			if e.Leg != nil {
				got = append(got, e.Leg.Waypoint.Ident)
			}
		}
		if !reflect.DeepEqual(got, want.Waypoints) {
			diffs = append(diffs, fmt.Sprintf("waypoints %v, want %v", got, want.Waypoints))
		}
	}

	if len(diffs) > 0 {
		return &AssertionError{
			Type:     AssertFMSActive,
			Expected: "active plan to match",
			Actual:   strings.Join(diffs, "; "),
			Trace:    result.Trace,
		}
	}
	return nil
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertCycles:
			err = assertCycles(result, assertion)
		case AssertCommandCount, AssertCommandOrder, AssertStoredPlan:
			if actx == nil || actx.Host == nil {
				err = fmt.Errorf("assertion[%d]: %s requires a host", i, assertion.Type)
				break
			}
			switch assertion.Type {
			case AssertCommandCount:
				err = assertCommandCount(result, actx.Host.Commands(), assertion)
			case AssertCommandOrder:
				err = assertCommandOrder(result, actx.Host.Commands(), assertion)
			default:
				err = assertStoredPlan(result, actx.Host.Stored(), assertion)
			}
		case AssertFMSActive:
			if actx == nil || actx.FMS == nil {
				err = fmt.Errorf("assertion[%d]: fms_active requires a flight management side", i)
				break
			}
			err = assertFMSActive(result, actx.FMS.Plan(fms.PlanActive), assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
