package pipeline

import (
	"fmt"
	"strings"

	"github.com/roach88/fpsync/internal/fms"
	"github.com/roach88/fpsync/internal/host"
)

// Kind names the pipeline that produced a report.
type Kind string

const (
	KindLoad   Kind = "load"
	KindSave   Kind = "save"
	KindCruise Kind = "cruise"
)

// Outcome is how a pipeline run ended.
type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	// OutcomeSkipped means the run ended early without side effects on the
	// synchronized plan (validation failure, direct-to plan).
	OutcomeSkipped Outcome = "skipped"
	OutcomeAborted Outcome = "aborted"
	OutcomeFailed  Outcome = "failed"
)

// Side is the target of a remote call.
type Side string

const (
	SideHost Side = "host"
	SideFMS  Side = "fms"
)

// Call is one remote call issued by a pipeline, recorded before it is sent.
type Call struct {
	Side Side   `json:"side" yaml:"side"`
	Name string `json:"name" yaml:"name"`
	Args []any  `json:"args,omitempty" yaml:"args,omitempty"`
	// Failed is set when the remote side returned an error.
	Failed bool `json:"failed,omitempty" yaml:"failed,omitempty"`
	// Note carries context the command itself does not, such as the
	// constraint window of an inserted leg. It is never sent.
	Note string `json:"note,omitempty" yaml:"note,omitempty"`
}

// Read-only calls: they never change the synchronized plans.
const (
	callGetFlightPlan = "GET_FLIGHTPLAN"
	callSyncRequest   = "syncRequest"
	callAirport       = "GET_AIRPORT"
)

// Mutating reports whether the call changes either plan. Snapshot reads,
// catalog reads, sync requests and the host's ATC plan reload are not
// mutations of the synchronized state.
func (c Call) Mutating() bool {
	switch c.Name {
	case callGetFlightPlan, callSyncRequest, callAirport, host.CmdLoadATCFlightPlan:
		return false
	}
	return true
}

func (c Call) String() string {
	s := host.Command{Name: c.Name, Args: c.Args}.String()
	if c.Side == SideFMS {
		s = "fms." + s
	}
	if c.Note != "" {
		s += " [" + c.Note + "]"
	}
	if c.Failed {
		s += " !"
	}
	return s
}

// Report describes a single pipeline run.
type Report struct {
	Kind    Kind
	Outcome Outcome
	Calls   []Call
	// Err is the failure or abort cause; nil when completed.
	Err error
	// Snapshot is the plan a save run pushed.
	Snapshot *fms.FlightPlanSnapshot
}

// Mutations returns the mutating calls in order.
func (r *Report) Mutations() []Call {
	var out []Call
	for _, c := range r.Calls {
		if c.Mutating() {
			out = append(out, c)
		}
	}
	return out
}

// HostCommands returns the host commands in order.
func (r *Report) HostCommands() []host.Command {
	var out []host.Command
	for _, c := range r.Calls {
		if c.Side == SideHost && c.Name != callGetFlightPlan && c.Name != callAirport {
			out = append(out, host.Command{Name: c.Name, Args: c.Args})
		}
	}
	return out
}

// Trace renders one call per line.
func (r *Report) Trace() string {
	var sb strings.Builder
	for i, c := range r.Calls {
		fmt.Fprintf(&sb, "%3d %s\n", i, c)
	}
	return sb.String()
}
