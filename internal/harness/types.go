package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/fpsync/internal/pipeline"
	"github.com/roach88/fpsync/internal/store"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if all assertions match.
	Pass bool `json:"pass"`

	// Cycles is the journal, in seq order, with calls.
	Cycles []store.Cycle `json:"-"`

	// Trace is the rendered journal used for golden comparison.
	Trace string `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Outcomes returns kind:outcome per cycle.
func (r *Result) Outcomes() []string {
	out := make([]string, len(r.Cycles))
	for i, c := range r.Cycles {
		out[i] = c.Kind + ":" + c.Outcome
	}
	return out
}

// FormatTrace renders cycles one block per cycle:
//
//	cycle 1 save completed
//	  0 SET_CURRENT_FLIGHTPLAN_INDEX(0, true)
//	  ...
//
// Failed and aborted cycles carry an "error:" line after their calls.
func FormatTrace(name string, cycles []store.Cycle) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "scenario %s\n", name)
	for _, c := range cycles {
		fmt.Fprintf(&sb, "cycle %d %s %s\n", c.Seq, c.Kind, c.Outcome)
		for i, line := range CallLines(c.Calls) {
			fmt.Fprintf(&sb, "%3d %s\n", i, line)
		}
		if c.Error != "" {
			fmt.Fprintf(&sb, "error: %s\n", c.Error)
		}
	}
	return sb.String()
}

// CallLines renders journaled calls the way pipeline reports print them.
func CallLines(calls []store.Call) []string {
	lines := make([]string, len(calls))
	for i, c := range calls {
		lines[i] = pipeline.Call{
			Side:   pipeline.Side(c.Side),
			Name:   c.Name,
			Args:   c.Args,
			Failed: c.Failed,
			Note:   c.Note,
		}.String()
	}
	return lines
}
