package store

import "github.com/roach88/fpsync/internal/fms"

// Setting keys.
const (
	// KeySyncMode holds the persisted sync mode.
	KeySyncMode = "FP_SYNC"
)

// Call is one remote call recorded in a cycle.
type Call struct {
	Side   string
	Name   string
	Args   []any
	Failed bool
	Note   string
}

// Cycle is the journal record of one pipeline run.
type Cycle struct {
	ID      string
	Seq     int64
	Kind    string
	Outcome string
	// Error is empty for completed cycles.
	Error string
	// CommandCount is len(Calls) at write time. Listing queries fill it
	// without loading Calls.
	CommandCount int
	Calls        []Call
	// Snapshot is the plan a save cycle pushed; nil for other kinds.
	Snapshot *fms.FlightPlanSnapshot
}
