package fms

// Payloads carried on the bus topics the sync engine consumes and produces.

// SyncRequest asks the flight management side to publish a SyncResponse.
type SyncRequest struct{}

// SyncResponse carries snapshots of every populated plan slot.
type SyncResponse struct {
	Plans map[PlanIndex]*FlightPlanSnapshot
}

// Plan returns the snapshot for idx, or nil when the slot is empty.
func (r SyncResponse) Plan(idx PlanIndex) *FlightPlanSnapshot {
	if r.Plans == nil {
		return nil
	}
	return r.Plans[idx]
}

// CruiseFlightLevelChanged announces a performance data change.
type CruiseFlightLevelChanged struct {
	Plan        PlanIndex
	FlightLevel int
}

// SegmentLegsChanged announces a new leg list for one segment of a plan.
type SegmentLegsChanged struct {
	Plan    PlanIndex
	Segment int
	Legs    []Element
}

// PlanCopied announces that one plan slot was copied over another.
type PlanCopied struct {
	Source PlanIndex
	Target PlanIndex
}

// PlanCreated announces that a plan slot was (re)initialized.
type PlanCreated struct {
	Plan PlanIndex
}

// PlanOp names a remote mutation of the flight management plan.
type PlanOp string

const (
	OpNewCityPair          PlanOp = "newCityPair"
	OpSetCruiseFlightLevel PlanOp = "setCruiseFlightLevel"
	OpNextWaypoint         PlanOp = "nextWaypoint"
	OpUplinkInsert         PlanOp = "uplinkInsert"
)

// PlanCommand is a mutation request published by Client implementations.
type PlanCommand struct {
	Op          PlanOp
	Plan        PlanIndex
	From        string
	To          string
	FlightLevel int
	At          int
	Waypoint    *Waypoint
}
