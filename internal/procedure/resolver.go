// Package procedure resolves textual runway, procedure and approach
// identifiers against a host airport catalog.
//
// Every lookup returns an Index that is either a position in the catalog
// or NotFound. Callers choose the fallback; the save pipeline uses 0.
package procedure

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/fpsync/internal/host"
)

var ErrInvalidRunway = errors.New("invalid runway ident")

// Index is a catalog position or NotFound.
type Index int

// NotFound is returned when no catalog entry matches. It is distinct from
// a match at position 0.
const NotFound Index = -1

func (i Index) Found() bool { return i >= 0 }

// OrZero returns the index, or 0 when nothing matched. Falling back to the
// first catalog entry can select the wrong procedure; the host has no way
// to express "none".
func (i Index) OrZero() int {
	if i < 0 {
		return 0
	}
	return int(i)
}

func (i Index) String() string {
	if !i.Found() {
		return "not-found"
	}
	return fmt.Sprint(int(i))
}

// RunwayIdent is a parsed runway identifier such as "RW25L" or "25L".
type RunwayIdent struct {
	Number     int
	Designator host.RunwayDesignator
}

// ParseRunwayIdent parses a runway ident. A trailing letter must be a known
// designator; an unknown letter is an error rather than a wildcard.
func ParseRunwayIdent(s string) (RunwayIdent, error) {
	s = strings.TrimSpace(s)
	n, ok := host.RunwayNumber(s)
	if !ok {
		return RunwayIdent{}, fmt.Errorf("%w %q", ErrInvalidRunway, s)
	}
	id := RunwayIdent{Number: n}
	last := s[len(s)-1]
	if last < '0' || last > '9' {
		d, err := host.ParseRunwayDesignator(last)
		if err != nil {
			return RunwayIdent{}, fmt.Errorf("runway %q: %w", s, err)
		}
		id.Designator = d
	}
	return id, nil
}

// RunwayMatch locates a runway end in an airport catalog.
type RunwayMatch struct {
	// Runway is the index into Airport.Runways.
	Runway int
	// End is the index of the matched token within the runway's
	// designation.
	End int
	// Flat counts designation tokens across all runways up to and
	// including the match, minus one.
	Flat int
	// Designator is the catalog runway's secondary designator.
	Designator host.RunwayDesignator
}

// MatchRunway scans runways in catalog order and returns the first end whose
// number equals id.Number and whose runway carries the same secondary
// designator. A runway with no secondary designator matches any designator.
func MatchRunway(runways []host.Runway, id RunwayIdent) (RunwayMatch, bool) {
	flat := 0
	for ri, rwy := range runways {
		for ei, end := range rwy.Ends() {
			n, ok := host.RunwayNumber(end)
			if ok && n == id.Number &&
				(rwy.DesignatorSecondary == host.RunwayDesignatorNone || rwy.DesignatorSecondary == id.Designator) {
				return RunwayMatch{Runway: ri, End: ei, Flat: flat, Designator: rwy.DesignatorSecondary}, true
			}
			flat++
		}
	}
	return RunwayMatch{}, false
}

// ProcedureByName returns the position of the procedure named name.
func ProcedureByName(procs []host.Procedure, name string) Index {
	if name == "" {
		return NotFound
	}
	for i, p := range procs {
		if p.Name == name {
			return Index(i)
		}
	}
	return NotFound
}

// TransitionByName returns the position of the transition named name.
func TransitionByName(ts []host.Transition, name string) Index {
	if name == "" {
		return NotFound
	}
	for i, t := range ts {
		if t.Name == name {
			return Index(i)
		}
	}
	return NotFound
}

// EnrouteTransition resolves an enroute transition. When proc is found only
// its transitions are searched; otherwise each procedure's list is searched
// in catalog order and the position within the first list that has it is
// returned.
func EnrouteTransition(procs []host.Procedure, proc Index, name string) Index {
	if proc.Found() && int(proc) < len(procs) {
		return TransitionByName(procs[proc].EnrouteTransitions, name)
	}
	for _, p := range procs {
		if i := TransitionByName(p.EnrouteTransitions, name); i.Found() {
			return i
		}
	}
	return NotFound
}

// ApproachTransition resolves an approach transition the same way
// EnrouteTransition does for departures and arrivals.
func ApproachTransition(approaches []host.Approach, approach Index, name string) Index {
	if approach.Found() && int(approach) < len(approaches) {
		return TransitionByName(approaches[approach].Transitions, name)
	}
	for _, a := range approaches {
		if i := TransitionByName(a.Transitions, name); i.Found() {
			return i
		}
	}
	return NotFound
}

// ApproachQuery is the composite key an approach is matched on.
type ApproachQuery struct {
	RunwayNumber int
	Designator   host.RunwayDesignator
	Type         host.ApproachType
	// Suffix is compared only against catalog entries that declare one.
	Suffix string
}

// NewApproachQuery builds the query for the approach ident (e.g. "I25L",
// "R25LY") flown to the matched runway end. The designator is the catalog
// runway's, so a runway without one only matches approaches without one.
// The approach type comes from the ident's first letter; an unmapped letter
// is an error.
func NewApproachQuery(ident string, rwy RunwayIdent, match RunwayMatch) (ApproachQuery, error) {
	if ident == "" {
		return ApproachQuery{}, fmt.Errorf("%w: empty approach ident", host.ErrUnknownApproachType)
	}
	typ, err := host.ApproachTypeForLetter(ident[0])
	if err != nil {
		return ApproachQuery{}, fmt.Errorf("approach %q: %w", ident, err)
	}
	return ApproachQuery{
		RunwayNumber: rwy.Number,
		Designator:   match.Designator,
		Type:         typ,
		Suffix:       ident[len(ident)-1:],
	}, nil
}

// FindApproach returns the first approach matching q.
func FindApproach(approaches []host.Approach, q ApproachQuery) Index {
	for i, a := range approaches {
		if a.RunwayNumber != q.RunwayNumber || a.RunwayDesignator != q.Designator || a.Type != q.Type {
			continue
		}
		if a.Suffix != "" && a.Suffix != q.Suffix {
			continue
		}
		return Index(i)
	}
	return NotFound
}
