package pipeline

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/roach88/fpsync/internal/fms"
	"github.com/roach88/fpsync/internal/host"
	"github.com/roach88/fpsync/internal/procedure"
)

// Save pushes the session's captured plan into the host's active plan. A
// run with no captured plan still clears the host plan.
func (r *Runner) Save(ctx context.Context, s *Session) *Report {
	x := r.start(KindSave, ModeSave)
	s.Runs++
	snap := s.Snapshot.Clone()
	if snap == nil {
		snap = &fms.FlightPlanSnapshot{}
	}
	x.report.Snapshot = snap
	err := x.save(ctx, snap)
	rep := x.finish(err)
	s.Last = rep
	return rep
}

// SaveCruise pushes only the cruise altitude. It is used when the
// performance data is the only thing that changed.
func (r *Runner) SaveCruise(ctx context.Context, s *Session, fl int) *Report {
	x := r.start(KindCruise, ModeSave)
	s.Runs++
	s.SetCruiseFlightLevel(fl)
	err := x.host(ctx, host.SetCruiseAltitude(fl*100))
	rep := x.finish(err)
	s.Last = rep
	return rep
}

func (x *run) save(ctx context.Context, snap *fms.FlightPlanSnapshot) (err error) {
	defer guard(&err)

	if err := x.host(ctx, host.SelectActivePlan(int(fms.PlanActive))); err != nil {
		return err
	}
	if err := x.host(ctx, host.ClearPlan()); err != nil {
		return err
	}

	if snap.HasCityPair() {
		if err := x.saveRoute(ctx, snap); err != nil {
			return err
		}
		if err := x.saveDeparture(ctx, snap); err != nil {
			return err
		}
		if err := x.saveArrival(ctx, snap); err != nil {
			return err
		}
	}

	// Procedure selection resets the host's cruise altitude, so it goes
	// after every index call.
	if snap.CruiseFlightLevel > 0 {
		if err := x.host(ctx, host.SetCruiseAltitude(snap.CruiseFlightLevel*100)); err != nil {
			return err
		}
	}
	return x.host(ctx, host.RecomputeActiveLeg())
}

func (x *run) saveRoute(ctx context.Context, snap *fms.FlightPlanSnapshot) error {
	if err := x.host(ctx, host.SetOrigin(host.AirportICAO(snap.OriginAirport))); err != nil {
		return err
	}
	if err := x.host(ctx, host.SetDestination(host.AirportICAO(snap.DestinationAirport))); err != nil {
		return err
	}

	index := 1
	for _, e := range snap.EnrouteLegs {
		if e.Discontinuity || e.Leg == nil {
			continue
		}
		wpt := e.Leg.Waypoint
		if wpt.IsAirport() {
			continue
		}
		if err := x.hostNote(ctx, host.InsertWaypoint(wpt.DatabaseID, index), constraintNote(*e.Leg)); err != nil {
			return err
		}
		index++
	}
	return nil
}

// constraintNote renders the altitude and speed windows of a constrained
// leg, e.g. "alt 11000..+Inf". The host has no constraint commands, so the
// window only reaches the journal.
func constraintNote(l fms.Leg) string {
	var parts []string
	if l.Altitude != nil {
		lo, hi := l.AltitudeWindow()
		parts = append(parts, "alt "+formatWindow(lo, hi))
	}
	if l.Speed != nil {
		parts = append(parts, "spd "+formatWindow(fms.MinimumSpeed(l.Speed), fms.MaximumSpeed(l.Speed)))
	}
	return strings.Join(parts, " ")
}

func formatWindow(lo, hi float64) string {
	return strconv.FormatFloat(lo, 'f', -1, 64) + ".." + strconv.FormatFloat(hi, 'f', -1, 64)
}

func (x *run) saveDeparture(ctx context.Context, snap *fms.FlightPlanSnapshot) error {
	p := snap.Procedures
	if p.OriginRunway == "" {
		return nil
	}
	rwy, err := procedure.ParseRunwayIdent(p.OriginRunway)
	if err != nil {
		return unmappedError("originRunway", err)
	}
	ap, err := x.airport(ctx, host.AirportICAO(snap.OriginAirport))
	if err != nil {
		return err
	}
	match, ok := procedure.MatchRunway(ap.Runways, rwy)
	if !ok {
		slog.Warn("origin runway not in catalog", "airport", snap.OriginAirport, "runway", p.OriginRunway)
		return nil
	}

	dep := procedure.ProcedureByName(ap.Departures, p.DepartureIdent)
	trans := procedure.EnrouteTransition(ap.Departures, dep, p.DepartureTransitionIdent)
	logFallback("departure", p.DepartureIdent, dep)
	logFallback("departure transition", p.DepartureTransitionIdent, trans)

	for _, cmd := range []host.Command{
		host.SetOriginRunwayIndex(match.Runway),
		host.SetDepartureRunwayIndex(match.End),
		host.SetDepartureProcedureIndex(dep.OrZero()),
		host.SetDepartureTransitionIndex(trans.OrZero()),
	} {
		if err := x.host(ctx, cmd); err != nil {
			return err
		}
	}
	return nil
}

func (x *run) saveArrival(ctx context.Context, snap *fms.FlightPlanSnapshot) error {
	p := snap.Procedures
	if p.DestinationRunway == "" {
		return nil
	}
	rwy, err := procedure.ParseRunwayIdent(p.DestinationRunway)
	if err != nil {
		return unmappedError("destinationRunway", err)
	}
	ap, err := x.airport(ctx, host.AirportICAO(snap.DestinationAirport))
	if err != nil {
		return err
	}
	match, ok := procedure.MatchRunway(ap.Runways, rwy)
	if !ok {
		slog.Warn("destination runway not in catalog", "airport", snap.DestinationAirport, "runway", p.DestinationRunway)
		return nil
	}

	arr := procedure.ProcedureByName(ap.Arrivals, p.ArrivalIdent)
	arrTrans := procedure.EnrouteTransition(ap.Arrivals, arr, p.ArrivalTransitionIdent)
	logFallback("arrival", p.ArrivalIdent, arr)
	logFallback("arrival transition", p.ArrivalTransitionIdent, arrTrans)

	appr, apprTrans := procedure.NotFound, procedure.NotFound
	if p.ApproachIdent != "" {
		q, err := procedure.NewApproachQuery(p.ApproachIdent, rwy, match)
		if err != nil {
			return unmappedError("approach", err)
		}
		appr = procedure.FindApproach(ap.Approaches, q)
		apprTrans = procedure.ApproachTransition(ap.Approaches, appr, p.ApproachTransitionIdent)
		logFallback("approach", p.ApproachIdent, appr)
		logFallback("approach transition", p.ApproachTransitionIdent, apprTrans)
	}

	for _, cmd := range []host.Command{
		host.SetArrivalRunwayIndex(match.Flat),
		host.SetArrivalProcedureIndex(arr.OrZero()),
		host.SetArrivalTransitionIndex(arrTrans.OrZero()),
		host.SetApproachIndex(appr.OrZero()),
		host.SetApproachTransitionIndex(apprTrans.OrZero()),
	} {
		if err := x.host(ctx, cmd); err != nil {
			return err
		}
	}
	return nil
}

func logFallback(what, ident string, i procedure.Index) {
	if ident != "" && !i.Found() {
		slog.Warn("not in catalog, using index 0", "what", what, "ident", ident)
	}
}
