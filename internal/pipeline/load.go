package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/cenkalti/backoff/v4"

	"github.com/roach88/fpsync/internal/bus"
	"github.com/roach88/fpsync/internal/fms"
	"github.com/roach88/fpsync/internal/host"
	"github.com/roach88/fpsync/internal/mapping"
)

var errNotReady = errors.New("flight management plans not published yet")

// Load copies the host's current plan into the flight management uplink
// plan and commits it. The plan is read once per run; the uplink is only
// committed after every waypoint has been inserted.
func (r *Runner) Load(ctx context.Context, s *Session) *Report {
	x := r.start(KindLoad, ModeLoad)
	s.Runs++
	err := x.load(ctx)
	rep := x.finish(err)
	s.Last = rep
	return rep
}

func (x *run) load(ctx context.Context) (err error) {
	defer guard(&err)

	if err := sleep(ctx, x.Poll.InitialDelay); err != nil {
		return err
	}
	if err := x.host(ctx, host.LoadATCFlightPlan()); err != nil {
		return err
	}

	client := x.NewClient()
	defer client.Close()

	if err := x.checkpoint(callSyncRequest); err != nil {
		return err
	}
	x.record(SideFMS, callSyncRequest)
	x.Bus.Publish(bus.Message{Topic: bus.TopicSyncRequest, Payload: fms.SyncRequest{}})

	if err := x.awaitReady(ctx, client); err != nil {
		return err
	}

	if err := x.checkpoint(callGetFlightPlan); err != nil {
		return err
	}
	i := x.record(SideHost, callGetFlightPlan)
	plan, err := x.Host.FlightPlan(ctx)
	if err != nil {
		x.report.Calls[i].Failed = true
		return commandError(callGetFlightPlan, err)
	}
	if err := validatePlan(plan); err != nil {
		return err
	}

	origin := plan.Waypoints[0].ICAO.Ident()
	dest := plan.Waypoints[len(plan.Waypoints)-1].ICAO.Ident()
	err = x.fms(string(fms.OpNewCityPair), func() error {
		return client.NewCityPair(ctx, origin, dest, fms.PlanUplink)
	}, origin, dest, int(fms.PlanUplink))
	if err != nil {
		return err
	}

	fl := plan.CruisingAltitude / 100
	err = x.fms(string(fms.OpSetCruiseFlightLevel), func() error {
		return client.SetCruiseFlightLevel(ctx, fl, fms.PlanUplink)
	}, fl, int(fms.PlanUplink))
	if err != nil {
		return err
	}

	// Insertion positions are contiguous: skipped facilities do not
	// consume a slot.
	at := 1
	for _, f := range plan.Enroute() {
		if f.ICAO.IsBlank() {
			continue
		}
		wpt := mapping.Waypoint(f)
		err := x.fms(string(fms.OpNextWaypoint), func() error {
			return client.NextWaypoint(ctx, at, wpt, fms.PlanUplink)
		}, at, wpt.Ident, int(fms.PlanUplink))
		if err != nil {
			return err
		}
		at++
	}

	return x.fms(string(fms.OpUplinkInsert), func() error {
		return client.CommitUplink(ctx)
	})
}

// awaitReady polls the client until it has seen a plan published, the
// attempt bound is hit, the mode changes or ctx is done.
func (x *run) awaitReady(ctx context.Context, client fms.Client) error {
	var b backoff.BackOff = backoff.NewConstantBackOff(x.Poll.Interval)
	if x.Poll.MaxAttempts > 0 {
		b = backoff.WithMaxRetries(b, uint64(x.Poll.MaxAttempts-1))
	}
	b = backoff.WithContext(b, ctx)

	err := backoff.Retry(func() error {
		if err := x.checkpoint("awaitReady"); err != nil {
			return backoff.Permanent(err)
		}
		if client.Ready() {
			return nil
		}
		return errNotReady
	}, b)
	if errors.Is(err, errNotReady) {
		return &Error{
			Code:    ErrCodeUnavailable,
			Op:      "awaitReady",
			Message: fmt.Sprintf("gave up after %d attempts", x.Poll.MaxAttempts),
			Err:     err,
		}
	}
	return err
}

// validatePlan rejects plans the load pipeline must not copy.
func validatePlan(p *host.Plan) error {
	if p == nil {
		return validationError("host returned no flight plan")
	}
	if p.IsDirectTo {
		return validationError("host plan is a direct-to")
	}
	if len(p.Waypoints) == 0 {
		return validationError("host plan has no waypoints")
	}
	first, last := p.Waypoints[0], p.Waypoints[len(p.Waypoints)-1]
	if !first.ICAO.IsFacility() || !last.ICAO.IsFacility() {
		return validationError(fmt.Sprintf("host plan endpoints %q and %q are not facilities", first.ICAO, last.ICAO))
	}
	return nil
}
