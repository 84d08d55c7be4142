package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/fpsync/internal/bus"
	"github.com/roach88/fpsync/internal/fms"
	"github.com/roach88/fpsync/internal/host"
)

func callNames(rep *Report) []string {
	out := make([]string, len(rep.Calls))
	for i, c := range rep.Calls {
		out[i] = c.Name
	}
	return out
}

func TestLoad_BuildsUplinkFromEnrouteSlice(t *testing.T) {
	w := newTestWorld(t, ModeLoad, hostPlan())
	s := &Session{}

	rep := w.runner.Load(context.Background(), s)

	require.Equal(t, OutcomeCompleted, rep.Outcome, "err: %v", rep.Err)
	assert.Equal(t, []string{
		host.CmdLoadATCFlightPlan,
		callSyncRequest,
		callGetFlightPlan,
		string(fms.OpNewCityPair),
		string(fms.OpSetCruiseFlightLevel),
		string(fms.OpNextWaypoint),
		string(fms.OpNextWaypoint),
		string(fms.OpUplinkInsert),
	}, callNames(rep))
	assert.Equal(t, []any{1, "WPT1", int(fms.PlanUplink)}, rep.Calls[5].Args)
	assert.Equal(t, []any{2, "WPT2", int(fms.PlanUplink)}, rep.Calls[6].Args)

	active := w.FMS.Plan(fms.PlanActive)
	require.NotNil(t, active)
	assert.Equal(t, "KJFK", active.OriginAirport)
	assert.Equal(t, "KLAX", active.DestinationAirport)
	assert.Equal(t, 350, active.CruiseFlightLevel)
	assert.Equal(t, []string{"WPT1", "WPT2"}, legIdents(active))
	assert.Nil(t, w.FMS.Plan(fms.PlanUplink))
	assert.Equal(t, 1, s.Runs)
}

func TestLoad_UnknownSegmentSizes(t *testing.T) {
	p := hostPlan()
	p.DepartureWaypoints = host.UnknownSegmentSize
	p.ArrivalWaypoints = host.UnknownSegmentSize
	w := newTestWorld(t, ModeLoad, p)

	rep := w.runner.Load(context.Background(), &Session{})

	require.Equal(t, OutcomeCompleted, rep.Outcome)
	assert.Equal(t, []string{"DEP1", "WPT1", "WPT2", "ARR1"}, legIdents(w.FMS.Plan(fms.PlanActive)))
}

func TestLoad_EmptyWaypointsIssuesNoMutations(t *testing.T) {
	p := hostPlan()
	p.Waypoints = nil
	w := newTestWorld(t, ModeLoad, p)

	rep := w.runner.Load(context.Background(), &Session{})

	assert.Equal(t, OutcomeSkipped, rep.Outcome)
	assert.True(t, IsValidation(rep.Err))
	assert.Empty(t, rep.Mutations())
	assert.Nil(t, w.FMS.Plan(fms.PlanUplink))
}

func TestLoad_DirectToIsSkipped(t *testing.T) {
	p := hostPlan()
	p.IsDirectTo = true
	w := newTestWorld(t, ModeLoad, p)

	rep := w.runner.Load(context.Background(), &Session{})

	assert.Equal(t, OutcomeSkipped, rep.Outcome)
	assert.Empty(t, rep.Mutations())
}

func TestLoad_NonFacilityEndpointIsSkipped(t *testing.T) {
	p := hostPlan()
	p.Waypoints[len(p.Waypoints)-1] = host.Facility{ICAO: "X"}
	w := newTestWorld(t, ModeLoad, p)

	rep := w.runner.Load(context.Background(), &Session{})

	assert.Equal(t, OutcomeSkipped, rep.Outcome)
	assert.Empty(t, rep.Mutations())
}

func TestLoad_ReleasesClient(t *testing.T) {
	tests := []struct {
		name string
		plan *host.Plan
	}{
		{"completed", hostPlan()},
		{"validation failure", &host.Plan{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWorld(t, ModeLoad, tt.plan)
			w.runner.Load(context.Background(), &Session{})
			assert.Zero(t, w.Bus.Subscribers(bus.TopicSyncResponse))
		})
	}
}

func TestLoad_GivesUpWhenNeverReady(t *testing.T) {
	w := newTestWorld(t, ModeLoad, hostPlan())
	w.FMS.SetSilent(true)

	rep := w.runner.Load(context.Background(), &Session{})

	assert.Equal(t, OutcomeFailed, rep.Outcome)
	var pe *Error
	require.ErrorAs(t, rep.Err, &pe)
	assert.Equal(t, ErrCodeUnavailable, pe.Code)
	assert.Empty(t, rep.Mutations())
	assert.Zero(t, w.Bus.Subscribers(bus.TopicSyncResponse))
}

func TestLoad_UnboundedWaitEndsWithContext(t *testing.T) {
	w := newTestWorld(t, ModeLoad, hostPlan())
	w.FMS.SetSilent(true)
	w.runner.Poll = PollConfig{Interval: time.Millisecond}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	rep := w.runner.Load(ctx, &Session{})

	assert.Equal(t, OutcomeFailed, rep.Outcome)
	assert.ErrorIs(t, rep.Err, context.DeadlineExceeded)
}

func TestLoad_CanceledDuringInitialDelay(t *testing.T) {
	w := newTestWorld(t, ModeLoad, hostPlan())
	w.runner.Poll.InitialDelay = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rep := w.runner.Load(ctx, &Session{})

	assert.Equal(t, OutcomeAborted, rep.Outcome)
	assert.Empty(t, rep.Calls)
}

func TestLoad_ModeChangeAborts(t *testing.T) {
	w := newTestWorld(t, ModeLoad, hostPlan())
	w.Host.OnCall = func(c host.Command) {
		if c.Name == host.CmdLoadATCFlightPlan {
			w.mode.Set(ModeSave)
		}
	}

	rep := w.runner.Load(context.Background(), &Session{})

	assert.Equal(t, OutcomeAborted, rep.Outcome)
	assert.True(t, IsAborted(rep.Err))
	assert.Equal(t, []string{host.CmdLoadATCFlightPlan}, callNames(rep))
	assert.Nil(t, w.FMS.Plan(fms.PlanUplink))
}

func TestLoad_UsesATCPlan(t *testing.T) {
	w := newTestWorld(t, ModeLoad, &host.Plan{})
	w.Host.SetATCPlan(hostPlan())

	rep := w.runner.Load(context.Background(), &Session{})

	require.Equal(t, OutcomeCompleted, rep.Outcome)
	assert.Equal(t, []string{"WPT1", "WPT2"}, legIdents(w.FMS.Plan(fms.PlanActive)))
}

func TestRoundTrip_LoadThenSave(t *testing.T) {
	w := newTestWorld(t, ModeLoad, hostPlan())
	s := &Session{}

	require.Equal(t, OutcomeCompleted, w.runner.Load(context.Background(), s).Outcome)

	s.Capture(w.FMS.Plan(fms.PlanActive))
	w.mode.Set(ModeSave)
	rep := w.runner.Save(context.Background(), s)

	require.Equal(t, OutcomeCompleted, rep.Outcome)
	cmds := rep.HostCommands()
	assert.Contains(t, cmds, host.SetOrigin(hostPlan().Waypoints[0].ICAO))
	assert.Contains(t, cmds, host.SetDestination(hostPlan().Waypoints[6].ICAO))
	assert.Contains(t, cmds, host.SetCruiseAltitude(hostPlan().CruisingAltitude))
	assert.Equal(t, []string{
		string(hostPlan().Waypoints[2].ICAO),
		string(hostPlan().Waypoints[4].ICAO),
	}, w.Host.Stored().Waypoints)
}
