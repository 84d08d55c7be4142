package hostsim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/fpsync/internal/bus"
	"github.com/roach88/fpsync/internal/fms"
)

func record(b *bus.Bus, topics ...bus.Topic) *[]bus.Message {
	var got []bus.Message
	for _, topic := range topics {
		b.Subscribe(topic, func(m bus.Message) { got = append(got, m) })
	}
	return &got
}

func TestFMS_RespondsToSyncRequest(t *testing.T) {
	b := bus.New()
	active := &fms.FlightPlanSnapshot{OriginAirport: "KJFK", DestinationAirport: "KLAX", CruiseFlightLevel: 350}
	f := NewFMS(b, active)
	defer f.Close()
	got := record(b, bus.TopicSyncResponse)

	b.Publish(bus.Message{Topic: bus.TopicSyncRequest, Payload: fms.SyncRequest{}})

	require.Len(t, *got, 1)
	resp := (*got)[0].Payload.(fms.SyncResponse)
	assert.Equal(t, active, resp.Plan(fms.PlanActive))
	assert.Nil(t, resp.Plan(fms.PlanUplink))
}

func TestFMS_Silent(t *testing.T) {
	b := bus.New()
	f := NewFMS(b, nil)
	defer f.Close()
	f.SetSilent(true)
	got := record(b, bus.TopicSyncResponse)

	b.Publish(bus.Message{Topic: bus.TopicSyncRequest})
	assert.Empty(t, *got)
}

func TestFMS_BuildsAndCommitsUplink(t *testing.T) {
	b := bus.New()
	f := NewFMS(b, nil)
	defer f.Close()
	got := record(b, bus.TopicPlanCreated, bus.TopicSegmentLegs, bus.TopicPlanCopied)

	c := fms.NewBusClient(b)
	defer c.Close()
	ctx := context.Background()
	require.NoError(t, c.NewCityPair(ctx, "KJFK", "KLAX", fms.PlanUplink))
	require.NoError(t, c.SetCruiseFlightLevel(ctx, 350, fms.PlanUplink))
	require.NoError(t, c.NextWaypoint(ctx, 1, fms.Waypoint{Ident: "WPT1"}, fms.PlanUplink))
	require.NoError(t, c.NextWaypoint(ctx, 2, fms.Waypoint{Ident: "WPT2"}, fms.PlanUplink))
	require.NoError(t, c.CommitUplink(ctx))

	assert.Nil(t, f.Plan(fms.PlanUplink))
	active := f.Plan(fms.PlanActive)
	require.NotNil(t, active)
	assert.Equal(t, "KJFK", active.OriginAirport)
	assert.Equal(t, 350, active.CruiseFlightLevel)
	require.Len(t, active.EnrouteLegs, 2)
	assert.Equal(t, "WPT1", active.EnrouteLegs[0].Leg.Waypoint.Ident)
	assert.Equal(t, "WPT2", active.EnrouteLegs[1].Leg.Waypoint.Ident)

	topics := make([]bus.Topic, len(*got))
	for i, m := range *got {
		topics[i] = m.Topic
	}
	assert.Equal(t, []bus.Topic{
		bus.TopicPlanCreated, bus.TopicSegmentLegs, bus.TopicSegmentLegs, bus.TopicPlanCopied,
	}, topics)
}

func TestFMS_CommitWithoutUplinkIsIgnored(t *testing.T) {
	b := bus.New()
	f := NewFMS(b, &fms.FlightPlanSnapshot{OriginAirport: "KBOS"})
	defer f.Close()

	b.Publish(bus.Message{Topic: bus.TopicPlanCommand, Payload: fms.PlanCommand{Op: fms.OpUplinkInsert}})
	assert.Equal(t, "KBOS", f.Plan(fms.PlanActive).OriginAirport)
}

func TestFMS_EditActivePublishesChanges(t *testing.T) {
	b := bus.New()
	f := NewFMS(b, &fms.FlightPlanSnapshot{CruiseFlightLevel: 300})
	defer f.Close()
	got := record(b, bus.TopicSegmentLegs, bus.TopicCruiseFlightLevel)

	f.EditActive(func(p *fms.FlightPlanSnapshot) {
		p.EnrouteLegs = append(p.EnrouteLegs, fms.LegElement(fms.Leg{Waypoint: fms.Waypoint{Ident: "WPT1"}}))
		p.CruiseFlightLevel = 320
	})

	require.Len(t, *got, 2)
	legs := (*got)[0].Payload.(fms.SegmentLegsChanged)
	assert.Equal(t, fms.PlanActive, legs.Plan)
	assert.Equal(t, fms.EnrouteSegment, legs.Segment)
	assert.Len(t, legs.Legs, 1)
	assert.Equal(t, fms.CruiseFlightLevelChanged{Plan: fms.PlanActive, FlightLevel: 320}, (*got)[1].Payload)
}
