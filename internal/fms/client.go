package fms

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/roach88/fpsync/internal/bus"
)

// Client mutates the flight management plans. Every method is a remote
// call; callers issue them strictly one at a time.
type Client interface {
	NewCityPair(ctx context.Context, from, to string, plan PlanIndex) error
	SetCruiseFlightLevel(ctx context.Context, fl int, plan PlanIndex) error
	// NextWaypoint inserts wpt after position at of plan.
	NextWaypoint(ctx context.Context, at int, wpt Waypoint, plan PlanIndex) error
	// CommitUplink merges the uplink plan into the active plan.
	CommitUplink(ctx context.Context) error
	// Ready reports whether the remote side has published an active or
	// uplink plan yet.
	Ready() bool
	// Close releases the client. It is safe to call more than once.
	Close() error
}

// BusClient is a Client that publishes PlanCommand messages on the bus and
// tracks readiness from SyncResponse traffic.
type BusClient struct {
	pub         bus.Publisher
	unsubscribe func()
	hasActive   atomic.Bool
	hasUplink   atomic.Bool
	closed      atomic.Bool
}

// NewBusClient subscribes to sync responses on b and returns a client that
// publishes its commands on b.
func NewBusClient(b interface {
	bus.Publisher
	bus.Subscriber
}) *BusClient {
	c := &BusClient{pub: b}
	c.unsubscribe = b.Subscribe(bus.TopicSyncResponse, c.observe)
	return c
}

func (c *BusClient) observe(m bus.Message) {
	resp, ok := m.Payload.(SyncResponse)
	if !ok {
		return
	}
	if resp.Plan(PlanActive) != nil {
		c.hasActive.Store(true)
	}
	if resp.Plan(PlanUplink) != nil {
		c.hasUplink.Store(true)
	}
}

func (c *BusClient) Ready() bool {
	return c.hasActive.Load() || c.hasUplink.Load()
}

func (c *BusClient) send(ctx context.Context, cmd PlanCommand) error {
	if c.closed.Load() {
		return fmt.Errorf("%s: client closed", cmd.Op)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", cmd.Op, err)
	}
	c.pub.Publish(bus.Message{Topic: bus.TopicPlanCommand, Payload: cmd})
	return nil
}

func (c *BusClient) NewCityPair(ctx context.Context, from, to string, plan PlanIndex) error {
	return c.send(ctx, PlanCommand{Op: OpNewCityPair, Plan: plan, From: from, To: to})
}

func (c *BusClient) SetCruiseFlightLevel(ctx context.Context, fl int, plan PlanIndex) error {
	return c.send(ctx, PlanCommand{Op: OpSetCruiseFlightLevel, Plan: plan, FlightLevel: fl})
}

func (c *BusClient) NextWaypoint(ctx context.Context, at int, wpt Waypoint, plan PlanIndex) error {
	return c.send(ctx, PlanCommand{Op: OpNextWaypoint, Plan: plan, At: at, Waypoint: &wpt})
}

func (c *BusClient) CommitUplink(ctx context.Context) error {
	return c.send(ctx, PlanCommand{Op: OpUplinkInsert, Plan: PlanUplink})
}

func (c *BusClient) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	c.unsubscribe()
	return nil
}
