package engine

import (
	"sync"

	"github.com/roach88/fpsync/internal/bus"
	"github.com/roach88/fpsync/internal/fms"
	"github.com/roach88/fpsync/internal/pipeline"
)

// EventKind distinguishes between event kinds.
type EventKind int

const (
	// EventModeChanged carries a new sync mode.
	EventModeChanged EventKind = iota + 1
	// EventSyncResponse carries flight management plan snapshots.
	EventSyncResponse
	// EventCruiseChanged carries a performance data change.
	EventCruiseChanged
	// EventSegmentLegs carries a new leg list for one plan segment.
	EventSegmentLegs
	// EventPlanCopied announces a plan slot copy.
	EventPlanCopied
	// EventPlanCreated announces a plan slot (re)initialization.
	EventPlanCreated
)

func (k EventKind) String() string {
	switch k {
	case EventModeChanged:
		return "mode_changed"
	case EventSyncResponse:
		return "sync_response"
	case EventCruiseChanged:
		return "cruise_changed"
	case EventSegmentLegs:
		return "segment_legs"
	case EventPlanCopied:
		return "plan_copied"
	case EventPlanCreated:
		return "plan_created"
	default:
		return "unknown"
	}
}

// Event wraps everything the controller reacts to. Exactly one payload
// field is set, matching Kind.
type Event struct {
	Kind    EventKind
	Mode    pipeline.Mode
	Sync    *fms.SyncResponse
	Cruise  *fms.CruiseFlightLevelChanged
	Legs    *fms.SegmentLegsChanged
	Copied  *fms.PlanCopied
	Created *fms.PlanCreated
}

// ModeEvent returns the event for a mode change to m.
func ModeEvent(m pipeline.Mode) Event {
	return Event{Kind: EventModeChanged, Mode: m}
}

// eventFromMessage converts a bus message on a consumed topic. It returns
// false for other topics and for payloads of the wrong type.
func eventFromMessage(m bus.Message) (Event, bool) {
	switch p := m.Payload.(type) {
	case fms.SyncResponse:
		return Event{Kind: EventSyncResponse, Sync: &p}, m.Topic == bus.TopicSyncResponse
	case fms.CruiseFlightLevelChanged:
		return Event{Kind: EventCruiseChanged, Cruise: &p}, m.Topic == bus.TopicCruiseFlightLevel
	case fms.SegmentLegsChanged:
		p.Legs = fms.CloneElements(p.Legs)
		return Event{Kind: EventSegmentLegs, Legs: &p}, m.Topic == bus.TopicSegmentLegs
	case fms.PlanCopied:
		return Event{Kind: EventPlanCopied, Copied: &p}, m.Topic == bus.TopicPlanCopied
	case fms.PlanCreated:
		return Event{Kind: EventPlanCreated, Created: &p}, m.Topic == bus.TopicPlanCreated
	}
	return Event{}, false
}

// consumedTopics are the bus topics the controller subscribes to.
var consumedTopics = []bus.Topic{
	bus.TopicSyncResponse,
	bus.TopicCruiseFlightLevel,
	bus.TopicSegmentLegs,
	bus.TopicPlanCopied,
	bus.TopicPlanCreated,
}

// eventQueue is a thread-safe FIFO queue for events.
//
// The queue is unbounded: bus handlers run synchronously inside publishers,
// including the running pipeline, and must never block.
//
// The queue uses a channel for signaling to enable context-aware waiting
// in the Run loop.
type eventQueue struct {
	mu     sync.Mutex
	events []Event
	closed bool
	signal chan struct{} // Signals event availability (buffered, size 1)
}

// newEventQueue creates an empty event queue.
func newEventQueue() *eventQueue {
	return &eventQueue{
		events: make([]Event, 0, 16),
		signal: make(chan struct{}, 1),
	}
}

// Enqueue adds an event to the back of the queue.
// Thread-safe: may be called from any goroutine.
// Returns false if the queue is closed.
func (q *eventQueue) Enqueue(e Event) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}

	q.events = append(q.events, e)

	// Signal availability (non-blocking - buffer of 1 coalesces multiple signals)
	select {
	case q.signal <- struct{}{}:
	default:
	}

	return true
}

// TryDequeue attempts to dequeue without blocking.
// Returns (Event{}, false) if queue is empty.
func (q *eventQueue) TryDequeue() (Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.events) == 0 {
		return Event{}, false
	}

	e := q.events[0]

	// Nil out the slot so the array does not retain snapshot pointers.
	q.events[0] = Event{}

	if len(q.events) == 1 {
		q.events = q.events[:0]
	} else {
		q.events = q.events[1:]
	}

	return e, true
}

// Wait returns a channel that signals when events may be available. The
// channel is closed when the queue is closed.
func (q *eventQueue) Wait() <-chan struct{} {
	return q.signal
}

// Len returns the current queue length.
func (q *eventQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

// Close signals that no more events will be enqueued.
// Wakes any blocked waiters by closing the signal channel.
func (q *eventQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}

	q.closed = true
	close(q.signal)
}
