// Package bus is the in-process event bus that connects the flight
// management model with the sync engine.
//
// Delivery is synchronous: Publish calls every subscriber of the topic on
// the publishing goroutine, in subscription order. Subscribers that need to
// do real work (the sync controller) hand the message to their own queue.
package bus

import "sync"

// Topic names a stream of messages.
type Topic string

// Topics consumed and produced by the sync engine.
const (
	TopicSyncRequest       Topic = "flightPlanManager.syncRequest"
	TopicSyncResponse      Topic = "flightPlanManager.syncResponse"
	TopicPlanCopied        Topic = "flightPlanManager.copy"
	TopicPlanCreated       Topic = "flightPlanManager.create"
	TopicCruiseFlightLevel Topic = "flightPlan.setPerformanceData.cruiseFlightLevel"
	TopicSegmentLegs       Topic = "SYNC_flightPlan.setSegmentLegs"
	TopicPlanCommand       Topic = "flightPlanRemote.command"
)

// Message is a single published value.
type Message struct {
	Topic   Topic
	Payload any
}

// Handler receives messages for a subscribed topic.
type Handler func(Message)

// Publisher is the producing side of the bus.
type Publisher interface {
	Publish(Message)
}

// Subscriber is the consuming side of the bus.
type Subscriber interface {
	Subscribe(topic Topic, h Handler) (unsubscribe func())
}

type subscription struct {
	id int
	h  Handler
}

// Bus is a topic-keyed fan-out. The zero value is not usable; use New.
type Bus struct {
	mu     sync.RWMutex
	subs   map[Topic][]subscription
	nextID int
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{subs: make(map[Topic][]subscription)}
}

// Publish delivers m to every current subscriber of m.Topic.
// Handlers are snapshotted before delivery so a handler may subscribe,
// unsubscribe or publish without deadlocking.
func (b *Bus) Publish(m Message) {
	b.mu.RLock()
	subs := append([]subscription(nil), b.subs[m.Topic]...)
	b.mu.RUnlock()

	for _, s := range subs {
		s.h(m)
	}
}

// Subscribe registers h for topic and returns a function that removes it.
// Calling the returned function more than once is harmless.
func (b *Bus) Subscribe(topic Topic, h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs[topic] = append(b.subs[topic], subscription{id: id, h: h})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.subs[topic]
		for i, s := range subs {
			if s.id == id {
				b.subs[topic] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}

// Subscribers returns the number of handlers registered for topic.
func (b *Bus) Subscribers(topic Topic) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}
