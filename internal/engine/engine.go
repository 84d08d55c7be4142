package engine

import (
	"context"
	"log/slog"
	"sync"

	"github.com/roach88/fpsync/internal/bus"
	"github.com/roach88/fpsync/internal/fms"
	"github.com/roach88/fpsync/internal/pipeline"
	"github.com/roach88/fpsync/internal/store"
)

// Journal records pipeline runs. Implemented by *store.Store.
type Journal interface {
	WriteCycle(ctx context.Context, c store.Cycle) error
}

// Bus is the message bus the controller listens and publishes on.
type Bus interface {
	bus.Publisher
	bus.Subscriber
}

// Engine is the single-writer sync controller.
//
// It converts bus notifications and mode changes into Events, folds them
// into the session and runs the pipeline the current mode calls for.
//
// CRITICAL: All session mutations happen in the goroutine driving Run or
// Settle. External callers use Enqueue() or the ModeSetting.
//
// Thread-safety model:
//   - Enqueue(): safe from any goroutine
//   - Run() / Settle(): must be called from exactly one goroutine, never both
//   - Session(): only when neither Run nor Settle is active
type Engine struct {
	bus     Bus
	runner  *pipeline.Runner
	mode    *ModeSetting
	session pipeline.Session
	queue   *eventQueue
	clock   Sequencer
	ids     IDGenerator
	journal Journal
	onCycle func(store.Cycle)

	unsub     []func()
	unsubOnce sync.Once
}

// EngineOption allows configuration of engine parameters.
type EngineOption func(*Engine)

// WithClock sets the clock that stamps cycles.
// Used on restart to continue after the last journaled seq.
func WithClock(c Sequencer) EngineOption {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithIDGenerator sets the cycle ID generator.
// Default: UUIDv7Generator.
func WithIDGenerator(g IDGenerator) EngineOption {
	return func(e *Engine) {
		e.ids = g
	}
}

// WithJournal records every cycle in j.
func WithJournal(j Journal) EngineOption {
	return func(e *Engine) {
		e.journal = j
	}
}

// WithCycleHook calls fn after every cycle, from the engine goroutine.
func WithCycleHook(fn func(store.Cycle)) EngineOption {
	return func(e *Engine) {
		e.onCycle = fn
	}
}

// WithSession seeds the session, e.g. with a snapshot restored from the
// journal.
func WithSession(s pipeline.Session) EngineOption {
	return func(e *Engine) {
		e.session = s
	}
}

// New creates an Engine and subscribes it to the bus and to mode changes.
//
// The current mode is enqueued as the first event, so the first Run or
// Settle acts on it: LOAD loads the host plan, SAVE requests a sync.
// runner.Mode is set to mode if unset.
func New(b Bus, runner *pipeline.Runner, mode *ModeSetting, opts ...EngineOption) *Engine {
	e := &Engine{
		bus:    b,
		runner: runner,
		mode:   mode,
		queue:  newEventQueue(),
		clock:  NewClock(),
		ids:    UUIDv7Generator{},
	}

	// Apply options
	for _, opt := range opts {
		opt(e)
	}

	if runner.Mode == nil {
		runner.Mode = mode
	}

	for _, topic := range consumedTopics {
		e.unsub = append(e.unsub, b.Subscribe(topic, e.onMessage))
	}
	e.unsub = append(e.unsub, mode.OnChange(func(m pipeline.Mode) {
		e.queue.Enqueue(ModeEvent(m))
	}))
	e.queue.Enqueue(ModeEvent(mode.Mode()))

	return e
}

func (e *Engine) onMessage(m bus.Message) {
	ev, ok := eventFromMessage(m)
	if !ok {
		slog.Warn("dropping unexpected bus message", "topic", string(m.Topic))
		return
	}
	e.queue.Enqueue(ev)
}

// Enqueue submits an event for processing.
// Thread-safe: may be called from any goroutine.
//
// Returns false if the engine has been stopped.
func (e *Engine) Enqueue(ev Event) bool {
	return e.queue.Enqueue(ev)
}

// Run starts the single-writer event loop.
// Blocks until context is cancelled or Stop() is called.
//
// ERROR HANDLING: pipeline failures are recorded in their cycle and journal
// failures are logged; processing always continues with the next event.
func (e *Engine) Run(ctx context.Context) error {
	slog.Info("engine starting", "mode", string(e.mode.Mode()))
	defer e.unsubscribe()

	for {
		if e.step(ctx) {
			continue
		}

		// No event ready - wait for signal or context cancellation
		select {
		case <-ctx.Done():
			slog.Info("engine stopping: context cancelled")
			e.queue.Close()
			return ctx.Err()

		case _, ok := <-e.queue.Wait():
			if !ok {
				slog.Info("engine stopping: queue closed")
				return nil
			}
		}
	}
}

// Settle processes events until the queue is empty and returns the number
// of steps taken. It is the synchronous alternative to Run for tests and
// one-shot commands.
func (e *Engine) Settle(ctx context.Context) int {
	n := 0
	for ctx.Err() == nil && e.step(ctx) {
		n++
	}
	return n
}

// Stop shuts down the engine.
// Closes the event queue, which will cause Run() to return.
func (e *Engine) Stop() {
	e.queue.Close()
	e.unsubscribe()
}

func (e *Engine) unsubscribe() {
	e.unsubOnce.Do(func() {
		for _, fn := range e.unsub {
			fn()
		}
	})
}

// Session returns a copy of the controller's session.
func (e *Engine) Session() pipeline.Session {
	s := e.session
	s.Snapshot = s.Snapshot.Clone()
	return s
}

// Clock returns the engine's logical clock.
func (e *Engine) Clock() Sequencer {
	return e.clock
}

// QueueLen returns the number of events waiting.
func (e *Engine) QueueLen() int {
	return e.queue.Len()
}

// step drains every queued event, then acts on the merged effects.
// Returns false when there was nothing to drain.
//
// Triggers that arrive while a pipeline runs are not dropped. They wait in
// the queue and are coalesced into the next batch, so a burst during a run
// costs at most one follow-up run, and an edit made mid-save is still
// saved.
// CRITICAL: Called only from the Run or Settle goroutine.
func (e *Engine) step(ctx context.Context) bool {
	var fx Effects
	n := 0
	for {
		ev, ok := e.queue.TryDequeue()
		if !ok {
			break
		}
		n++
		if !validEvent(ev) {
			logEventError(ev, &RuntimeError{
				Code:    ErrCodeInvalidEvent,
				Message: "event missing payload",
			})
			continue
		}
		next, out := reduce(e.session, e.mode.Mode(), ev)
		e.session = next
		fx.merge(out)
		slog.Debug("event reduced", "kind", ev.Kind.String(), "effects", fx)
	}
	if n == 0 {
		return false
	}
	e.apply(ctx, fx)
	return true
}

// apply publishes a pending sync request and runs at most one pipeline.
// Load wins in LOAD mode; a full save subsumes a cruise-only save.
func (e *Engine) apply(ctx context.Context, fx Effects) {
	if fx.Empty() {
		return
	}
	if fx.RequestSync {
		slog.Debug("requesting sync")
		e.bus.Publish(bus.Message{Topic: bus.TopicSyncRequest, Payload: fms.SyncRequest{}})
	}

	var rep *pipeline.Report
	switch mode := e.mode.Mode(); {
	case fx.Load && mode == pipeline.ModeLoad:
		rep = e.runner.Load(ctx, &e.session)
	case fx.Save && mode == pipeline.ModeSave:
		if e.session.Snapshot == nil {
			return
		}
		rep = e.runner.Save(ctx, &e.session)
	case fx.Cruise > 0 && mode == pipeline.ModeSave:
		rep = e.runner.SaveCruise(ctx, &e.session, fx.Cruise)
	}
	if rep != nil {
		e.record(ctx, rep)
	}
}

// record stamps the report and writes it to the journal.
func (e *Engine) record(ctx context.Context, rep *pipeline.Report) {
	c := cycleFromReport(e.ids.Generate(), e.clock.Next(), rep)

	if e.journal != nil {
		// The journal is written even if ctx was cancelled mid-run.
		if err := e.journal.WriteCycle(context.WithoutCancel(ctx), c); err != nil {
			slog.Error("journal write failed",
				"error", NewJournalError(c.ID, err),
				"kind", c.Kind,
				"seq", c.Seq,
			)
		}
	}

	slog.Info("cycle recorded",
		"id", c.ID,
		"seq", c.Seq,
		"kind", c.Kind,
		"outcome", c.Outcome,
		"commands", c.CommandCount,
	)

	if e.onCycle != nil {
		e.onCycle(c)
	}
}

// logEventError logs an event processing error with full event context.
func logEventError(ev Event, err error) {
	slog.Error("event processing failed",
		"kind", ev.Kind.String(),
		"mode", string(ev.Mode),
		"error", err,
	)
}
