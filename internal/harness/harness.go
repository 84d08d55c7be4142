package harness

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/fpsync/internal/engine"
	"github.com/roach88/fpsync/internal/fms"
	"github.com/roach88/fpsync/internal/host"
	"github.com/roach88/fpsync/internal/hostsim"
	"github.com/roach88/fpsync/internal/pipeline"
	"github.com/roach88/fpsync/internal/store"
	"github.com/roach88/fpsync/internal/testutil"
)

// catalogCacheSize is small on purpose: scenarios touch two airports.
const catalogCacheSize = 4

// Harness is the test execution engine for one scenario.
type Harness struct {
	store  *store.Store
	world  *hostsim.World
	mode   *engine.ModeSetting
	engine *engine.Engine
	logger *slog.Logger
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
// Deterministic helpers ensure reproducible results.
//
// Execution flow:
// 1. Create fresh in-memory database and simulated world
// 2. Start the controller in the scenario's mode and settle
// 3. Apply each step and settle
// 4. Read back the journal and evaluate assertions
func Run(scenario *Scenario) (*Result, error) {
	ctx := context.Background()

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h, err := newHarness(st, scenario)
	if err != nil {
		return nil, err
	}
	defer h.close()

	h.engine.Settle(ctx)
	for i, step := range scenario.Steps {
		if err := h.apply(ctx, step); err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		n := h.engine.Settle(ctx)
		h.logger.Debug("step settled", "step", i, "batches", n)
	}

	result := NewResult()
	result.Cycles, err = readJournal(ctx, st)
	if err != nil {
		return nil, err
	}
	result.Trace = FormatTrace(scenario.Name, result.Cycles)

	actx := &AssertionContext{Host: h.world.Host, FMS: h.world.FMS}
	for _, msg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(msg)
	}
	return result, nil
}

func newHarness(st *store.Store, scenario *Scenario) (*Harness, error) {
	mode, err := pipeline.ParseMode(scenario.Mode)
	if err != nil {
		return nil, err
	}

	world := scenario.World.Build()
	catalogs, err := host.NewCachedLoader(world.Host, catalogCacheSize)
	if err != nil {
		world.Close()
		return nil, err
	}

	attempts := scenario.MaxAttempts
	if attempts == 0 {
		attempts = DefaultMaxAttempts
	}

	ms := engine.NewModeSetting(mode, st)
	runner := &pipeline.Runner{
		Host:       world.Host,
		Facilities: catalogs,
		NewClient:  func() fms.Client { return fms.NewBusClient(world.Bus) },
		Bus:        world.Bus,
		Poll:       pipeline.PollConfig{MaxAttempts: attempts},
	}
	eng := engine.New(world.Bus, runner, ms,
		engine.WithJournal(st),
		engine.WithClock(testutil.NewDeterministicClock()),
		engine.WithIDGenerator(testutil.NewSequentialIDs(scenario.Name)),
	)

	return &Harness{
		store:  st,
		world:  world,
		mode:   ms,
		engine: eng,
		logger: slog.Default().With("scenario", scenario.Name),
	}, nil
}

func (h *Harness) close() {
	h.engine.Stop()
	h.world.Close()
}

// apply performs one step. Settling is left to the caller.
func (h *Harness) apply(ctx context.Context, step Step) error {
	switch {
	case step.SetMode != "":
		m, err := pipeline.ParseMode(step.SetMode)
		if err != nil {
			return err
		}
		return h.mode.Set(ctx, m)

	case step.EditActive != nil:
		h.world.FMS.EditActive(step.EditActive.apply)
		return nil

	case step.FailOn != nil:
		h.world.Host.FailOn(step.FailOn.Command, errors.New(step.FailOn.Error))
		return nil

	case step.AbortOn != "":
		name := step.AbortOn
		h.world.Host.OnCall = func(cmd host.Command) {
			if cmd.Name != name {
				return
			}
			if err := h.mode.Set(ctx, pipeline.ModeOff); err != nil {
				h.logger.Error("abort step failed", "error", err)
			}
		}
		return nil
	}
	return fmt.Errorf("empty step")
}

func (e *Edit) apply(p *fms.FlightPlanSnapshot) {
	if e.Truncate != nil && *e.Truncate < len(p.EnrouteLegs) {
		p.EnrouteLegs = p.EnrouteLegs[:*e.Truncate]
	}
	for _, w := range e.Append {
		p.EnrouteLegs = append(p.EnrouteLegs, fms.LegElement(fms.Leg{Waypoint: w}))
	}
	if e.CruiseFlightLevel != nil {
		p.CruiseFlightLevel = *e.CruiseFlightLevel
	}
}

// readJournal returns every cycle with its calls, in seq order.
func readJournal(ctx context.Context, st *store.Store) ([]store.Cycle, error) {
	cycles, err := st.ReadCycles(ctx, "", 0)
	if err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}
	for i, c := range cycles {
		full, err := st.ReadCycle(ctx, c.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to read cycle %s: %w", c.ID, err)
		}
		cycles[i] = full
	}
	return cycles, nil
}
