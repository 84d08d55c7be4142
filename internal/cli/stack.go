package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/fpsync/internal/config"
	"github.com/roach88/fpsync/internal/engine"
	"github.com/roach88/fpsync/internal/fms"
	"github.com/roach88/fpsync/internal/host"
	"github.com/roach88/fpsync/internal/hostsim"
	"github.com/roach88/fpsync/internal/pipeline"
	"github.com/roach88/fpsync/internal/store"
)

// stack is a sync controller wired to a simulated world and a journal.
type stack struct {
	store  *store.Store
	world  *hostsim.World
	mode   *engine.ModeSetting
	engine *engine.Engine
}

// stackOptions selects how a stack starts.
type stackOptions struct {
	// Fixture is the world file the controller talks to.
	Fixture string
	// Mode overrides the persisted mode when non-empty. It is not persisted.
	Mode pipeline.Mode
	// Restore seeds the session with the last saved snapshot.
	Restore bool
	// IDs defaults to UUIDv7 ids.
	IDs engine.IDGenerator
	// OnCycle is called after each journaled cycle.
	OnCycle func(store.Cycle)
}

// openStack opens the database and builds the controller. The returned
// stack must be closed.
func openStack(ctx context.Context, cfg *config.Config, so stackOptions) (*stack, error) {
	fixture, err := hostsim.LoadFixture(so.Fixture)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load fixture", err)
	}

	slog.Info("opening database", "path", cfg.Database)
	st, err := store.Open(cfg.Database)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}

	s, err := buildStack(ctx, cfg, st, fixture, so)
	if err != nil {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
		return nil, err
	}
	return s, nil
}

func buildStack(ctx context.Context, cfg *config.Config, st *store.Store, fixture *hostsim.Fixture, so stackOptions) (*stack, error) {
	mode, persist, err := startMode(ctx, cfg, st, so.Mode)
	if err != nil {
		return nil, err
	}

	lastSeq, err := st.LastSeq(ctx)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to read journal", err)
	}

	opts := []engine.EngineOption{
		engine.WithJournal(st),
		engine.WithClock(engine.NewClockAt(lastSeq)),
	}
	if so.IDs != nil {
		opts = append(opts, engine.WithIDGenerator(so.IDs))
	}
	if so.OnCycle != nil {
		opts = append(opts, engine.WithCycleHook(so.OnCycle))
	}
	if so.Restore {
		snap, id, err := st.LastSavedSnapshot(ctx)
		switch {
		case err == nil:
			slog.Info("session restored", "from_cycle", id)
			opts = append(opts, engine.WithSession(pipeline.Session{Snapshot: snap}))
		case errors.Is(err, store.ErrNotFound):
			slog.Debug("no saved snapshot to restore")
		default:
			return nil, WrapExitError(ExitCommandError, "failed to restore session", err)
		}
	}

	world := fixture.Build()
	catalogs, err := host.NewCachedLoader(world.Host, cfg.CatalogCacheSize)
	if err != nil {
		world.Close()
		return nil, fmt.Errorf("catalog cache: %w", err)
	}

	ms := engine.NewModeSetting(mode, persist)
	runner := &pipeline.Runner{
		Host:       world.Host,
		Facilities: catalogs,
		NewClient:  func() fms.Client { return fms.NewBusClient(world.Bus) },
		Bus:        world.Bus,
		Poll:       cfg.Poll,
	}
	eng := engine.New(world.Bus, runner, ms, opts...)

	return &stack{store: st, world: world, mode: ms, engine: eng}, nil
}

// startMode returns the initial mode and where changes are persisted. An
// override runs without touching the persisted mode.
func startMode(ctx context.Context, cfg *config.Config, st *store.Store, override pipeline.Mode) (pipeline.Mode, engine.SettingStore, error) {
	if override != "" {
		return override, nil, nil
	}
	m, err := persistedMode(ctx, st, cfg.Mode)
	if err != nil {
		return "", nil, err
	}
	return m, st, nil
}

// persistedMode reads the stored mode, falling back to def.
func persistedMode(ctx context.Context, st *store.Store, def pipeline.Mode) (pipeline.Mode, error) {
	v, err := st.GetSetting(ctx, store.KeySyncMode, string(def))
	if err != nil {
		return "", WrapExitError(ExitCommandError, "failed to read sync mode", err)
	}
	m, err := pipeline.ParseMode(v)
	if err != nil {
		slog.Warn("ignoring invalid persisted sync mode", "value", v, "error", err)
		return def, nil
	}
	return m, nil
}

func (s *stack) close() {
	s.engine.Stop()
	s.world.Close()
	if err := s.store.Close(); err != nil {
		slog.Error("error closing database", "error", err)
	}
}
