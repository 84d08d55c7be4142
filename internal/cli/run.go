package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/fpsync/internal/engine"
	"github.com/roach88/fpsync/internal/pipeline"
	"github.com/roach88/fpsync/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Fixture string
	Mode    string
	Once    bool
	Watch   time.Duration

	// IDs allows overriding the cycle id generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	IDs engine.IDGenerator
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	return newRunCommand(&RunOptions{RootOptions: rootOpts})
}

func newRunCommand(opts *RunOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the sync controller",
		Long: `Start the flight plan sync controller against a simulated world.

The controller starts in the persisted sync mode (or the configured
default), resumes the journal sequence and restores the last saved plan.
While running it picks up mode changes made with "fpsync mode set".

With --once the controller processes start-up and exits, printing every
cycle it ran.

Exit codes:
  0 - Stopped cleanly, or every cycle completed (--once)
  1 - A cycle failed or was aborted (--once)
  2 - Command error (bad fixture, database error, etc.)

Examples:
  fpsync run --fixture ./world.yaml
  fpsync run --fixture ./world.yaml --once --mode load
  fpsync run --fixture ./world.yaml --db /tmp/fpsync.db --verbose`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runController(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Fixture, "fixture", "", "path to the simulated world YAML (required)")
	cmd.Flags().StringVar(&opts.Mode, "mode", "", "run in this mode without persisting it (off|load|save)")
	cmd.Flags().BoolVar(&opts.Once, "once", false, "process start-up and exit")
	cmd.Flags().DurationVar(&opts.Watch, "watch", time.Second, "how often to check the persisted sync mode")
	_ = cmd.MarkFlagRequired("fixture")

	return cmd
}

func runController(opts *RunOptions, cmd *cobra.Command) error {
	cfg, err := opts.Config()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}

	var override pipeline.Mode
	if opts.Mode != "" {
		if override, err = pipeline.ParseMode(opts.Mode); err != nil {
			return WrapExitError(ExitCommandError, "invalid --mode", err)
		}
	}

	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}

	out := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	var cycles []store.Cycle
	so := stackOptions{
		Fixture: opts.Fixture,
		Mode:    override,
		Restore: true,
		IDs:     opts.IDs,
		OnCycle: func(c store.Cycle) {
			if opts.Once {
				cycles = append(cycles, c)
				return
			}
			if err := out.Cycles([]store.Cycle{c}); err != nil {
				slog.Error("failed to print cycle", "error", err)
			}
		},
	}

	s, err := openStack(parentCtx, cfg, so)
	if err != nil {
		return err
	}
	defer s.close()

	if opts.Once {
		n := s.engine.Settle(parentCtx)
		out.VerboseLog("settled after %d steps", n)
		if err := out.Cycles(cycles); err != nil {
			return err
		}
		return cyclesExitError(cycles)
	}

	// Setup signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("controller starting", "db", cfg.Database, "fixture", opts.Fixture, "mode", string(s.mode.Mode()))
	out.VerboseLog("Controller started in %s mode. Press Ctrl-C to stop.", s.mode.Mode())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.engine.Run(gctx)
	})
	if override == "" && opts.Watch > 0 {
		g.Go(func() error {
			return watchMode(gctx, s, cfg.Mode, opts.Watch)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return WrapExitError(ExitFailure, "controller error", err)
	}

	slog.Info("controller stopped gracefully")
	return nil
}

// watchMode applies mode changes persisted by other processes.
func watchMode(ctx context.Context, s *stack, def pipeline.Mode, every time.Duration) error {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
		m, err := persistedMode(ctx, s.store, def)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			slog.Warn("failed to poll sync mode", "error", err)
			continue
		}
		s.mode.Adopt(m)
	}
}

// cyclesExitError fails when any cycle failed or was aborted.
func cyclesExitError(cycles []store.Cycle) error {
	bad := 0
	for _, c := range cycles {
		switch pipeline.Outcome(c.Outcome) {
		case pipeline.OutcomeFailed, pipeline.OutcomeAborted:
			bad++
		}
	}
	if bad > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d cycle(s) failed or aborted", bad))
	}
	return nil
}
