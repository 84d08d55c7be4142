package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/fpsync/internal/engine"
	"github.com/roach88/fpsync/internal/pipeline"
	"github.com/roach88/fpsync/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Fixture string

	// IDs allows overriding the cycle id generator (for testing).
	IDs engine.IDGenerator
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	return newReplayCommand(&ReplayOptions{RootOptions: rootOpts})
}

func newReplayCommand(opts *ReplayOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Push the last saved plan to the host again",
		Long: `Push the plan of the most recent save cycle to the host again.

Use this after the host store was reset. The flight management system is
not queried; the journaled snapshot is rebuilt on the host as a new save
cycle. The persisted sync mode is left unchanged.

Exit codes:
  0 - The plan was pushed
  1 - No saved plan in the journal, or the save failed
  2 - Command error (bad fixture, database error, etc.)

Examples:
  fpsync replay --fixture ./world.yaml
  fpsync replay --fixture ./world.yaml --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Fixture, "fixture", "", "path to the simulated world YAML (required)")
	_ = cmd.MarkFlagRequired("fixture")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	cfg, err := opts.Config()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var cycles []store.Cycle
	s, err := openStack(ctx, cfg, stackOptions{
		Fixture: opts.Fixture,
		Mode:    pipeline.ModeSave,
		Restore: true,
		IDs:     opts.IDs,
		OnCycle: func(c store.Cycle) { cycles = append(cycles, c) },
	})
	if err != nil {
		return err
	}
	defer s.close()

	// Without a snapshot the controller would ask the flight management
	// side for one instead.
	if s.engine.Session().Snapshot == nil {
		return NewExitError(ExitFailure, "no saved plan to replay")
	}

	s.engine.Settle(ctx)

	if err := formatterFor(opts.RootOptions, cmd).Cycles(cycles); err != nil {
		return err
	}
	return cyclesExitError(cycles)
}
