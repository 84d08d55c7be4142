package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/fpsync/internal/config"
	"github.com/roach88/fpsync/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Kind  string
	Limit int
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history [cycle-id]",
		Short: "Show journaled sync cycles",
		Long: `Show the most recent sync cycles, newest last.

With a cycle id, print that cycle with every remote call it made.

Examples:
  fpsync history
  fpsync history --kind save --limit 5
  fpsync history 01927c2e-... --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Limit < 0 {
				return NewExitError(ExitCommandError, "--limit must not be negative")
			}
			return withStore(rootOpts, cmd, func(ctx context.Context, _ *config.Config, st *store.Store) error {
				out := formatterFor(rootOpts, cmd)
				if len(args) == 1 {
					c, err := st.ReadCycle(ctx, args[0])
					if errors.Is(err, store.ErrNotFound) {
						return NewExitError(ExitFailure, fmt.Sprintf("cycle not found: %s", args[0]))
					}
					if err != nil {
						return WrapExitError(ExitCommandError, "failed to read cycle", err)
					}
					return out.Cycles([]store.Cycle{c})
				}

				cycles, err := st.ReadCycles(ctx, opts.Kind, opts.Limit)
				if err != nil {
					return WrapExitError(ExitCommandError, "failed to read journal", err)
				}
				return out.Cycles(cycles)
			})
		},
	}

	cmd.Flags().StringVar(&opts.Kind, "kind", "", "only show cycles of this kind (load|save|cruise)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "show at most this many cycles (0 for all)")

	return cmd
}
