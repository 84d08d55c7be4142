package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/fpsync/internal/config"
	"github.com/roach88/fpsync/internal/pipeline"
	"github.com/roach88/fpsync/internal/store"
)

// ModeResult is the output of the mode commands.
type ModeResult struct {
	Mode string `json:"mode"`
}

func (r ModeResult) String() string { return r.Mode }

// NewModeCommand creates the mode command and its get/set subcommands.
func NewModeCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mode",
		Short: "Show or change the persisted sync mode",
		Long: `Show or change the persisted sync mode.

A running controller polls the persisted mode and switches to it; a
pipeline in flight for the old mode aborts before its next remote call.

Examples:
  fpsync mode get
  fpsync mode set save`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:           "get",
		Short:         "Print the persisted sync mode",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(rootOpts, cmd, func(ctx context.Context, cfg *config.Config, st *store.Store) error {
				m, err := persistedMode(ctx, st, cfg.Mode)
				if err != nil {
					return err
				}
				return formatterFor(rootOpts, cmd).Success(ModeResult{Mode: string(m)})
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:           "set <off|load|save>",
		Short:         "Persist a new sync mode",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := pipeline.ParseMode(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid mode", err)
			}
			return withStore(rootOpts, cmd, func(ctx context.Context, cfg *config.Config, st *store.Store) error {
				if err := st.PutSetting(ctx, store.KeySyncMode, string(m)); err != nil {
					return WrapExitError(ExitFailure, "failed to persist sync mode", err)
				}
				slog.Info("sync mode persisted", "mode", string(m))
				return formatterFor(rootOpts, cmd).Success(ModeResult{Mode: string(m)})
			})
		},
	})

	return cmd
}

// withStore opens the configured database for the duration of fn.
func withStore(opts *RootOptions, cmd *cobra.Command, fn func(context.Context, *config.Config, *store.Store) error) error {
	cfg, err := opts.Config()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}

	st, err := store.Open(cfg.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return fn(ctx, cfg, st)
}

func formatterFor(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}
