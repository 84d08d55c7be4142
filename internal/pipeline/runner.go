package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/roach88/fpsync/internal/bus"
	"github.com/roach88/fpsync/internal/fms"
	"github.com/roach88/fpsync/internal/host"
)

// PollConfig bounds the wait for the flight management side during a load.
type PollConfig struct {
	// InitialDelay is waited once before the load starts.
	InitialDelay time.Duration
	// Interval is the delay between readiness checks.
	Interval time.Duration
	// MaxAttempts bounds the readiness checks; 0 means unbounded.
	MaxAttempts int
}

// Runner executes pipelines against a host channel and a flight
// management client. A Runner is not safe for concurrent runs; the sync
// controller guarantees at most one is in flight.
type Runner struct {
	Host       host.Channel
	Facilities host.FacilityLoader
	// NewClient opens a flight management client for a single load run.
	NewClient func() fms.Client
	Bus       bus.Publisher
	Mode      ModeReader
	Poll      PollConfig
}

// run is the state of a single pipeline invocation.
type run struct {
	*Runner
	want   Mode
	report *Report
}

func (r *Runner) start(kind Kind, want Mode) *run {
	return &run{Runner: r, want: want, report: &Report{Kind: kind}}
}

// checkpoint fails with an abort once the mode no longer matches.
func (x *run) checkpoint(op string) error {
	if got := x.Mode.Mode(); got != x.want {
		return abortedError(op, x.want, got)
	}
	return nil
}

func (x *run) record(side Side, name string, args ...any) int {
	x.report.Calls = append(x.report.Calls, Call{Side: side, Name: name, Args: args})
	return len(x.report.Calls) - 1
}

// host issues one host command after a mode check.
func (x *run) host(ctx context.Context, cmd host.Command) error {
	return x.hostNote(ctx, cmd, "")
}

// hostNote is host with a note attached to the recorded call.
func (x *run) hostNote(ctx context.Context, cmd host.Command, note string) error {
	if err := x.checkpoint(cmd.Name); err != nil {
		return err
	}
	i := x.record(SideHost, cmd.Name, cmd.Args...)
	x.report.Calls[i].Note = note
	if err := x.Host.Call(ctx, cmd); err != nil {
		x.report.Calls[i].Failed = true
		return commandError(cmd.Name, err)
	}
	return nil
}

// fms issues one flight management call after a mode check.
func (x *run) fms(name string, call func() error, args ...any) error {
	if err := x.checkpoint(name); err != nil {
		return err
	}
	i := x.record(SideFMS, name, args...)
	if err := call(); err != nil {
		x.report.Calls[i].Failed = true
		return commandError(name, err)
	}
	return nil
}

func (x *run) airport(ctx context.Context, id host.ICAO) (*host.Airport, error) {
	if err := x.checkpoint(callAirport); err != nil {
		return nil, err
	}
	i := x.record(SideHost, callAirport, string(id))
	ap, err := x.Facilities.Airport(ctx, id)
	if err != nil {
		x.report.Calls[i].Failed = true
		return nil, commandError(callAirport, err)
	}
	return ap, nil
}

// guard converts a panic inside a pipeline step into an error so that a
// single bad run cannot take the controller down.
func guard(err *error) {
	if p := recover(); p != nil {
		*err = fmt.Errorf("pipeline panic: %v", p)
	}
}

// finish classifies err into the report outcome and logs it. Failures are
// logged and swallowed; the caller only sees the report.
func (x *run) finish(err error) *Report {
	rep := x.report
	rep.Err = err
	attrs := []any{"kind", rep.Kind, "calls", len(rep.Calls)}
	switch {
	case err == nil:
		rep.Outcome = OutcomeCompleted
		slog.Debug("pipeline completed", attrs...)
	case IsAborted(err), errors.Is(err, context.Canceled):
		rep.Outcome = OutcomeAborted
		slog.Info("pipeline aborted", append(attrs, "reason", err)...)
	case IsValidation(err):
		rep.Outcome = OutcomeSkipped
		slog.Warn("pipeline skipped", append(attrs, "reason", err)...)
	default:
		rep.Outcome = OutcomeFailed
		slog.Error("pipeline failed", append(attrs, "error", err)...)
	}
	return rep
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
