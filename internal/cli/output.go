package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/roach88/fpsync/internal/harness"
	"github.com/roach88/fpsync/internal/store"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // A cycle or scenario did not complete
	ExitCommandError = 2 // Command error (bad config, database not found, etc.)
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // success payload
	Error  *CLIError `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // "E_CYCLE_FAILED", etc.
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// CycleView is the JSON shape of a journaled cycle.
type CycleView struct {
	ID       string   `json:"id"`
	Seq      int64    `json:"seq"`
	Kind     string   `json:"kind"`
	Outcome  string   `json:"outcome"`
	Error    string   `json:"error,omitempty"`
	Commands int      `json:"commands"`
	Calls    []string `json:"calls,omitempty"`
}

// newCycleView converts c. Calls are rendered only when loaded.
func newCycleView(c store.Cycle) CycleView {
	v := CycleView{
		ID:       c.ID,
		Seq:      c.Seq,
		Kind:     c.Kind,
		Outcome:  c.Outcome,
		Error:    c.Error,
		Commands: c.CommandCount,
	}
	if len(c.Calls) > 0 {
		v.Commands = len(c.Calls)
		v.Calls = harness.CallLines(c.Calls)
	}
	return v
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	// Human-readable text output
	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	// Human-readable error
	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// Cycles outputs journaled cycles. Text output is one line per cycle,
// followed by the call trace when calls are loaded.
func (f *OutputFormatter) Cycles(cycles []store.Cycle) error {
	if f.Format == "json" {
		views := make([]CycleView, len(cycles))
		for i, c := range cycles {
			views[i] = newCycleView(c)
		}
		return f.Success(views)
	}

	if len(cycles) == 0 {
		fmt.Fprintln(f.Writer, "No cycles recorded.")
		return nil
	}
	for _, c := range cycles {
		f.cycleLine(c)
		for _, line := range harness.CallLines(c.Calls) {
			fmt.Fprintf(f.Writer, "  %s\n", line)
		}
	}
	return nil
}

func (f *OutputFormatter) cycleLine(c store.Cycle) {
	n := c.CommandCount
	if len(c.Calls) > 0 {
		n = len(c.Calls)
	}
	fmt.Fprintf(f.Writer, "%d %s %-5s %-9s %d calls", c.Seq, c.ID, c.Kind, c.Outcome, n)
	if c.Error != "" {
		fmt.Fprintf(f.Writer, "  %s", c.Error)
	}
	fmt.Fprintln(f.Writer)
}

// Scenarios outputs a test run. Text output is one line per scenario with
// its cycle and command counts, then a summary. JSON output reports failures
// as E_TEST_FAILED.
func (f *OutputFormatter) Scenarios(r TestResult) error {
	if f.Format == "json" {
		resp := CLIResponse{Status: "ok", Data: r}
		if r.Failed > 0 {
			resp.Status = "error"
			resp.Error = &CLIError{
				Code:    "E_TEST_FAILED",
				Message: fmt.Sprintf("%d scenario(s) failed", r.Failed),
			}
		}
		return json.NewEncoder(f.Writer).Encode(resp)
	}

	if r.Total == 0 {
		fmt.Fprintln(f.Writer, "No scenarios found.")
		return nil
	}
	for _, s := range r.Scenarios {
		mark := "✓"
		if !s.Pass {
			mark = "✗"
		}
		fmt.Fprintf(f.Writer, "%s %s  %d cycles, %d calls", mark, s.Name, len(s.Cycles), s.Commands)
		if s.Golden == harness.GoldenUpdated {
			fmt.Fprint(f.Writer, " (golden updated)")
		}
		fmt.Fprintln(f.Writer)
		if f.Verbose && len(s.Cycles) > 0 {
			fmt.Fprintf(f.Writer, "  %s\n", strings.Join(s.Cycles, " "))
		}
		for _, e := range s.Errors {
			fmt.Fprintf(f.Writer, "  %s\n", e)
		}
	}
	fmt.Fprintf(f.Writer, "\n%d passed, %d failed, %d total\n", r.Passed, r.Failed, r.Total)
	return nil
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
// When format is JSON, verbose logs go to ErrWriter to avoid corrupting JSON output.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}
