package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/fpsync/internal/harness"
	"github.com/roach88/fpsync/internal/store"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Success(ModeResult{Mode: "SAVE"})
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, map[string]any{"mode": "SAVE"}, resp.Data)
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Error("E_CYCLE_FAILED", "save failed", map[string]string{"cycle": "c1"})
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E_CYCLE_FAILED", resp.Error.Code)
	assert.Equal(t, "save failed", resp.Error.Message)
	assert.NotNil(t, resp.Error.Details)
}

func TestOutputFormatter_TextError(t *testing.T) {
	tests := []struct {
		name        string
		verbose     bool
		wantDetails bool
	}{
		{"quiet", false, false},
		{"verbose", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			formatter := &OutputFormatter{Format: "text", Writer: buf, Verbose: tt.verbose}

			require.NoError(t, formatter.Error("E001", "database locked", "retry later"))
			assert.Contains(t, buf.String(), "Error [E001]: database locked")
			if tt.wantDetails {
				assert.Contains(t, buf.String(), "Details: retry later")
			} else {
				assert.NotContains(t, buf.String(), "Details:")
			}
		})
	}
}

func TestOutputFormatter_VerboseLogUsesErrWriter(t *testing.T) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: out, ErrWriter: errOut, Verbose: true}

	formatter.VerboseLog("settled after %d steps", 2)

	assert.Empty(t, out.String())
	assert.Equal(t, "settled after 2 steps\n", errOut.String())

	formatter.Verbose = false
	formatter.VerboseLog("hidden")
	assert.NotContains(t, errOut.String(), "hidden")
}

var sampleCycles = []store.Cycle{
	{
		ID: "c1", Seq: 1, Kind: "save", Outcome: "completed",
		Calls: []store.Call{
			{Side: "host", Name: "SET_CURRENT_FLIGHTPLAN_INDEX", Args: []any{0, true}},
			{Side: "host", Name: "CLEAR_CURRENT_FLIGHT_PLAN"},
		},
	},
	{ID: "c2", Seq: 2, Kind: "load", Outcome: "failed", Error: "UNAVAILABLE: not ready", CommandCount: 3},
}

func TestOutputFormatter_CyclesText(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, formatter.Cycles(sampleCycles))

	want := "1 c1 save  completed 2 calls\n" +
		"  SET_CURRENT_FLIGHTPLAN_INDEX(0, true)\n" +
		"  CLEAR_CURRENT_FLIGHT_PLAN\n" +
		"2 c2 load  failed    3 calls  UNAVAILABLE: not ready\n"
	assert.Equal(t, want, buf.String())
}

func TestOutputFormatter_CyclesEmpty(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, formatter.Cycles(nil))
	assert.Equal(t, "No cycles recorded.\n", buf.String())
}

func TestOutputFormatter_CyclesJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, formatter.Cycles(sampleCycles))

	var resp struct {
		Status string      `json:"status"`
		Data   []CycleView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data, 2)
	assert.Equal(t, 2, resp.Data[0].Commands)
	assert.Equal(t, []string{"SET_CURRENT_FLIGHTPLAN_INDEX(0, true)", "CLEAR_CURRENT_FLIGHT_PLAN"}, resp.Data[0].Calls)
	assert.Equal(t, 3, resp.Data[1].Commands)
	assert.Nil(t, resp.Data[1].Calls)
	assert.Equal(t, "UNAVAILABLE: not ready", resp.Data[1].Error)
}

func TestOutputFormatter_ScenariosText(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "text", Writer: buf, Verbose: true}

	r := TestResult{}
	r.add(ScenarioResult{Name: "startup", Pass: true, Cycles: []string{"save:completed"}, Commands: 7, Golden: harness.GoldenUpdated})
	r.add(ScenarioResult{Name: "edit", Cycles: []string{"save:completed", "save:failed"}, Commands: 12, Errors: []string{"golden trace mismatch"}})
	require.NoError(t, f.Scenarios(r))

	assert.Equal(t, "✓ startup  1 cycles, 7 calls (golden updated)\n"+
		"  save:completed\n"+
		"✗ edit  2 cycles, 12 calls\n"+
		"  save:completed save:failed\n"+
		"  golden trace mismatch\n"+
		"\n1 passed, 1 failed, 2 total\n", buf.String())
}

func TestExitError(t *testing.T) {
	cause := errors.New("disk full")
	err := WrapExitError(ExitCommandError, "failed to open database", cause)

	assert.Equal(t, "failed to open database: disk full", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Equal(t, ExitFailure, GetExitCode(NewExitError(ExitFailure, "1 cycle(s) failed or aborted")))
	assert.Equal(t, ExitFailure, GetExitCode(cause), "plain errors map to failure")
}
