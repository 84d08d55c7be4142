package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalScenario = `
name: minimal
description: "nothing happens in OFF mode"
mode: off
assertions:
  - type: cycles
    cycles: []
`

func TestParseScenario_Minimal(t *testing.T) {
	s, err := ParseScenario([]byte(minimalScenario))
	require.NoError(t, err)

	assert.Equal(t, "minimal", s.Name)
	assert.Equal(t, "off", s.Mode)
	assert.Empty(t, s.Steps)
	require.Len(t, s.Assertions, 1)
	assert.Equal(t, AssertCycles, s.Assertions[0].Type)
}

func TestParseScenario_Steps(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: steps
description: "every step kind"
mode: save
steps:
  - set_mode: load
  - edit_active: {truncate: 1, cruise_flight_level: 310}
  - fail_on: {command: ADD_WAYPOINT, error: boom}
  - abort_on: SET_ORIGIN
assertions:
  - type: command_count
    command: ADD_WAYPOINT
    count: 0
`))
	require.NoError(t, err)
	require.Len(t, s.Steps, 4)
	assert.Equal(t, "load", s.Steps[0].SetMode)
	assert.Equal(t, 310, *s.Steps[1].EditActive.CruiseFlightLevel)
	assert.Equal(t, "boom", s.Steps[2].FailOn.Error)
	assert.Equal(t, "SET_ORIGIN", s.Steps[3].AbortOn)
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"unknown field", minimalScenario + "extra: 1\n", "failed to parse YAML"},
		{"missing name", "description: d\nmode: off\nassertions: [{type: cycles}]\n", "name is required"},
		{"missing description", "name: n\nmode: off\nassertions: [{type: cycles}]\n", "description is required"},
		{"bad mode", "name: n\ndescription: d\nmode: sync\nassertions: [{type: cycles}]\n", "mode"},
		{"no assertions", "name: n\ndescription: d\nmode: off\n", "assertions list is required"},
		{"empty step", "name: n\ndescription: d\nmode: off\nsteps: [{}]\nassertions: [{type: cycles}]\n", "exactly one action"},
		{"two actions", "name: n\ndescription: d\nmode: off\nsteps: [{set_mode: load, abort_on: X}]\nassertions: [{type: cycles}]\n", "exactly one action"},
		{"bad step mode", "name: n\ndescription: d\nmode: off\nsteps: [{set_mode: up}]\nassertions: [{type: cycles}]\n", "steps[0]"},
		{"unknown assertion", "name: n\ndescription: d\nmode: off\nassertions: [{type: final_state}]\n", "unknown assertion type"},
		{"count without command", "name: n\ndescription: d\nmode: off\nassertions: [{type: command_count, count: 1}]\n", "command is required"},
		{"stored without body", "name: n\ndescription: d\nmode: off\nassertions: [{type: stored_plan}]\n", "stored is required"},
		{"negative attempts", "name: n\ndescription: d\nmode: off\nmax_attempts: -1\nassertions: [{type: cycles}]\n", "max_attempts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadScenario_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "minimal.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalScenario), 0o644))

	s, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "minimal", s.Name)

	_, err = LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read scenario file")
}
