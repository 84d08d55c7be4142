package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/fpsync/internal/fms"
	"github.com/roach88/fpsync/internal/hostsim"
	"github.com/roach88/fpsync/internal/pipeline"
)

// DefaultMaxAttempts bounds the readiness poll when a scenario does not.
const DefaultMaxAttempts = 3

// Scenario defines a sync scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Mode is the sync mode at start-up: off, load or save.
	Mode string `yaml:"mode"`

	// World seeds the simulated host and flight management side.
	World hostsim.Fixture `yaml:"world"`

	// MaxAttempts bounds the readiness poll; 0 means DefaultMaxAttempts.
	MaxAttempts int `yaml:"max_attempts,omitempty"`

	// Steps run in order after start-up.
	Steps []Step `yaml:"steps,omitempty"`

	// Assertions validate the final journal and plans.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one external action. Exactly one field is set.
type Step struct {
	// SetMode switches the sync mode.
	SetMode string `yaml:"set_mode,omitempty"`

	// EditActive changes the active flight management plan as a pilot would.
	EditActive *Edit `yaml:"edit_active,omitempty"`

	// FailOn makes a host command fail from now on.
	FailOn *Failure `yaml:"fail_on,omitempty"`

	// AbortOn switches the mode to OFF right after the host applies the
	// named command.
	AbortOn string `yaml:"abort_on,omitempty"`
}

// Edit is a pilot edit of the active plan.
type Edit struct {
	CruiseFlightLevel *int `yaml:"cruise_flight_level,omitempty"`
	// Truncate keeps only the first N enroute legs.
	Truncate *int `yaml:"truncate,omitempty"`
	// Append adds legs after the existing ones.
	Append []fms.Waypoint `yaml:"append,omitempty"`
}

// Failure injects a host command error.
type Failure struct {
	Command string `yaml:"command"`
	Error   string `yaml:"error"`
}

// Assertion validates the outcome of a scenario.
type Assertion struct {
	// Type specifies the assertion type:
	// - "cycles": Cycles lists kind:outcome per journaled cycle
	// - "command_count": Command was received Count times
	// - "command_order": Commands appear in this order
	// - "stored_plan": Stored matches the host's built plan
	// - "fms_active": Active matches the active flight management plan
	Type string `yaml:"type"`

	Cycles   []string      `yaml:"cycles,omitempty"`
	Command  string        `yaml:"command,omitempty"`
	Count    int           `yaml:"count,omitempty"`
	Commands []string      `yaml:"commands,omitempty"`
	Stored   *StoredExpect `yaml:"stored,omitempty"`
	Active   *ActiveExpect `yaml:"active,omitempty"`
}

// StoredExpect is a subset match on the host's built plan. Airports and
// waypoints are given by ident.
type StoredExpect struct {
	Origin      string         `yaml:"origin,omitempty"`
	Destination string         `yaml:"destination,omitempty"`
	Waypoints   []string       `yaml:"waypoints,omitempty"`
	Cruise      *int           `yaml:"cruise,omitempty"`
	Indices     map[string]int `yaml:"indices,omitempty"`
}

// ActiveExpect is a subset match on the active flight management plan.
type ActiveExpect struct {
	Origin            string   `yaml:"origin,omitempty"`
	Destination       string   `yaml:"destination,omitempty"`
	CruiseFlightLevel *int     `yaml:"cruise_flight_level,omitempty"`
	Waypoints         []string `yaml:"waypoints,omitempty"`
}

// Assertion type constants.
const (
	AssertCycles       = "cycles"
	AssertCommandCount = "command_count"
	AssertCommandOrder = "command_order"
	AssertStoredPlan   = "stored_plan"
	AssertFMSActive    = "fms_active"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes and validates a scenario.
func ParseScenario(data []byte) (*Scenario, error) {
	// Parse YAML with strict field validation (catches typos like "assertion:" vs "assertions:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if _, err := pipeline.ParseMode(s.Mode); err != nil {
		return fmt.Errorf("mode: %w", err)
	}

	if s.MaxAttempts < 0 {
		return fmt.Errorf("max_attempts must be non-negative")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(i, step); err != nil {
			return err
		}
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}

	return nil
}

func validateStep(index int, st Step) error {
	set := 0
	if st.SetMode != "" {
		set++
		if _, err := pipeline.ParseMode(st.SetMode); err != nil {
			return fmt.Errorf("steps[%d]: %w", index, err)
		}
	}
	if st.EditActive != nil {
		set++
	}
	if st.FailOn != nil {
		set++
		if st.FailOn.Command == "" {
			return fmt.Errorf("steps[%d]: fail_on.command is required", index)
		}
	}
	if st.AbortOn != "" {
		set++
	}
	if set != 1 {
		return fmt.Errorf("steps[%d]: exactly one action is required, got %d", index, set)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertCycles:
		// An empty list asserts that nothing ran.
	case AssertCommandCount:
		if a.Command == "" {
			return fmt.Errorf("assertions[%d]: command is required for command_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for command_count", index)
		}
	case AssertCommandOrder:
		if len(a.Commands) == 0 {
			return fmt.Errorf("assertions[%d]: commands list is required for command_order", index)
		}
	case AssertStoredPlan:
		if a.Stored == nil {
			return fmt.Errorf("assertions[%d]: stored is required for stored_plan", index)
		}
	case AssertFMSActive:
		if a.Active == nil {
			return fmt.Errorf("assertions[%d]: active is required for fms_active", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
