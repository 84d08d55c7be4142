// Package harness runs fpsync scenarios.
//
// A scenario seeds a simulated host and flight management side, starts the
// sync controller in a given mode, applies steps (mode switches, pilot
// edits, injected host failures) and checks the resulting journal, host
// plan and flight management plan.
//
// # Scenario Format
//
//	name: save_after_edit
//	description: "A pilot edit in SAVE mode re-saves the whole plan"
//	mode: save
//	world:
//	  host: {...}          # hostsim.Fixture
//	  fms: {...}
//	steps:
//	  - edit_active: {cruise_flight_level: 370}
//	  - fail_on: {command: ADD_WAYPOINT, error: "host busy"}
//	  - abort_on: ADD_WAYPOINT
//	  - set_mode: load
//	assertions:
//	  - type: cycles
//	    cycles: ["save:completed", "save:completed"]
//	  - type: stored_plan
//	    stored: {origin: KJFK, waypoints: [WPT1], cruise: 37000}
//
// The controller settles after start-up and after every step, so each
// step sees the effects of the previous one.
//
// # Assertion Types
//
//   - cycles: kind:outcome of every journaled cycle, in order
//   - command_count: a host command was received exactly N times
//   - command_order: host commands appear in this relative order
//   - stored_plan: the plan the host built from commands
//   - fms_active: the active flight management plan
//
// # Deterministic Testing
//
// Every scenario runs with an in-memory journal, a DeterministicClock and
// sequential cycle ids, so Result.Trace is byte-identical across runs and
// can be compared against a golden file.
package harness
