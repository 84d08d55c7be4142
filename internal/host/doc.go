// Package host describes the external host flight plan store.
//
// The host only understands positional commands (clear the plan, add a
// waypoint at an index, select the Nth procedure of an airport) and
// addresses facilities by fixed-width ICAO strings. This package holds that
// vocabulary: the ICAO codec, the facility and plan records returned by the
// host, the read-only procedure catalog, and the command channel.
package host
