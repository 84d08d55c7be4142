// Package hostsim provides in-memory stand-ins for both sides of the sync
// engine: a host store that applies positional commands, and a flight
// management responder that answers sync requests and applies plan
// commands on the bus.
//
// They back the CLI's fixture mode and the scenario harness.
package hostsim
