// Package fms describes the internal flight management flight plan as the
// sync engine sees it.
//
// The plan model itself (segments, leg definitions, performance data) lives
// elsewhere; this package carries only what crosses the sync boundary:
// immutable snapshots of the active plan, the bus payloads that announce
// changes to it, and the client the load pipeline uses to build an uplink
// plan.
package fms
