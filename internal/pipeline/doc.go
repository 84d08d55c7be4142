// Package pipeline implements the two synchronization pipelines.
//
// Load reads the host's current plan and rebuilds it as the flight
// management uplink plan. Save pushes the captured active flight management
// plan into the host store.
//
// Both pipelines issue their remote calls strictly one at a time, in source
// order: the host inserts waypoints and selects procedures by position, so a
// call's meaning depends on every call before it. Before each call the
// pipeline re-reads the sync mode and stops, without error, once the mode no
// longer matches. Nothing already sent is rolled back.
//
// A pipeline run never returns an error to its caller. The outcome, the
// calls that were issued and the failure, if any, are described by the
// returned Report.
package pipeline
