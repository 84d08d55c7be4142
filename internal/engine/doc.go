// Package engine implements the sync controller.
//
// ARCHITECTURE:
//
// Single-Writer Event Loop:
// Bus notifications and mode changes are converted to Events and enqueued
// from any goroutine. Run drains the queue in one goroutine, folds each
// event into the session through a pure reducer, and then starts at most
// one pipeline. This gives:
// - At most one pipeline in flight
// - No shared mutable session state outside the loop
// - A journal written in the same order pipelines ran
//
// Event Processing Flow:
// 1. Events enqueued to FIFO queue (bus messages or mode changes)
// 2. Run drains every queued event through reduce, merging their Effects
// 3. A pending sync request is published
// 4. One pipeline runs, chosen by the current mode
// 5. Its report is written to the journal
//
// Triggers that arrive while a pipeline runs are not queued as separate
// runs: they are merged at the next drain, so delivery of "needs sync" is
// at-least-once.
//
// CRITICAL PATTERNS:
//
// Logical Clock:
// Every journal entry is stamped with a monotonic seq from Clock.Next().
// Wall-clock time is never used for ordering.
//
// Cooperative Cancellation:
// The mode is re-read by the running pipeline before every remote call; a
// mode change stops it at the next call. Nothing is rolled back.
package engine
