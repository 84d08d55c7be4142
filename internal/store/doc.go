// Package store provides SQLite-backed storage for the sync engine.
//
// It holds two things:
//   - Settings: small key/value pairs, chiefly the persisted sync mode
//     (key FP_SYNC).
//   - The cycle journal: one row per pipeline run with its outcome, the
//     snapshot it pushed and every remote call it issued, in order.
//
// # Ordering
//
// Cycles are stamped with a logical seq from the engine clock, never wall
// time. Queries order by seq ASC, id ASC COLLATE BINARY so results are
// identical across reads.
//
// # Encoding
//
// Snapshots and call arguments are stored as msgpack blobs.
//
// # Versions
//
// The journal's PRAGMA user_version counts the upgrades applied to it.
// Open runs the missing ones and refuses a journal written by a newer
// build. Version 2 added per-call notes.
package store
