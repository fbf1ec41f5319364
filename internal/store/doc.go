// Package store provides the SQLite-backed lookup log.
//
// The log is append-only and holds two kinds of record:
//   - Sessions: one per mapped input (curve, grammar, grid, element size)
//   - Lookups: every grid cell resolved during a session, in order
//
// # Ordering
//
// Lookups carry a per-session seq from a logical clock, never a timestamp.
// All reads are ORDER BY seq ASC so a replayed session reads back identically.
//
// # Grammar identity
//
// Grammar sessions store the grammar as canonical JSON together with its
// content hash (internal/ir/hash.go). Direct curves store neither.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
