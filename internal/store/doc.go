// Package store provides SQLite-backed durable storage for resolution traces.
//
// The store keeps:
//   - Classes: snapshots of built classes (parents, linearization, spec hash)
//   - Runs: one row per traced run, with the spec-set hash it ran against
//   - Resolutions: top-level attribute operations recorded by a Recorder
//
// # Ordering
//
// All ordering uses the logical seq column, never timestamps. Queries end
// in ORDER BY run_id, seq so identical runs read back identically.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// parents, mro and value columns hold canonical JSON produced by
// ir.MarshalCanonical.
package store
