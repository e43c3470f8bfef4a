// Package engine resolves attribute reads, writes and deletes against the
// object model.
//
// The Resolver is stateless apart from the process-scope interceptor chain:
// classes, instances and their hooks live in internal/object. Every
// operation walks a fixed priority order (see Resolver) and the first step
// that answers wins.
//
// NESTING:
//
// Hooks and interceptors receive an object.Access. Default and its siblings
// continue the current operation at the same depth, skipping the layers
// above the default algorithm. Read, Write and Delete start a fresh full
// resolution one level deeper. Nesting past the configured limit fails with
// RECURSION_LIMIT.
//
// TRACING:
//
// Each top-level operation produces a Resolution naming the step that
// answered and, for table hits, the owning class. A Tracer installed with
// WithTracer receives them stamped with a logical-clock seq, never a wall
// clock.
//
// CONCURRENCY:
//
// Resolution takes no lock of its own. Table reads and writes are guarded
// per class and per instance; linearizations and interceptor chains are
// immutable snapshots. Concurrent readers see either the old or the new
// state of a single mutation, never a mix.
package engine
