// Package harness runs conformance scenarios against the attribute
// resolver.
//
// A scenario compiles a set of CUE class specs into a fresh registry,
// executes attribute operations in order, and checks each step's outcome
// and the final trace.
//
// # Scenario Format
//
//	name: bar_foo
//	description: nearest definition in MRO order wins
//	specs: [../specs/bar.cue]
//	steps:
//	  - new: {var: b, class: Bar}
//	  - mro: {class: Bar}
//	    expect: {mro: [Bar, Dancing, Drinking, Structure]}
//	  - read: {target: b, name: foo}
//	    expect: {value: drinks, step: class, owner: Drinking}
//	  - write: {target: b, name: foo, value: beer}
//	  - read: {target: Bar, name: foo, class: true}
//	  - read: {target: b, name: nope}
//	    expect: {error: NOT_FOUND}
//	assertions:
//	  - type: trace_count
//	    op: read
//	    count: 2
//
// Step ops are new, read, write, delete, has, extra and mro. A step
// without an expect clause fails on any error.
//
// # Assertion Types
//
//   - trace_contains: some event matches op/name/step/owner
//   - trace_order: attribute names appear in the given order
//   - trace_count: exactly N events match op/name/step/owner
//   - final_state: an instance's own table holds attrs and lacks absent names
//
// # Deterministic Testing
//
// Instance IDs come from testutil.SequentialIDs and every event is
// stamped from one testutil.Sequence, so traces are identical across runs
// and can be compared against golden files with RunWithGolden.
package harness
