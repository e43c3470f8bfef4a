// Package ir provides the declarative value model shared by the compiler,
// store and harness: attribute literals, class specs, canonical JSON and
// content hashes.
//
// This package contains data types only. ir imports nothing internal.
//
// Key design constraints:
//   - NO float literals anywhere - numbers are int64
//   - Canonical JSON (RFC 8785) is the only encoding used for hashing
//   - All JSON tags use snake_case
//   - Logical clocks (seq) only, never wall-clock timestamps
package ir
