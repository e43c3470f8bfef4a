package object

import "github.com/google/uuid"

// IDGenerator generates instance identities.
// Implemented by UUIDv7Generator (production) and the generators in
// internal/testutil (tests).
type IDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 instance IDs.
//
// UUIDv7 embeds a timestamp in the most significant bits, so instance IDs
// sort by creation time in traces.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
//
// Panics if UUID generation fails (should never happen in practice).
func (g UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}
