package testutil

import (
	"fmt"
	"sync"
)

// SequentialIDs hands out instance IDs "<prefix>1", "<prefix>2", ...
// It satisfies object.IDGenerator; golden traces depend on these IDs
// being stable across runs.
type SequentialIDs struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequentialIDs creates a generator. An empty prefix defaults to "obj-".
func NewSequentialIDs(prefix string) *SequentialIDs {
	if prefix == "" {
		prefix = "obj-"
	}
	return &SequentialIDs{prefix: prefix}
}

// Generate returns the next ID.
func (g *SequentialIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s%d", g.prefix, g.n)
}

// FixedID returns the same ID every time.
// Useful when a test creates exactly one instance.
type FixedID string

// Generate implements object.IDGenerator.
func (f FixedID) Generate() string {
	return string(f)
}
