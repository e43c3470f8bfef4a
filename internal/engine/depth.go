package engine

import (
	"fmt"

	"github.com/wardi/bar-foo/internal/object"
)

// DefaultMaxDepth bounds how many resolutions hooks may nest.
//
// Hooks that re-enter full resolution (Access.Read and friends) go one
// level deeper each time. A hook that reads its own attribute that way
// recurses until this limit and fails with RECURSION_LIMIT instead of
// exhausting the stack.
const DefaultMaxDepth = 256

// checkDepth fails the call when it is nested deeper than the limit.
func (r *Resolver) checkDepth(c *call) error {
	if c.depth <= r.maxDepth {
		return nil
	}
	r.logger.Warn("resolution depth exceeded",
		"class", c.class.Name(),
		"name", c.name,
		"depth", c.depth,
		"limit", r.maxDepth,
	)
	return &object.AttributeError{
		Code:    object.ErrCodeRecursionLimit,
		Class:   c.class.Name(),
		Name:    c.name,
		Message: fmt.Sprintf("resolution nested deeper than %d", r.maxDepth),
	}
}

// MaxDepth returns the configured nesting limit.
func (r *Resolver) MaxDepth() int {
	return r.maxDepth
}
