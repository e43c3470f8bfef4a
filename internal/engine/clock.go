package engine

import "sync/atomic"

// Sequencer stamps trace records with an ordering number.
type Sequencer interface {
	Next() int64
}

// Clock is a monotonic logical clock for trace records.
//
// Every recorded resolution gets a strictly increasing seq, so a trace
// read back ordered by seq matches the order operations completed in.
// Wall-clock time is never used for ordering.
//
// Thread-safety: Clock is safe for concurrent use.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock starting at 0. The first Next returns 1.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock resuming after start, for appending to an
// existing trace.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last issued sequence number.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
