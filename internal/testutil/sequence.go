package testutil

import "sync"

// Sequence is a resettable logical clock for tests and conformance runs.
// It satisfies engine.Sequencer, so a resolver built WithClock(seq) stamps
// trace records 1, 2, 3, ... in call order.
//
// Unlike engine.Clock, a Sequence can be rewound, which lets one scenario
// run twice with identical seq values.
type Sequence struct {
	mu  sync.Mutex
	seq int64
}

// NewSequence creates a sequence whose first Next returns 1.
func NewSequence() *Sequence {
	return &Sequence{}
}

// Next advances the sequence and returns the new value.
func (s *Sequence) Next() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq
}

// Current returns the last value handed out, or 0 before the first Next.
func (s *Sequence) Current() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}

// Reset rewinds the sequence so the next Next returns 1 again.
func (s *Sequence) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq = 0
}
