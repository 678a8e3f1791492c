// Package sequence provides the arrival sequencer. Sequence IDs are the
// time component of price-time priority: within one price level, lower
// SeqID always matches first.
package sequence

import "sync/atomic"

// Sequencer generates strictly monotonic sequence IDs. It is
// deterministic: replaying the same submissions yields the same IDs.
type Sequencer struct {
	next atomic.Uint64
}

// New creates a sequencer starting from a given value. A fresh engine
// starts at 0.
func New(start uint64) *Sequencer {
	s := &Sequencer{}
	s.next.Store(start)
	return s
}

// Next returns the next sequence ID.
func (s *Sequencer) Next() uint64 {
	return s.next.Add(1)
}

// Current returns the last issued sequence.
func (s *Sequencer) Current() uint64 {
	return s.next.Load()
}
