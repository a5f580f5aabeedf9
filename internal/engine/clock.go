package engine

import "sync/atomic"

// Clock is the logical clock that stamps evaluated steps.
//
// Every record gets a strictly increasing seq from Next. Records are ordered
// by seq, never by wall-clock time, so a replayed run lines up with the
// stored one record for record.
//
// Clock is safe for concurrent use.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock whose next seq is start+1.
// The CLI uses it to resume after the last seq stored in a database.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next advances the clock and returns the new seq.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last seq handed out.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
