// Package testutils provides deterministic generators for chatllm.
// They back --test-mode runs and unit tests so conversation labels, message IDs
// and timestamps are reproducible while keeping the production formats.
package testutils

import (
	"fmt"
	"sync"
	"time"
)

// BaseTime is the first instant handed out by a default SteppingClock.
var BaseTime = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// SteppingClock returns incrementing timestamps, one step per call.
type SteppingClock struct {
	mu   sync.Mutex
	next time.Time
	step time.Duration
}

// NewSteppingClock creates a clock whose first reading is start.
func NewSteppingClock(start time.Time, step time.Duration) *SteppingClock {
	return &SteppingClock{next: start, step: step}
}

// NewDefaultClock creates a clock starting at BaseTime that advances one second per call.
func NewDefaultClock() *SteppingClock {
	return NewSteppingClock(BaseTime, time.Second)
}

// Now returns the current reading and advances the clock.
func (c *SteppingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.next
	c.next = c.next.Add(c.step)
	return now
}

// FixedClock returns a clock function that always reports t.
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// At returns a UTC time on BaseTime's date with the given wall clock.
func At(hour, minute, second int) time.Time {
	return time.Date(BaseTime.Year(), BaseTime.Month(), BaseTime.Day(), hour, minute, second, 0, time.UTC)
}

// SequentialIDs generates UUID-shaped identifiers:
// 00000001-0000-4000-8000-000000000001, 00000002-0000-4000-8000-000000000002, ...
type SequentialIDs struct {
	mu sync.Mutex
	n  uint64
}

// Next returns the next identifier.
func (s *SequentialIDs) Next() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.n++
	// 4 marks version 4, 8 is a valid variant nibble
	return fmt.Sprintf("%08x-0000-4000-8000-%012x", s.n, s.n)
}
