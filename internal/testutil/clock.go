package testutil

import (
	"sync"
	"time"
)

// FixedClock is a deterministic wall clock for tests.
//
// Stored runs carry a created_at timestamp for display. Tests inject
// FixedClock.Now so that timestamps (and golden output) are stable.
// Each call to Now advances the clock by Step.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type FixedClock struct {
	mu   sync.Mutex
	now  time.Time
	Step time.Duration
}

// NewFixedClock creates a clock starting at start that advances one second
// per call.
func NewFixedClock(start time.Time) *FixedClock {
	return &FixedClock{now: start, Step: time.Second}
}

// Now returns the current time and advances the clock.
func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.Step)
	return t
}

// Reset moves the clock back to start.
func (c *FixedClock) Reset(start time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = start
}
