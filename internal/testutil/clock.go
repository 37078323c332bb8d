// Package testutil provides deterministic test doubles shared across packages.
package testutil

import (
	"sync"
	"time"
)

// FixedClock is a thread-safe clock that hands out predetermined instants.
//
// Unlike the store's system clock, FixedClock advances only when told to,
// so ledger timestamps (started_at, finished_at) are stable across test runs.
//
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type FixedClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

// NewFixedClock creates a clock pinned to start.
// Each call to Now() returns the current instant and then advances the clock
// by step, so consecutive timestamps are distinct but deterministic.
func NewFixedClock(start time.Time, step time.Duration) *FixedClock {
	return &FixedClock{now: start, step: step}
}

// Now returns the current instant and advances the clock by the step.
func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

// Set repins the clock to a specific instant.
func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}
