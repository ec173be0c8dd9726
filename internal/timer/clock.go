package timer

import "time"

// Clock gates timer ticks against wall clock time. Each call to Advance
// ticks the timers at most once, no matter how much time has passed.
type Clock struct {
	now      func() time.Time
	lastTick time.Time
}

// NewClock returns a clock using the given time source. A nil source
// defaults to time.Now.
func NewClock(now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	return &Clock{
		now:      now,
		lastTick: now(),
	}
}

// Advance ticks all passed timers if at least one Period has elapsed
// since the last tick and returns whether a tick happened.
func (c *Clock) Advance(timers ...*Timer) bool {
	now := c.now()
	if now.Sub(c.lastTick) < Period {
		return false
	}
	for _, t := range timers {
		t.Tick()
	}
	c.lastTick = now
	return true
}

// Reset restarts the tick period from the current time.
func (c *Clock) Reset() {
	c.lastTick = c.now()
}
