// Package scheduler paces machine steps at a fixed instruction rate on the
// host clock.
package scheduler

import (
	"context"
	"time"
)

// Config contains the scheduler settings.
type Config struct {
	Rate     int              // instructions per second
	MaxBatch int              // maximum steps per call, defaults to a tenth of a second worth of steps
	Now      func() time.Time // time source, defaults to time.Now
}

// Scheduler converts elapsed host time into a number of due steps.
type Scheduler struct {
	now      func() time.Time
	period   time.Duration
	maxBatch int

	last    time.Time
	pending time.Duration

	start      time.Time
	cycleCount uint64
}

// New returns a new scheduler. A rate below 1 is treated as 1.
func New(cfg Config) *Scheduler {
	rate := max(cfg.Rate, 1)
	maxBatch := cfg.MaxBatch
	if maxBatch <= 0 {
		maxBatch = max(rate/10, 1)
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Scheduler{
		now:      now,
		period:   time.Second / time.Duration(rate),
		maxBatch: maxBatch,
	}
}

// Due returns the number of steps to execute for the time elapsed since the
// previous call. The first call starts the clock and returns 0. Steps beyond
// the maximum batch size are dropped instead of being caught up later.
func (s *Scheduler) Due() int {
	now := s.now()
	if s.last.IsZero() {
		s.last = now
		s.start = now
		return 0
	}

	elapsed := now.Sub(s.last) + s.pending
	s.last = now
	if elapsed < 0 {
		s.pending = 0
		return 0
	}

	steps := int(elapsed / s.period)
	s.pending = elapsed - time.Duration(steps)*s.period
	if steps > s.maxBatch {
		steps = s.maxBatch
		s.pending = 0
	}

	s.cycleCount += uint64(steps)
	return steps
}

// Reset restarts the clock, the next call of Due returns 0.
func (s *Scheduler) Reset() {
	s.last = time.Time{}
	s.pending = 0
	s.start = time.Time{}
	s.cycleCount = 0
}

// Frequency returns the measured step rate in herz since the clock started.
func (s *Scheduler) Frequency() float64 {
	if s.start.IsZero() {
		return 0
	}
	elapsed := s.now().Sub(s.start).Seconds()
	if elapsed <= 0 {
		return 0
	}
	return float64(s.cycleCount) / elapsed
}

// Run calls fn with the number of due steps on every tick of the given
// interval until the context is cancelled or fn returns an error.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration, fn func(steps int) error) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.Reset()
	s.Due()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := fn(s.Due()); err != nil {
				return err
			}
		}
	}
}
