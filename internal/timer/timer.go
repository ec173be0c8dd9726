// Package timer implements the 8-bit countdown timers of the CHIP-8 interpreter.
package timer

import "time"

// Rate is the fixed frequency in Hz at which timers are decremented.
const Rate = 60

// Period is the minimum wall clock time between two timer ticks.
const Period = time.Second / Rate

// Timer is an 8-bit saturating down counter.
type Timer struct {
	value uint8
}

// SetValue sets the counter, clamping v into [0,255].
func (t *Timer) SetValue(v int) {
	switch {
	case v < 0:
		t.value = 0
	case v > 0xFF:
		t.value = 0xFF
	default:
		t.value = uint8(v)
	}
}

// Value returns the current counter value.
func (t *Timer) Value() uint8 {
	return t.value
}

// Tick decrements the counter by one, stopping at zero.
func (t *Timer) Tick() {
	if t.value > 0 {
		t.value--
	}
}

// IsActive reports whether the counter is above zero.
func (t *Timer) IsActive() bool {
	return t.value > 0
}

// Reset sets the counter to zero.
func (t *Timer) Reset() {
	t.value = 0
}
