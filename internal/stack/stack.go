// Package stack implements the return address stack used by the CALL and RET instructions.
package stack

import (
	"errors"
	"fmt"
)

// Depth is the maximum number of nested subroutine calls.
const Depth = 16

// ErrOverflow is returned when pushing onto a full stack.
var ErrOverflow = errors.New("stack overflow")

// Stack stores return addresses. The stack pointer always equals the
// number of stored entries.
type Stack struct {
	entries [Depth]uint16
	sp      uint8
}

// Push stores an address on top of the stack and increments the stack pointer.
func (s *Stack) Push(address uint16) error {
	if int(s.sp) >= Depth {
		return fmt.Errorf("%w: depth %d, pushing %#04x", ErrOverflow, Depth, address)
	}
	s.entries[s.sp] = address
	s.sp++
	return nil
}

// Pop removes and returns the top address. Popping an empty stack
// returns 0 and leaves the stack pointer at 0.
func (s *Stack) Pop() uint16 {
	if s.sp == 0 {
		return 0
	}
	s.sp--
	address := s.entries[s.sp]
	s.entries[s.sp] = 0
	return address
}

// At returns the entry at the given index, or 0 for entries that were never written.
func (s *Stack) At(index int) uint16 {
	if index < 0 || index >= int(s.sp) {
		return 0
	}
	return s.entries[index]
}

// SP returns the stack pointer.
func (s *Stack) SP() uint8 {
	return s.sp
}

// Reset clears all entries and zeroes the stack pointer.
func (s *Stack) Reset() {
	clear(s.entries[:])
	s.sp = 0
}
