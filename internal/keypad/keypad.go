// Package keypad implements the 16 key hex keypad of the CHIP-8 interpreter
// including the latch used by the blocking "wait for key" instruction.
package keypad

import (
	"errors"
	"fmt"
)

// Keys is the number of keys on the keypad.
const Keys = 16

// ErrInvalidKey is returned for key indexes outside of [0x0,0xF].
var ErrInvalidKey = errors.New("invalid key")

// Keypad stores the pressed state of all keys.
type Keypad struct {
	pressed [Keys]bool

	awaiting bool  // a wait for key instruction is pending
	latched  bool  // a key press arrived while awaiting
	key      uint8 // the latched key
}

// SetKeyState updates the state of a key. A released to pressed edge
// while awaiting a key latches that key, repeated pressed signals
// without a release in between are ignored.
func (k *Keypad) SetKeyState(key int, pressed bool) error {
	if key < 0 || key >= Keys {
		return fmt.Errorf("%w: %d", ErrInvalidKey, key)
	}

	wasPressed := k.pressed[key]
	k.pressed[key] = pressed

	if k.awaiting && !k.latched && !wasPressed && pressed {
		k.latched = true
		k.key = uint8(key)
	}
	return nil
}

// IsPressed returns whether the key is currently pressed. Invalid keys
// are reported as not pressed.
func (k *Keypad) IsPressed(key uint8) bool {
	if int(key) >= Keys {
		return false
	}
	return k.pressed[key]
}

// Await starts a wait for key episode. Keys that are already held down
// only count after they have been released and pressed again.
func (k *Keypad) Await() {
	k.awaiting = true
	k.latched = false
	k.key = 0
}

// Awaiting returns whether a wait for key episode is in progress.
func (k *Keypad) Awaiting() bool {
	return k.awaiting
}

// Resolve ends the wait for key episode and returns the latched key.
// It returns false if no key has been latched yet.
func (k *Keypad) Resolve() (uint8, bool) {
	if !k.awaiting || !k.latched {
		return 0, false
	}
	key := k.key
	k.awaiting = false
	k.latched = false
	k.key = 0
	return key, true
}

// Reset releases all keys and cancels any wait for key episode.
func (k *Keypad) Reset() {
	*k = Keypad{}
}
