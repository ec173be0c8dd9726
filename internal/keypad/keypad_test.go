package keypad

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestKeypad_SetKeyState(t *testing.T) {
	var k Keypad

	assert.NoError(t, k.SetKeyState(0xA, true))
	assert.True(t, k.IsPressed(0xA))
	assert.False(t, k.IsPressed(0xB))

	assert.NoError(t, k.SetKeyState(0xA, false))
	assert.False(t, k.IsPressed(0xA))
}

func TestKeypad_InvalidKey(t *testing.T) {
	var k Keypad

	for _, key := range []int{-1, Keys, 0xFF} {
		err := k.SetKeyState(key, true)
		assert.True(t, errors.Is(err, ErrInvalidKey))
	}
	assert.False(t, k.IsPressed(Keys))
}

func TestKeypad_AwaitResolve(t *testing.T) {
	var k Keypad

	_, ok := k.Resolve()
	assert.False(t, ok)

	k.Await()
	assert.True(t, k.Awaiting())

	_, ok = k.Resolve()
	assert.False(t, ok)

	assert.NoError(t, k.SetKeyState(5, true))
	key, ok := k.Resolve()
	assert.True(t, ok)
	assert.Equal(t, uint8(5), key)
	assert.False(t, k.Awaiting())

	// the episode is over, nothing resolves twice
	_, ok = k.Resolve()
	assert.False(t, ok)
}

func TestKeypad_AwaitIgnoresHeldKeys(t *testing.T) {
	var k Keypad

	assert.NoError(t, k.SetKeyState(3, true))
	k.Await()

	// repeated pressed signal of a held key is not an edge
	assert.NoError(t, k.SetKeyState(3, true))
	_, ok := k.Resolve()
	assert.False(t, ok)

	// releasing is not an edge either
	assert.NoError(t, k.SetKeyState(3, false))
	_, ok = k.Resolve()
	assert.False(t, ok)

	assert.NoError(t, k.SetKeyState(3, true))
	key, ok := k.Resolve()
	assert.True(t, ok)
	assert.Equal(t, uint8(3), key)
}

func TestKeypad_FirstEdgeWins(t *testing.T) {
	var k Keypad
	k.Await()

	assert.NoError(t, k.SetKeyState(1, true))
	assert.NoError(t, k.SetKeyState(2, true))

	key, ok := k.Resolve()
	assert.True(t, ok)
	assert.Equal(t, uint8(1), key)
}

func TestKeypad_Reset(t *testing.T) {
	var k Keypad
	assert.NoError(t, k.SetKeyState(7, true))
	k.Await()

	k.Reset()

	assert.False(t, k.IsPressed(7))
	assert.False(t, k.Awaiting())
}
