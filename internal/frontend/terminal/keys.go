package terminal

import (
	"time"
)

// keyHold is how long a key counts as pressed after its character was read.
// Terminals do not report key releases, held keys repeat their character.
const keyHold = 150 * time.Millisecond

// keyReleaser tracks the release deadlines of the pressed keypad keys.
type keyReleaser struct {
	hold     time.Duration
	deadline map[int]time.Time
}

func newKeyReleaser(hold time.Duration) *keyReleaser {
	return &keyReleaser{
		hold:     hold,
		deadline: make(map[int]time.Time),
	}
}

// press records a key press and returns whether the key was released before.
func (k *keyReleaser) press(key int, now time.Time) bool {
	_, held := k.deadline[key]
	k.deadline[key] = now.Add(k.hold)
	return !held
}

// expired removes and returns the keys whose hold time has passed.
func (k *keyReleaser) expired(now time.Time) []int {
	var keys []int
	for key, deadline := range k.deadline {
		if !now.Before(deadline) {
			keys = append(keys, key)
			delete(k.deadline, key)
		}
	}
	return keys
}
