package window

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/retroenv/retrochip8/internal/frontend"
)

var runeKeys = map[rune]ebiten.Key{
	'1': ebiten.Key1, '2': ebiten.Key2, '3': ebiten.Key3, '4': ebiten.Key4,
	'q': ebiten.KeyQ, 'w': ebiten.KeyW, 'e': ebiten.KeyE, 'r': ebiten.KeyR,
	'a': ebiten.KeyA, 's': ebiten.KeyS, 'd': ebiten.KeyD, 'f': ebiten.KeyF,
	'z': ebiten.KeyZ, 'x': ebiten.KeyX, 'c': ebiten.KeyC, 'v': ebiten.KeyV,
}

// hostKeys returns the ebiten key for every keypad key, indexed by keypad key.
func hostKeys() []ebiten.Key {
	keys := make([]ebiten.Key, 0, len(frontend.HostKeys))
	for _, r := range frontend.HostKeys {
		keys = append(keys, runeKeys[r])
	}
	return keys
}
