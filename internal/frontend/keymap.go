package frontend

import "unicode"

// HostKeys maps the 16 keypad keys to the keys of a QWERTY keyboard, the
// index is the keypad key. The 4x4 block 1234/QWER/ASDF/ZXCV mirrors the
// 123C/456D/789E/A0BF keypad layout.
const HostKeys = "x123qweasdzc4rfv"

// KeyForRune returns the keypad key for a host keyboard character.
func KeyForRune(r rune) (int, bool) {
	r = unicode.ToLower(r)
	for key, host := range HostKeys {
		if host == r {
			return key, true
		}
	}
	return 0, false
}
