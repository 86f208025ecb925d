// Package keypad models the 16-key hexadecimal keypad.
package keypad

import (
	"strings"
	"unicode"
)

const KEY_COUNT = 16

// State is one complete snapshot of the keypad, indexed by key 0x0-0xF.
type State [KEY_COUNT]bool

// First returns the lowest pressed key.
func (s State) First() (key uint8, ok bool) {
	for n, pressed := range s {
		if pressed {
			return uint8(n), true
		}
	}
	return
}

// Pressed reports whether the key in the low nibble is held.
func (s State) Pressed(key uint8) bool {
	return s[key&0xf]
}

// String renders held keys as hex digits, '.' for released.
func (s State) String() string {
	var sb strings.Builder
	for n, pressed := range s {
		if pressed {
			sb.WriteByte("0123456789ABCDEF"[n])
		} else {
			sb.WriteByte('.')
		}
	}
	return sb.String()
}

// Layout maps the conventional QWERTY block onto the keypad:
//
//	1 2 3 4      1 2 3 C
//	Q W E R  ->  4 5 6 D
//	A S D F      7 8 9 E
//	Z X C V      A 0 B F
//
// Layout[key] is the host key for that keypad key.
var Layout = [KEY_COUNT]rune{
	0x0: 'x',
	0x1: '1', 0x2: '2', 0x3: '3',
	0x4: 'q', 0x5: 'w', 0x6: 'e',
	0x7: 'a', 0x8: 's', 0x9: 'd',
	0xA: 'z', 0xB: 'c',
	0xC: '4', 0xD: 'r', 0xE: 'f', 0xF: 'v',
}

// FromRune maps a host key to its keypad key.
func FromRune(r rune) (key uint8, ok bool) {
	r = unicode.ToLower(r)
	for n, host := range Layout {
		if host == r {
			return uint8(n), true
		}
	}
	return
}
