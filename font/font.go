// Package font holds the built-in hexadecimal digit sprites.
package font

import (
	"errors"

	"github.com/ezrec/chip8/translate"
)

var f = translate.From

const (
	GLYPH_HEIGHT = 5                          // Bytes (rows) per glyph.
	GLYPH_COUNT  = 16                         // Glyphs 0-F.
	SIZE         = GLYPH_HEIGHT * GLYPH_COUNT // Table size in bytes.
	BASE         = 0x050                      // Default load address.
	LIMIT        = 0x200                      // Font must end at or below the program start.
)

var (
	ErrFontBase = errors.New(f("font base out of range"))
)

// Glyphs are the 4x5 sprites for 0-F, one byte per row, MSB leftmost.
var Glyphs = [GLYPH_COUNT][GLYPH_HEIGHT]byte{
	{0xF0, 0x90, 0x90, 0x90, 0xF0}, // 0
	{0x20, 0x60, 0x20, 0x20, 0x70}, // 1
	{0xF0, 0x10, 0xF0, 0x80, 0xF0}, // 2
	{0xF0, 0x10, 0xF0, 0x10, 0xF0}, // 3
	{0x90, 0x90, 0xF0, 0x10, 0x10}, // 4
	{0xF0, 0x80, 0xF0, 0x10, 0xF0}, // 5
	{0xF0, 0x80, 0xF0, 0x90, 0xF0}, // 6
	{0xF0, 0x10, 0x20, 0x40, 0x40}, // 7
	{0xF0, 0x90, 0xF0, 0x90, 0xF0}, // 8
	{0xF0, 0x90, 0xF0, 0x10, 0xF0}, // 9
	{0xF0, 0x90, 0xF0, 0x90, 0x90}, // A
	{0xE0, 0x90, 0xE0, 0x90, 0xE0}, // B
	{0xF0, 0x80, 0x80, 0x80, 0xF0}, // C
	{0xE0, 0x90, 0x90, 0x90, 0xE0}, // D
	{0xF0, 0x80, 0xF0, 0x80, 0xF0}, // E
	{0xF0, 0x80, 0xF0, 0x80, 0x80}, // F
}

// Check verifies that a font placed at base fits below LIMIT.
func Check(base uint16) (err error) {
	if int(base)+SIZE > LIMIT {
		err = ErrFontBase
	}
	return
}

// Write copies the glyph table into memory at base.
func Write(memory []byte, base uint16) (err error) {
	err = Check(base)
	if err != nil {
		return
	}
	if len(memory) < LIMIT {
		err = ErrFontBase
		return
	}

	for n, glyph := range Glyphs {
		copy(memory[int(base)+n*GLYPH_HEIGHT:], glyph[:])
	}

	return
}

// Address of the glyph for the low nibble of digit.
func Address(base uint16, digit uint8) uint16 {
	return base + GLYPH_HEIGHT*uint16(digit&0xf)
}
